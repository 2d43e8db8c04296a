package project

import (
	"sort"
	"time"

	"github.com/annel0/map-editor/internal/world"
)

// Значения нового проекта
const (
	DefaultName    = "Untitled"
	DefaultVersion = "0.1.0"
	DefaultAuthor  = "local"
)

// now подменяется в тестах
var now = time.Now

// Metadata служебные сведения о проекте
type Metadata struct {
	Created  time.Time `json:"created"`
	Modified time.Time `json:"modified"`
	Author   string    `json:"author"`
}

// Project редактируемая карта: настройки, чанки, спавны и история карт высот.
//
// Project неизменяем: все операции возвращают новый *Project и не трогают
// исходный, поэтому старые значения можно безопасно читать из других горутин.
// Операция, которой нечего делать, возвращает тот же указатель.
type Project struct {
	Name             string            `json:"name"`
	Version          string            `json:"version"`
	CoordinateDigits int               `json:"coordinateDigits"`
	Settings         world.MapSettings `json:"settings"`
	Spawns           world.Spawns      `json:"spawns"`
	Metadata         Metadata          `json:"metadata"`
	Revision         uint64            `json:"revision"` // растёт на каждой операции

	chunks  map[world.ChunkKey]world.Chunk
	history map[world.ChunkKey]History
}

// New создаёт пустой проект. digits задаёт ширину координаты в ключах чанков (2 или 3).
func New(name, author string, digits int) *Project {
	if name == "" {
		name = DefaultName
	}
	if author == "" {
		author = DefaultAuthor
	}
	ts := now()
	return &Project{
		Name:             name,
		Version:          DefaultVersion,
		CoordinateDigits: world.NormalizeDigits(digits),
		Settings:         world.NewProjectSettings(),
		Metadata:         Metadata{Created: ts, Modified: ts, Author: author},
		chunks:           make(map[world.ChunkKey]world.Chunk),
		history:          make(map[world.ChunkKey]History),
	}
}

// clone делает поверхностную копию: карты чанков и истории копируются,
// сами слои разделяются, так как они не изменяются после записи
func (p *Project) clone() *Project {
	next := *p
	next.chunks = make(map[world.ChunkKey]world.Chunk, len(p.chunks)+1)
	for k, c := range p.chunks {
		next.chunks[k] = c
	}
	next.history = make(map[world.ChunkKey]History, len(p.history))
	for k, h := range p.history {
		next.history[k] = h
	}
	return &next
}

func (p *Project) touch() {
	p.Metadata.Modified = now()
	p.Revision++
}

func (p *Project) putChunk(key world.ChunkKey, c world.Chunk) {
	if c.IsEmpty() {
		delete(p.chunks, key)
		return
	}
	p.chunks[key] = c
}

// Chunk возвращает чанк по ключу; отсутствующий ключ даёт пустой чанк
func (p *Project) Chunk(key world.ChunkKey) world.Chunk {
	return p.chunks[key]
}

// HasChunk сообщает, есть ли у чанка хотя бы один слой
func (p *Project) HasChunk(key world.ChunkKey) bool {
	_, ok := p.chunks[key]
	return ok
}

// ChunkKeys возвращает ключи чанков в детерминированном (лексикографическом) порядке
func (p *Project) ChunkKeys() []world.ChunkKey {
	keys := make([]world.ChunkKey, 0, len(p.chunks))
	for k := range p.chunks {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// Len число непустых чанков
func (p *Project) Len() int {
	return len(p.chunks)
}

// ChunkKey собирает ключ чанка с шириной координаты проекта
func (p *Project) ChunkKey(x, y int) world.ChunkKey {
	return world.FormatChunkKey(x, y, p.CoordinateDigits)
}

// BaseHeightmapSize размер карты высот первого чанка, у которого она есть,
// иначе world.DefaultHeightmapSize
func (p *Project) BaseHeightmapSize() int {
	for _, k := range p.ChunkKeys() {
		if h := p.chunks[k].Heightmap; h != nil {
			return h.Size
		}
	}
	return world.DefaultHeightmapSize
}

// WorldSize размеры карты в единицах редактора
func (p *Project) WorldSize() world.WorldSize {
	return world.MapWorldSize(p.Settings, p.BaseHeightmapSize())
}

// LocateChunk находит чанк под точкой мира
func (p *Project) LocateChunk(worldX, worldZ float64) (world.ChunkHit, bool) {
	return world.LocateChunk(p.Settings, p.BaseHeightmapSize(), p.CoordinateDigits, worldX, worldZ)
}

// UndoDepth глубина стека отмены чанка
func (p *Project) UndoDepth(key world.ChunkKey) int {
	return p.history[key].UndoDepth()
}

// RedoDepth глубина стека повтора чанка
func (p *Project) RedoDepth(key world.ChunkKey) int {
	return p.history[key].RedoDepth()
}

// Touch только обновляет отметку времени изменения
func (p *Project) Touch() *Project {
	next := p.clone()
	next.touch()
	return next
}

// Rename меняет имя проекта
func (p *Project) Rename(name string) *Project {
	if name == "" || name == p.Name {
		return p
	}
	next := p.clone()
	next.Name = name
	next.touch()
	return next
}
