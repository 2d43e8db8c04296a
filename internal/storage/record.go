package storage

import (
	"bytes"
	"encoding/gob"
	"fmt"

	"github.com/annel0/map-editor/internal/project"
	"github.com/annel0/map-editor/internal/world"
)

// metaRecord заголовок проекта. Слои чанков хранятся отдельными записями.
type metaRecord struct {
	Name             string
	Version          string
	CoordinateDigits int
	Revision         uint64
	Metadata         project.Metadata
	Settings         world.MapSettings
	Spawns           world.Spawns
	ChunkKeys        []world.ChunkKey
}

// chunkRecord слои одного чанка
type chunkRecord struct {
	Heightmap  *world.Heightmap
	Attributes *world.AttributeGrid
	Objects    []world.AreaObject
}

// encodedProject проект, разложенный на записи хранилища
type encodedProject struct {
	meta   []byte
	chunks map[world.ChunkKey][]byte
}

func (m metaRecord) info() ProjectInfo {
	return ProjectInfo{
		Name:     m.Name,
		Version:  m.Version,
		Revision: m.Revision,
		Modified: m.Metadata.Modified,
		Chunks:   len(m.ChunkKeys),
	}
}

func gobEncode(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func gobDecode(data []byte, v interface{}) error {
	return gob.NewDecoder(bytes.NewReader(data)).Decode(v)
}

// encodeProject раскладывает проект на заголовок и записи чанков
func encodeProject(p *project.Project) (encodedProject, error) {
	keys := p.ChunkKeys()
	out := encodedProject{chunks: make(map[world.ChunkKey][]byte, len(keys))}

	meta, err := gobEncode(metaRecord{
		Name:             p.Name,
		Version:          p.Version,
		CoordinateDigits: p.CoordinateDigits,
		Revision:         p.Revision,
		Metadata:         p.Metadata,
		Settings:         p.Settings,
		Spawns:           p.Spawns,
		ChunkKeys:        keys,
	})
	if err != nil {
		return out, fmt.Errorf("ошибка сериализации проекта %q: %w", p.Name, err)
	}
	out.meta = meta

	for _, key := range keys {
		c := p.Chunk(key)
		data, err := gobEncode(chunkRecord{Heightmap: c.Heightmap, Attributes: c.Attributes, Objects: c.Objects})
		if err != nil {
			return out, fmt.Errorf("ошибка сериализации чанка %s: %w", key, err)
		}
		out.chunks[key] = data
	}
	return out, nil
}

func decodeMeta(data []byte) (metaRecord, error) {
	var meta metaRecord
	if err := gobDecode(data, &meta); err != nil {
		return meta, fmt.Errorf("ошибка десериализации проекта: %w", err)
	}
	return meta, nil
}

// decodeProject собирает проект обратно. chunk возвращает запись чанка или nil,
// если её нет; отсутствующие чанки пропускаются.
func decodeProject(meta metaRecord, chunk func(key world.ChunkKey) ([]byte, error)) (*project.Project, error) {
	p := project.New(meta.Name, meta.Metadata.Author, meta.CoordinateDigits).ReplaceSettings(meta.Settings)
	for _, category := range world.AllCategories {
		if entries := meta.Spawns.Get(category); len(entries) > 0 {
			p = p.SetSpawns(category, entries)
		}
	}

	for _, key := range meta.ChunkKeys {
		data, err := chunk(key)
		if err != nil {
			return nil, err
		}
		if data == nil {
			continue
		}
		var rec chunkRecord
		if err := gobDecode(data, &rec); err != nil {
			return nil, fmt.Errorf("ошибка десериализации чанка %s: %w", key, err)
		}
		p = p.ImportChunk(key, world.Chunk{Heightmap: rec.Heightmap, Attributes: rec.Attributes, Objects: rec.Objects})
	}

	// Проект только что собран и ещё никому не передан
	p.Version = meta.Version
	p.Revision = meta.Revision
	p.Metadata = meta.Metadata
	return p, nil
}
