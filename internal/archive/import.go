package archive

import (
	"fmt"
	"io"
	"io/fs"
	"sort"
	"strings"

	"github.com/annel0/map-editor/internal/format"
	"github.com/annel0/map-editor/internal/logging"
	"github.com/annel0/map-editor/internal/project"
	"github.com/annel0/map-editor/internal/vec"
	"github.com/annel0/map-editor/internal/world"
	"github.com/klauspost/compress/zip"
)

// FileError файл, который не удалось разобрать; остальные файлы при этом загружаются
type FileError struct {
	Path string `json:"path"`
	Err  string `json:"error"`
}

// FileWarning файл загружен, но нестрогий разбор выдал замечания
type FileWarning struct {
	Path   string        `json:"path"`
	Report format.Report `json:"report"`
}

// Report итог импорта
type Report struct {
	Settings    bool                                 `json:"settings"`
	Heightmaps  int                                  `json:"heightmaps"`
	Attributes  int                                  `json:"attributes"`
	ObjectLists int                                  `json:"objectLists"`
	Objects     int                                  `json:"objects"`
	Spawns      int                                  `json:"spawns"`
	Stats       map[world.ChunkKey]world.HeightStats `json:"stats,omitempty"`
	Ignored     []string                             `json:"ignored,omitempty"`
	Failed      []FileError                          `json:"failed,omitempty"`
	Warnings    []FileWarning                        `json:"warnings,omitempty"`
}

// Loaded сообщает, что из архива взято хоть что-то
func (r Report) Loaded() bool {
	return r.Settings || r.Heightmaps+r.Attributes+r.ObjectLists+r.Spawns > 0
}

// importer накапливает разобранные файлы и применяет их к проекту одним проходом
type importer struct {
	digits   int
	settings *world.MapSettings
	chunks   map[world.ChunkKey]world.Chunk
	spawns   map[world.SpawnCategory][]world.SpawnEntry
	report   Report
}

func newImporter(digits int) *importer {
	return &importer{
		digits: digits,
		chunks: make(map[world.ChunkKey]world.Chunk),
		spawns: make(map[world.SpawnCategory][]world.SpawnEntry),
		report: Report{Stats: make(map[world.ChunkKey]world.HeightStats)},
	}
}

func (im *importer) fail(path string, err error) {
	im.report.Failed = append(im.report.Failed, FileError{Path: path, Err: err.Error()})
	logging.GetArchiveLogger().Warn("⚠️ Файл %s пропущен: %v", path, err)
}

func (im *importer) warn(path string, r format.Report) {
	if !r.Clean() {
		im.report.Warnings = append(im.report.Warnings, FileWarning{Path: path, Report: r})
	}
}

// add разбирает один файл; read вызывается только для распознанных файлов
func (im *importer) add(name string, read func() ([]byte, error)) {
	name = strings.ReplaceAll(name, "\\", "/")
	var parts []string
	for _, part := range strings.Split(name, "/") {
		if part = strings.TrimSpace(part); part != "" {
			parts = append(parts, part)
		}
	}
	if len(parts) == 0 {
		return
	}
	filename := strings.ToLower(parts[len(parts)-1])

	if filename == strings.ToLower(format.SettingsFile) {
		data, err := read()
		if err != nil {
			im.fail(name, err)
			return
		}
		s := format.ParseSettings(string(data))
		im.settings = &s
		im.report.Settings = true
		return
	}

	var (
		grid    vec.Vec2
		inChunk bool
	)
	for _, part := range parts[:len(parts)-1] {
		if grid, inChunk = world.ParseArchiveFolder(part); inChunk {
			break
		}
	}

	if !inChunk {
		if c, ok := spawnCategory(filename); ok {
			data, err := read()
			if err != nil {
				im.fail(name, err)
				return
			}
			entries, r := format.ParseRegen(string(data))
			im.warn(name, r)
			im.spawns[c] = entries
			im.report.Spawns += len(entries)
			return
		}
		im.report.Ignored = append(im.report.Ignored, name)
		return
	}

	key := world.FormatChunkKey(grid.X, grid.Y, im.digits)
	chunk := im.chunks[key]
	switch filename {
	case strings.ToLower(format.HeightmapFile):
		data, err := read()
		if err == nil {
			chunk.Heightmap, err = format.ParseHeightmap(data)
		}
		if err != nil {
			im.fail(name, err)
			return
		}
		im.report.Heightmaps++
		im.report.Stats[key] = chunk.Heightmap.Stats()
	case strings.ToLower(format.AttributesFile):
		data, err := read()
		if err == nil {
			chunk.Attributes, err = format.ParseAttributes(data)
		}
		if err != nil {
			im.fail(name, err)
			return
		}
		im.report.Attributes++
	case strings.ToLower(format.AreaDataFile):
		data, err := read()
		if err != nil {
			im.fail(name, err)
			return
		}
		objects, r := format.ParseAreaData(string(data))
		im.warn(name, r)
		if objects == nil {
			objects = []world.AreaObject{}
		}
		chunk.Objects = objects
		im.report.ObjectLists++
		im.report.Objects += len(objects)
	default:
		im.report.Ignored = append(im.report.Ignored, name)
		return
	}
	im.chunks[key] = chunk
}

// apply переносит накопленные данные в проект: настройки, чанки по возрастанию ключа, спавны
func (im *importer) apply(p *project.Project) *project.Project {
	if im.settings != nil {
		p = p.ReplaceSettings(*im.settings)
	}
	keys := make([]world.ChunkKey, 0, len(im.chunks))
	for k := range im.chunks {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	for _, k := range keys {
		p = p.ImportChunk(k, im.chunks[k])
	}
	for _, c := range world.AllCategories {
		if entries, ok := im.spawns[c]; ok {
			p = p.SetSpawns(c, entries)
		}
	}
	return p
}

func spawnCategory(filename string) (world.SpawnCategory, bool) {
	for _, c := range world.AllCategories {
		if filename == c.FileName() {
			return c, true
		}
	}
	return "", false
}

// Import загружает zip-архив карты в проект. Ошибка возвращается, только если
// сам архив не читается; ошибки отдельных файлов попадают в Report.Failed.
func Import(p *project.Project, r io.ReaderAt, size int64) (*project.Project, Report, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return p, Report{}, fmt.Errorf("ошибка чтения zip: %w", err)
	}
	im := newImporter(p.CoordinateDigits)
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		f := f
		im.add(f.Name, func() ([]byte, error) {
			rc, err := f.Open()
			if err != nil {
				return nil, err
			}
			defer rc.Close()
			return io.ReadAll(rc)
		})
	}
	next := im.apply(p)
	logging.GetArchiveLogger().Info("📥 Импорт zip: %d карт высот, %d сеток атрибутов, %d списков объектов, ошибок: %d",
		im.report.Heightmaps, im.report.Attributes, im.report.ObjectLists, len(im.report.Failed))
	return next, im.report, nil
}

// ImportDir загружает карту из каталога (или любой fs.FS) в раскладке игры
func ImportDir(p *project.Project, fsys fs.FS) (*project.Project, Report, error) {
	im := newImporter(p.CoordinateDigits)
	err := fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		im.add(path, func() ([]byte, error) { return fs.ReadFile(fsys, path) })
		return nil
	})
	if err != nil {
		return p, im.report, fmt.Errorf("ошибка обхода каталога: %w", err)
	}
	return im.apply(p), im.report, nil
}
