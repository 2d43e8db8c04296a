package archive

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/annel0/map-editor/internal/format"
	"github.com/annel0/map-editor/internal/logging"
	"github.com/annel0/map-editor/internal/project"
	"github.com/annel0/map-editor/internal/world"
	"github.com/klauspost/compress/zip"
)

// Entry файл раскладки карты
type Entry struct {
	Path string
	Data []byte
}

// Entries собирает файлы выбранных слоёв в детерминированном порядке:
// чанки по возрастанию ключа, затем Setting.txt и файлы спавнов.
// Чанки записываются в папки XXXYYY независимо от ширины ключей проекта.
func Entries(p *project.Project, layers Layers) []Entry {
	var out []Entry
	for _, key := range p.ChunkKeys() {
		grid, ok := key.Coords(p.CoordinateDigits)
		if !ok {
			logging.GetArchiveLogger().Warn("⚠️ Чанк с некорректным ключом %q пропущен при экспорте", key)
			continue
		}
		folder := world.ArchiveFolder(grid)
		chunk := p.Chunk(key)
		if layers.Heightmaps && chunk.Heightmap != nil {
			out = append(out, Entry{Path: folder + "/" + format.HeightmapFile, Data: format.SerializeHeightmap(chunk.Heightmap)})
		}
		if layers.Attributes && chunk.Attributes != nil {
			out = append(out, Entry{Path: folder + "/" + format.AttributesFile, Data: format.SerializeAttributes(chunk.Attributes)})
		}
		if layers.Objects && chunk.Objects != nil {
			out = append(out, Entry{Path: folder + "/" + format.AreaDataFile, Data: []byte(format.SerializeAreaData(chunk.Objects))})
		}
	}
	if layers.Settings {
		out = append(out, Entry{Path: format.SettingsFile, Data: []byte(format.SerializeSettings(p.Settings))})
	}
	if layers.Spawns {
		for _, c := range world.AllCategories {
			if entries := p.Spawns.Get(c); len(entries) > 0 {
				out = append(out, Entry{Path: c.FileName(), Data: []byte(format.SerializeRegen(entries))})
			}
		}
	}
	return out
}

// FileName имя архива экспорта проекта
func FileName(p *project.Project) string {
	name := strings.TrimSpace(p.Name)
	if name == "" {
		name = project.DefaultName
	}
	return name + "_export.zip"
}

// Export пишет zip-архив без сжатия (метод Store)
func Export(w io.Writer, p *project.Project, layers Layers) error {
	zw := zip.NewWriter(w)
	entries := Entries(p, layers)
	for _, e := range entries {
		fw, err := zw.CreateHeader(&zip.FileHeader{
			Name:     e.Path,
			Method:   zip.Store,
			Modified: p.Metadata.Modified,
		})
		if err != nil {
			return fmt.Errorf("ошибка создания записи %s: %w", e.Path, err)
		}
		if _, err := fw.Write(e.Data); err != nil {
			return fmt.Errorf("ошибка записи %s: %w", e.Path, err)
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("ошибка завершения архива: %w", err)
	}
	logging.GetArchiveLogger().Debug("📦 Экспортировано %d файлов проекта %s", len(entries), p.Name)
	return nil
}

// ExportDir раскладывает проект по каталогу dir
func ExportDir(dir string, p *project.Project, layers Layers) error {
	for _, e := range Entries(p, layers) {
		target := filepath.Join(dir, filepath.FromSlash(e.Path))
		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return fmt.Errorf("ошибка создания каталога для %s: %w", e.Path, err)
		}
		if err := os.WriteFile(target, e.Data, 0644); err != nil {
			return fmt.Errorf("ошибка записи %s: %w", target, err)
		}
	}
	return nil
}
