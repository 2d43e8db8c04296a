package main

import (
	"bytes"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/annel0/map-editor/internal/archive"
	"github.com/annel0/map-editor/internal/format"
	"github.com/annel0/map-editor/internal/project"
	"github.com/annel0/map-editor/internal/util"
	"github.com/annel0/map-editor/internal/world"
)

func main() {
	var (
		command = flag.String("cmd", "inspect", "Command: hash, inspect, pack, unpack")
		text    = flag.String("text", "", "Text to hash (hash)")
		file    = flag.String("file", "", "Map file or zip archive (inspect, unpack)")
		dir     = flag.String("dir", "", "Map folder (pack)")
		out     = flag.String("out", "", "Output zip (pack) or folder (unpack)")
		name    = flag.String("name", "", "Project name (default: folder or archive name)")
		digits  = flag.Int("digits", world.DefaultDigits, "Chunk coordinate digits: 2 or 3")
		layers  = flag.String("layers", "all", "Layers: height,attr,objects,settings,spawns")
	)
	flag.Parse()

	switch *command {
	case "hash":
		fmt.Printf("%d\n", util.CaseCRC32(*text))

	case "inspect":
		if err := inspect(*file); err != nil {
			log.Fatalf("❌ Inspect failed: %v", err)
		}

	case "pack":
		if err := pack(*dir, *out, *name, *digits, *layers); err != nil {
			log.Fatalf("❌ Pack failed: %v", err)
		}

	case "unpack":
		if err := unpack(*file, *out, *name, *digits, *layers); err != nil {
			log.Fatalf("❌ Unpack failed: %v", err)
		}

	default:
		log.Fatalf("❌ Unknown command: %s", *command)
	}
}

// inspect печатает сводку по одному файлу карты, тип определяется по имени
func inspect(path string) error {
	if path == "" {
		return fmt.Errorf("-file is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	base := filepath.Base(path)

	switch {
	case strings.EqualFold(base, format.HeightmapFile):
		h, err := format.ParseHeightmap(data)
		if err != nil {
			return err
		}
		stats := h.Stats()
		fmt.Printf("🏔️  %s: %dx%d, min=%s max=%s avg=%s\n", base, h.Size, h.Size,
			format.FormatNumber(stats.Min), format.FormatNumber(stats.Max), format.FormatNumber(stats.Avg))

	case strings.EqualFold(base, format.AttributesFile):
		g, err := format.ParseAttributes(data)
		if err != nil {
			return err
		}
		fmt.Printf("🧱 %s: %dx%d\n", base, g.Width, g.Height)
		for _, attr := range world.AllAttrFlags {
			fmt.Printf("   %-9s %d\n", attr.String(), g.CountFlag(attr))
		}

	case strings.EqualFold(base, format.AreaDataFile):
		objects, report := format.ParseAreaData(string(data))
		fmt.Printf("🌲 %s: %d objects\n", base, len(objects))
		printReport(report)

	case strings.EqualFold(base, format.SettingsFile):
		s := format.ParseSettings(string(data))
		fmt.Printf("⚙️  %s: %dx%d chunks, cell=%s height=%s\n", base, s.MapSize.Width, s.MapSize.Height,
			format.FormatNumber(s.CellScale), format.FormatNumber(s.HeightScale))
		fmt.Printf("   base=(%s, %s) texture=%s env=%s\n",
			format.FormatNumber(s.BasePosition.X), format.FormatNumber(s.BasePosition.Y), s.TextureSet, s.Environment)

	case strings.HasSuffix(strings.ToLower(base), ".prb"), strings.HasSuffix(strings.ToLower(base), ".prt"):
		asset, ok := format.ParsePropertyFile(string(data), base)
		if !ok {
			return fmt.Errorf("%s: not a YPRT property file", base)
		}
		fmt.Printf("🧩 %s: id=%s label=%q crc32=%d gr2=%s\n", base, asset.ID, asset.Label, asset.CRC32, asset.GR2Path)

	case strings.HasSuffix(strings.ToLower(base), ".zip"):
		p, report, err := archive.Import(project.New(stem(base), "", world.DefaultDigits), bytes.NewReader(data), int64(len(data)))
		if err != nil {
			return err
		}
		fmt.Printf("📦 %s: %d chunks, settings=%v, spawns=%d\n", base, p.Len(), report.Settings, report.Spawns)
		fmt.Printf("   heightmaps=%d attributes=%d objects=%d ignored=%d failed=%d\n",
			report.Heightmaps, report.Attributes, report.Objects, len(report.Ignored), len(report.Failed))
		for _, fe := range report.Failed {
			fmt.Printf("   ❌ %s: %s\n", fe.Path, fe.Err)
		}

	default:
		entries, report := format.ParseRegen(string(data))
		fmt.Printf("👾 %s: %d spawn entries\n", base, len(entries))
		printReport(report)
	}
	return nil
}

func printReport(r format.Report) {
	if r.Clean() {
		return
	}
	fmt.Printf("   ⚠️  skipped=%d issues=%d\n", r.Skipped, len(r.Issues))
	for _, issue := range r.Issues {
		fmt.Printf("   - %s\n", issue.Error())
	}
}

// pack собирает папку карты в zip-архив
func pack(dir, out, name string, digits int, layerList string) error {
	if dir == "" {
		return fmt.Errorf("-dir is required")
	}
	l, err := archive.ParseLayers(layerList)
	if err != nil {
		return err
	}
	if name == "" {
		name = filepath.Base(filepath.Clean(dir))
	}
	p, report, err := archive.ImportDir(project.New(name, "", digits), os.DirFS(dir))
	if err != nil {
		return err
	}
	if out == "" {
		out = archive.FileName(p)
	}

	f, err := os.Create(out)
	if err != nil {
		return err
	}
	if err := archive.Export(f, p, l); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Printf("✅ %s: %d chunks, %d failed files\n", out, p.Len(), len(report.Failed))
	return nil
}

// unpack распаковывает архив в папку карты, пересобирая все файлы
func unpack(file, out, name string, digits int, layerList string) error {
	if file == "" {
		return fmt.Errorf("-file is required")
	}
	l, err := archive.ParseLayers(layerList)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return err
	}
	if name == "" {
		name = stem(filepath.Base(file))
	}
	p, report, err := archive.Import(project.New(name, "", digits), bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return err
	}
	if out == "" {
		out = name
	}
	if err := archive.ExportDir(out, p, l); err != nil {
		return err
	}
	fmt.Printf("✅ %s: %d chunks, %d failed files\n", out, p.Len(), len(report.Failed))
	return nil
}

func stem(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}
