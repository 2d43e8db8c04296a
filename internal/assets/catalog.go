// Package assets ведёт каталог объектов, которые можно размещать на карте.
package assets

import (
	"errors"
	"io/fs"
	"path"
	"strconv"
	"strings"
	"sync"

	"github.com/annel0/map-editor/internal/format"
	"github.com/annel0/map-editor/internal/util"
	"github.com/annel0/map-editor/internal/world"
)

// ErrNoCRC не удалось определить CRC объекта: нет ни числа, ни пути к модели
var ErrNoCRC = errors.New("не указан CRC32 и путь к модели")

// placeholderPrefix начало временной подписи объекта, известного только по CRC
const placeholderPrefix = "CRC "

// Asset элемент каталога
type Asset struct {
	ID      string `json:"id"`
	Label   string `json:"label"`
	CRC32   uint32 `json:"crc32"`
	GR2Path string `json:"gr2Path,omitempty"`
}

// AssetID идентификатор объекта каталога по его CRC
func AssetID(crc uint32) string {
	return "asset_" + strconv.FormatUint(uint64(crc), 10)
}

// PlaceholderLabel временная подпись объекта без имени
func PlaceholderLabel(crc uint32) string {
	return placeholderPrefix + strconv.FormatUint(uint64(crc), 10)
}

// Catalog упорядоченный каталог объектов. Безопасен для использования из нескольких горутин.
type Catalog struct {
	mu     sync.RWMutex
	assets []Asset
	index  map[string]int
}

// NewCatalog создаёт пустой каталог
func NewCatalog() *Catalog {
	return &Catalog{index: make(map[string]int)}
}

// Upsert добавляет новые объекты в конец каталога. У существующих подпись
// заменяется, только пока она временная ("CRC n"), а путь к модели сохраняется
// первый известный. Возвращает число добавленных объектов.
func (c *Catalog) Upsert(items ...Asset) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	added := 0
	for _, item := range items {
		idx, ok := c.index[item.ID]
		if !ok {
			c.index[item.ID] = len(c.assets)
			c.assets = append(c.assets, item)
			added++
			continue
		}
		current := &c.assets[idx]
		if strings.HasPrefix(current.Label, placeholderPrefix) && item.Label != "" {
			current.Label = item.Label
		}
		if current.GR2Path == "" {
			current.GR2Path = item.GR2Path
		}
	}
	return added
}

// AddManual добавляет объект, введённый пользователем. CRC берётся из crcText,
// а если он пуст или не число, считается по пути к модели.
func (c *Catalog) AddManual(label, crcText, gr2Path string) (Asset, error) {
	label = strings.TrimSpace(label)
	gr2Path = strings.TrimSpace(gr2Path)

	var crc uint32
	if v, err := strconv.ParseUint(strings.TrimSpace(crcText), 10, 32); err == nil {
		crc = uint32(v)
	} else if gr2Path != "" {
		crc = util.CaseCRC32(gr2Path)
	} else {
		return Asset{}, ErrNoCRC
	}

	if label == "" {
		label = gr2Path
	}
	if label == "" {
		label = PlaceholderLabel(crc)
	}
	asset := Asset{ID: AssetID(crc), Label: label, CRC32: crc, GR2Path: gr2Path}
	c.Upsert(asset)
	got, _ := c.Get(asset.ID)
	return got, nil
}

// Get возвращает объект по идентификатору
func (c *Catalog) Get(id string) (Asset, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	idx, ok := c.index[id]
	if !ok {
		return Asset{}, false
	}
	return c.assets[idx], true
}

// List возвращает копию каталога в порядке добавления
func (c *Catalog) List() []Asset {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Asset, len(c.assets))
	copy(out, c.assets)
	return out
}

// Len число объектов
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.assets)
}

// Search ищет объекты, у которых подпись (без учёта регистра) или CRC содержит запрос
func (c *Catalog) Search(query string) []Asset {
	needle := strings.ToLower(strings.TrimSpace(query))
	all := c.List()
	if needle == "" {
		return all
	}
	var out []Asset
	for _, a := range all {
		if strings.Contains(strings.ToLower(a.Label), needle) ||
			strings.Contains(strconv.FormatUint(uint64(a.CRC32), 10), needle) {
			out = append(out, a)
		}
	}
	return out
}

// FromObjects создаёт временные записи каталога для объектов, загруженных из AreaData
func FromObjects(objects []world.AreaObject) []Asset {
	out := make([]Asset, 0, len(objects))
	for _, obj := range objects {
		out = append(out, Asset{ID: AssetID(obj.CRC32), Label: PlaceholderLabel(obj.CRC32), CRC32: obj.CRC32})
	}
	return out
}

// FromProperty переводит разобранный файл свойств в запись каталога
func FromProperty(p format.PropertyAsset) Asset {
	return Asset{ID: p.ID, Label: p.Label, CRC32: p.CRC32, GR2Path: p.GR2Path}
}

// ImportReport итог импорта папки со свойствами
type ImportReport struct {
	Files   int `json:"files"`   // просмотрено файлов .prb/.prt
	Parsed  int `json:"parsed"`  // из них распознано
	Added   int `json:"added"`   // новых записей каталога
	Skipped int `json:"skipped"` // файлов без сигнатуры YPRT или CRC
}

// ImportProperties обходит файловую систему и добавляет в каталог все файлы свойств
func (c *Catalog) ImportProperties(fsys fs.FS) (ImportReport, error) {
	var (
		report ImportReport
		batch  []Asset
	)
	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := strings.ToLower(path.Ext(p))
		if ext != ".prb" && ext != ".prt" {
			return nil
		}
		report.Files++
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return err
		}
		asset, ok := format.ParsePropertyFile(string(data), p)
		if !ok {
			report.Skipped++
			return nil
		}
		report.Parsed++
		batch = append(batch, FromProperty(asset))
		return nil
	})
	if err != nil {
		return report, err
	}
	report.Added = c.Upsert(batch...)
	return report, nil
}
