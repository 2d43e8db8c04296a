package world

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/annel0/map-editor/internal/vec"
)

// ChunkKey строковый идентификатор чанка: координаты X и Y, дополненные нулями
// до CoordinateDigits цифр каждая ("000001" при 3 цифрах, "0001" при 2).
type ChunkKey string

// Допустимые значения ширины координаты в ключе
const (
	ShortDigits   = 2
	DefaultDigits = 3
)

// NormalizeDigits приводит ширину координаты к 2 или 3
func NormalizeDigits(digits int) int {
	if digits == ShortDigits {
		return ShortDigits
	}
	return DefaultDigits
}

// FormatChunkKey собирает ключ чанка из координат сетки
func FormatChunkKey(x, y, digits int) ChunkKey {
	d := NormalizeDigits(digits)
	return ChunkKey(fmt.Sprintf("%0*d%0*d", d, x, d, y))
}

// Coords разбирает ключ обратно в координаты сетки
func (k ChunkKey) Coords(digits int) (vec.Vec2, bool) {
	d := NormalizeDigits(digits)
	s := string(k)
	if len(s) != 2*d {
		return vec.Vec2{}, false
	}
	x, errX := strconv.Atoi(s[:d])
	y, errY := strconv.Atoi(s[d:])
	if errX != nil || errY != nil || x < 0 || y < 0 {
		return vec.Vec2{}, false
	}
	return vec.Vec2{X: x, Y: y}, true
}

var (
	folderPattern      = regexp.MustCompile(`^(\d{3})(\d{3})$`)
	shortFolderPattern = regexp.MustCompile(`^(\d{2})(\d{2})$`)
)

// ArchiveFolder имя папки чанка в игровой раскладке карты (всегда XXXYYY)
func ArchiveFolder(grid vec.Vec2) string {
	return fmt.Sprintf("%03d%03d", grid.X, grid.Y)
}

// ParseArchiveFolder распознаёт папку чанка вида XXXYYY (или короткую XXYY)
func ParseArchiveFolder(name string) (vec.Vec2, bool) {
	m := folderPattern.FindStringSubmatch(name)
	if m == nil {
		m = shortFolderPattern.FindStringSubmatch(name)
	}
	if m == nil {
		return vec.Vec2{}, false
	}
	x, _ := strconv.Atoi(m[1])
	y, _ := strconv.Atoi(m[2])
	return vec.Vec2{X: x, Y: y}, true
}

// Chunk содержимое одного чанка. Любое поле может отсутствовать;
// чанк без полей неотличим от отсутствующего.
type Chunk struct {
	Heightmap  *Heightmap     `json:"heightmap,omitempty"`
	Attributes *AttributeGrid `json:"attributes,omitempty"`
	Objects    []AreaObject   `json:"objects,omitempty"`
}

// IsEmpty сообщает, что в чанке нет ни одного слоя
func (c Chunk) IsEmpty() bool {
	return c.Heightmap == nil && c.Attributes == nil && c.Objects == nil
}

// ObjectIndex ищет объект по идентификатору, -1 если не найден
func (c Chunk) ObjectIndex(id string) int {
	for i, obj := range c.Objects {
		if obj.ID == id {
			return i
		}
	}
	return -1
}

// ResolveChunkKey приводит ключ, введённый вручную, к виду проекта с шириной digits.
// Принимает готовый ключ, папку архива XXXYYY или XXYY и пару координат "x,y" / "x y".
// Ключ, из которого не извлечь координаты сетки, отклоняется.
func ResolveChunkKey(raw string, digits int) (ChunkKey, bool) {
	cleaned := strings.TrimSpace(raw)
	var (
		grid vec.Vec2
		ok   bool
	)
	switch {
	case strings.ContainsAny(cleaned, ", "):
		grid, ok = parseCoordPair(cleaned)
	default:
		grid, ok = ChunkKey(cleaned).Coords(digits)
		if !ok {
			grid, ok = ParseArchiveFolder(cleaned)
		}
	}
	if !ok || !fitsDigits(grid, digits) {
		return "", false
	}
	return FormatChunkKey(grid.X, grid.Y, digits), true
}

func parseCoordPair(s string) (vec.Vec2, bool) {
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || unicode.IsSpace(r) })
	if len(parts) != 2 {
		return vec.Vec2{}, false
	}
	x, errX := strconv.Atoi(parts[0])
	y, errY := strconv.Atoi(parts[1])
	if errX != nil || errY != nil {
		return vec.Vec2{}, false
	}
	return vec.Vec2{X: x, Y: y}, true
}

// fitsDigits координаты неотрицательны и помещаются в digits знаков
func fitsDigits(grid vec.Vec2, digits int) bool {
	limit := 100
	if NormalizeDigits(digits) == DefaultDigits {
		limit = 1000
	}
	return grid.X >= 0 && grid.Y >= 0 && grid.X < limit && grid.Y < limit
}
