package brush

import (
	"math"

	"github.com/annel0/map-editor/internal/world"
)

// AttributeMode режим кисти атрибутов
type AttributeMode string

const (
	ModePaint AttributeMode = "paint"
	ModeErase AttributeMode = "erase"
)

// ParseAttributeMode разбирает имя режима
func ParseAttributeMode(s string) (AttributeMode, bool) {
	switch m := AttributeMode(s); m {
	case ModePaint, ModeErase:
		return m, true
	}
	return "", false
}

// AttributeRadius радиус кисти в ячейках сетки атрибутов
func AttributeRadius(b Brush, cellSize float64) float64 {
	if cellSize <= 0 {
		return 0
	}
	return (b.Size / 2) / cellSize
}

// ApplyAttributes ставит (paint) или снимает (erase) флаг в круге вокруг (cx, cy)
// на копии сетки. Сила кисти не важна: ячейка меняется целиком, если вес профиля > 0.
func ApplyAttributes(g *world.AttributeGrid, cx, cy int, b Brush, mode AttributeMode, flag world.AttrFlag, radiusCells float64) *world.AttributeGrid {
	next := g.Clone()
	if next == nil {
		return nil
	}
	radius := max(1, int(math.Floor(radiusCells)))

	footprint(cx, cy, radius, next.Width, next.Height, func(x, y int, d float64) {
		if Weight(d, float64(radius), b.Falloff) <= 0 {
			return
		}
		current := next.At(x, y)
		if mode == ModePaint {
			next.Set(x, y, current|uint8(flag))
		} else {
			next.Set(x, y, current&^uint8(flag))
		}
	})
	return next
}
