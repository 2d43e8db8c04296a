package brush

import (
	"math"

	"github.com/annel0/map-editor/internal/world"
)

// TerrainMode режим кисти рельефа
type TerrainMode string

const (
	ModeRaise  TerrainMode = "raise"
	ModeLower  TerrainMode = "lower"
	ModeSmooth TerrainMode = "smooth"
)

// ParseTerrainMode разбирает имя режима
func ParseTerrainMode(s string) (TerrainMode, bool) {
	switch m := TerrainMode(s); m {
	case ModeRaise, ModeLower, ModeSmooth:
		return m, true
	}
	return "", false
}

// TerrainRadius радиус кисти в ячейках карты высот
func TerrainRadius(b Brush, gridScale float64) int {
	return max(1, int(math.Floor((b.Size/gridScale)/2)))
}

// ApplyTerrain применяет мазок к копии карты высот с центром в ячейке (cx, cy).
// Исходная карта не меняется. Сглаживание читает уже обновлённые ячейки копии,
// поэтому результат зависит от порядка обхода (строки сверху вниз, слева направо).
func ApplyTerrain(h *world.Heightmap, cx, cy int, b Brush, mode TerrainMode, intensity, gridScale float64) *world.Heightmap {
	next := h.Clone()
	if next == nil {
		return nil
	}
	radius := TerrainRadius(b, gridScale)

	footprint(cx, cy, radius, next.Size, next.Size, func(x, y int, d float64) {
		strength := Weight(d, float64(radius), b.Falloff) * b.Strength
		current := next.At(x, y)

		switch mode {
		case ModeSmooth:
			var sum float64
			count := 0
			for sy := -1; sy <= 1; sy++ {
				for sx := -1; sx <= 1; sx++ {
					tx, ty := x+sx, y+sy
					if tx < 0 || ty < 0 || tx >= next.Size || ty >= next.Size {
						continue
					}
					sum += next.At(tx, ty)
					count++
				}
			}
			avg := current
			if count > 0 {
				avg = sum / float64(count)
			}
			next.Set(x, y, current+(avg-current)*strength)
		case ModeRaise:
			next.Set(x, y, current+intensity*strength)
		default:
			next.Set(x, y, current-intensity*strength)
		}
	})
	return next
}
