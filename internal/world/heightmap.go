package world

import "math"

// DefaultHeightmapSize размер карты высот чанка, когда в проекте ещё нет ни одной
const DefaultHeightmapSize = 131

// Heightmap квадратная сетка высот чанка (строка за строкой, начало в левом верхнем углу).
// Значения хранятся как float64, чтобы кисть могла накапливать дробные изменения;
// при экспорте они приводятся к int16.
type Heightmap struct {
	Size  int       `json:"size"`
	Cells []float64 `json:"cells"`
}

// NewHeightmap создаёт плоскую карту высот size x size
func NewHeightmap(size int) *Heightmap {
	if size < 0 {
		size = 0
	}
	return &Heightmap{Size: size, Cells: make([]float64, size*size)}
}

// At возвращает высоту в ячейке (x, y); отсутствующие ячейки считаются нулевыми
func (h *Heightmap) At(x, y int) float64 {
	if h == nil || x < 0 || y < 0 || x >= h.Size || y >= h.Size {
		return 0
	}
	i := y*h.Size + x
	if i >= len(h.Cells) {
		return 0
	}
	return h.Cells[i]
}

// Set записывает высоту в ячейку (x, y). Ячейки вне сетки игнорируются.
func (h *Heightmap) Set(x, y int, v float64) {
	if x < 0 || y < 0 || x >= h.Size || y >= h.Size {
		return
	}
	i := y*h.Size + x
	if i < len(h.Cells) {
		h.Cells[i] = v
	}
}

// Clone возвращает глубокую копию
func (h *Heightmap) Clone() *Heightmap {
	if h == nil {
		return nil
	}
	cells := make([]float64, len(h.Cells))
	copy(cells, h.Cells)
	return &Heightmap{Size: h.Size, Cells: cells}
}

// Equal сравнивает размеры и значения ячеек
func (h *Heightmap) Equal(other *Heightmap) bool {
	if h == nil || other == nil {
		return h == other
	}
	if h.Size != other.Size {
		return false
	}
	n := h.Size * h.Size
	for i := 0; i < n; i++ {
		if h.At(i%h.Size, i/h.Size) != other.At(i%other.Size, i/other.Size) {
			return false
		}
	}
	return true
}

// HeightStats сводка по карте высот после импорта
type HeightStats struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
	Avg float64 `json:"avg"`
}

// Stats считает минимум, максимум и округлённое среднее значение высот.
// Для пустой карты возвращает нули.
func (h *Heightmap) Stats() HeightStats {
	if h == nil || len(h.Cells) == 0 {
		return HeightStats{}
	}
	stats := HeightStats{Min: math.Inf(1), Max: math.Inf(-1)}
	var sum float64
	for _, v := range h.Cells {
		if v < stats.Min {
			stats.Min = v
		}
		if v > stats.Max {
			stats.Max = v
		}
		sum += v
	}
	stats.Avg = math.Round(sum / float64(len(h.Cells)))
	return stats
}
