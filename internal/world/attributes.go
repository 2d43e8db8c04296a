package world

// AttributeGrid прямоугольная сетка байтов-флагов чанка (строка за строкой)
type AttributeGrid struct {
	Width  int     `json:"width"`
	Height int     `json:"height"`
	Cells  []uint8 `json:"cells"`
}

// NewAttributeGrid создаёт сетку без флагов
func NewAttributeGrid(width, height int) *AttributeGrid {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &AttributeGrid{Width: width, Height: height, Cells: make([]uint8, width*height)}
}

// At возвращает байт флагов ячейки (0 за пределами сетки)
func (g *AttributeGrid) At(x, y int) uint8 {
	if g == nil || x < 0 || y < 0 || x >= g.Width || y >= g.Height {
		return 0
	}
	i := y*g.Width + x
	if i >= len(g.Cells) {
		return 0
	}
	return g.Cells[i]
}

// Set записывает байт флагов ячейки
func (g *AttributeGrid) Set(x, y int, v uint8) {
	if x < 0 || y < 0 || x >= g.Width || y >= g.Height {
		return
	}
	i := y*g.Width + x
	if i < len(g.Cells) {
		g.Cells[i] = v
	}
}

// HasFlag проверяет флаг в ячейке
func (g *AttributeGrid) HasFlag(x, y int, flag AttrFlag) bool {
	return g.At(x, y)&uint8(flag) != 0
}

// CountFlag считает ячейки с установленным флагом
func (g *AttributeGrid) CountFlag(flag AttrFlag) int {
	if g == nil {
		return 0
	}
	n := 0
	for _, c := range g.Cells {
		if c&uint8(flag) != 0 {
			n++
		}
	}
	return n
}

// Clone возвращает глубокую копию
func (g *AttributeGrid) Clone() *AttributeGrid {
	if g == nil {
		return nil
	}
	cells := make([]uint8, len(g.Cells))
	copy(cells, g.Cells)
	return &AttributeGrid{Width: g.Width, Height: g.Height, Cells: cells}
}

// Equal сравнивает размеры и содержимое
func (g *AttributeGrid) Equal(other *AttributeGrid) bool {
	if g == nil || other == nil {
		return g == other
	}
	if g.Width != other.Width || g.Height != other.Height {
		return false
	}
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			if g.At(x, y) != other.At(x, y) {
				return false
			}
		}
	}
	return true
}
