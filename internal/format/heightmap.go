package format

import (
	"encoding/binary"
	"math"

	"github.com/annel0/map-editor/internal/world"
)

// HeightmapFile имя файла карты высот в папке чанка
const HeightmapFile = "height.raw"

// ParseHeightmap разбирает height.raw: квадрат size x size значений int16 little-endian
// без заголовка. Размер выводится из длины буфера.
func ParseHeightmap(data []byte) (*world.Heightmap, error) {
	n := len(data)
	if n == 0 || n%2 != 0 {
		expected := n + 1
		if n == 0 {
			expected = 2
		}
		return nil, &FormatError{
			Format:   HeightmapFile,
			Kind:     ErrInvalidDimensions,
			Expected: expected,
			Actual:   n,
			Detail:   "длина должна быть чётной и ненулевой",
		}
	}

	cells := n / 2
	size := int(math.Sqrt(float64(cells)))
	for size*size < cells {
		size++
	}
	for size*size > cells {
		size--
	}
	if size*size != cells {
		return nil, &FormatError{
			Format:   HeightmapFile,
			Kind:     ErrInvalidDimensions,
			Expected: size * size * 2,
			Actual:   n,
			Detail:   "число ячеек не является квадратом",
		}
	}

	h := world.NewHeightmap(size)
	for i := 0; i < cells; i++ {
		h.Cells[i] = float64(int16(binary.LittleEndian.Uint16(data[i*2:])))
	}
	return h, nil
}

// SerializeHeightmap кодирует карту высот обратно в height.raw.
// Дробные значения отбрасывают дробную часть, выходящие за int16 насыщаются,
// NaN и отсутствующие ячейки записываются нулём.
func SerializeHeightmap(h *world.Heightmap) []byte {
	if h == nil {
		return nil
	}
	out := make([]byte, h.Size*h.Size*2)
	for y := 0; y < h.Size; y++ {
		for x := 0; x < h.Size; x++ {
			i := y*h.Size + x
			binary.LittleEndian.PutUint16(out[i*2:], uint16(toInt16(h.At(x, y))))
		}
	}
	return out
}

func toInt16(v float64) int16 {
	if math.IsNaN(v) {
		return 0
	}
	v = math.Trunc(v)
	if v > math.MaxInt16 {
		return math.MaxInt16
	}
	if v < math.MinInt16 {
		return math.MinInt16
	}
	return int16(v)
}
