package format

import (
	"encoding/binary"
	"fmt"

	"github.com/annel0/map-editor/internal/world"
)

// AttributesFile имя файла атрибутов в папке чанка
const AttributesFile = "attr.atr"

// AttributesMagic сигнатура заголовка attr.atr
const AttributesMagic uint16 = 0x0A4A

const attributesHeaderSize = 6

// ParseAttributes разбирает attr.atr: uint16 magic, uint16 width, uint16 height (LE),
// затем width*height байтов флагов. Частичная сетка никогда не возвращается.
func ParseAttributes(data []byte) (*world.AttributeGrid, error) {
	if len(data) < 2 {
		return nil, &FormatError{Format: AttributesFile, Kind: ErrTruncated, Expected: attributesHeaderSize, Actual: len(data), Detail: "заголовок"}
	}
	magic := binary.LittleEndian.Uint16(data[0:2])
	if magic != AttributesMagic {
		return nil, &FormatError{
			Format:   AttributesFile,
			Kind:     ErrBadMagic,
			Expected: int(AttributesMagic),
			Actual:   int(magic),
			Detail:   fmt.Sprintf("0x%04X вместо 0x%04X", magic, AttributesMagic),
		}
	}
	if len(data) < attributesHeaderSize {
		return nil, &FormatError{Format: AttributesFile, Kind: ErrTruncated, Expected: attributesHeaderSize, Actual: len(data), Detail: "заголовок"}
	}

	width := int(binary.LittleEndian.Uint16(data[2:4]))
	height := int(binary.LittleEndian.Uint16(data[4:6]))
	need := attributesHeaderSize + width*height
	if len(data) < need {
		return nil, &FormatError{
			Format:   AttributesFile,
			Kind:     ErrTruncated,
			Expected: need,
			Actual:   len(data),
			Detail:   fmt.Sprintf("сетка %dx%d", width, height),
		}
	}

	grid := world.NewAttributeGrid(width, height)
	copy(grid.Cells, data[attributesHeaderSize:need])
	return grid, nil
}

// SerializeAttributes кодирует сетку атрибутов в attr.atr.
// Размеры больше 65535 в формат не помещаются и усекаются по модулю.
func SerializeAttributes(g *world.AttributeGrid) []byte {
	if g == nil {
		return nil
	}
	out := make([]byte, attributesHeaderSize+g.Width*g.Height)
	binary.LittleEndian.PutUint16(out[0:2], AttributesMagic)
	binary.LittleEndian.PutUint16(out[2:4], uint16(g.Width))
	binary.LittleEndian.PutUint16(out[4:6], uint16(g.Height))
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			out[attributesHeaderSize+y*g.Width+x] = g.At(x, y)
		}
	}
	return out
}
