package format

import (
	"encoding/binary"
	"errors"
	"testing"

	"github.com/annel0/map-editor/internal/world"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHeightmap_Signed(t *testing.T) {
	data := make([]byte, 8)
	binary.LittleEndian.PutUint16(data[0:], uint16(0xFFFF)) // -1
	binary.LittleEndian.PutUint16(data[2:], 300)
	binary.LittleEndian.PutUint16(data[4:], 0x8000) // -32768
	binary.LittleEndian.PutUint16(data[6:], 0x7FFF)

	h, err := ParseHeightmap(data)
	require.NoError(t, err)
	assert.Equal(t, 2, h.Size)
	assert.Equal(t, -1.0, h.At(0, 0))
	assert.Equal(t, 300.0, h.At(1, 0))
	assert.Equal(t, -32768.0, h.At(0, 1))
	assert.Equal(t, 32767.0, h.At(1, 1))

	assert.Equal(t, data, SerializeHeightmap(h), "разбор и запись должны быть обратимы")
}

func TestParseHeightmap_InvalidDimensions(t *testing.T) {
	cases := map[string]int{
		"нечётная длина": 9,
		"не квадрат":     12,
		"пустой буфер":   0,
	}
	for name, n := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseHeightmap(make([]byte, n))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidDimensions))

			var fe *FormatError
			require.True(t, errors.As(err, &fe))
			assert.Equal(t, n, fe.Actual)
			assert.Equal(t, HeightmapFile, fe.Format)
		})
	}
}

func TestSerializeHeightmap_TruncatesAndSaturates(t *testing.T) {
	h := world.NewHeightmap(2)
	h.Cells = []float64{12.9, -12.9, 40000, -40000}

	out := SerializeHeightmap(h)
	back, err := ParseHeightmap(out)
	require.NoError(t, err)
	assert.Equal(t, []float64{12, -12, 32767, -32768}, back.Cells)
}

func TestSerializeHeightmap_MissingCellsAreZero(t *testing.T) {
	h := &world.Heightmap{Size: 2, Cells: []float64{5}}
	out := SerializeHeightmap(h)
	assert.Len(t, out, 8)
	assert.Equal(t, []byte{5, 0, 0, 0, 0, 0, 0, 0}, out)
}

func attrBytes(magic uint16, w, h uint16, payload []byte) []byte {
	out := make([]byte, 6, 6+len(payload))
	binary.LittleEndian.PutUint16(out[0:], magic)
	binary.LittleEndian.PutUint16(out[2:], w)
	binary.LittleEndian.PutUint16(out[4:], h)
	return append(out, payload...)
}

func TestParseAttributes(t *testing.T) {
	data := attrBytes(AttributesMagic, 3, 2, []byte{1, 2, 4, 0, 3, 7})

	grid, err := ParseAttributes(data)
	require.NoError(t, err)
	assert.Equal(t, 3, grid.Width)
	assert.Equal(t, 2, grid.Height)
	assert.True(t, grid.HasFlag(0, 0, world.AttrBlocked))
	assert.True(t, grid.HasFlag(1, 0, world.AttrWater))
	assert.True(t, grid.HasFlag(2, 0, world.AttrBannable))
	assert.Equal(t, uint8(7), grid.At(2, 1))

	assert.Equal(t, data, SerializeAttributes(grid))
}

func TestParseAttributes_IgnoresTrailingBytes(t *testing.T) {
	data := attrBytes(AttributesMagic, 1, 1, []byte{2, 9, 9})
	grid, err := ParseAttributes(data)
	require.NoError(t, err)
	assert.Equal(t, []uint8{2}, grid.Cells)
}

func TestParseAttributes_Errors(t *testing.T) {
	t.Run("неверная сигнатура", func(t *testing.T) {
		_, err := ParseAttributes(attrBytes(0x1234, 1, 1, []byte{0}))
		assert.True(t, errors.Is(err, ErrBadMagic))
		var fe *FormatError
		require.True(t, errors.As(err, &fe))
		assert.Equal(t, int(AttributesMagic), fe.Expected)
		assert.Equal(t, 0x1234, fe.Actual)
	})

	t.Run("обрезанный заголовок", func(t *testing.T) {
		_, err := ParseAttributes([]byte{0x4A, 0x0A, 1})
		assert.True(t, errors.Is(err, ErrTruncated))
		_, err = ParseAttributes([]byte{0x4A})
		assert.True(t, errors.Is(err, ErrTruncated))
	})

	t.Run("обрезанные данные", func(t *testing.T) {
		grid, err := ParseAttributes(attrBytes(AttributesMagic, 4, 4, make([]byte, 10)))
		assert.Nil(t, grid, "частичная сетка не возвращается")
		assert.True(t, errors.Is(err, ErrTruncated))
		var fe *FormatError
		require.True(t, errors.As(err, &fe))
		assert.Equal(t, 22, fe.Expected)
		assert.Equal(t, 16, fe.Actual)
	})
}
