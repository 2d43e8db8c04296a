package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCaseCRC32_KnownValues(t *testing.T) {
	assert.Equal(t, uint32(0xCBF43926), CaseCRC32("123456789"), "контрольное значение CRC-32")
	assert.Equal(t, uint32(0), CaseCRC32(""), "пустая строка должна давать 0")
}

func TestCaseCRC32_IgnoresCase(t *testing.T) {
	paths := []string{
		"d:/ymir work/tree/pine_01.gr2",
		"property/building/house.prb",
		"a.gr2",
	}
	for _, p := range paths {
		upper := ""
		for _, r := range p {
			if r >= 'a' && r <= 'z' {
				r -= 'a' - 'A'
			}
			upper += string(r)
		}
		assert.Equal(t, CaseCRC32(upper), CaseCRC32(p), "регистр не должен влиять на хэш: %s", p)
	}
}

func TestCaseCRC32_MasksToLowByte(t *testing.T) {
	// U+0141 (Ł) усекается до 0x41 ('A')
	assert.Equal(t, CaseCRC32("A"), CaseCRC32("\u0141"))
}

func TestNoise_RangeAndDeterminism(t *testing.T) {
	a := NewNoise(42)
	b := NewNoise(42)

	for i := 0; i < 50; i++ {
		x := float64(i) * 0.37
		y := float64(i) * 0.11
		v := a.Noise2D(x, y)
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 1.0)
		assert.Equal(t, v, b.Noise2D(x, y), "одинаковый сид должен давать одинаковый шум")
	}
	assert.Equal(t, int64(42), a.Seed())
}
