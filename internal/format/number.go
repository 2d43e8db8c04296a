package format

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// ParseNumber разбирает число по правилам Number() из JavaScript, как это делают
// инструменты, создающие текстовые файлы карт: пустая строка даёт 0, мусор даёт NaN,
// целые 0x/0o/0b принимаются, переполнение даёт бесконечность.
func ParseNumber(s string) float64 {
	s = strings.TrimSpace(s)
	switch s {
	case "":
		return 0
	case "Infinity", "+Infinity":
		return math.Inf(1)
	case "-Infinity":
		return math.Inf(-1)
	}

	if len(s) > 2 && s[0] == '0' {
		base := 0
		switch s[1] {
		case 'x', 'X':
			base = 16
		case 'o', 'O':
			base = 8
		case 'b', 'B':
			base = 2
		}
		if base != 0 {
			if strings.ContainsRune(s[2:], '_') {
				return math.NaN()
			}
			v, err := strconv.ParseUint(s[2:], base, 64)
			if err != nil {
				return math.NaN()
			}
			return float64(v)
		}
	}

	// strconv допускает inf/nan, шестнадцатеричные дроби и подчёркивания
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && c != '.' && c != '+' && c != '-' && c != 'e' && c != 'E' {
			return math.NaN()
		}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return v
		}
		return math.NaN()
	}
	return v
}

// FormatNumber печатает число так же, как String(number) в JavaScript
func FormatNumber(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	case v == 0:
		return "0"
	}

	abs := math.Abs(v)
	if abs >= 1e21 || abs < 1e-6 {
		s := strconv.FormatFloat(v, 'e', -1, 64)
		// Go печатает не меньше двух цифр порядка: 1e-07 -> 1e-7
		mant, exp, _ := strings.Cut(s, "e")
		sign := exp[:1]
		digits := strings.TrimLeft(exp[1:], "0")
		if digits == "" {
			digits = "0"
		}
		return mant + "e" + sign + digits
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func nan() float64 {
	return math.NaN()
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// toUint32 переводит число в CRC: допускаются целые из диапазона uint32 и
// отрицательные int32, записанные как знаковые.
func toUint32(v float64) (uint32, bool) {
	if !isFinite(v) || v != math.Trunc(v) {
		return 0, false
	}
	if v >= 0 && v <= math.MaxUint32 {
		return uint32(v), true
	}
	if v < 0 && v >= math.MinInt32 {
		return uint32(int32(v)), true
	}
	return 0, false
}
