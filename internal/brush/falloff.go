package brush

import "math"

// Falloff профиль ослабления кисти от центра к краю
type Falloff string

const (
	FalloffConstant Falloff = "constant"
	FalloffLinear   Falloff = "linear"
	FalloffSmooth   Falloff = "smooth"
)

// Weight вес кисти на расстоянии distance от центра при радиусе radius.
// Неизвестный профиль считается плавным (smoothstep).
func Weight(distance, radius float64, falloff Falloff) float64 {
	if radius <= 0 {
		return 1
	}
	t := math.Min(1, distance/radius)
	switch falloff {
	case FalloffConstant:
		return 1
	case FalloffLinear:
		return 1 - t
	default:
		return 1 - t*t*(3-2*t)
	}
}

// Brush параметры кисти
type Brush struct {
	Size     float64 `json:"size" yaml:"size"`         // диаметр в единицах редактора
	Strength float64 `json:"strength" yaml:"strength"` // множитель силы, обычно 0..1
	Falloff  Falloff `json:"falloff" yaml:"falloff"`
}

// DefaultBrush кисть редактора по умолчанию
func DefaultBrush() Brush {
	return Brush{Size: 24, Strength: 0.45, Falloff: FalloffSmooth}
}

// DefaultIntensity шаг подъёма/опускания рельефа за мазок
const DefaultIntensity = 120.0

// footprint вызывает fn для каждой ячейки сетки w x h внутри круга радиуса radius
// вокруг (cx, cy), передавая расстояние до центра
func footprint(cx, cy, radius, w, h int, fn func(x, y int, distance float64)) {
	minX := max(0, cx-radius)
	maxX := min(w-1, cx+radius)
	minY := max(0, cy-radius)
	maxY := min(h-1, cy+radius)
	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			dx := float64(x - cx)
			dy := float64(y - cy)
			d := math.Sqrt(dx*dx + dy*dy)
			if d > float64(radius) {
				continue
			}
			fn(x, y, d)
		}
	}
}
