package vec

import "math"

// Vec3Float представляет трехмерный вектор с плавающими координатами.
// Используется для позиций, поворотов (в градусах) и масштаба объектов.
type Vec3Float struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Vec3One единичный масштаб
var Vec3One = Vec3Float{X: 1, Y: 1, Z: 1}

// XY отбрасывает координату Z
func (v Vec3Float) XY() Vec2Float {
	return Vec2Float{X: v.X, Y: v.Y}
}

// Add складывает два вектора
func (v Vec3Float) Add(other Vec3Float) Vec3Float {
	return Vec3Float{X: v.X + other.X, Y: v.Y + other.Y, Z: v.Z + other.Z}
}

// Mul умножает вектор на скаляр
func (v Vec3Float) Mul(scalar float64) Vec3Float {
	return Vec3Float{X: v.X * scalar, Y: v.Y * scalar, Z: v.Z * scalar}
}

// Equals сравнивает векторы покомпонентно; NaN равен NaN
func (v Vec3Float) Equals(other Vec3Float) bool {
	return sameFloat(v.X, other.X) && sameFloat(v.Y, other.Y) && sameFloat(v.Z, other.Z)
}

func sameFloat(a, b float64) bool {
	if math.IsNaN(a) && math.IsNaN(b) {
		return true
	}
	return a == b
}
