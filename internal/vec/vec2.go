package vec

import "math"

// Vec2 представляет целочисленные 2D координаты: ячейку сетки или позицию чанка на карте.
type Vec2 struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Add складывает два вектора
func (v Vec2) Add(other Vec2) Vec2 {
	return Vec2{X: v.X + other.X, Y: v.Y + other.Y}
}

// Sub вычитает вектор
func (v Vec2) Sub(other Vec2) Vec2 {
	return Vec2{X: v.X - other.X, Y: v.Y - other.Y}
}

// InBounds проверяет, что точка лежит в прямоугольнике [0,w) x [0,h)
func (v Vec2) InBounds(w, h int) bool {
	return v.X >= 0 && v.Y >= 0 && v.X < w && v.Y < h
}

// DistanceTo вычисляет евклидово расстояние до другой точки
func (v Vec2) DistanceTo(other Vec2) float64 {
	dx := float64(v.X - other.X)
	dy := float64(v.Y - other.Y)
	return math.Sqrt(dx*dx + dy*dy)
}
