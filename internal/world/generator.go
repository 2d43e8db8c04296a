package world

import (
	"math"

	"github.com/annel0/map-editor/internal/util"
	"github.com/annel0/map-editor/internal/vec"
)

// TerrainGenerator заполняет карты высот шумом Перлина.
// Соседние чанки делят граничную строку ячеек, поэтому рельеф непрерывен.
type TerrainGenerator struct {
	Seed       int64   // Сид для генерации шума
	NoiseScale float64 // Масштаб шума (меньше = более пологий рельеф)
	Amplitude  float64 // Перепад высот между 0 и 1 шума
	Base       float64 // Высота, соответствующая нулю шума
	noise      *util.Noise
}

// NewTerrainGenerator создаёт генератор рельефа
func NewTerrainGenerator(seed int64) *TerrainGenerator {
	return &TerrainGenerator{
		Seed:       seed,
		NoiseScale: 0.015, // Настройка сглаженности ландшафта
		Amplitude:  400,
		Base:       -100,
		noise:      util.NewNoise(seed),
	}
}

// GenerateHeightmap генерирует карту высот чанка по его координатам на сетке карты
func (g *TerrainGenerator) GenerateHeightmap(grid vec.Vec2, size int) *Heightmap {
	if g.noise == nil || g.noise.Seed() != g.Seed {
		g.noise = util.NewNoise(g.Seed)
	}
	h := NewHeightmap(size)
	if size <= 1 {
		return h
	}

	// Глобальные координаты ячейки: граница чанка принадлежит обоим соседям
	startX := grid.X * (size - 1)
	startY := grid.Y * (size - 1)

	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			nx := float64(startX+x) * g.NoiseScale
			ny := float64(startY+y) * g.NoiseScale
			v := g.noise.Noise2D(nx, ny)
			h.Set(x, y, math.Round(g.Base+v*g.Amplitude))
		}
	}
	return h
}
