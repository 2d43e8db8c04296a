package world

import (
	"math"

	"github.com/annel0/map-editor/internal/vec"
)

// GameUnitScale число игровых единиц в одной единице редактора
const GameUnitScale = 100.0

// EditorToGame переводит единицы редактора в игровые
func EditorToGame(v float64) float64 {
	return v * GameUnitScale
}

// GameToEditor переводит игровые единицы в единицы редактора
func GameToEditor(v float64) float64 {
	return v / GameUnitScale
}

// GridScale размер ячейки карты высот в единицах редактора
func GridScale(cellScale float64) float64 {
	return cellScale / GameUnitScale
}

// ChunkWorldSize сторона чанка в единицах редактора
func ChunkWorldSize(heightmapSize int, cellScale float64) float64 {
	return float64(heightmapSize-1) * GridScale(cellScale)
}

// WorldSize размеры карты в единицах редактора
type WorldSize struct {
	ChunkWorldSize float64 `json:"chunkWorldSize"`
	Width          float64 `json:"width"`
	Height         float64 `json:"height"`
}

// MapWorldSize считает размеры всей карты по настройкам и размеру карты высот
func MapWorldSize(s MapSettings, heightmapSize int) WorldSize {
	cws := ChunkWorldSize(heightmapSize, s.CellScale)
	return WorldSize{
		ChunkWorldSize: cws,
		Width:          float64(s.MapSize.Width) * cws,
		Height:         float64(s.MapSize.Height) * cws,
	}
}

// BilinearSample возвращает высоту в дробной точке (x, y) сетки.
// Координаты зажимаются в [0, size-1], отсутствующие ячейки дают 0.
func BilinearSample(h *Heightmap, x, y float64) float64 {
	if h == nil || h.Size <= 0 {
		return 0
	}
	limit := float64(h.Size - 1)
	clamp := func(v float64) float64 {
		return math.Max(0, math.Min(limit, v))
	}
	cx, cy := clamp(x), clamp(y)
	x0 := int(math.Floor(cx))
	y0 := int(math.Floor(cy))
	x1 := min(h.Size-1, x0+1)
	y1 := min(h.Size-1, y0+1)
	tx := cx - float64(x0)
	ty := cy - float64(y0)

	h00 := h.At(x0, y0)
	h10 := h.At(x1, y0)
	h01 := h.At(x0, y1)
	h11 := h.At(x1, y1)
	hx0 := h00 + (h10-h00)*tx
	hx1 := h01 + (h11-h01)*tx
	return hx0 + (hx1-hx0)*ty
}

// ChunkHit результат попадания точки мира в чанк
type ChunkHit struct {
	Key   ChunkKey      `json:"key"`
	Grid  vec.Vec2      `json:"grid"`
	Local vec.Vec2Float `json:"local"` // смещение от угла чанка в единицах редактора
}

// LocateChunk находит чанк под точкой мира (worldX, worldZ). Центр карты лежит в
// начале координат. Точки за пределами карты дают ok=false.
func LocateChunk(s MapSettings, heightmapSize, digits int, worldX, worldZ float64) (ChunkHit, bool) {
	size := MapWorldSize(s, heightmapSize)
	if size.ChunkWorldSize <= 0 {
		return ChunkHit{}, false
	}
	local := vec.Vec2Float{X: worldX + size.Width/2, Y: worldZ + size.Height/2}
	grid := vec.Vec2Float{X: local.X / size.ChunkWorldSize, Y: local.Y / size.ChunkWorldSize}.Floor()
	if math.IsNaN(local.X) || math.IsNaN(local.Y) || !grid.InBounds(s.MapSize.Width, s.MapSize.Height) {
		return ChunkHit{}, false
	}
	origin := vec.FromVec2(grid).Mul(size.ChunkWorldSize)
	return ChunkHit{
		Key:   FormatChunkKey(grid.X, grid.Y, digits),
		Grid:  grid,
		Local: local.Sub(origin),
	}, true
}

// ChunkCenter возвращает центр чанка в мировых координатах редактора
func ChunkCenter(s MapSettings, heightmapSize int, grid vec.Vec2) vec.Vec2Float {
	size := MapWorldSize(s, heightmapSize)
	return vec.Vec2Float{
		X: -size.Width/2 + size.ChunkWorldSize/2 + float64(grid.X)*size.ChunkWorldSize,
		Y: -size.Height/2 + size.ChunkWorldSize/2 + float64(grid.Y)*size.ChunkWorldSize,
	}
}

// HeightCell ближайшая ячейка карты высот для локальной точки чанка
func HeightCell(local vec.Vec2Float, gridScale float64) vec.Vec2 {
	return vec.Vec2{X: int(roundHalfUp(local.X / gridScale)), Y: int(roundHalfUp(local.Y / gridScale))}
}

// AttributeCellSize сторона ячейки атрибутов в единицах редактора
func AttributeCellSize(chunkWorldSize float64, attrWidth int) float64 {
	if attrWidth <= 1 {
		return chunkWorldSize
	}
	return chunkWorldSize / float64(attrWidth-1)
}

// AttributeCell ближайшая ячейка сетки атрибутов для локальной точки чанка
func AttributeCell(local vec.Vec2Float, cellSize float64) vec.Vec2 {
	return vec.Vec2{X: int(roundHalfUp(local.X / cellSize)), Y: int(roundHalfUp(local.Y / cellSize))}
}

// roundHalfUp округляет как Math.round: половины в сторону +бесконечности
func roundHalfUp(v float64) float64 {
	return math.Floor(v + 0.5)
}
