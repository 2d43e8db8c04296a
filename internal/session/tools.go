package session

import (
	"github.com/annel0/map-editor/internal/assets"
	"github.com/annel0/map-editor/internal/brush"
	"github.com/annel0/map-editor/internal/eventbus"
	"github.com/annel0/map-editor/internal/project"
	"github.com/annel0/map-editor/internal/vec"
	"github.com/annel0/map-editor/internal/world"
	"github.com/google/uuid"
)

// DefaultHeightBias смещение по высоте для новых объектов
const DefaultHeightBias = -95.0

// TerrainStroke параметры мазка кисти рельефа
type TerrainStroke struct {
	Brush     brush.Brush       `json:"brush"`
	Mode      brush.TerrainMode `json:"mode"`
	Intensity float64           `json:"intensity"`
}

// AttributeStroke параметры мазка кисти атрибутов
type AttributeStroke struct {
	Brush brush.Brush         `json:"brush"`
	Mode  brush.AttributeMode `json:"mode"`
	Flag  world.AttrFlag      `json:"flag"`
}

// Placement параметры размещения объекта, углы в градусах
type Placement struct {
	Yaw        float64 `json:"yaw"`
	Pitch      float64 `json:"pitch"`
	Roll       float64 `json:"roll"`
	HeightBias float64 `json:"heightBias"`
	RandomYaw  bool    `json:"randomYaw"`
}

// DefaultPlacement параметры размещения по умолчанию
func DefaultPlacement() Placement {
	return Placement{HeightBias: DefaultHeightBias}
}

// Transform новое положение объекта в мировых координатах редактора.
// WorldY измерена в сцене с преувеличением высот Exaggeration.
type Transform struct {
	WorldX       float64        `json:"worldX"`
	WorldY       float64        `json:"worldY"`
	WorldZ       float64        `json:"worldZ"`
	Exaggeration float64        `json:"exaggeration"`
	Rotation     vec.Vec3Float  `json:"rotation"`
	Scale        *vec.Vec3Float `json:"scale,omitempty"`
}

// StrokeResult куда попал мазок
type StrokeResult struct {
	Key  world.ChunkKey `json:"key"`
	Cell vec.Vec2       `json:"cell"`
}

// chunkHeightmap карта высот чанка или плоская карта базового размера
func chunkHeightmap(p *project.Project, key world.ChunkKey) *world.Heightmap {
	if h := p.Chunk(key).Heightmap; h != nil {
		return h
	}
	return world.NewHeightmap(p.BaseHeightmapSize())
}

// PaintTerrain применяет кисть рельефа в точке мира (worldX, worldZ).
// Точка вне карты или вне сетки чанка ничего не меняет и даёт ok=false.
func (s *Session) PaintTerrain(worldX, worldZ float64, stroke TerrainStroke) (StrokeResult, bool) {
	var result StrokeResult
	_, ok := s.apply(Change{Type: eventbus.TypeChunkHeightmap}, func(p *project.Project) *project.Project {
		hit, ok := p.LocateChunk(worldX, worldZ)
		if !ok {
			return p
		}
		target := chunkHeightmap(p, hit.Key)
		gridScale := world.GridScale(p.Settings.CellScale)
		cell := world.HeightCell(hit.Local, gridScale)
		if !cell.InBounds(target.Size, target.Size) {
			return p
		}
		result = StrokeResult{Key: hit.Key, Cell: cell}
		next := brush.ApplyTerrain(target, cell.X, cell.Y, stroke.Brush, stroke.Mode, stroke.Intensity, gridScale)
		return p.SetChunkHeightmap(hit.Key, next)
	}, func(c *Change) { c.ChunkKey = result.Key; c.Payload = result })
	if ok {
		strokesTotal.WithLabelValues("terrain").Inc()
	}
	return result, ok
}

// PaintAttributes ставит или снимает флаг атрибутов в точке мира.
// Чанк без сетки атрибутов получает пустую сетку размера SetAttributeSize.
func (s *Session) PaintAttributes(worldX, worldZ float64, stroke AttributeStroke) (StrokeResult, bool) {
	var result StrokeResult
	_, ok := s.apply(Change{Type: eventbus.TypeChunkAttributes}, func(p *project.Project) *project.Project {
		hit, ok := p.LocateChunk(worldX, worldZ)
		if !ok {
			return p
		}
		grid := p.Chunk(hit.Key).Attributes
		if grid == nil {
			grid = world.NewAttributeGrid(s.attrSize, s.attrSize)
		}
		cellSize := world.AttributeCellSize(p.WorldSize().ChunkWorldSize, grid.Width)
		cell := world.AttributeCell(hit.Local, cellSize)
		if !cell.InBounds(grid.Width, grid.Height) {
			return p
		}
		result = StrokeResult{Key: hit.Key, Cell: cell}
		radius := brush.AttributeRadius(stroke.Brush, cellSize)
		next := brush.ApplyAttributes(grid, cell.X, cell.Y, stroke.Brush, stroke.Mode, stroke.Flag, radius)
		return p.SetChunkAttributes(hit.Key, next)
	}, func(c *Change) { c.ChunkKey = result.Key; c.Payload = result })
	if ok {
		strokesTotal.WithLabelValues("attributes").Inc()
	}
	return result, ok
}

// PlaceObject размещает объект каталога в точке мира. Высота берётся
// билинейно из карты высот чанка и переводится в игровые единицы.
func (s *Session) PlaceObject(worldX, worldZ float64, asset assets.Asset, placement Placement) (world.ChunkKey, world.AreaObject, bool) {
	var (
		key world.ChunkKey
		obj world.AreaObject
	)
	_, ok := s.apply(Change{Type: eventbus.TypeChunkObjects}, func(p *project.Project) *project.Project {
		hit, ok := p.LocateChunk(worldX, worldZ)
		if !ok {
			return p
		}
		yaw := placement.Yaw
		if placement.RandomYaw {
			yaw = s.random() * 360
		}
		key = hit.Key
		obj = world.AreaObject{
			ID:    uuid.NewString(),
			CRC32: asset.CRC32,
			Position: vec.Vec3Float{
				X: world.EditorToGame(worldX),
				Y: world.EditorToGame(worldZ),
				Z: groundHeight(p, hit),
			},
			Rotation:   vec.Vec3Float{X: yaw, Y: placement.Pitch, Z: placement.Roll},
			HeightBias: placement.HeightBias,
			Label:      asset.Label,
			GR2Path:    asset.GR2Path,
		}
		return p.AddChunkObject(key, obj)
	}, func(c *Change) { c.ChunkKey = key; c.Payload = map[string]string{"added": obj.ID} })
	if ok {
		objectsPlacedTotal.Inc()
	}
	return key, obj, ok
}

// TransformObject переносит объект id чанка key в новое положение. Смещение
// по высоте пересчитывается от рельефа под новой точкой; при пересечении
// границы объект переезжает в другой чанк. Возвращает чанк, где объект оказался.
func (s *Session) TransformObject(key world.ChunkKey, id string, t Transform) (world.ChunkKey, bool) {
	var dest world.ChunkKey
	_, ok := s.apply(Change{Type: eventbus.TypeChunkObjects}, func(p *project.Project) *project.Project {
		chunk := p.Chunk(key)
		idx := chunk.ObjectIndex(id)
		if idx < 0 {
			return p
		}
		hit, ok := p.LocateChunk(t.WorldX, t.WorldZ)
		if !ok {
			return p
		}
		exaggeration := t.Exaggeration
		if exaggeration <= 0 {
			exaggeration = 1
		}
		base := groundHeight(p, hit)
		bias := world.EditorToGame(t.WorldY/exaggeration) - base
		position := vec.Vec3Float{X: world.EditorToGame(t.WorldX), Y: world.EditorToGame(t.WorldZ), Z: base}
		rotation := t.Rotation
		patch := world.AreaObjectPatch{
			Position:   &position,
			Rotation:   &rotation,
			HeightBias: &bias,
			Scale:      t.Scale,
		}
		dest = hit.Key
		if hit.Key == key {
			return p.UpdateChunkObject(key, id, patch)
		}
		return p.MoveChunkObject(key, hit.Key, id, patch.Apply(chunk.Objects[idx]))
	}, func(c *Change) {
		c.ChunkKey = dest
		c.Payload = map[string]string{"moved": id, "from": string(key), "to": string(dest)}
	})
	return dest, ok
}

// groundHeight высота рельефа под точкой попадания в игровых единицах
func groundHeight(p *project.Project, hit world.ChunkHit) float64 {
	gridScale := world.GridScale(p.Settings.CellScale)
	h := chunkHeightmap(p, hit.Key)
	return world.BilinearSample(h, hit.Local.X/gridScale, hit.Local.Y/gridScale) * p.Settings.HeightScale
}

// GenerateTerrain заполняет карту высот чанка шумом Перлина с сидом seed.
// Изменение попадает в историю чанка, как и мазок кисти.
func (s *Session) GenerateTerrain(key world.ChunkKey, seed int64) bool {
	_, ok := s.apply(Change{Type: eventbus.TypeChunkHeightmap, ChunkKey: key}, func(p *project.Project) *project.Project {
		grid, ok := key.Coords(p.CoordinateDigits)
		if !ok {
			return p
		}
		size := p.BaseHeightmapSize()
		if h := p.Chunk(key).Heightmap; h != nil {
			size = h.Size
		}
		return p.SetChunkHeightmap(key, world.NewTerrainGenerator(seed).GenerateHeightmap(grid, size))
	}, nil)
	if ok {
		s.logger.Info("⛰️ Сгенерирован рельеф чанка %s (seed=%d)", key, seed)
	}
	return ok
}

// Undo отменяет последнее изменение карты высот чанка
func (s *Session) Undo(key world.ChunkKey) bool {
	_, ok := s.apply(Change{Type: eventbus.TypeChunkHeightmap, ChunkKey: key, Payload: map[string]string{"history": "undo"}},
		func(p *project.Project) *project.Project { return p.UndoHeightmap(key) }, nil)
	if ok {
		historyStepsTotal.WithLabelValues("undo").Inc()
	}
	return ok
}

// Redo повторяет отменённое изменение карты высот чанка
func (s *Session) Redo(key world.ChunkKey) bool {
	_, ok := s.apply(Change{Type: eventbus.TypeChunkHeightmap, ChunkKey: key, Payload: map[string]string{"history": "redo"}},
		func(p *project.Project) *project.Project { return p.RedoHeightmap(key) }, nil)
	if ok {
		historyStepsTotal.WithLabelValues("redo").Inc()
	}
	return ok
}
