package api

import (
	"encoding/json"
	"math"

	"github.com/annel0/map-editor/internal/project"
	"github.com/annel0/map-editor/internal/vec"
	"github.com/annel0/map-editor/internal/world"
)

// num число в ответе API. NaN и бесконечности (их дают нестрогие парсеры
// текстовых форматов) выводятся как null.
type num float64

func (n num) MarshalJSON() ([]byte, error) {
	f := float64(n)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return []byte("null"), nil
	}
	return json.Marshal(f)
}

type vec2DTO struct {
	X num `json:"x"`
	Y num `json:"y"`
}

type vec3DTO struct {
	X num `json:"x"`
	Y num `json:"y"`
	Z num `json:"z"`
}

func newVec2(v vec.Vec2Float) vec2DTO { return vec2DTO{X: num(v.X), Y: num(v.Y)} }

func newVec3(v vec.Vec3Float) vec3DTO { return vec3DTO{X: num(v.X), Y: num(v.Y), Z: num(v.Z)} }

type objectDTO struct {
	ID         string   `json:"id"`
	CRC32      uint32   `json:"crc32"`
	Position   vec3DTO  `json:"position"`
	Rotation   vec3DTO  `json:"rotation"`
	HeightBias num      `json:"heightBias"`
	Scale      *vec3DTO `json:"scale,omitempty"`
	Label      string   `json:"label,omitempty"`
	GR2Path    string   `json:"gr2Path,omitempty"`
}

func newObjects(objects []world.AreaObject) []objectDTO {
	out := make([]objectDTO, 0, len(objects))
	for _, o := range objects {
		dto := objectDTO{
			ID:         o.ID,
			CRC32:      o.CRC32,
			Position:   newVec3(o.Position),
			Rotation:   newVec3(o.Rotation),
			HeightBias: num(o.HeightBias),
			Label:      o.Label,
			GR2Path:    o.GR2Path,
		}
		if o.Scale != nil {
			s := newVec3(*o.Scale)
			dto.Scale = &s
		}
		out = append(out, dto)
	}
	return out
}

type spawnDTO struct {
	ID          string          `json:"id"`
	Type        world.SpawnType `json:"type"`
	Vnum        string          `json:"vnum"`
	Position    vec3DTO         `json:"position"`
	SpawnArea   vec2DTO         `json:"spawnArea"`
	Direction   num             `json:"direction"`
	RespawnTime string          `json:"respawnTime"`
	Probability num             `json:"probability"`
	Count       num             `json:"count"`
}

func newSpawns(entries []world.SpawnEntry) []spawnDTO {
	out := make([]spawnDTO, 0, len(entries))
	for _, e := range entries {
		out = append(out, spawnDTO{
			ID:          e.ID,
			Type:        e.Type,
			Vnum:        e.Vnum,
			Position:    newVec3(e.Position),
			SpawnArea:   newVec2(e.SpawnArea),
			Direction:   num(e.Direction),
			RespawnTime: e.RespawnTime,
			Probability: num(e.Probability),
			Count:       num(e.Count),
		})
	}
	return out
}

type settingsDTO struct {
	CellScale    num           `json:"cellScale"`
	HeightScale  num           `json:"heightScale"`
	ViewRadius   num           `json:"viewRadius"`
	MapSize      world.MapSize `json:"mapSize"`
	BasePosition vec2DTO       `json:"basePosition"`
	TextureSet   string        `json:"textureSet"`
	Environment  string        `json:"environment"`
}

func newSettings(s world.MapSettings) settingsDTO {
	return settingsDTO{
		CellScale:    num(s.CellScale),
		HeightScale:  num(s.HeightScale),
		ViewRadius:   num(s.ViewRadius),
		MapSize:      s.MapSize,
		BasePosition: vec2DTO{X: num(s.BasePosition.X), Y: num(s.BasePosition.Y)},
		TextureSet:   s.TextureSet,
		Environment:  s.Environment,
	}
}

type chunkDTO struct {
	Key        world.ChunkKey     `json:"key"`
	Grid       *vec.Vec2          `json:"grid,omitempty"`
	Heightmap  *world.HeightStats `json:"heightmap,omitempty"`
	HeightSize int                `json:"heightmapSize,omitempty"`
	Attributes map[string]int     `json:"attributes,omitempty"`
	Objects    int                `json:"objects"`
	UndoDepth  int                `json:"undoDepth"`
	RedoDepth  int                `json:"redoDepth"`
}

func newChunk(p *project.Project, key world.ChunkKey) chunkDTO {
	c := p.Chunk(key)
	dto := chunkDTO{
		Key:       key,
		Objects:   len(c.Objects),
		UndoDepth: p.UndoDepth(key),
		RedoDepth: p.RedoDepth(key),
	}
	if grid, ok := key.Coords(p.CoordinateDigits); ok {
		dto.Grid = &grid
	}
	if c.Heightmap != nil {
		stats := c.Heightmap.Stats()
		dto.Heightmap = &stats
		dto.HeightSize = c.Heightmap.Size
	}
	if c.Attributes != nil {
		dto.Attributes = make(map[string]int, len(world.AllAttrFlags))
		for _, flag := range world.AllAttrFlags {
			dto.Attributes[flag.String()] = c.Attributes.CountFlag(flag)
		}
	}
	return dto
}

type worldDTO struct {
	ChunkWorldSize num `json:"chunkWorldSize"`
	Width          num `json:"width"`
	Height         num `json:"height"`
}

type projectDTO struct {
	Name             string           `json:"name"`
	Version          string           `json:"version"`
	CoordinateDigits int              `json:"coordinateDigits"`
	Revision         uint64           `json:"revision"`
	Metadata         project.Metadata `json:"metadata"`
	Settings         settingsDTO      `json:"settings"`
	World            worldDTO         `json:"world"`
	Chunks           []world.ChunkKey `json:"chunks"`
	Spawns           map[string]int   `json:"spawns"`
}

func newProject(p *project.Project) projectDTO {
	ws := p.WorldSize()
	spawns := make(map[string]int, len(world.AllCategories))
	for _, c := range world.AllCategories {
		spawns[string(c)] = len(p.Spawns.Get(c))
	}
	return projectDTO{
		Name:             p.Name,
		Version:          p.Version,
		CoordinateDigits: p.CoordinateDigits,
		Revision:         p.Revision,
		Metadata:         p.Metadata,
		Settings:         newSettings(p.Settings),
		World:            worldDTO{ChunkWorldSize: num(ws.ChunkWorldSize), Width: num(ws.Width), Height: num(ws.Height)},
		Chunks:           p.ChunkKeys(),
		Spawns:           spawns,
	}
}
