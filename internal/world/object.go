package world

import "github.com/annel0/map-editor/internal/vec"

// AreaObject экземпляр объекта, размещённого в чанке.
// Position хранится в игровых единицах (x, y на плоскости карты, z высота),
// Rotation в градусах.
type AreaObject struct {
	ID         string         `json:"id"`
	CRC32      uint32         `json:"crc32"`
	Position   vec.Vec3Float  `json:"position"`
	Rotation   vec.Vec3Float  `json:"rotation"`
	HeightBias float64        `json:"heightBias"`
	Scale      *vec.Vec3Float `json:"scale,omitempty"`
	Label      string         `json:"label,omitempty"`
	GR2Path    string         `json:"gr2Path,omitempty"`
}

// AreaObjectPatch частичное обновление объекта: nil поля не меняются
type AreaObjectPatch struct {
	CRC32      *uint32        `json:"crc32,omitempty"`
	Position   *vec.Vec3Float `json:"position,omitempty"`
	Rotation   *vec.Vec3Float `json:"rotation,omitempty"`
	HeightBias *float64       `json:"heightBias,omitempty"`
	Scale      *vec.Vec3Float `json:"scale,omitempty"`
	Label      *string        `json:"label,omitempty"`
	GR2Path    *string        `json:"gr2Path,omitempty"`
}

// Apply возвращает копию объекта с применённым патчем. ID не меняется.
func (p AreaObjectPatch) Apply(obj AreaObject) AreaObject {
	if p.CRC32 != nil {
		obj.CRC32 = *p.CRC32
	}
	if p.Position != nil {
		obj.Position = *p.Position
	}
	if p.Rotation != nil {
		obj.Rotation = *p.Rotation
	}
	if p.HeightBias != nil {
		obj.HeightBias = *p.HeightBias
	}
	if p.Scale != nil {
		s := *p.Scale
		obj.Scale = &s
	}
	if p.Label != nil {
		obj.Label = *p.Label
	}
	if p.GR2Path != nil {
		obj.GR2Path = *p.GR2Path
	}
	return obj
}

// CloneObjects копирует список объектов вместе с указателями на масштаб
func CloneObjects(objects []AreaObject) []AreaObject {
	if objects == nil {
		return nil
	}
	out := make([]AreaObject, len(objects))
	copy(out, objects)
	for i := range out {
		if out[i].Scale != nil {
			s := *out[i].Scale
			out[i].Scale = &s
		}
	}
	return out
}
