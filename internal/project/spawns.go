package project

import (
	"github.com/annel0/map-editor/internal/world"
	"github.com/google/uuid"
)

// SetSpawns заменяет список спавнов категории
func (p *Project) SetSpawns(category world.SpawnCategory, entries []world.SpawnEntry) *Project {
	next := p.clone()
	list := make([]world.SpawnEntry, len(entries))
	copy(list, entries)
	next.Spawns = p.Spawns.With(category, list)
	next.touch()
	return next
}

// AddSpawn добавляет запись в конец категории. Пустой ID заменяется новым UUID.
func (p *Project) AddSpawn(category world.SpawnCategory, entry world.SpawnEntry) *Project {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	current := p.Spawns.Get(category)
	list := make([]world.SpawnEntry, 0, len(current)+1)
	list = append(list, current...)
	list = append(list, entry)

	next := p.clone()
	next.Spawns = p.Spawns.With(category, list)
	next.touch()
	return next
}

// UpdateSpawn применяет патч к записи. Если записи нет, проект не меняется.
func (p *Project) UpdateSpawn(category world.SpawnCategory, id string, patch world.SpawnPatch) *Project {
	current := p.Spawns.Get(category)
	idx := spawnIndex(current, id)
	if idx < 0 {
		return p
	}
	list := make([]world.SpawnEntry, len(current))
	copy(list, current)
	list[idx] = patch.Apply(list[idx])

	next := p.clone()
	next.Spawns = p.Spawns.With(category, list)
	next.touch()
	return next
}

// RemoveSpawn удаляет запись. Если записи нет, проект не меняется.
func (p *Project) RemoveSpawn(category world.SpawnCategory, id string) *Project {
	current := p.Spawns.Get(category)
	idx := spawnIndex(current, id)
	if idx < 0 {
		return p
	}
	list := make([]world.SpawnEntry, 0, len(current)-1)
	list = append(list, current[:idx]...)
	list = append(list, current[idx+1:]...)

	next := p.clone()
	next.Spawns = p.Spawns.With(category, list)
	next.touch()
	return next
}

func spawnIndex(entries []world.SpawnEntry, id string) int {
	for i, e := range entries {
		if e.ID == id {
			return i
		}
	}
	return -1
}
