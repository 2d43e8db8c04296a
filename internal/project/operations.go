package project

import (
	"github.com/annel0/map-editor/internal/world"
)

// UpdateSettings применяет частичное обновление настроек
func (p *Project) UpdateSettings(patch world.SettingsPatch) *Project {
	next := p.clone()
	next.Settings = patch.Apply(p.Settings)
	next.touch()
	return next
}

// ReplaceSettings заменяет настройки целиком (например, после импорта Setting.txt)
func (p *Project) ReplaceSettings(s world.MapSettings) *Project {
	next := p.clone()
	next.Settings = s
	next.touch()
	return next
}

// SetChunkHeightmap заменяет карту высот чанка копией h. Предыдущая карта (если была)
// попадает в стек отмены этого чанка, стек повтора очищается.
func (p *Project) SetChunkHeightmap(key world.ChunkKey, h *world.Heightmap) *Project {
	next := p.clone()
	chunk := p.chunks[key]
	if chunk.Heightmap != nil {
		next.history[key] = p.history[key].record(chunk.Heightmap)
	} else if hist, ok := p.history[key]; ok {
		next.history[key] = History{undo: hist.undo}
	}
	chunk.Heightmap = h.Clone()
	next.putChunk(key, chunk)
	next.touch()
	return next
}

// SetChunkAttributes заменяет сетку атрибутов чанка копией g
func (p *Project) SetChunkAttributes(key world.ChunkKey, g *world.AttributeGrid) *Project {
	next := p.clone()
	chunk := p.chunks[key]
	chunk.Attributes = g.Clone()
	next.putChunk(key, chunk)
	next.touch()
	return next
}

// SetChunkObjects заменяет список объектов чанка
func (p *Project) SetChunkObjects(key world.ChunkKey, objects []world.AreaObject) *Project {
	next := p.clone()
	chunk := p.chunks[key]
	chunk.Objects = world.CloneObjects(objects)
	next.putChunk(key, chunk)
	next.touch()
	return next
}

// AddChunkObject добавляет объект в конец списка чанка
func (p *Project) AddChunkObject(key world.ChunkKey, obj world.AreaObject) *Project {
	next := p.clone()
	chunk := p.chunks[key]
	objects := world.CloneObjects(chunk.Objects)
	chunk.Objects = append(objects, world.CloneObjects([]world.AreaObject{obj})...)
	next.putChunk(key, chunk)
	next.touch()
	return next
}

// RemoveChunkObject удаляет объект по идентификатору. Если объекта нет, проект не меняется.
func (p *Project) RemoveChunkObject(key world.ChunkKey, id string) *Project {
	chunk := p.chunks[key]
	idx := chunk.ObjectIndex(id)
	if idx < 0 {
		return p
	}
	next := p.clone()
	chunk.Objects = removeAt(chunk.Objects, idx)
	next.putChunk(key, chunk)
	next.touch()
	return next
}

// UpdateChunkObject применяет патч к объекту. Если объекта нет, проект не меняется.
func (p *Project) UpdateChunkObject(key world.ChunkKey, id string, patch world.AreaObjectPatch) *Project {
	chunk := p.chunks[key]
	idx := chunk.ObjectIndex(id)
	if idx < 0 {
		return p
	}
	next := p.clone()
	objects := world.CloneObjects(chunk.Objects)
	objects[idx] = patch.Apply(objects[idx])
	chunk.Objects = objects
	next.putChunk(key, chunk)
	next.touch()
	return next
}

// MoveChunkObject убирает объект id из чанка from и добавляет obj в конец чанка to.
// Если в from нет такого объекта, проект не меняется.
func (p *Project) MoveChunkObject(from, to world.ChunkKey, id string, obj world.AreaObject) *Project {
	src := p.chunks[from]
	idx := src.ObjectIndex(id)
	if idx < 0 {
		return p
	}
	next := p.clone()
	src.Objects = removeAt(src.Objects, idx)
	next.putChunk(from, src)

	dst := next.chunks[to]
	dst.Objects = append(world.CloneObjects(dst.Objects), world.CloneObjects([]world.AreaObject{obj})...)
	next.putChunk(to, dst)
	next.touch()
	return next
}

// UndoHeightmap возвращает карту высот чанка на шаг назад.
// Нет истории или нет текущей карты: проект не меняется.
func (p *Project) UndoHeightmap(key world.ChunkKey) *Project {
	chunk := p.chunks[key]
	hist, restored, ok := p.history[key].undoStep(chunk.Heightmap)
	if !ok {
		return p
	}
	return p.restore(key, chunk, hist, restored)
}

// RedoHeightmap повторяет отменённое изменение карты высот чанка
func (p *Project) RedoHeightmap(key world.ChunkKey) *Project {
	chunk := p.chunks[key]
	hist, restored, ok := p.history[key].redoStep(chunk.Heightmap)
	if !ok {
		return p
	}
	return p.restore(key, chunk, hist, restored)
}

func (p *Project) restore(key world.ChunkKey, chunk world.Chunk, hist History, h *world.Heightmap) *Project {
	next := p.clone()
	next.history[key] = hist
	chunk.Heightmap = h
	next.putChunk(key, chunk)
	next.touch()
	return next
}

// ImportChunk записывает слои чанка, загруженные из файлов: заданные (не nil) слои
// заменяют текущие копиями, история карты высот чанка сбрасывается.
func (p *Project) ImportChunk(key world.ChunkKey, c world.Chunk) *Project {
	if c.IsEmpty() {
		return p
	}
	next := p.clone()
	chunk := p.chunks[key]
	if c.Heightmap != nil {
		chunk.Heightmap = c.Heightmap.Clone()
		delete(next.history, key)
	}
	if c.Attributes != nil {
		chunk.Attributes = c.Attributes.Clone()
	}
	if c.Objects != nil {
		chunk.Objects = world.CloneObjects(c.Objects)
	}
	next.putChunk(key, chunk)
	next.touch()
	return next
}

// RemoveChunk удаляет чанк вместе с историей
func (p *Project) RemoveChunk(key world.ChunkKey) *Project {
	if _, ok := p.chunks[key]; !ok {
		return p
	}
	next := p.clone()
	delete(next.chunks, key)
	delete(next.history, key)
	next.touch()
	return next
}

func removeAt(objects []world.AreaObject, idx int) []world.AreaObject {
	out := make([]world.AreaObject, 0, len(objects)-1)
	out = append(out, objects[:idx]...)
	return append(out, objects[idx+1:]...)
}
