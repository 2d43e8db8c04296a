package project

import "github.com/annel0/map-editor/internal/world"

// HistoryLimit максимальная глубина стека отмены одного чанка
const HistoryLimit = 50

// History стеки отмены и повтора карты высот одного чанка, новые снимки первыми.
// Значение неизменяемо: каждая операция возвращает новую историю.
type History struct {
	undo []*world.Heightmap
	redo []*world.Heightmap
}

// UndoDepth число доступных шагов отмены
func (h History) UndoDepth() int { return len(h.undo) }

// RedoDepth число доступных шагов повтора
func (h History) RedoDepth() int { return len(h.redo) }

// record запоминает предыдущую карту высот перед изменением и сбрасывает повтор
func (h History) record(prev *world.Heightmap) History {
	return History{undo: pushFront(h.undo, prev.Clone())}
}

// undoStep переносит верхний снимок отмены в текущее состояние, а current в стек повтора
func (h History) undoStep(current *world.Heightmap) (History, *world.Heightmap, bool) {
	if len(h.undo) == 0 || current == nil {
		return h, nil, false
	}
	restored := h.undo[0]
	return History{
		undo: h.undo[1:len(h.undo):len(h.undo)],
		redo: pushFront(h.redo, current.Clone()),
	}, restored, true
}

// redoStep симметричен undoStep
func (h History) redoStep(current *world.Heightmap) (History, *world.Heightmap, bool) {
	if len(h.redo) == 0 || current == nil {
		return h, nil, false
	}
	restored := h.redo[0]
	return History{
		undo: pushFront(h.undo, current.Clone()),
		redo: h.redo[1:len(h.redo):len(h.redo)],
	}, restored, true
}

func (h History) empty() bool {
	return len(h.undo) == 0 && len(h.redo) == 0
}

// pushFront возвращает новый срез со снимком в начале; самые старые снимки сверх лимита отбрасываются
func pushFront(stack []*world.Heightmap, hm *world.Heightmap) []*world.Heightmap {
	n := min(len(stack), HistoryLimit-1)
	out := make([]*world.Heightmap, 0, n+1)
	out = append(out, hm)
	return append(out, stack[:n]...)
}
