// Package session хранит текущий проект редактора и сериализует все его изменения.
package session

import (
	"context"
	"io"
	"io/fs"
	"math/rand"
	"sync"

	"github.com/annel0/map-editor/internal/archive"
	"github.com/annel0/map-editor/internal/assets"
	"github.com/annel0/map-editor/internal/eventbus"
	"github.com/annel0/map-editor/internal/logging"
	"github.com/annel0/map-editor/internal/project"
	"github.com/annel0/map-editor/internal/world"
)

// eventSource имя источника событий сессии
const eventSource = "session"

// Change описывает изменение для публикации в шину событий
type Change struct {
	Type     string
	ChunkKey world.ChunkKey
	Payload  interface{}
}

// Session единственный писатель проекта. Проект неизменяемый, поэтому
// читатели получают снимок через Project() без блокировок на время работы.
type Session struct {
	mu      sync.Mutex
	project *project.Project
	catalog *assets.Catalog
	bus     eventbus.EventBus
	logger  *logging.Logger
	random  func() float64

	attrSize int
}

// New создаёт сессию для проекта p. Если bus == nil, события уходят в глобальную шину.
func New(p *project.Project, catalog *assets.Catalog, bus eventbus.EventBus) *Session {
	if p == nil {
		p = project.New(project.DefaultName, project.DefaultAuthor, world.DefaultDigits)
	}
	if catalog == nil {
		catalog = assets.NewCatalog()
	}
	s := &Session{
		project: p,
		catalog: catalog,
		bus:     bus,
		logger:  logging.GetSessionLogger(),
		random:  rand.Float64,

		attrSize: world.DefaultAttributeSize,
	}
	s.syncCatalog(p)
	return s
}

// SetAttributeSize задаёт сторону сетки атрибутов, которую получает чанк
// при первом мазке кистью атрибутов. Значения меньше 1 игнорируются.
func (s *Session) SetAttributeSize(size int) {
	if size < 1 {
		return
	}
	s.mu.Lock()
	s.attrSize = size
	s.mu.Unlock()
}

// Project текущий снимок проекта
func (s *Session) Project() *project.Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.project
}

// Catalog каталог объектов сессии
func (s *Session) Catalog() *assets.Catalog {
	return s.catalog
}

// Replace заменяет проект целиком (открытие, загрузка из хранилища, импорт)
func (s *Session) Replace(p *project.Project) {
	if p == nil {
		return
	}
	s.mu.Lock()
	s.project = p
	s.mu.Unlock()

	s.syncCatalog(p)
	s.logger.Info("📂 Проект %q заменён (чанков: %d, ревизия %d)", p.Name, p.Len(), p.Revision)
	s.publish(p, Change{Type: eventbus.TypeProjectReplaced, Payload: map[string]int{"chunks": p.Len()}})
}

// Apply применяет операцию к текущему проекту. Если операция ничего не
// изменила (вернула тот же указатель), событие не публикуется.
func (s *Session) Apply(change Change, op func(*project.Project) *project.Project) (*project.Project, bool) {
	return s.apply(change, op, nil)
}

// apply как Apply, но describe дополняет событие данными, вычисленными внутри op
func (s *Session) apply(change Change, op func(*project.Project) *project.Project, describe func(*Change)) (*project.Project, bool) {
	s.mu.Lock()
	prev := s.project
	next := op(prev)
	if next == nil || next == prev {
		s.mu.Unlock()
		return prev, false
	}
	s.project = next
	s.mu.Unlock()

	if describe != nil {
		describe(&change)
	}
	if change.Type != "" {
		s.publish(next, change)
	}
	return next, true
}

// Import загружает архив в текущий проект и пополняет каталог объектов
func (s *Session) Import(r io.ReaderAt, size int64) (archive.Report, error) {
	return s.importWith(func(p *project.Project) (*project.Project, archive.Report, error) {
		return archive.Import(p, r, size)
	})
}

// ImportDir загружает папку карты в формате игры
func (s *Session) ImportDir(fsys fs.FS) (archive.Report, error) {
	return s.importWith(func(p *project.Project) (*project.Project, archive.Report, error) {
		return archive.ImportDir(p, fsys)
	})
}

func (s *Session) importWith(load func(*project.Project) (*project.Project, archive.Report, error)) (archive.Report, error) {
	s.mu.Lock()
	next, report, err := load(s.project)
	if err != nil {
		s.mu.Unlock()
		return report, err
	}
	changed := next != s.project
	s.project = next
	s.mu.Unlock()

	if changed {
		s.syncCatalog(next)
		s.publish(next, Change{Type: eventbus.TypeChunkImported, Payload: map[string]int{
			"heightmaps": report.Heightmaps,
			"attributes": report.Attributes,
			"objects":    report.Objects,
			"spawns":     report.Spawns,
			"failed":     len(report.Failed),
		}})
	}
	importsTotal.Inc()
	return report, nil
}

// syncCatalog добавляет в каталог объекты, встреченные в чанках проекта
func (s *Session) syncCatalog(p *project.Project) {
	added := 0
	for _, key := range p.ChunkKeys() {
		added += s.catalog.Upsert(assets.FromObjects(p.Chunk(key).Objects)...)
	}
	if added > 0 {
		s.logger.Debug("📦 В каталог добавлено объектов: %d", added)
	}
}

func (s *Session) publish(p *project.Project, change Change) {
	ev := eventbus.NewEnvelope(eventSource, change.Type, change.Payload)
	ev.Project = p.Name
	ev.Revision = p.Revision
	ev.ChunkKey = string(change.ChunkKey)

	var err error
	if s.bus != nil {
		err = s.bus.Publish(context.Background(), ev)
	} else {
		err = eventbus.Publish(context.Background(), ev)
	}
	if err != nil {
		s.logger.Warn("⚠️ Не удалось опубликовать событие %s: %v", change.Type, err)
	}
}
