package storage

import (
	"context"
	"sort"
	"sync"

	"github.com/annel0/map-editor/internal/project"
)

// MemoryProjectRepo хранит проекты в памяти процесса. Проекты неизменяемы,
// поэтому хранится сам указатель (вместе с историей отмены).
type MemoryProjectRepo struct {
	mu       sync.RWMutex
	projects map[string]*project.Project
}

// NewMemoryProjectRepo создаёт пустое хранилище в памяти
func NewMemoryProjectRepo() *MemoryProjectRepo {
	return &MemoryProjectRepo{projects: make(map[string]*project.Project)}
}

// Save сохраняет проект
func (r *MemoryProjectRepo) Save(ctx context.Context, p *project.Project) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := validateName(p.Name); err != nil {
		return err
	}
	r.mu.Lock()
	r.projects[p.Name] = p
	r.mu.Unlock()
	return nil
}

// Load загружает проект
func (r *MemoryProjectRepo) Load(ctx context.Context, name string) (*project.Project, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	p, ok := r.projects[name]
	r.mu.RUnlock()
	if !ok {
		return nil, ErrProjectNotFound
	}
	return p, nil
}

// List перечисляет проекты
func (r *MemoryProjectRepo) List(ctx context.Context) ([]ProjectInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	out := make([]ProjectInfo, 0, len(r.projects))
	for _, p := range r.projects {
		out = append(out, infoOf(p))
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Delete удаляет проект
func (r *MemoryProjectRepo) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	delete(r.projects, name)
	r.mu.Unlock()
	return nil
}

// Close ничего не делает
func (r *MemoryProjectRepo) Close() error { return nil }
