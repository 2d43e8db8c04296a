// Package storage сохраняет проекты редактора между сессиями.
package storage

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/annel0/map-editor/internal/project"
)

// ErrProjectNotFound проект с таким именем не сохранён
var ErrProjectNotFound = errors.New("проект не найден")

// ErrInvalidName имя проекта пустое или содержит ':'
var ErrInvalidName = errors.New("недопустимое имя проекта")

// ErrNotReady хранилище закрыто
var ErrNotReady = errors.New("хранилище не готово")

// ProjectInfo краткие сведения о сохранённом проекте
type ProjectInfo struct {
	Name     string    `json:"name"`
	Version  string    `json:"version"`
	Revision uint64    `json:"revision"`
	Modified time.Time `json:"modified"`
	Chunks   int       `json:"chunks"`
}

// ProjectRepo определяет интерфейс хранилища проектов.
// Сохраняется последнее состояние проекта, история отмены не сохраняется.
type ProjectRepo interface {
	// Save сохраняет проект под его именем, заменяя прежнюю версию целиком.
	Save(ctx context.Context, p *project.Project) error

	// Load загружает проект; если его нет, возвращает ErrProjectNotFound.
	Load(ctx context.Context, name string) (*project.Project, error)

	// List перечисляет сохранённые проекты в порядке имён.
	List(ctx context.Context) ([]ProjectInfo, error)

	// Delete удаляет проект; удаление отсутствующего проекта не ошибка.
	Delete(ctx context.Context, name string) error

	// Close освобождает ресурсы хранилища.
	Close() error
}

// validateName проверяет имя проекта перед построением ключей
func validateName(name string) error {
	if strings.TrimSpace(name) == "" || strings.Contains(name, ":") {
		return ErrInvalidName
	}
	return nil
}

func infoOf(p *project.Project) ProjectInfo {
	return ProjectInfo{
		Name:     p.Name,
		Version:  p.Version,
		Revision: p.Revision,
		Modified: p.Metadata.Modified,
		Chunks:   p.Len(),
	}
}
