package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/annel0/map-editor/internal/logging"
	"github.com/annel0/map-editor/internal/project"
	"github.com/annel0/map-editor/internal/world"
	"github.com/dgraph-io/badger/v3"
)

// Схема ключей:
//
//	project:<name>:meta         заголовок проекта
//	project:<name>:chunk:<key>  слои чанка
const (
	keyPrefix   = "project:"
	metaSuffix  = ":meta"
	chunkMarker = ":chunk:"
)

func metaKey(name string) []byte { return []byte(keyPrefix + name + metaSuffix) }

func chunkPrefix(name string) []byte { return []byte(keyPrefix + name + chunkMarker) }

func chunkKey(name string, key world.ChunkKey) []byte {
	return append(chunkPrefix(name), key...)
}

// BadgerProjectRepo хранит проекты в BadgerDB
type BadgerProjectRepo struct {
	db      *badger.DB
	dbPath  string
	mutex   sync.RWMutex
	isReady bool
	logger  *logging.Logger
}

// NewBadgerProjectRepo открывает (или создаёт) базу в dataPath/projects
func NewBadgerProjectRepo(dataPath string) (*BadgerProjectRepo, error) {
	dbPath := filepath.Join(dataPath, "projects")
	opts := badger.DefaultOptions(dbPath)
	opts.Logger = nil // Отключаем логирование BadgerDB

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("не удалось открыть BadgerDB: %w", err)
	}

	logger := logging.GetStorageLogger()
	logger.Info("💾 BadgerDB открыта: %s", dbPath)
	return &BadgerProjectRepo{
		db:      db,
		dbPath:  dbPath,
		isReady: true,
		logger:  logger,
	}, nil
}

// Close закрывает базу
func (r *BadgerProjectRepo) Close() error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if !r.isReady {
		return nil
	}
	r.isReady = false
	return r.db.Close()
}

// Save сохраняет проект. Записи чанков, которых больше нет в проекте, удаляются.
func (r *BadgerProjectRepo) Save(ctx context.Context, p *project.Project) error {
	if err := validateName(p.Name); err != nil {
		return err
	}
	encoded, err := encodeProject(p)
	if err != nil {
		return err
	}

	r.mutex.RLock()
	defer r.mutex.RUnlock()
	if !r.isReady {
		return ErrNotReady
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	stale, err := r.chunkKeys(p.Name)
	if err != nil {
		return err
	}

	wb := r.db.NewWriteBatch()
	defer wb.Cancel()

	for _, k := range stale {
		if _, ok := encoded.chunks[world.ChunkKey(k)]; ok {
			continue
		}
		if err := wb.Delete(chunkKey(p.Name, world.ChunkKey(k))); err != nil {
			return fmt.Errorf("ошибка удаления чанка %s: %w", k, err)
		}
	}
	for key, data := range encoded.chunks {
		if err := wb.Set(chunkKey(p.Name, key), data); err != nil {
			return fmt.Errorf("ошибка записи чанка %s: %w", key, err)
		}
	}
	// Заголовок пишется последним: без него проект не виден в List/Load
	if err := wb.Set(metaKey(p.Name), encoded.meta); err != nil {
		return fmt.Errorf("ошибка записи проекта: %w", err)
	}
	if err := wb.Flush(); err != nil {
		return fmt.Errorf("ошибка сохранения в BadgerDB: %w", err)
	}

	r.logger.Debug("💾 Проект %q сохранён: чанков %d, ревизия %d", p.Name, len(encoded.chunks), p.Revision)
	return nil
}

// chunkKeys перечисляет ключи чанков, сохранённых для проекта name
func (r *BadgerProjectRepo) chunkKeys(name string) ([]string, error) {
	prefix := chunkPrefix(name)
	var keys []string
	err := r.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			keys = append(keys, strings.TrimPrefix(string(it.Item().Key()), string(prefix)))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения из BadgerDB: %w", err)
	}
	return keys, nil
}

// Load загружает проект
func (r *BadgerProjectRepo) Load(ctx context.Context, name string) (*project.Project, error) {
	if err := validateName(name); err != nil {
		return nil, ErrProjectNotFound
	}
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	if !r.isReady {
		return nil, ErrNotReady
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var p *project.Project
	err := r.db.View(func(txn *badger.Txn) error {
		data, err := valueOf(txn, metaKey(name))
		if err != nil {
			return err
		}
		meta, err := decodeMeta(data)
		if err != nil {
			return err
		}
		p, err = decodeProject(meta, func(key world.ChunkKey) ([]byte, error) {
			data, err := valueOf(txn, chunkKey(name, key))
			if err == badger.ErrKeyNotFound {
				r.logger.Warn("⚠️ Проект %q: нет записи чанка %s", name, key)
				return nil, nil
			}
			return data, err
		})
		return err
	})
	if err == badger.ErrKeyNotFound {
		return nil, ErrProjectNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка загрузки проекта %q: %w", name, err)
	}
	return p, nil
}

func valueOf(txn *badger.Txn, key []byte) ([]byte, error) {
	item, err := txn.Get(key)
	if err != nil {
		return nil, err
	}
	return item.ValueCopy(nil)
}

// List перечисляет проекты по их заголовкам
func (r *BadgerProjectRepo) List(ctx context.Context) ([]ProjectInfo, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	if !r.isReady {
		return nil, ErrNotReady
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var out []ProjectInfo
	err := r.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(keyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			key := string(item.Key())
			if !strings.HasSuffix(key, metaSuffix) || strings.Contains(key, chunkMarker) {
				continue
			}
			data, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			meta, err := decodeMeta(data)
			if err != nil {
				r.logger.Warn("⚠️ Повреждённый заголовок %s: %v", key, err)
				continue
			}
			out = append(out, meta.info())
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения из BadgerDB: %w", err)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Delete удаляет заголовок и все чанки проекта
func (r *BadgerProjectRepo) Delete(ctx context.Context, name string) error {
	if err := validateName(name); err != nil {
		return nil
	}
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	if !r.isReady {
		return ErrNotReady
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	keys, err := r.chunkKeys(name)
	if err != nil {
		return err
	}
	wb := r.db.NewWriteBatch()
	defer wb.Cancel()
	if err := wb.Delete(metaKey(name)); err != nil {
		return err
	}
	for _, k := range keys {
		if err := wb.Delete(chunkKey(name, world.ChunkKey(k))); err != nil {
			return err
		}
	}
	if err := wb.Flush(); err != nil {
		return fmt.Errorf("ошибка удаления проекта %q: %w", name, err)
	}
	r.logger.Info("🗑️ Проект %q удалён из BadgerDB", name)
	return nil
}
