package storage

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/annel0/map-editor/internal/logging"
	"github.com/annel0/map-editor/internal/project"
	"github.com/annel0/map-editor/internal/world"
	"github.com/go-redis/redis/v8"
)

// RedisConfig содержит настройки подключения к Redis
type RedisConfig struct {
	Addr        string        // Адрес Redis сервера
	Password    string        // Пароль (пустой если не требуется)
	DB          int           // Номер базы данных
	KeyPrefix   string        // Префикс для ключей
	DialTimeout time.Duration // Таймаут подключения
}

// DefaultRedisConfig возвращает конфигурацию по умолчанию
func DefaultRedisConfig() *RedisConfig {
	return &RedisConfig{
		Addr:        "localhost:6379",
		KeyPrefix:   "mapeditor:",
		DialTimeout: 2 * time.Second,
	}
}

// RedisProjectRepo хранит проекты в Redis: заголовок строкой, чанки полями хэша,
// имена проектов во множестве-индексе.
type RedisProjectRepo struct {
	client    *redis.Client
	keyPrefix string
	logger    *logging.Logger
}

// NewRedisProjectRepo подключается к Redis и проверяет соединение
func NewRedisProjectRepo(ctx context.Context, config *RedisConfig) (*RedisProjectRepo, error) {
	if config == nil {
		config = DefaultRedisConfig()
	}

	client := redis.NewClient(&redis.Options{
		Addr:        config.Addr,
		Password:    config.Password,
		DB:          config.DB,
		DialTimeout: config.DialTimeout,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger := logging.GetStorageLogger()
	logger.Info("🔴 Connected to Redis at %s", config.Addr)
	return &RedisProjectRepo{client: client, keyPrefix: config.KeyPrefix, logger: logger}, nil
}

func (r *RedisProjectRepo) indexKey() string { return r.keyPrefix + "projects" }

func (r *RedisProjectRepo) metaKey(name string) string { return r.keyPrefix + name + metaSuffix }

func (r *RedisProjectRepo) chunksKey(name string) string { return r.keyPrefix + name + ":chunks" }

// Save заменяет проект одной транзакцией
func (r *RedisProjectRepo) Save(ctx context.Context, p *project.Project) error {
	if err := validateName(p.Name); err != nil {
		return err
	}
	encoded, err := encodeProject(p)
	if err != nil {
		return err
	}

	fields := make([]interface{}, 0, len(encoded.chunks)*2)
	for key, data := range encoded.chunks {
		fields = append(fields, string(key), data)
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, r.chunksKey(p.Name))
		if len(fields) > 0 {
			pipe.HSet(ctx, r.chunksKey(p.Name), fields...)
		}
		pipe.Set(ctx, r.metaKey(p.Name), encoded.meta, 0)
		pipe.SAdd(ctx, r.indexKey(), p.Name)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save project %q: %w", p.Name, err)
	}
	r.logger.Debug("🔴 Проект %q сохранён в Redis: чанков %d", p.Name, len(encoded.chunks))
	return nil
}

// Load загружает проект
func (r *RedisProjectRepo) Load(ctx context.Context, name string) (*project.Project, error) {
	if err := validateName(name); err != nil {
		return nil, ErrProjectNotFound
	}
	data, err := r.client.Get(ctx, r.metaKey(name)).Bytes()
	if err == redis.Nil {
		return nil, ErrProjectNotFound
	} else if err != nil {
		return nil, fmt.Errorf("failed to load project %q: %w", name, err)
	}
	meta, err := decodeMeta(data)
	if err != nil {
		return nil, err
	}

	chunks, err := r.client.HGetAll(ctx, r.chunksKey(name)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load chunks of %q: %w", name, err)
	}
	return decodeProject(meta, func(key world.ChunkKey) ([]byte, error) {
		data, ok := chunks[string(key)]
		if !ok {
			r.logger.Warn("⚠️ Проект %q: нет записи чанка %s", name, key)
			return nil, nil
		}
		return []byte(data), nil
	})
}

// List перечисляет проекты из индекса
func (r *RedisProjectRepo) List(ctx context.Context) ([]ProjectInfo, error) {
	names, err := r.client.SMembers(ctx, r.indexKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	if len(names) == 0 {
		return []ProjectInfo{}, nil
	}

	pipe := r.client.Pipeline()
	cmds := make([]*redis.StringCmd, len(names))
	for i, name := range names {
		cmds[i] = pipe.Get(ctx, r.metaKey(name))
	}
	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	out := make([]ProjectInfo, 0, len(names))
	for i, cmd := range cmds {
		data, err := cmd.Bytes()
		if err != nil {
			continue // Пропускаем отсутствующие
		}
		meta, err := decodeMeta(data)
		if err != nil {
			r.logger.Warn("⚠️ Повреждённый заголовок проекта %s: %v", names[i], err)
			continue
		}
		out = append(out, meta.info())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Delete удаляет проект
func (r *RedisProjectRepo) Delete(ctx context.Context, name string) error {
	if err := validateName(name); err != nil {
		return nil
	}
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, r.metaKey(name), r.chunksKey(name))
		pipe.SRem(ctx, r.indexKey(), name)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete project %q: %w", name, err)
	}
	return nil
}

// Close закрывает соединение
func (r *RedisProjectRepo) Close() error {
	return r.client.Close()
}
