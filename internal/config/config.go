package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config корневая структура конфигурации редактора.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Storage   StorageConfig   `yaml:"storage"`
	Editor    EditorConfig    `yaml:"editor"`
	Events    EventsConfig    `yaml:"events"`
	Logging   LoggingConfig   `yaml:"logging"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

type ServerConfig struct {
	RESTPort int `yaml:"rest_port"`
}

type StorageConfig struct {
	Backend       string `yaml:"backend"` // memory | badger | redis
	DataPath      string `yaml:"data_path"`
	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`
	RedisDB       int    `yaml:"redis_db"`
}

type EditorConfig struct {
	ProjectName      string `yaml:"project_name"`
	Author           string `yaml:"author"`
	CoordinateDigits int    `yaml:"coordinate_digits"`
	AttributeSize    int    `yaml:"attribute_size"`
	ExportCacheMB    int    `yaml:"export_cache_mb"`
}

type EventsConfig struct {
	Backend string `yaml:"backend"` // memory | nats
	NATSURL string `yaml:"nats_url"`
	Stream  string `yaml:"stream"`
}

type LoggingConfig struct {
	Level      string `yaml:"level"`
	Format     string `yaml:"format"`
	Dir        string `yaml:"dir"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

type TelemetryConfig struct {
	Enabled     bool   `yaml:"enabled"`
	ServiceName string `yaml:"service_name"`
}

// Бэкенды хранилища
const (
	BackendMemory = "memory"
	BackendBadger = "badger"
	BackendRedis  = "redis"
	BackendNATS   = "nats"
)

// GetRESTPort возвращает REST API порт с поддержкой fallback значений
func (s *ServerConfig) GetRESTPort() int {
	return getIntWithEnvFallback(s.RESTPort, "MAP_EDITOR_REST_PORT", 8088)
}

// GetBackend возвращает бэкенд хранилища; неизвестные значения дают memory
func (s *StorageConfig) GetBackend() string {
	backend := strings.ToLower(getStringWithEnvFallback(s.Backend, "MAP_EDITOR_STORAGE", BackendMemory))
	switch backend {
	case BackendMemory, BackendBadger, BackendRedis:
		return backend
	}
	return BackendMemory
}

// GetDataPath каталог данных BadgerDB
func (s *StorageConfig) GetDataPath() string {
	return getStringWithEnvFallback(s.DataPath, "MAP_EDITOR_DATA", "data")
}

// GetRedisAddr адрес Redis
func (s *StorageConfig) GetRedisAddr() string {
	return getStringWithEnvFallback(s.RedisAddr, "REDIS_ADDR", "localhost:6379")
}

// GetRedisPassword пароль Redis
func (s *StorageConfig) GetRedisPassword() string {
	return getStringWithEnvFallback(s.RedisPassword, "REDIS_PASSWORD", "")
}

// GetProjectName имя проекта, создаваемого при старте
func (e *EditorConfig) GetProjectName() string {
	return getStringWithEnvFallback(e.ProjectName, "MAP_EDITOR_PROJECT", "Untitled")
}

// GetAuthor автор новых проектов
func (e *EditorConfig) GetAuthor() string {
	return getStringWithEnvFallback(e.Author, "MAP_EDITOR_AUTHOR", "local")
}

// GetCoordinateDigits ширина координаты в ключах чанков: 2 или 3
func (e *EditorConfig) GetCoordinateDigits() int {
	if d := getIntWithEnvFallback(e.CoordinateDigits, "MAP_EDITOR_DIGITS", 3); d == 2 {
		return 2
	}
	return 3
}

// GetAttributeSize сторона сетки атрибутов, создаваемой первым мазком кисти
func (e *EditorConfig) GetAttributeSize() int {
	return getIntWithEnvFallback(e.AttributeSize, "MAP_EDITOR_ATTRIBUTE_SIZE", 256)
}

// GetExportCacheMB объём кэша сериализованных файлов чанков
func (e *EditorConfig) GetExportCacheMB() int {
	return getIntWithEnvFallback(e.ExportCacheMB, "MAP_EDITOR_EXPORT_CACHE_MB", 64)
}

// GetBackend шина событий: memory или nats
func (e *EventsConfig) GetBackend() string {
	if strings.ToLower(getStringWithEnvFallback(e.Backend, "MAP_EDITOR_EVENTS", BackendMemory)) == BackendNATS {
		return BackendNATS
	}
	return BackendMemory
}

// GetNATSURL адрес NATS
func (e *EventsConfig) GetNATSURL() string {
	return getStringWithEnvFallback(e.NATSURL, "NATS_URL", "nats://127.0.0.1:4222")
}

// GetStream имя стрима JetStream
func (e *EventsConfig) GetStream() string {
	return getStringWithEnvFallback(e.Stream, "MAP_EDITOR_STREAM", "MAPEDITOR")
}

// GetLevel уровень логирования
func (l *LoggingConfig) GetLevel() string {
	return getStringWithEnvFallback(l.Level, "LOG_LEVEL", "INFO")
}

// GetFormat формат логов: text или json
func (l *LoggingConfig) GetFormat() string {
	return getStringWithEnvFallback(l.Format, "LOG_FORMAT", "text")
}

// GetDir каталог файлов логов
func (l *LoggingConfig) GetDir() string {
	return getStringWithEnvFallback(l.Dir, "LOG_DIR", "logs")
}

// GetServiceName имя сервиса для трассировки
func (t *TelemetryConfig) GetServiceName() string {
	return getStringWithEnvFallback(t.ServiceName, "OTEL_SERVICE_NAME", "map-editor")
}

// getIntWithEnvFallback возвращает значение с приоритетом: config -> env -> default
func getIntWithEnvFallback(configValue int, envVar string, defaultValue int) int {
	if configValue > 0 {
		return configValue
	}
	if envVal := os.Getenv(envVar); envVal != "" {
		if v, err := strconv.Atoi(envVal); err == nil && v > 0 {
			return v
		}
	}
	return defaultValue
}

// getStringWithEnvFallback то же для строк
func getStringWithEnvFallback(configValue, envVar, defaultValue string) string {
	if configValue != "" {
		return configValue
	}
	if envVal := os.Getenv(envVar); envVal != "" {
		return envVal
	}
	return defaultValue
}

// LoadEnv загружает .env из рабочего каталога; отсутствие файла не ошибка.
// Уже заданные переменные окружения не перезаписываются.
func LoadEnv(files ...string) error {
	err := godotenv.Load(files...)
	if err != nil && errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// Load читает YAML файл конфигурации.
// Если path == "", берётся ENV MAP_EDITOR_CONFIG; если и он пуст, возвращается
// пустой конфиг, и все значения берутся из окружения или по умолчанию.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv("MAP_EDITOR_CONFIG")
		if path == "" {
			return &Config{}, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
