package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_YAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "editor.yaml")
	content := `
server:
  rest_port: 9090
storage:
  backend: Badger
  data_path: /tmp/maps
editor:
  project_name: map_a2
  coordinate_digits: 2
events:
  backend: NATS
  stream: EDITS
logging:
  level: DEBUG
telemetry:
  enabled: true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.GetRESTPort())
	assert.Equal(t, BackendBadger, cfg.Storage.GetBackend())
	assert.Equal(t, "/tmp/maps", cfg.Storage.GetDataPath())
	assert.Equal(t, "map_a2", cfg.Editor.GetProjectName())
	assert.Equal(t, 2, cfg.Editor.GetCoordinateDigits())
	assert.Equal(t, BackendNATS, cfg.Events.GetBackend())
	assert.Equal(t, "EDITS", cfg.Events.GetStream())
	assert.Equal(t, "DEBUG", cfg.Logging.GetLevel())
	assert.True(t, cfg.Telemetry.Enabled)
}

func TestLoad_NoPath(t *testing.T) {
	t.Setenv("MAP_EDITOR_CONFIG", "")
	cfg, err := Load("")
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, 256, cfg.Editor.GetAttributeSize())
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestFallbackPriority(t *testing.T) {
	t.Setenv("MAP_EDITOR_REST_PORT", "7000")
	t.Setenv("MAP_EDITOR_STORAGE", "unknown")
	t.Setenv("MAP_EDITOR_DIGITS", "5")

	var cfg Config
	assert.Equal(t, 7000, cfg.Server.GetRESTPort(), "env важнее значения по умолчанию")
	assert.Equal(t, BackendMemory, cfg.Storage.GetBackend())
	assert.Equal(t, 3, cfg.Editor.GetCoordinateDigits())

	cfg.Server.RESTPort = 8100
	assert.Equal(t, 8100, cfg.Server.GetRESTPort(), "значение конфига важнее env")

	t.Setenv("MAP_EDITOR_REST_PORT", "abc")
	cfg.Server.RESTPort = 0
	assert.Equal(t, 8088, cfg.Server.GetRESTPort())
}

func TestLoadEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("MAP_EDITOR_TEST_VALUE=from-dotenv\n"), 0o644))
	t.Setenv("MAP_EDITOR_TEST_VALUE", "")
	require.NoError(t, os.Unsetenv("MAP_EDITOR_TEST_VALUE"))

	require.NoError(t, LoadEnv(path))
	assert.Equal(t, "from-dotenv", os.Getenv("MAP_EDITOR_TEST_VALUE"))

	assert.NoError(t, LoadEnv(filepath.Join(dir, "absent.env")), "отсутствующий файл не ошибка")
}
