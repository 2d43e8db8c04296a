package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, DEBUG, ParseLevel("debug"))
	assert.Equal(t, WARN, ParseLevel(" Warning "))
	assert.Equal(t, INFO, ParseLevel("verbose"), "неизвестный уровень = INFO")
	assert.Equal(t, "ERROR", ERROR.String())
}

func TestLogger_ConsoleThreshold(t *testing.T) {
	var buf bytes.Buffer
	l, err := newLogger("test", Options{Format: "text", ConsoleLevel: WARN}, &buf)
	require.NoError(t, err)

	l.Info("скрыто %d", 1)
	l.Warn("видно %d", 2)

	out := buf.String()
	assert.NotContains(t, out, "скрыто")
	assert.Contains(t, out, "видно 2")
	assert.Contains(t, out, "component=test")
}

func TestLogger_FileOutput(t *testing.T) {
	dir := t.TempDir()
	var console bytes.Buffer
	l, err := newLogger("codec", Options{Dir: dir, Format: "json", ConsoleLevel: ERROR, FileLevel: DEBUG, MaxSizeMB: 1}, &console)
	require.NoError(t, err)

	l.Debug("отладка")
	require.NoError(t, l.Close())

	data, err := os.ReadFile(filepath.Join(dir, "codec.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "отладка")
	assert.Empty(t, console.String(), "DEBUG ниже порога консоли")
}

func TestManager_SetLogLevel(t *testing.T) {
	Configure(Options{Format: "text", ConsoleLevel: INFO})
	defer Configure(defaultOptions())

	lm := GetLoggerManager()
	l, err := lm.GetLogger("manager-test")
	require.NoError(t, err)

	same, err := lm.GetLogger("manager-test")
	require.NoError(t, err)
	assert.Same(t, l, same, "логгер компонента создаётся один раз")
	assert.Contains(t, lm.ListComponents(), "manager-test")

	require.NoError(t, lm.SetLogLevel("manager-test", ERROR, ERROR))
	assert.Error(t, lm.SetLogLevel("missing", INFO, INFO))
}
