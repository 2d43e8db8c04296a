package api

import (
	"context"
	"testing"

	"github.com/annel0/map-editor/internal/config"
	"github.com/annel0/map-editor/internal/storage"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenRepo(t *testing.T) {
	t.Setenv("MAP_EDITOR_STORAGE", "")

	repo, err := OpenRepo(context.Background(), &config.StorageConfig{})
	require.NoError(t, err)
	assert.IsType(t, &storage.MemoryProjectRepo{}, repo)
	require.NoError(t, repo.Close())

	repo, err = OpenRepo(context.Background(), &config.StorageConfig{Backend: config.BackendBadger, DataPath: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &storage.BadgerProjectRepo{}, repo)
	require.NoError(t, repo.Close())
}

func TestServerIntegration_Lifecycle(t *testing.T) {
	reg := prometheus.NewRegistry()
	cfg := &config.Config{Storage: config.StorageConfig{Backend: config.BackendMemory}}

	si, err := NewServerIntegration(IntegrationConfig{Config: cfg, Registry: reg, Gatherer: reg})
	require.NoError(t, err)
	require.NotNil(t, si.GetRestServer())
	assert.True(t, si.IsHealthy())

	require.NoError(t, si.Stop())
	assert.False(t, si.IsHealthy())
}
