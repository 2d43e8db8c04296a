package storage

import (
	"context"
	"math"
	"os"
	"testing"
	"time"

	"github.com/annel0/map-editor/internal/project"
	"github.com/annel0/map-editor/internal/vec"
	"github.com/annel0/map-editor/internal/world"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleProject(name string) *project.Project {
	p := project.New(name, "tester", 3)
	size := world.MapSize{Width: 2, Height: 2}
	p = p.UpdateSettings(world.SettingsPatch{MapSize: &size})

	h := world.NewHeightmap(3)
	h.Set(1, 1, 12.75)
	h.Set(2, 2, -3.5)
	p = p.SetChunkHeightmap("000000", h)

	g := world.NewAttributeGrid(4, 4)
	g.Set(0, 0, uint8(world.AttrBlocked|world.AttrWater))
	p = p.SetChunkAttributes("001001", g)

	scale := vec.Vec3Float{X: 1, Y: 2, Z: 3}
	p = p.AddChunkObject("001001", world.AreaObject{
		ID:         "tree",
		CRC32:      123456,
		Position:   vec.Vec3Float{X: 10.25, Y: -4, Z: 100},
		Rotation:   vec.Vec3Float{X: 90},
		HeightBias: -95,
		Scale:      &scale,
		Label:      "Дерево",
		GR2Path:    "d:/ymir work/tree.gr2",
	})
	return p.AddSpawn(world.CategoryMonsters, world.SpawnEntry{
		ID:          "m1",
		Type:        world.SpawnMonster,
		Vnum:        "101",
		Position:    vec.Vec3Float{X: 1, Y: 2, Z: math.NaN()},
		RespawnTime: "10s",
		Probability: 100,
		Count:       3,
	})
}

// assertSameContent сравнивает содержимое проектов без истории отмены
func assertSameContent(t *testing.T, want, got *project.Project) {
	t.Helper()
	assert.Equal(t, want.Name, got.Name)
	assert.Equal(t, want.Version, got.Version)
	assert.Equal(t, want.CoordinateDigits, got.CoordinateDigits)
	assert.Equal(t, want.Revision, got.Revision)
	assert.True(t, want.Metadata.Modified.Equal(got.Metadata.Modified))
	assert.Equal(t, want.Metadata.Author, got.Metadata.Author)
	assert.Equal(t, want.Settings, got.Settings)
	assert.Equal(t, want.ChunkKeys(), got.ChunkKeys())

	for _, key := range want.ChunkKeys() {
		w, g := want.Chunk(key), got.Chunk(key)
		if w.Heightmap != nil {
			assert.True(t, w.Heightmap.Equal(g.Heightmap), "карта высот чанка %s", key)
		}
		if w.Attributes != nil {
			assert.True(t, w.Attributes.Equal(g.Attributes), "атрибуты чанка %s", key)
		}
		assert.Equal(t, w.Objects, g.Objects, "объекты чанка %s", key)
	}

	wantSpawns, gotSpawns := want.Spawns.Get(world.CategoryMonsters), got.Spawns.Get(world.CategoryMonsters)
	require.Len(t, gotSpawns, len(wantSpawns))
	for i := range wantSpawns {
		assert.Equal(t, wantSpawns[i].ID, gotSpawns[i].ID)
		assert.Equal(t, wantSpawns[i].Vnum, gotSpawns[i].Vnum)
		assert.True(t, wantSpawns[i].Position.Equals(gotSpawns[i].Position), "NaN сохраняется")
	}
}

// exerciseRepo общий сценарий для всех реализаций
func exerciseRepo(t *testing.T, repo ProjectRepo) {
	ctx := context.Background()

	t.Run("Save and Load", func(t *testing.T) {
		p := sampleProject("alpha")
		require.NoError(t, repo.Save(ctx, p))

		loaded, err := repo.Load(ctx, "alpha")
		require.NoError(t, err)
		assertSameContent(t, p, loaded)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := repo.Load(ctx, "missing")
		assert.ErrorIs(t, err, ErrProjectNotFound)
	})

	t.Run("Save replaces chunks", func(t *testing.T) {
		p := sampleProject("alpha").RemoveChunk("001001")
		require.NoError(t, repo.Save(ctx, p))

		loaded, err := repo.Load(ctx, "alpha")
		require.NoError(t, err)
		assert.Equal(t, []world.ChunkKey{"000000"}, loaded.ChunkKeys())
	})

	t.Run("List", func(t *testing.T) {
		require.NoError(t, repo.Save(ctx, sampleProject("beta")))

		list, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "alpha", list[0].Name)
		assert.Equal(t, 1, list[0].Chunks)
		assert.Equal(t, "beta", list[1].Name)
		assert.Equal(t, 2, list[1].Chunks)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, "alpha"))
		require.NoError(t, repo.Delete(ctx, "alpha"), "повторное удаление не ошибка")

		_, err := repo.Load(ctx, "alpha")
		assert.ErrorIs(t, err, ErrProjectNotFound)

		list, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "beta", list[0].Name)
	})

	t.Run("Invalid name", func(t *testing.T) {
		p := project.New("a:b", "", 3)
		assert.ErrorIs(t, repo.Save(ctx, p), ErrInvalidName)
	})
}

func TestMemoryProjectRepo(t *testing.T) {
	repo := NewMemoryProjectRepo()
	defer repo.Close()
	exerciseRepo(t, repo)

	t.Run("Keeps history", func(t *testing.T) {
		p := sampleProject("gamma")
		p = p.SetChunkHeightmap("000000", world.NewHeightmap(3))
		require.NoError(t, repo.Save(context.Background(), p))
		loaded, err := repo.Load(context.Background(), "gamma")
		require.NoError(t, err)
		assert.Same(t, p, loaded)
		assert.Equal(t, 1, loaded.UndoDepth("000000"))
	})
}

func TestBadgerProjectRepo(t *testing.T) {
	repo, err := NewBadgerProjectRepo(t.TempDir())
	require.NoError(t, err)
	defer repo.Close()
	exerciseRepo(t, repo)

	t.Run("History is not persisted", func(t *testing.T) {
		p := sampleProject("gamma").SetChunkHeightmap("000000", world.NewHeightmap(3))
		require.Equal(t, 1, p.UndoDepth("000000"))
		require.NoError(t, repo.Save(context.Background(), p))

		loaded, err := repo.Load(context.Background(), "gamma")
		require.NoError(t, err)
		assert.Equal(t, 0, loaded.UndoDepth("000000"))
	})

	t.Run("Closed", func(t *testing.T) {
		require.NoError(t, repo.Close())
		require.NoError(t, repo.Close())
		_, err := repo.List(context.Background())
		assert.ErrorIs(t, err, ErrNotReady)
	})
}

func TestBadgerProjectRepo_Reopen(t *testing.T) {
	dir := t.TempDir()
	repo, err := NewBadgerProjectRepo(dir)
	require.NoError(t, err)
	p := sampleProject("persist")
	require.NoError(t, repo.Save(context.Background(), p))
	require.NoError(t, repo.Close())

	repo, err = NewBadgerProjectRepo(dir)
	require.NoError(t, err)
	defer repo.Close()

	loaded, err := repo.Load(context.Background(), "persist")
	require.NoError(t, err)
	assertSameContent(t, p, loaded)
}

func TestRedisProjectRepo(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	cfg := DefaultRedisConfig()
	cfg.Addr = addr
	cfg.KeyPrefix = "mapeditor-test:" + time.Now().Format("150405.000000") + ":"
	cfg.DialTimeout = 500 * time.Millisecond
	repo, err := NewRedisProjectRepo(ctx, cfg)
	if err != nil {
		t.Skipf("Redis недоступен (%s): %v", addr, err)
	}
	defer repo.Close()
	exerciseRepo(t, repo)
	require.NoError(t, repo.Delete(context.Background(), "beta"))
}
