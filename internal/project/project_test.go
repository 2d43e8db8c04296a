package project

import (
	"testing"
	"time"

	"github.com/annel0/map-editor/internal/vec"
	"github.com/annel0/map-editor/internal/world"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedClock подменяет часы пакета, каждый вызов сдвигает время на секунду
func fixedClock(t *testing.T) {
	t.Helper()
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	calls := 0
	now = func() time.Time {
		calls++
		return base.Add(time.Duration(calls) * time.Second)
	}
	t.Cleanup(func() { now = time.Now })
}

func flat(size int, v float64) *world.Heightmap {
	h := world.NewHeightmap(size)
	for i := range h.Cells {
		h.Cells[i] = v
	}
	return h
}

func TestNew_Defaults(t *testing.T) {
	fixedClock(t)
	p := New("", "", 5)

	assert.Equal(t, DefaultName, p.Name)
	assert.Equal(t, DefaultVersion, p.Version)
	assert.Equal(t, DefaultAuthor, p.Metadata.Author)
	assert.Equal(t, 3, p.CoordinateDigits, "некорректная ширина приводится к 3")
	assert.Equal(t, world.BasePosition{X: 409600, Y: 921600}, p.Settings.BasePosition)
	assert.Equal(t, "textureset/metin2_a1.txt", p.Settings.TextureSet)
	assert.Equal(t, p.Metadata.Created, p.Metadata.Modified)
	assert.Equal(t, 0, p.Len())
	assert.Equal(t, world.DefaultHeightmapSize, p.BaseHeightmapSize())
	assert.Equal(t, world.ChunkKey("0102"), New("x", "y", 2).ChunkKey(1, 2))
}

func TestSetChunkHeightmap_Immutable(t *testing.T) {
	fixedClock(t)
	p0 := New("map", "me", 3)
	key := p0.ChunkKey(0, 0)

	p1 := p0.SetChunkHeightmap(key, flat(3, 1))
	assert.False(t, p0.HasChunk(key), "исходный проект не меняется")
	assert.True(t, p1.HasChunk(key))
	assert.True(t, p1.Metadata.Modified.After(p0.Metadata.Modified), "время изменения обновляется")
	assert.Equal(t, p0.Revision+1, p1.Revision)
	assert.Equal(t, 0, p1.UndoDepth(key), "первой карте нечего отменять")

	p2 := p1.SetChunkHeightmap(key, flat(3, 2))
	assert.Equal(t, 1, p2.UndoDepth(key))
	assert.Equal(t, 0, p1.UndoDepth(key))
	assert.Equal(t, 1.0, p1.Chunk(key).Heightmap.At(0, 0))
	assert.Equal(t, 3, p2.BaseHeightmapSize())
}

func TestUndoRedo(t *testing.T) {
	fixedClock(t)
	key := world.ChunkKey("000000")
	p := New("map", "me", 3).
		SetChunkHeightmap(key, flat(2, 1)).
		SetChunkHeightmap(key, flat(2, 2)).
		SetChunkHeightmap(key, flat(2, 3))

	u1 := p.UndoHeightmap(key)
	assert.Equal(t, 2.0, u1.Chunk(key).Heightmap.At(0, 0))
	assert.Equal(t, 1, u1.UndoDepth(key))
	assert.Equal(t, 1, u1.RedoDepth(key))

	u2 := u1.UndoHeightmap(key)
	assert.Equal(t, 1.0, u2.Chunk(key).Heightmap.At(0, 0))
	assert.Same(t, u2, u2.UndoHeightmap(key), "пустой стек отмены: no-op")

	r1 := u2.RedoHeightmap(key)
	assert.Equal(t, 2.0, r1.Chunk(key).Heightmap.At(0, 0))
	r2 := r1.RedoHeightmap(key)
	assert.Equal(t, 3.0, r2.Chunk(key).Heightmap.At(0, 0))
	assert.Same(t, r2, r2.RedoHeightmap(key), "пустой стек повтора: no-op")

	// Новая запись сбрасывает повтор
	branched := u1.SetChunkHeightmap(key, flat(2, 9))
	assert.Equal(t, 0, branched.RedoDepth(key))
	assert.Equal(t, 2, branched.UndoDepth(key))
}

func TestUndo_NoHeightmapIsNoop(t *testing.T) {
	p := New("map", "me", 3)
	key := p.ChunkKey(1, 1)
	withAttr := p.SetChunkAttributes(key, world.NewAttributeGrid(2, 2))
	assert.Same(t, withAttr, withAttr.UndoHeightmap(key))
	assert.Same(t, withAttr, withAttr.RedoHeightmap(key))
}

func TestHistory_LimitDropsOldest(t *testing.T) {
	key := world.ChunkKey("000000")
	p := New("map", "me", 3)
	for i := 0; i <= HistoryLimit+10; i++ {
		p = p.SetChunkHeightmap(key, flat(2, float64(i)))
	}
	require.Equal(t, HistoryLimit, p.UndoDepth(key))

	for i := 0; i < HistoryLimit; i++ {
		p = p.UndoHeightmap(key)
	}
	assert.Equal(t, 10.0, p.Chunk(key).Heightmap.At(0, 0), "самые старые снимки отброшены")
	assert.Equal(t, 0, p.UndoDepth(key))
	assert.Equal(t, HistoryLimit, p.RedoDepth(key))
}

func TestHistory_PerChunk(t *testing.T) {
	a, b := world.ChunkKey("000000"), world.ChunkKey("001000")
	p := New("map", "me", 3).
		SetChunkHeightmap(a, flat(2, 1)).
		SetChunkHeightmap(a, flat(2, 2)).
		SetChunkHeightmap(b, flat(2, 5)).
		SetChunkHeightmap(b, flat(2, 6))

	p = p.UndoHeightmap(a)
	assert.Equal(t, 1.0, p.Chunk(a).Heightmap.At(0, 0))
	assert.Equal(t, 6.0, p.Chunk(b).Heightmap.At(0, 0), "отмена одного чанка не трогает другой")
	assert.Equal(t, 1, p.UndoDepth(b))
}

func TestHistory_SnapshotsAreDeepCopies(t *testing.T) {
	key := world.ChunkKey("000000")
	first := flat(2, 1)
	p := New("map", "me", 3).SetChunkHeightmap(key, first).SetChunkHeightmap(key, flat(2, 2))

	first.Cells[0] = 100
	p = p.UndoHeightmap(key)
	assert.Equal(t, 1.0, p.Chunk(key).Heightmap.At(0, 0))
}

func TestSetChunkLayers_CopyOnWrite(t *testing.T) {
	key := world.ChunkKey("000000")
	h := flat(2, 1)
	g := world.NewAttributeGrid(2, 2)
	p := New("map", "me", 3).SetChunkHeightmap(key, h).SetChunkAttributes(key, g)

	h.Set(0, 0, 50)
	g.Set(0, 0, uint8(world.AttrWater))
	assert.Equal(t, 1.0, p.Chunk(key).Heightmap.At(0, 0), "изменение карты после записи не влияет на проект")
	assert.Equal(t, uint8(0), p.Chunk(key).Attributes.At(0, 0), "изменение сетки после записи не влияет на проект")

	imported := flat(2, 7)
	p = p.ImportChunk("001000", world.Chunk{Heightmap: imported})
	imported.Set(1, 1, -3)
	assert.Equal(t, 7.0, p.Chunk("001000").Heightmap.At(1, 1))
}

func TestObjects(t *testing.T) {
	fixedClock(t)
	key := world.ChunkKey("000000")
	other := world.ChunkKey("001000")
	obj := world.AreaObject{ID: "a", CRC32: 1, Position: vec.Vec3Float{X: 10}}

	p := New("map", "me", 3).AddChunkObject(key, obj).AddChunkObject(key, world.AreaObject{ID: "b", CRC32: 2})
	require.Len(t, p.Chunk(key).Objects, 2)

	label := "Дом"
	bias := -95.0
	updated := p.UpdateChunkObject(key, "a", world.AreaObjectPatch{Label: &label, HeightBias: &bias})
	got := updated.Chunk(key).Objects[0]
	assert.Equal(t, "Дом", got.Label)
	assert.Equal(t, -95.0, got.HeightBias)
	assert.Equal(t, 10.0, got.Position.X, "незаданные поля не меняются")
	assert.Equal(t, "", p.Chunk(key).Objects[0].Label, "исходный проект не меняется")

	assert.Same(t, p, p.UpdateChunkObject(key, "missing", world.AreaObjectPatch{Label: &label}))
	assert.Same(t, p, p.RemoveChunkObject(key, "missing"))
	assert.Same(t, p, p.MoveChunkObject(key, other, "missing", obj))

	moved := p.MoveChunkObject(key, other, "a", world.AreaObject{ID: "a", CRC32: 1, Position: vec.Vec3Float{X: 300}})
	assert.Len(t, moved.Chunk(key).Objects, 1)
	require.Len(t, moved.Chunk(other).Objects, 1)
	assert.Equal(t, 300.0, moved.Chunk(other).Objects[0].Position.X)

	removed := p.RemoveChunkObject(key, "b")
	require.Len(t, removed.Chunk(key).Objects, 1)
	assert.Equal(t, "a", removed.Chunk(key).Objects[0].ID)
}

func TestSettingsAndKeys(t *testing.T) {
	p := New("map", "me", 3)
	w := 4.0
	next := p.UpdateSettings(world.SettingsPatch{CellScale: &w, MapSize: &world.MapSize{Width: 3, Height: 2}})
	assert.Equal(t, 4.0, next.Settings.CellScale)
	assert.Equal(t, world.MapSize{Width: 3, Height: 2}, next.Settings.MapSize)
	assert.Equal(t, 200.0, p.Settings.CellScale)

	next = next.SetChunkAttributes("002001", world.NewAttributeGrid(1, 1)).
		SetChunkAttributes("000001", world.NewAttributeGrid(1, 1)).
		SetChunkAttributes("001000", world.NewAttributeGrid(1, 1))
	assert.Equal(t, []world.ChunkKey{"000001", "001000", "002001"}, next.ChunkKeys())

	hit, ok := next.LocateChunk(0, 0)
	require.True(t, ok)
	assert.Equal(t, world.ChunkKey("001001"), hit.Key)

	removed := next.RemoveChunk("001000")
	assert.False(t, removed.HasChunk("001000"))
	assert.Same(t, removed, removed.RemoveChunk("001000"))
}

func TestImportChunk_ResetsHistory(t *testing.T) {
	key := world.ChunkKey("000000")
	p := New("map", "me", 3).SetChunkHeightmap(key, flat(2, 1)).SetChunkHeightmap(key, flat(2, 2))
	require.Equal(t, 1, p.UndoDepth(key))

	imported := p.ImportChunk(key, world.Chunk{Heightmap: flat(2, 7), Objects: []world.AreaObject{{ID: "x"}}})
	assert.Equal(t, 0, imported.UndoDepth(key))
	assert.Equal(t, 7.0, imported.Chunk(key).Heightmap.At(0, 0))
	assert.Len(t, imported.Chunk(key).Objects, 1)
	assert.Same(t, p, p.ImportChunk(key, world.Chunk{}))
}

func TestSpawns(t *testing.T) {
	p := New("map", "me", 3)
	p = p.AddSpawn(world.CategoryMonsters, world.SpawnEntry{Type: world.SpawnMonster, Vnum: "101"})
	require.Len(t, p.Spawns.Monsters, 1)
	id := p.Spawns.Monsters[0].ID
	assert.NotEmpty(t, id, "пустой ID заменяется UUID")

	count := 5.0
	updated := p.UpdateSpawn(world.CategoryMonsters, id, world.SpawnPatch{Count: &count})
	assert.Equal(t, 5.0, updated.Spawns.Monsters[0].Count)
	assert.Equal(t, 0.0, p.Spawns.Monsters[0].Count)
	assert.Same(t, p, p.UpdateSpawn(world.CategoryNPCs, id, world.SpawnPatch{Count: &count}))

	removed := updated.RemoveSpawn(world.CategoryMonsters, id)
	assert.Empty(t, removed.Spawns.Monsters)
	assert.Same(t, removed, removed.RemoveSpawn(world.CategoryMonsters, id))

	set := p.SetSpawns(world.CategoryStones, []world.SpawnEntry{{ID: "s1", Type: world.SpawnStone}})
	assert.Len(t, set.Spawns.Stones, 1)
	assert.Len(t, set.Spawns.Monsters, 1)
}
