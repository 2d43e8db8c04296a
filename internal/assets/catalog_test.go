package assets

import (
	"testing"
	"testing/fstest"

	"github.com/annel0/map-editor/internal/util"
	"github.com/annel0/map-editor/internal/world"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpsert_PlaceholderReplaced(t *testing.T) {
	c := NewCatalog()
	added := c.Upsert(FromObjects([]world.AreaObject{{CRC32: 42}, {CRC32: 42}, {CRC32: 7}})...)
	assert.Equal(t, 2, added, "повторный CRC не дублируется")

	a, ok := c.Get("asset_42")
	require.True(t, ok)
	assert.Equal(t, "CRC 42", a.Label)

	c.Upsert(Asset{ID: "asset_42", Label: "Дом", CRC32: 42, GR2Path: "house.gr2"})
	a, _ = c.Get("asset_42")
	assert.Equal(t, "Дом", a.Label, "временная подпись заменяется")
	assert.Equal(t, "house.gr2", a.GR2Path)

	c.Upsert(Asset{ID: "asset_42", Label: "Другое имя", CRC32: 42, GR2Path: "other.gr2"})
	a, _ = c.Get("asset_42")
	assert.Equal(t, "Дом", a.Label, "настоящая подпись не перезаписывается")
	assert.Equal(t, "house.gr2", a.GR2Path, "путь к модели: первый известный")

	assert.Equal(t, []string{"asset_42", "asset_7"}, ids(c.List()))
}

func TestAddManual(t *testing.T) {
	c := NewCatalog()

	a, err := c.AddManual("", "", "d:/ymir work/tree.gr2")
	require.NoError(t, err)
	assert.Equal(t, util.CaseCRC32("D:/YMIR WORK/TREE.GR2"), a.CRC32, "CRC считается по пути без учёта регистра")
	assert.Equal(t, "d:/ymir work/tree.gr2", a.Label)

	b, err := c.AddManual("", "1234", "")
	require.NoError(t, err)
	assert.Equal(t, uint32(1234), b.CRC32)
	assert.Equal(t, "CRC 1234", b.Label)

	_, err = c.AddManual("name", "not a number", "")
	assert.ErrorIs(t, err, ErrNoCRC)
	assert.Equal(t, 2, c.Len())
}

func TestSearch(t *testing.T) {
	c := NewCatalog()
	c.Upsert(
		Asset{ID: "asset_100", Label: "Pine Tree", CRC32: 100},
		Asset{ID: "asset_2005", Label: "House", CRC32: 2005},
	)
	assert.Equal(t, []string{"asset_100"}, ids(c.Search("pine")))
	assert.Equal(t, []string{"asset_2005"}, ids(c.Search("200")))
	assert.Len(t, c.Search("  "), 2)
	assert.Empty(t, c.Search("stone"))
}

func TestImportProperties(t *testing.T) {
	fsys := fstest.MapFS{
		"property/building/house.prb": {Data: []byte("YPRT\n555\npropertyname \"House\"\nbuildingfile \"house.gr2\"\n")},
		"property/tree/pine.PRT":      {Data: []byte("YPRT\n556\ntreefile \"pine.spt\"\n")},
		"property/broken.prb":         {Data: []byte("garbage")},
		"property/readme.txt":         {Data: []byte("YPRT\n1\n")},
	}
	c := NewCatalog()
	c.Upsert(Asset{ID: "asset_555", Label: "CRC 555", CRC32: 555})

	report, err := c.ImportProperties(fsys)
	require.NoError(t, err)
	assert.Equal(t, ImportReport{Files: 3, Parsed: 2, Added: 1, Skipped: 1}, report)

	house, _ := c.Get("asset_555")
	assert.Equal(t, "House", house.Label)
	pine, _ := c.Get("asset_556")
	assert.Equal(t, "pine", pine.Label)
	assert.Equal(t, "pine.spt", pine.GR2Path)
}

func ids(assets []Asset) []string {
	out := make([]string, len(assets))
	for i, a := range assets {
		out[i] = a.ID
	}
	return out
}
