package format

import (
	"math"
	"strings"
	"testing"

	"github.com/annel0/map-editor/internal/vec"
	"github.com/annel0/map-editor/internal/world"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleAreaData = `AreaDataFile

Start Object000
    12800.000000 25600.500000 310.000000
    3847291053
    0.000000#0.000000#90.000000
    -95.000000
End Object
start object001
    100 200 300
    42
    45
End Object
Start Object002
    1 2 3
End Object

ObjectCount 3
`

func TestParseAreaData(t *testing.T) {
	objects, report := ParseAreaData(sampleAreaData)
	require.Len(t, objects, 2)
	assert.Equal(t, 1, report.Skipped, "блок из трёх токенов пропускается")
	assert.Equal(t, 2, report.Records)
	assert.True(t, report.Invalid == 0)

	first := objects[0]
	assert.Equal(t, "obj_0", first.ID)
	assert.Equal(t, uint32(3847291053), first.CRC32)
	assert.Equal(t, vec.Vec3Float{X: 12800, Y: 25600.5, Z: 310}, first.Position)
	assert.Equal(t, vec.Vec3Float{Z: 90}, first.Rotation)
	assert.Equal(t, -95.0, first.HeightBias)

	second := objects[1]
	assert.Equal(t, "obj_1", second.ID)
	assert.Equal(t, vec.Vec3Float{Z: 45}, second.Rotation, "одиночное число задаёт только ось Z")
	assert.Equal(t, 0.0, second.HeightBias)
}

func TestParseAreaData_Base36IDs(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 37; i++ {
		b.WriteString("Start Object\n1 2 3 4\nEnd Object\n")
	}
	objects, _ := ParseAreaData(b.String())
	require.Len(t, objects, 37)
	assert.Equal(t, "obj_a", objects[10].ID)
	assert.Equal(t, "obj_10", objects[36].ID)
}

func TestParseAreaData_LenientIssues(t *testing.T) {
	objects, report := ParseAreaData("Start Object\nabc 2 3 crc\n1#2\nEnd Object\n")
	require.Len(t, objects, 1)
	assert.True(t, math.IsNaN(objects[0].Position.X), "нечисловое значение переносится как NaN")
	assert.Equal(t, uint32(0), objects[0].CRC32)
	assert.Equal(t, vec.Vec3Float{X: 1, Y: 2, Z: 0}, objects[0].Rotation)
	assert.Equal(t, 1, report.Invalid)
	require.Len(t, report.Issues, 2)
	assert.Equal(t, "position.x", report.Issues[0].Field)
	assert.Equal(t, "crc32", report.Issues[1].Field)
}

func TestParseAreaData_UnterminatedBlocks(t *testing.T) {
	cases := []struct {
		name    string
		content string
		objects int
		skipped int
	}{
		{"хвост без End Object", "Start Object000\n1 2 3 4\nEnd Object\nStart Object001\n5 6 7 8\n", 1, 1},
		{"новый Start внутри блока", "Start Object000\n1 2 3 4\nStart Object001\n5 6 7 8\nEnd Object\n", 1, 1},
		{"пустой блок", "Start Object000\nEnd Object\n", 0, 1},
		{"End Object без Start", "End Object\nStart Object\n1 2 3 4\nEnd Object\n", 1, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			objects, report := ParseAreaData(tc.content)
			assert.Len(t, objects, tc.objects)
			assert.Equal(t, tc.skipped, report.Skipped)
			assert.Equal(t, tc.objects, report.Records)
		})
	}
}

func TestSerializeAreaData(t *testing.T) {
	objects := []world.AreaObject{{
		ID:         "x",
		CRC32:      42,
		Position:   vec.Vec3Float{X: 1.5, Y: -2, Z: math.NaN()},
		Rotation:   vec.Vec3Float{Z: 90},
		HeightBias: -95,
	}}
	expected := strings.Join([]string{
		"AreaDataFile",
		"",
		"Start Object000",
		"    1.500000 -2.000000 0.000000",
		"    42",
		"    0.000000#0.000000#90.000000",
		"    -95.000000",
		"End Object",
		"",
		"ObjectCount 1",
	}, "\n")
	assert.Equal(t, expected, SerializeAreaData(objects))
	assert.Equal(t, "AreaDataFile\n\n\nObjectCount 0", SerializeAreaData(nil))
}

func TestAreaData_RoundTrip(t *testing.T) {
	objects, _ := ParseAreaData(sampleAreaData)
	again, report := ParseAreaData(SerializeAreaData(objects))
	require.True(t, report.Clean())
	require.Len(t, again, len(objects))
	for i := range objects {
		assert.Equal(t, objects[i].CRC32, again[i].CRC32)
		assert.Equal(t, objects[i].Position, again[i].Position)
		assert.Equal(t, objects[i].Rotation, again[i].Rotation)
		assert.Equal(t, objects[i].HeightBias, again[i].HeightBias)
	}
}

func TestParseSettings(t *testing.T) {
	content := "ScriptType,MapSetting\r\n\r\n// comment\r\nCellScale,200\r\nHeightScale\t25\r\n" +
		"ViewRadius 128000\r\nMapSize,4,3\r\nBasePosition,409600,921600\r\n" +
		"TextureSet,textureset/metin2_a1.txt\r\nEnvironment,environment/a,b.msenv\r\nUnknown,1\r\n"

	s := ParseSettings(content)
	assert.Equal(t, 200.0, s.CellScale)
	assert.Equal(t, 25.0, s.HeightScale)
	assert.Equal(t, 128000.0, s.ViewRadius, "одиночный токен делится по пробелам")
	assert.Equal(t, world.MapSize{Width: 4, Height: 3}, s.MapSize)
	assert.Equal(t, world.BasePosition{X: 409600, Y: 921600}, s.BasePosition)
	assert.Equal(t, "textureset/metin2_a1.txt", s.TextureSet)
	assert.Equal(t, "environment/a,b.msenv", s.Environment, "значение собирается обратно через запятую")
}

func TestParseSettings_Defaults(t *testing.T) {
	s := ParseSettings("MapSize,abc,2\nBasePosition,1\nCellScale,oops\n")
	assert.Equal(t, world.MapSize{Width: 1, Height: 1}, s.MapSize, "нечисловой размер не применяется")
	assert.Equal(t, world.BasePosition{}, s.BasePosition)
	assert.True(t, math.IsNaN(s.CellScale), "одиночные числа переносят NaN")
	assert.Equal(t, 50.0, s.HeightScale)
	assert.Equal(t, 60000.0, s.ViewRadius)

	assert.Equal(t, 0.0, ParseSettings("CellScale").CellScale, "пустое значение как Number(\"\")")
}

func TestSerializeSettings(t *testing.T) {
	s := world.NewProjectSettings()
	s.MapSize = world.MapSize{Width: 2, Height: 3}
	s.HeightScale = 12.5
	expected := "ScriptType,MapSetting\n\nCellScale,200\nHeightScale,12.5\nViewRadius,60000\n" +
		"MapSize,2,3\nBasePosition,409600,921600\nTextureSet,textureset/metin2_a1.txt\n" +
		"Environment,environment/metin2_map_a1.msenv"
	assert.Equal(t, expected, SerializeSettings(s))
	assert.Equal(t, s, ParseSettings(SerializeSettings(s)))
}

func TestParsePropertyFile(t *testing.T) {
	content := "YPRT\n123456\npropertyname \"Big House\"\npropertytype \"Building\"\n" +
		"buildingfile \"d:/ymir work/house.gr2\"\npropertyname \"Ignored\"\n"

	asset, ok := ParsePropertyFile(content, "property\\building\\house.prb")
	require.True(t, ok)
	assert.Equal(t, PropertyAsset{ID: "asset_123456", Label: "Big House", CRC32: 123456, GR2Path: "d:/ymir work/house.gr2"}, asset)
}

func TestParsePropertyFile_Fallbacks(t *testing.T) {
	asset, ok := ParsePropertyFile("  YPRT \n 77 \ntreefile \"tree/pine.spt\"\nPropertyName\n", "C:\\props\\pine_01.prt")
	require.True(t, ok)
	assert.Equal(t, "pine_01", asset.Label, "пустое имя заменяется именем файла без расширения")
	assert.Equal(t, "tree/pine.spt", asset.GR2Path)

	_, ok = ParsePropertyFile("XPRT\n1\n", "a.prb")
	assert.False(t, ok, "неверная сигнатура")
	_, ok = ParsePropertyFile("YPRT\nabc\n", "a.prb")
	assert.False(t, ok, "CRC не число")
	_, ok = ParsePropertyFile("YPRT\n", "a.prb")
	assert.False(t, ok)
}

func TestParseRegen(t *testing.T) {
	content := "// monsters\n\nm\t100\t200\t10\t10\t0\t0\t60s\t100\t1\t101\r\ng\t5\t6\t1\t1\t0\t4\t120s\t50\t2\t1001\n"
	entries, report := ParseRegen(content)
	require.Len(t, entries, 2)
	assert.True(t, report.Clean())

	e := entries[0]
	assert.Equal(t, world.SpawnMonster, e.Type)
	assert.Equal(t, vec.Vec3Float{X: 100, Y: 200, Z: 0}, e.Position)
	assert.Equal(t, vec.Vec2Float{X: 10, Y: 10}, e.SpawnArea)
	assert.Equal(t, "60s", e.RespawnTime)
	assert.Equal(t, 100.0, e.Probability)
	assert.Equal(t, 1.0, e.Count)
	assert.Equal(t, "101", e.Vnum)
	assert.NotEmpty(t, e.ID)
	assert.NotEqual(t, entries[0].ID, entries[1].ID)
	assert.Equal(t, world.SpawnGroup, entries[1].Type)
	assert.Equal(t, 4.0, entries[1].Direction)
}

func TestParseRegen_MissingColumns(t *testing.T) {
	entries, report := ParseRegen("s\t1\t2")
	require.Len(t, entries, 1)
	e := entries[0]
	assert.Equal(t, 1.0, e.Position.X)
	assert.True(t, math.IsNaN(e.Position.Z))
	assert.True(t, math.IsNaN(e.Count))
	assert.Equal(t, "", e.Vnum)
	assert.Equal(t, "", e.RespawnTime)
	assert.Equal(t, 1, report.Invalid)
	assert.Len(t, report.Issues, 6)
}

func TestSerializeRegen(t *testing.T) {
	entries := []world.SpawnEntry{
		{Type: world.SpawnNPC, Position: vec.Vec3Float{X: 1, Y: 2, Z: 3}, SpawnArea: vec.Vec2Float{X: 4, Y: 5},
			Direction: 6, RespawnTime: "0", Probability: 100, Count: 1, Vnum: "20016"},
		{Type: world.SpawnMonster, Position: vec.Vec3Float{X: 1.5, Y: math.NaN()}, Vnum: "1"},
	}
	expected := "n\t1\t2\t4\t5\t3\t6\t0\t100\t1\t20016\nm\t1.5\tNaN\t0\t0\t0\t0\t\t0\t0\t1"
	assert.Equal(t, expected, SerializeRegen(entries))

	back, _ := ParseRegen(SerializeRegen(entries[:1]))
	require.Len(t, back, 1)
	back[0].ID = ""
	assert.Equal(t, entries[0], back[0])
}

func TestParseNumber(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"", 0},
		{"  42 ", 42},
		{"-1.5", -1.5},
		{".5", 0.5},
		{"1e3", 1000},
		{"0x1A", 26},
		{"0b101", 5},
		{"Infinity", math.Inf(1)},
		{"1e400", math.Inf(1)},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, ParseNumber(c.in), "ParseNumber(%q)", c.in)
	}
	for _, bad := range []string{"abc", "inf", "nan", "1_000", "0x", "12px", "NaN"} {
		assert.True(t, math.IsNaN(ParseNumber(bad)), "ParseNumber(%q) должен быть NaN", bad)
	}
}

func TestFormatNumber(t *testing.T) {
	cases := map[float64]string{
		0:           "0",
		200:         "200",
		-12.5:       "-12.5",
		0.1:         "0.1",
		1e21:        "1e+21",
		1e-7:        "1e-7",
		409600:      "409600",
		math.Inf(1): "Infinity",
	}
	for in, want := range cases {
		assert.Equal(t, want, FormatNumber(in))
	}
	assert.Equal(t, "NaN", FormatNumber(math.NaN()))
}
