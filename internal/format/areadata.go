package format

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/annel0/map-editor/internal/vec"
	"github.com/annel0/map-editor/internal/world"
)

// AreaDataFile имя файла объектов в папке чанка
const AreaDataFile = "AreaData.txt"

// ParseAreaData разбирает AreaData.txt. Блоки "Start Object" ... "End Object"
// (регистр не важен) дают по одному объекту; содержимое блока разбивается на токены
// x y z crc32 [поворот] [heightBias]. Блоки короче четырёх токенов, а также блоки
// без "End Object" пропускаются и учитываются в Report.Skipped. Идентификаторы obj_<индекс в base36> уникальны
// только в пределах одного вызова.
func ParseAreaData(content string) ([]world.AreaObject, Report) {
	var (
		objects []world.AreaObject
		report  Report
		inBlock bool
		block   []string
		index   int
		blocks  int
	)

	flush := func() {
		blocks++
		var tokens []string
		for _, line := range block {
			tokens = append(tokens, strings.Fields(line)...)
		}
		if len(tokens) < 4 {
			report.Skipped++
			return
		}

		var issues []ValidationError
		num := func(field, tok string) float64 {
			v := ParseNumber(tok)
			if !isFinite(v) {
				issues = append(issues, ValidationError{Record: blocks, Field: field, Value: tok})
			}
			return v
		}

		obj := world.AreaObject{
			ID: "obj_" + strconv.FormatInt(int64(index), 36),
			Position: vec.Vec3Float{
				X: num("position.x", tokens[0]),
				Y: num("position.y", tokens[1]),
				Z: num("position.z", tokens[2]),
			},
		}
		crc, ok := toUint32(ParseNumber(tokens[3]))
		if !ok {
			issues = append(issues, ValidationError{Record: blocks, Field: "crc32", Value: tokens[3]})
		}
		obj.CRC32 = crc

		rotation := "0"
		if len(tokens) > 4 {
			rotation = tokens[4]
		}
		obj.Rotation = parseRotation(rotation, func(tok string) float64 { return num("rotation", tok) })
		if len(tokens) > 5 {
			obj.HeightBias = num("heightBias", tokens[5])
		}

		report.addIssues(issues)
		objects = append(objects, obj)
		index++
	}

	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		lower := strings.ToLower(trimmed)
		switch {
		case strings.HasPrefix(lower, "start object"):
			if inBlock {
				blocks++
				report.Skipped++
			}
			inBlock = true
			block = block[:0]
		case strings.HasPrefix(lower, "end object"):
			if inBlock {
				flush()
			}
			inBlock = false
			block = block[:0]
		case inBlock:
			block = append(block, trimmed)
		}
	}

	if inBlock {
		report.Skipped++
	}

	report.Records = len(objects)
	return objects, report
}

// parseRotation: "x#y#z" задаёт все три оси, одиночное число только ось Z
func parseRotation(tok string, num func(string) float64) vec.Vec3Float {
	if !strings.Contains(tok, "#") {
		return vec.Vec3Float{Z: num(tok)}
	}
	parts := strings.Split(tok, "#")
	var r [3]float64
	for i := 0; i < len(parts) && i < 3; i++ {
		r[i] = num(parts[i])
	}
	return vec.Vec3Float{X: r[0], Y: r[1], Z: r[2]}
}

// SerializeAreaData кодирует объекты в AreaData.txt. Строки разделены "\n",
// завершающего перевода строки нет; нечисловые значения записываются как 0.000000.
func SerializeAreaData(objects []world.AreaObject) string {
	lines := make([]string, 0, len(objects)*6+4)
	lines = append(lines, "AreaDataFile", "")
	for i, obj := range objects {
		lines = append(lines,
			fmt.Sprintf("Start Object%03d", i),
			"    "+fixed6(obj.Position.X)+" "+fixed6(obj.Position.Y)+" "+fixed6(obj.Position.Z),
			"    "+strconv.FormatUint(uint64(obj.CRC32), 10),
			"    "+fixed6(obj.Rotation.X)+"#"+fixed6(obj.Rotation.Y)+"#"+fixed6(obj.Rotation.Z),
			"    "+fixed6(obj.HeightBias),
			"End Object",
		)
	}
	lines = append(lines, "", fmt.Sprintf("ObjectCount %d", len(objects)))
	return strings.Join(lines, "\n")
}

func fixed6(v float64) string {
	if !isFinite(v) {
		return "0.000000"
	}
	return strconv.FormatFloat(v, 'f', 6, 64)
}
