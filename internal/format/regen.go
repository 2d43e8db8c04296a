package format

import (
	"strings"

	"github.com/annel0/map-editor/internal/vec"
	"github.com/annel0/map-editor/internal/world"
	"github.com/google/uuid"
)

// RegenFile имя файла спавна монстров; остальные категории описаны в world.SpawnCategory
const RegenFile = "regen.txt"

// ParseRegen разбирает файл спавна: по строке на запись, 11 колонок через табуляцию
// (type cx cy sx sy z dir time percent count vnum). Пустые строки и комментарии "//"
// пропускаются. Нечисловые и отсутствующие числовые колонки дают NaN и замечание
// в отчёте. Каждая запись получает новый UUID.
func ParseRegen(content string) ([]world.SpawnEntry, Report) {
	var (
		entries []world.SpawnEntry
		report  Report
	)
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "//") {
			continue
		}
		cols := strings.Split(line, "\t")
		record := len(entries) + 1
		var issues []ValidationError

		col := func(i int) (string, bool) {
			if i < len(cols) {
				return cols[i], true
			}
			return "", false
		}
		num := func(i int, field string) float64 {
			tok, ok := col(i)
			if !ok {
				issues = append(issues, ValidationError{Record: record, Field: field})
				return nan()
			}
			v := ParseNumber(tok)
			if !isFinite(v) {
				issues = append(issues, ValidationError{Record: record, Field: field, Value: tok})
			}
			return v
		}

		typ := world.SpawnType(cols[0])
		if typ == "" {
			typ = world.SpawnMonster
		}
		e := world.SpawnEntry{
			ID:   uuid.NewString(),
			Type: typ,
		}
		e.Position.X = num(1, "position.x")
		e.Position.Y = num(2, "position.y")
		e.SpawnArea = vec.Vec2Float{X: num(3, "spawnArea.x"), Y: num(4, "spawnArea.y")}
		e.Position.Z = num(5, "position.z")
		e.Direction = num(6, "direction")
		e.RespawnTime, _ = col(7)
		e.Probability = num(8, "probability")
		e.Count = num(9, "count")
		e.Vnum, _ = col(10)

		report.addIssues(issues)
		entries = append(entries, e)
	}
	report.Records = len(entries)
	return entries, report
}

// SerializeRegen кодирует записи спавна: колонки через табуляцию, строки через "\n"
func SerializeRegen(entries []world.SpawnEntry) string {
	rows := make([]string, len(entries))
	for i, e := range entries {
		rows[i] = strings.Join([]string{
			string(e.Type),
			FormatNumber(e.Position.X),
			FormatNumber(e.Position.Y),
			FormatNumber(e.SpawnArea.X),
			FormatNumber(e.SpawnArea.Y),
			FormatNumber(e.Position.Z),
			FormatNumber(e.Direction),
			e.RespawnTime,
			FormatNumber(e.Probability),
			FormatNumber(e.Count),
			e.Vnum,
		}, "\t")
	}
	return strings.Join(rows, "\n")
}
