package format

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/annel0/map-editor/internal/world"
)

// SettingsFile имя файла настроек в корне папки карты
const SettingsFile = "Setting.txt"

// SettingsHeader первая строка Setting.txt
const SettingsHeader = "ScriptType,MapSetting"

var settingsSeparator = regexp.MustCompile(`[,\t]+`)

// ParseSettings разбирает Setting.txt. Пустые строки и комментарии "//" пропускаются;
// строка делится по запятым и табуляциям, а если получился один токен, то по пробелам.
// Неизвестные ключи игнорируются, отсутствующие получают значения по умолчанию.
func ParseSettings(content string) world.MapSettings {
	s := world.DefaultSettings()
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "//") {
			continue
		}
		parts := nonEmpty(settingsSeparator.Split(trimmed, -1))
		if len(parts) == 1 {
			parts = strings.Fields(trimmed)
		}
		if len(parts) == 0 {
			continue
		}
		key, rest := parts[0], parts[1:]
		value := strings.TrimSpace(strings.Join(rest, ","))

		switch key {
		case "CellScale":
			s.CellScale = ParseNumber(value)
		case "HeightScale":
			s.HeightScale = ParseNumber(value)
		case "ViewRadius":
			s.ViewRadius = ParseNumber(value)
		case "MapSize":
			if w, h, ok := finitePair(rest); ok {
				s.MapSize = world.MapSize{Width: int(math.Trunc(w)), Height: int(math.Trunc(h))}
			}
		case "BasePosition":
			if x, y, ok := finitePair(rest); ok {
				s.BasePosition = world.BasePosition{X: x, Y: y}
			}
		case "TextureSet":
			s.TextureSet = value
		case "Environment":
			s.Environment = value
		}
	}
	return s
}

// SerializeSettings кодирует настройки в Setting.txt (строки через "\n")
func SerializeSettings(s world.MapSettings) string {
	lines := []string{
		SettingsHeader,
		"",
		"CellScale," + FormatNumber(s.CellScale),
		"HeightScale," + FormatNumber(s.HeightScale),
		"ViewRadius," + FormatNumber(s.ViewRadius),
		"MapSize," + strconv.Itoa(s.MapSize.Width) + "," + strconv.Itoa(s.MapSize.Height),
		"BasePosition," + FormatNumber(s.BasePosition.X) + "," + FormatNumber(s.BasePosition.Y),
		"TextureSet," + s.TextureSet,
		"Environment," + s.Environment,
	}
	return strings.Join(lines, "\n")
}

func finitePair(rest []string) (float64, float64, bool) {
	if len(rest) < 2 {
		return 0, 0, false
	}
	a, b := ParseNumber(rest[0]), ParseNumber(rest[1])
	return a, b, isFinite(a) && isFinite(b)
}

func nonEmpty(parts []string) []string {
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
