// Package archive упаковывает проект в раскладку папки карты игры
// (XXXYYY/height.raw, XXXYYY/attr.atr, XXXYYY/AreaData.txt, Setting.txt, regen-файлы)
// и загружает её обратно из zip-архива или каталога.
package archive

import (
	"fmt"
	"strings"
)

// Layers выбирает, какие слои попадут в экспорт
type Layers struct {
	Heightmaps bool
	Attributes bool
	Objects    bool
	Settings   bool
	Spawns     bool
}

// AllLayers полный экспорт карты
func AllLayers() Layers {
	return Layers{Heightmaps: true, Attributes: true, Objects: true, Settings: true, Spawns: true}
}

// ParseLayers разбирает список слоёв через запятую: height, attr, objects, settings, spawns.
// Пустая строка или "all" означают все слои.
func ParseLayers(list string) (Layers, error) {
	list = strings.TrimSpace(list)
	if list == "" || list == "all" {
		return AllLayers(), nil
	}
	var l Layers
	for _, name := range strings.Split(list, ",") {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "height", "heightmap", "heightmaps":
			l.Heightmaps = true
		case "attr", "attributes":
			l.Attributes = true
		case "objects", "areadata":
			l.Objects = true
		case "settings":
			l.Settings = true
		case "spawns", "regen":
			l.Spawns = true
		case "":
		default:
			return Layers{}, fmt.Errorf("неизвестный слой %q", name)
		}
	}
	return l, nil
}
