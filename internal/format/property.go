package format

import (
	"regexp"
	"strconv"
	"strings"
)

// PropertyMagic первая строка файла свойств объекта (.prb/.prt)
const PropertyMagic = "YPRT"

var quotedValue = regexp.MustCompile(`"([^"]*)"`)

// PropertyAsset объект каталога, описанный файлом свойств
type PropertyAsset struct {
	ID      string `json:"id"`
	Label   string `json:"label"`
	CRC32   uint32 `json:"crc32"`
	GR2Path string `json:"gr2Path,omitempty"`
}

// ParsePropertyFile разбирает файл свойств. Возвращает false, если первая строка
// не YPRT или вторая не является конечным числом. Для каждого ключа берётся
// первое вхождение; значение это первая подстрока в двойных кавычках.
func ParsePropertyFile(content, filename string) (PropertyAsset, bool) {
	var lines []string
	for _, line := range strings.Split(content, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) < 2 || lines[0] != PropertyMagic {
		return PropertyAsset{}, false
	}
	crc, ok := toUint32(ParseNumber(lines[1]))
	if !ok {
		return PropertyAsset{}, false
	}

	fields := make(map[string]string)
	for _, line := range lines[2:] {
		tokens := strings.Fields(line)
		if len(tokens) == 0 {
			continue
		}
		key := strings.ToLower(tokens[0])
		if _, seen := fields[key]; seen {
			continue
		}
		value := ""
		if m := quotedValue.FindStringSubmatch(line); m != nil {
			value = m[1]
		}
		fields[key] = value
	}

	label := fields["propertyname"]
	if label == "" {
		label = fileStem(filename)
	}
	gr2 := fields["buildingfile"]
	if gr2 == "" {
		gr2 = fields["treefile"]
	}

	return PropertyAsset{
		ID:      "asset_" + strconv.FormatUint(uint64(crc), 10),
		Label:   label,
		CRC32:   crc,
		GR2Path: gr2,
	}, true
}

// fileStem имя файла без каталога и последнего расширения; обратные слэши считаются разделителями
func fileStem(name string) string {
	base := strings.ReplaceAll(name, "\\", "/")
	if i := strings.LastIndex(base, "/"); i >= 0 {
		base = base[i+1:]
	}
	if dot := strings.LastIndex(base, "."); dot >= 0 {
		return base[:dot]
	}
	return base
}
