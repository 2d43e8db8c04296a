package world

import "github.com/annel0/map-editor/internal/vec"

// SpawnType тип записи regen-файла
type SpawnType string

const (
	SpawnMonster SpawnType = "m"
	SpawnGroup   SpawnType = "g"
	SpawnNPC     SpawnType = "n"
	SpawnStone   SpawnType = "s"
)

// SpawnCategory список спавнов проекта, соответствующий отдельному файлу карты
type SpawnCategory string

const (
	CategoryMonsters SpawnCategory = "monsters"
	CategoryNPCs     SpawnCategory = "npcs"
	CategoryBosses   SpawnCategory = "bosses"
	CategoryStones   SpawnCategory = "stones"
)

// AllCategories категории в порядке экспорта
var AllCategories = []SpawnCategory{CategoryMonsters, CategoryNPCs, CategoryBosses, CategoryStones}

// ParseSpawnCategory разбирает имя категории
func ParseSpawnCategory(name string) (SpawnCategory, bool) {
	for _, c := range AllCategories {
		if string(c) == name {
			return c, true
		}
	}
	return "", false
}

// FileName имя файла категории в папке карты
func (c SpawnCategory) FileName() string {
	switch c {
	case CategoryNPCs:
		return "npc.txt"
	case CategoryBosses:
		return "boss.txt"
	case CategoryStones:
		return "stone.txt"
	default:
		return "regen.txt"
	}
}

// SpawnEntry строка regen-файла. Числовые поля могут быть NaN, если исходный
// текст их не содержал: значение переносится как есть.
type SpawnEntry struct {
	ID          string        `json:"id"`
	Type        SpawnType     `json:"type"`
	Vnum        string        `json:"vnum"`
	Position    vec.Vec3Float `json:"position"`
	SpawnArea   vec.Vec2Float `json:"spawnArea"`
	Direction   float64       `json:"direction"`
	RespawnTime string        `json:"respawnTime"`
	Probability float64       `json:"probability"`
	Count       float64       `json:"count"`
}

// SpawnPatch частичное обновление записи спавна
type SpawnPatch struct {
	Type        *SpawnType     `json:"type,omitempty"`
	Vnum        *string        `json:"vnum,omitempty"`
	Position    *vec.Vec3Float `json:"position,omitempty"`
	SpawnArea   *vec.Vec2Float `json:"spawnArea,omitempty"`
	Direction   *float64       `json:"direction,omitempty"`
	RespawnTime *string        `json:"respawnTime,omitempty"`
	Probability *float64       `json:"probability,omitempty"`
	Count       *float64       `json:"count,omitempty"`
}

// Apply возвращает копию записи с применённым патчем
func (p SpawnPatch) Apply(e SpawnEntry) SpawnEntry {
	if p.Type != nil {
		e.Type = *p.Type
	}
	if p.Vnum != nil {
		e.Vnum = *p.Vnum
	}
	if p.Position != nil {
		e.Position = *p.Position
	}
	if p.SpawnArea != nil {
		e.SpawnArea = *p.SpawnArea
	}
	if p.Direction != nil {
		e.Direction = *p.Direction
	}
	if p.RespawnTime != nil {
		e.RespawnTime = *p.RespawnTime
	}
	if p.Probability != nil {
		e.Probability = *p.Probability
	}
	if p.Count != nil {
		e.Count = *p.Count
	}
	return e
}

// Spawns списки спавнов карты по категориям
type Spawns struct {
	Monsters []SpawnEntry `json:"monsters"`
	NPCs     []SpawnEntry `json:"npcs"`
	Bosses   []SpawnEntry `json:"bosses"`
	Stones   []SpawnEntry `json:"stones"`
}

// Get возвращает список категории
func (s Spawns) Get(c SpawnCategory) []SpawnEntry {
	switch c {
	case CategoryMonsters:
		return s.Monsters
	case CategoryNPCs:
		return s.NPCs
	case CategoryBosses:
		return s.Bosses
	case CategoryStones:
		return s.Stones
	}
	return nil
}

// With возвращает копию с заменённым списком категории
func (s Spawns) With(c SpawnCategory, entries []SpawnEntry) Spawns {
	switch c {
	case CategoryMonsters:
		s.Monsters = entries
	case CategoryNPCs:
		s.NPCs = entries
	case CategoryBosses:
		s.Bosses = entries
	case CategoryStones:
		s.Stones = entries
	}
	return s
}

// Total общее число записей
func (s Spawns) Total() int {
	return len(s.Monsters) + len(s.NPCs) + len(s.Bosses) + len(s.Stones)
}
