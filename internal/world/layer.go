package world

// AttrFlag бит атрибута ячейки. Флаги независимы и комбинируются через OR.
type AttrFlag uint8

const (
	AttrBlocked  AttrFlag = 0x01 // непроходимая ячейка
	AttrWater    AttrFlag = 0x02 // вода
	AttrBannable AttrFlag = 0x04 // безопасная зона
)

// DefaultAttributeSize сторона пустой сетки атрибутов, создаваемой при первом мазке кистью
const DefaultAttributeSize = 256

// AllAttrFlags перечисляет известные флаги в порядке битов
var AllAttrFlags = []AttrFlag{AttrBlocked, AttrWater, AttrBannable}

// String возвращает имя флага
func (f AttrFlag) String() string {
	switch f {
	case AttrBlocked:
		return "blocked"
	case AttrWater:
		return "water"
	case AttrBannable:
		return "bannable"
	default:
		return "unknown"
	}
}

// ParseAttrFlag разбирает имя флага
func ParseAttrFlag(name string) (AttrFlag, bool) {
	for _, f := range AllAttrFlags {
		if f.String() == name {
			return f, true
		}
	}
	return 0, false
}
