package world

// MapSize размер карты в чанках
type MapSize struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// BasePosition смещение карты в игровом мире (игровые единицы)
type BasePosition struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// MapSettings параметры карты из Setting.txt
type MapSettings struct {
	CellScale    float64      `json:"cellScale"`
	HeightScale  float64      `json:"heightScale"`
	ViewRadius   float64      `json:"viewRadius"`
	MapSize      MapSize      `json:"mapSize"`
	BasePosition BasePosition `json:"basePosition"`
	TextureSet   string       `json:"textureSet"`
	Environment  string       `json:"environment"`
}

// DefaultSettings значения, которые получает Setting.txt без соответствующих строк
func DefaultSettings() MapSettings {
	return MapSettings{
		CellScale:   200,
		HeightScale: 50,
		ViewRadius:  60000,
		MapSize:     MapSize{Width: 1, Height: 1},
	}
}

// NewProjectSettings настройки нового пустого проекта
func NewProjectSettings() MapSettings {
	s := DefaultSettings()
	s.BasePosition = BasePosition{X: 409600, Y: 921600}
	s.TextureSet = "textureset/metin2_a1.txt"
	s.Environment = "environment/metin2_map_a1.msenv"
	return s
}

// SettingsPatch частичное обновление настроек
type SettingsPatch struct {
	CellScale    *float64      `json:"cellScale,omitempty"`
	HeightScale  *float64      `json:"heightScale,omitempty"`
	ViewRadius   *float64      `json:"viewRadius,omitempty"`
	MapSize      *MapSize      `json:"mapSize,omitempty"`
	BasePosition *BasePosition `json:"basePosition,omitempty"`
	TextureSet   *string       `json:"textureSet,omitempty"`
	Environment  *string       `json:"environment,omitempty"`
}

// Apply возвращает копию настроек с применённым патчем
func (p SettingsPatch) Apply(s MapSettings) MapSettings {
	if p.CellScale != nil {
		s.CellScale = *p.CellScale
	}
	if p.HeightScale != nil {
		s.HeightScale = *p.HeightScale
	}
	if p.ViewRadius != nil {
		s.ViewRadius = *p.ViewRadius
	}
	if p.MapSize != nil {
		s.MapSize = *p.MapSize
	}
	if p.BasePosition != nil {
		s.BasePosition = *p.BasePosition
	}
	if p.TextureSet != nil {
		s.TextureSet = *p.TextureSet
	}
	if p.Environment != nil {
		s.Environment = *p.Environment
	}
	return s
}
