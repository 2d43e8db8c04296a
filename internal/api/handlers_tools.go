package api

import (
	"net/http"

	"github.com/annel0/map-editor/internal/brush"
	"github.com/annel0/map-editor/internal/session"
	"github.com/annel0/map-editor/internal/world"
	"github.com/gin-gonic/gin"
)

// TerrainStrokeRequest мазок кисти рельефа в мировых координатах редактора
type TerrainStrokeRequest struct {
	X         float64      `json:"x"`
	Z         float64      `json:"z"`
	Brush     *brush.Brush `json:"brush"`
	Mode      string       `json:"mode" binding:"required"`
	Intensity *float64     `json:"intensity"`
}

// AttributeStrokeRequest мазок кисти атрибутов
type AttributeStrokeRequest struct {
	X     float64      `json:"x"`
	Z     float64      `json:"z"`
	Brush *brush.Brush `json:"brush"`
	Mode  string       `json:"mode" binding:"required"`
	Flag  string       `json:"flag" binding:"required"`
}

func brushOrDefault(b *brush.Brush) brush.Brush {
	if b == nil {
		return brush.DefaultBrush()
	}
	return *b
}

func (rs *RestServer) handleTerrainStroke(c *gin.Context) {
	var req TerrainStrokeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Неверный формат запроса: "+err.Error())
		return
	}
	mode, valid := brush.ParseTerrainMode(req.Mode)
	if !valid {
		fail(c, http.StatusBadRequest, "Неизвестный режим кисти: "+req.Mode)
		return
	}
	intensity := brush.DefaultIntensity
	if req.Intensity != nil {
		intensity = *req.Intensity
	}
	result, applied := rs.session.PaintTerrain(req.X, req.Z, session.TerrainStroke{
		Brush:     brushOrDefault(req.Brush),
		Mode:      mode,
		Intensity: intensity,
	})
	if !applied {
		fail(c, http.StatusBadRequest, "Точка вне карты")
		return
	}
	ok(c, "Рельеф изменён", gin.H{"stroke": result, "chunk": newChunk(rs.session.Project(), result.Key)})
}

func (rs *RestServer) handleAttributeStroke(c *gin.Context) {
	var req AttributeStrokeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Неверный формат запроса: "+err.Error())
		return
	}
	mode, valid := brush.ParseAttributeMode(req.Mode)
	if !valid {
		fail(c, http.StatusBadRequest, "Неизвестный режим кисти: "+req.Mode)
		return
	}
	flag, valid := world.ParseAttrFlag(req.Flag)
	if !valid {
		fail(c, http.StatusBadRequest, "Неизвестный флаг атрибута: "+req.Flag)
		return
	}
	result, applied := rs.session.PaintAttributes(req.X, req.Z, session.AttributeStroke{
		Brush: brushOrDefault(req.Brush),
		Mode:  mode,
		Flag:  flag,
	})
	if !applied {
		fail(c, http.StatusBadRequest, "Точка вне карты")
		return
	}
	ok(c, "Атрибуты изменены", gin.H{"stroke": result, "chunk": newChunk(rs.session.Project(), result.Key)})
}
