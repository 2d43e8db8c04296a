package api

import (
	"net/http"

	"github.com/annel0/map-editor/internal/eventbus"
	"github.com/annel0/map-editor/internal/format"
	"github.com/annel0/map-editor/internal/project"
	"github.com/annel0/map-editor/internal/session"
	"github.com/annel0/map-editor/internal/world"
	"github.com/gin-gonic/gin"
)

// CreateProjectRequest запрос на создание пустого проекта
type CreateProjectRequest struct {
	Name             string         `json:"name" binding:"required"`
	Author           string         `json:"author"`
	CoordinateDigits int            `json:"coordinateDigits"`
	MapSize          *world.MapSize `json:"mapSize"`
}

func (rs *RestServer) handleGetProject(c *gin.Context) {
	ok(c, "Проект", newProject(rs.session.Project()))
}

func (rs *RestServer) handleCreateProject(c *gin.Context) {
	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Неверный формат запроса: "+err.Error())
		return
	}
	p := project.New(req.Name, req.Author, req.CoordinateDigits)
	if req.MapSize != nil {
		if req.MapSize.Width <= 0 || req.MapSize.Height <= 0 {
			fail(c, http.StatusBadRequest, "Размер карты должен быть положительным")
			return
		}
		p = p.UpdateSettings(world.SettingsPatch{MapSize: req.MapSize})
	}
	rs.session.Replace(p)
	rs.logger.Info("🆕 Создан проект %q", p.Name)
	c.JSON(http.StatusCreated, GenericResponse{Success: true, Message: "Проект создан", Data: newProject(p)})
}

// handleGetSettings отдаёт настройки в JSON или, при ?format=text, как Setting.txt
func (rs *RestServer) handleGetSettings(c *gin.Context) {
	p := rs.session.Project()
	if c.Query("format") == "text" {
		c.Header("Content-Disposition", `attachment; filename="`+format.SettingsFile+`"`)
		c.String(http.StatusOK, format.SerializeSettings(p.Settings))
		return
	}
	ok(c, "Настройки карты", newSettings(p.Settings))
}

func (rs *RestServer) handlePatchSettings(c *gin.Context) {
	var patch world.SettingsPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		fail(c, http.StatusBadRequest, "Неверный формат запроса: "+err.Error())
		return
	}
	if patch.MapSize != nil && (patch.MapSize.Width <= 0 || patch.MapSize.Height <= 0) {
		fail(c, http.StatusBadRequest, "Размер карты должен быть положительным")
		return
	}
	p, _ := rs.session.Apply(session.Change{Type: eventbus.TypeSettings}, func(p *project.Project) *project.Project {
		return p.UpdateSettings(patch)
	})
	ok(c, "Настройки обновлены", newSettings(p.Settings))
}

// handlePutSettings заменяет настройки содержимым Setting.txt из тела запроса
func (rs *RestServer) handlePutSettings(c *gin.Context) {
	data, err := readBody(c)
	if err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	settings := format.ParseSettings(string(data))
	p, _ := rs.session.Apply(session.Change{Type: eventbus.TypeSettings}, func(p *project.Project) *project.Project {
		return p.ReplaceSettings(settings)
	})
	ok(c, "Настройки загружены", newSettings(p.Settings))
}
