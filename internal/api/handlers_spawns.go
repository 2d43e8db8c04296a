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

// spawnCategory категория из пути; при ошибке отвечает 404
func spawnCategory(c *gin.Context) (world.SpawnCategory, bool) {
	category, known := world.ParseSpawnCategory(c.Param("category"))
	if !known {
		fail(c, http.StatusNotFound, "Неизвестная категория спавнов")
	}
	return category, known
}

// handleGetSpawns отдаёт категорию в JSON или, при ?format=regen, текстом regen-файла
func (rs *RestServer) handleGetSpawns(c *gin.Context) {
	category, known := spawnCategory(c)
	if !known {
		return
	}
	entries := rs.session.Project().Spawns.Get(category)
	if c.Query("format") == "regen" {
		c.Header("Content-Disposition", `attachment; filename="`+category.FileName()+`"`)
		c.String(http.StatusOK, format.SerializeRegen(entries))
		return
	}
	ok(c, "Спавны", newSpawns(entries))
}

// handlePutSpawns заменяет категорию содержимым regen-файла
func (rs *RestServer) handlePutSpawns(c *gin.Context) {
	category, known := spawnCategory(c)
	if !known {
		return
	}
	data, err := readBody(c)
	if err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	entries, report := format.ParseRegen(string(data))
	rs.session.Apply(session.Change{Type: eventbus.TypeSpawns, Payload: map[string]interface{}{"category": category, "entries": len(entries)}},
		func(p *project.Project) *project.Project { return p.SetSpawns(category, entries) })
	ok(c, "Спавны загружены", gin.H{"entries": len(entries), "report": report})
}

func (rs *RestServer) handleAddSpawn(c *gin.Context) {
	category, known := spawnCategory(c)
	if !known {
		return
	}
	var entry world.SpawnEntry
	if err := c.ShouldBindJSON(&entry); err != nil {
		fail(c, http.StatusBadRequest, "Неверный формат запроса: "+err.Error())
		return
	}
	p, _ := rs.session.Apply(session.Change{Type: eventbus.TypeSpawns, Payload: map[string]interface{}{"category": category, "added": 1}},
		func(p *project.Project) *project.Project { return p.AddSpawn(category, entry) })
	entries := p.Spawns.Get(category)
	c.JSON(http.StatusCreated, GenericResponse{Success: true, Message: "Спавн добавлен", Data: newSpawns(entries[len(entries)-1:])[0]})
}

func (rs *RestServer) handlePatchSpawn(c *gin.Context) {
	category, known := spawnCategory(c)
	if !known {
		return
	}
	var patch world.SpawnPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		fail(c, http.StatusBadRequest, "Неверный формат запроса: "+err.Error())
		return
	}
	id := c.Param("id")
	p, changed := rs.session.Apply(session.Change{Type: eventbus.TypeSpawns, Payload: map[string]interface{}{"category": category, "updated": id}},
		func(p *project.Project) *project.Project { return p.UpdateSpawn(category, id, patch) })
	if !changed {
		fail(c, http.StatusNotFound, "Спавн не найден")
		return
	}
	for _, e := range p.Spawns.Get(category) {
		if e.ID == id {
			ok(c, "Спавн обновлён", newSpawns([]world.SpawnEntry{e})[0])
			return
		}
	}
}

func (rs *RestServer) handleDeleteSpawn(c *gin.Context) {
	category, known := spawnCategory(c)
	if !known {
		return
	}
	id := c.Param("id")
	_, changed := rs.session.Apply(session.Change{Type: eventbus.TypeSpawns, Payload: map[string]interface{}{"category": category, "removed": id}},
		func(p *project.Project) *project.Project { return p.RemoveSpawn(category, id) })
	if !changed {
		fail(c, http.StatusNotFound, "Спавн не найден")
		return
	}
	ok(c, "Спавн удалён", nil)
}
