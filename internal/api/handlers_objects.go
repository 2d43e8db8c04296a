package api

import (
	"net/http"

	"github.com/annel0/map-editor/internal/eventbus"
	"github.com/annel0/map-editor/internal/project"
	"github.com/annel0/map-editor/internal/session"
	"github.com/annel0/map-editor/internal/world"
	"github.com/gin-gonic/gin"
)

// PlaceObjectRequest размещение объекта каталога в точке мира
type PlaceObjectRequest struct {
	X         float64            `json:"x"`
	Z         float64            `json:"z"`
	AssetID   string             `json:"assetId" binding:"required"`
	Placement *session.Placement `json:"placement"`
}

func (rs *RestServer) handlePlaceObject(c *gin.Context) {
	var req PlaceObjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Неверный формат запроса: "+err.Error())
		return
	}
	asset, found := rs.session.Catalog().Get(req.AssetID)
	if !found {
		fail(c, http.StatusNotFound, "Объект каталога не найден")
		return
	}
	placement := session.DefaultPlacement()
	if req.Placement != nil {
		placement = *req.Placement
	}
	key, obj, placed := rs.session.PlaceObject(req.X, req.Z, asset, placement)
	if !placed {
		fail(c, http.StatusBadRequest, "Точка вне карты")
		return
	}
	c.JSON(http.StatusCreated, GenericResponse{
		Success: true,
		Message: "Объект размещён",
		Data:    gin.H{"chunk": key, "object": newObjects([]world.AreaObject{obj})[0]},
	})
}

func (rs *RestServer) handlePatchObject(c *gin.Context) {
	var patch world.AreaObjectPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		fail(c, http.StatusBadRequest, "Неверный формат запроса: "+err.Error())
		return
	}
	key, valid := rs.chunkKey(c, rs.session.Project())
	if !valid {
		return
	}
	id := c.Param("id")
	p, changed := rs.session.Apply(session.Change{Type: eventbus.TypeChunkObjects, ChunkKey: key, Payload: map[string]string{"updated": id}},
		func(p *project.Project) *project.Project { return p.UpdateChunkObject(key, id, patch) })
	if !changed {
		fail(c, http.StatusNotFound, "Объект не найден")
		return
	}
	chunk := p.Chunk(key)
	idx := chunk.ObjectIndex(id)
	ok(c, "Объект обновлён", newObjects(chunk.Objects[idx : idx+1])[0])
}

func (rs *RestServer) handleDeleteObject(c *gin.Context) {
	key, valid := rs.chunkKey(c, rs.session.Project())
	if !valid {
		return
	}
	id := c.Param("id")
	_, changed := rs.session.Apply(session.Change{Type: eventbus.TypeChunkObjects, ChunkKey: key, Payload: map[string]string{"removed": id}},
		func(p *project.Project) *project.Project { return p.RemoveChunkObject(key, id) })
	if !changed {
		fail(c, http.StatusNotFound, "Объект не найден")
		return
	}
	ok(c, "Объект удалён", nil)
}

// handleTransformObject переносит объект по данным гизмо редактора
func (rs *RestServer) handleTransformObject(c *gin.Context) {
	var t session.Transform
	if err := c.ShouldBindJSON(&t); err != nil {
		fail(c, http.StatusBadRequest, "Неверный формат запроса: "+err.Error())
		return
	}
	key, valid := rs.chunkKey(c, rs.session.Project())
	if !valid {
		return
	}
	id := c.Param("id")
	dest, moved := rs.session.TransformObject(key, id, t)
	if !moved {
		fail(c, http.StatusNotFound, "Объект не найден или точка вне карты")
		return
	}
	chunk := rs.session.Project().Chunk(dest)
	idx := chunk.ObjectIndex(id)
	if idx < 0 {
		fail(c, http.StatusConflict, "Объект изменён параллельно")
		return
	}
	ok(c, "Объект перемещён", gin.H{"chunk": dest, "object": newObjects(chunk.Objects[idx : idx+1])[0]})
}
