package api

import (
	"errors"
	"net/http"

	"github.com/annel0/map-editor/internal/assets"
	"github.com/gin-gonic/gin"
)

// AddAssetRequest ручное добавление объекта в каталог
type AddAssetRequest struct {
	Label   string `json:"label"`
	CRC32   string `json:"crc32"`
	GR2Path string `json:"gr2Path"`
}

func (rs *RestServer) handleListAssets(c *gin.Context) {
	list := rs.session.Catalog().Search(c.Query("q"))
	if list == nil {
		list = []assets.Asset{}
	}
	ok(c, "Каталог объектов", list)
}

func (rs *RestServer) handleAddAsset(c *gin.Context) {
	var req AddAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Неверный формат запроса: "+err.Error())
		return
	}
	asset, err := rs.session.Catalog().AddManual(req.Label, req.CRC32, req.GR2Path)
	if errors.Is(err, assets.ErrNoCRC) {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		rs.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, GenericResponse{Success: true, Message: "Объект добавлен в каталог", Data: asset})
}
