package api

import (
	"net/http"
	"strings"

	"github.com/annel0/map-editor/internal/eventbus"
	"github.com/annel0/map-editor/internal/format"
	"github.com/annel0/map-editor/internal/project"
	"github.com/annel0/map-editor/internal/session"
	"github.com/annel0/map-editor/internal/world"
	"github.com/gin-gonic/gin"
)

func (rs *RestServer) handleListChunks(c *gin.Context) {
	p := rs.session.Project()
	keys := p.ChunkKeys()
	out := make([]chunkDTO, 0, len(keys))
	for _, key := range keys {
		out = append(out, newChunk(p, key))
	}
	ok(c, "Чанки проекта", out)
}

func (rs *RestServer) handleGetChunk(c *gin.Context) {
	p := rs.session.Project()
	key, valid := rs.chunkKey(c, p)
	if !valid {
		return
	}
	if !p.HasChunk(key) {
		fail(c, http.StatusNotFound, "Чанк не найден")
		return
	}
	ok(c, "Чанк", gin.H{
		"chunk":   newChunk(p, key),
		"objects": newObjects(p.Chunk(key).Objects),
	})
}

func (rs *RestServer) handleDeleteChunk(c *gin.Context) {
	key, valid := rs.chunkKey(c, rs.session.Project())
	if !valid {
		return
	}
	_, changed := rs.session.Apply(session.Change{Type: eventbus.TypeChunkImported, ChunkKey: key, Payload: map[string]bool{"removed": true}},
		func(p *project.Project) *project.Project { return p.RemoveChunk(key) })
	if !changed {
		fail(c, http.StatusNotFound, "Чанк не найден")
		return
	}
	ok(c, "Чанк удалён", nil)
}

// chunkFile имя файла чанка без учёта регистра
func chunkFile(name string) (string, bool) {
	for _, f := range []string{format.HeightmapFile, format.AttributesFile, format.AreaDataFile} {
		if strings.EqualFold(name, f) {
			return f, true
		}
	}
	return "", false
}

// handleGetChunkFile отдаёт слой чанка в формате игры. Файлы строятся один раз
// на ревизию проекта и берутся из кэша экспорта.
func (rs *RestServer) handleGetChunkFile(c *gin.Context) {
	p := rs.session.Project()
	key, valid := rs.chunkKey(c, p)
	if !valid {
		return
	}
	file, known := chunkFile(c.Param("file"))
	if !known {
		fail(c, http.StatusNotFound, "Неизвестный файл чанка")
		return
	}
	chunk := p.Chunk(key)

	var build func() []byte
	switch file {
	case format.HeightmapFile:
		if chunk.Heightmap != nil {
			build = func() []byte { return format.SerializeHeightmap(chunk.Heightmap) }
		}
	case format.AttributesFile:
		if chunk.Attributes != nil {
			build = func() []byte { return format.SerializeAttributes(chunk.Attributes) }
		}
	case format.AreaDataFile:
		if chunk.Objects != nil {
			build = func() []byte { return []byte(format.SerializeAreaData(chunk.Objects)) }
		}
	}
	if build == nil {
		fail(c, http.StatusNotFound, "Слой отсутствует в чанке")
		return
	}

	data := rs.cache.Get(p, key, file, build)
	contentType := "application/octet-stream"
	if file == format.AreaDataFile {
		contentType = "text/plain; charset=utf-8"
	}
	c.Header("Content-Disposition", `attachment; filename="`+file+`"`)
	c.Data(http.StatusOK, contentType, data)
}

// handlePutChunkFile заменяет слой чанка содержимым файла из тела запроса
func (rs *RestServer) handlePutChunkFile(c *gin.Context) {
	file, known := chunkFile(c.Param("file"))
	if !known {
		fail(c, http.StatusNotFound, "Неизвестный файл чанка")
		return
	}
	data, err := readBody(c)
	if err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	key, valid := rs.chunkKey(c, rs.session.Project())
	if !valid {
		return
	}

	switch file {
	case format.HeightmapFile:
		h, err := format.ParseHeightmap(data)
		if err != nil {
			rs.respondError(c, err)
			return
		}
		rs.session.Apply(session.Change{Type: eventbus.TypeChunkHeightmap, ChunkKey: key},
			func(p *project.Project) *project.Project { return p.SetChunkHeightmap(key, h) })
		ok(c, "Карта высот загружена", newChunk(rs.session.Project(), key))

	case format.AttributesFile:
		g, err := format.ParseAttributes(data)
		if err != nil {
			rs.respondError(c, err)
			return
		}
		rs.session.Apply(session.Change{Type: eventbus.TypeChunkAttributes, ChunkKey: key},
			func(p *project.Project) *project.Project { return p.SetChunkAttributes(key, g) })
		counts := make(map[string]int, len(world.AllAttrFlags))
		for _, flag := range world.AllAttrFlags {
			counts[flag.String()] = g.CountFlag(flag)
		}
		ok(c, "Атрибуты загружены", counts)

	case format.AreaDataFile:
		objects, report := format.ParseAreaData(string(data))
		if objects == nil {
			objects = []world.AreaObject{}
		}
		rs.session.Apply(session.Change{Type: eventbus.TypeChunkObjects, ChunkKey: key},
			func(p *project.Project) *project.Project { return p.SetChunkObjects(key, objects) })
		ok(c, "Объекты загружены", report)
	}
}

func (rs *RestServer) handleUndo(c *gin.Context) {
	key, valid := rs.chunkKey(c, rs.session.Project())
	if !valid {
		return
	}
	if !rs.session.Undo(key) {
		fail(c, http.StatusConflict, "Нечего отменять")
		return
	}
	p := rs.session.Project()
	ok(c, "Изменение отменено", newChunk(p, key))
}

func (rs *RestServer) handleRedo(c *gin.Context) {
	key, valid := rs.chunkKey(c, rs.session.Project())
	if !valid {
		return
	}
	if !rs.session.Redo(key) {
		fail(c, http.StatusConflict, "Нечего повторять")
		return
	}
	p := rs.session.Project()
	ok(c, "Изменение повторено", newChunk(p, key))
}

// GenerateRequest запрос генерации рельефа
type GenerateRequest struct {
	Seed int64 `json:"seed"`
}

func (rs *RestServer) handleGenerate(c *gin.Context) {
	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Неверный формат запроса: "+err.Error())
		return
	}
	key, valid := rs.chunkKey(c, rs.session.Project())
	if !valid {
		return
	}
	if !rs.session.GenerateTerrain(key, req.Seed) {
		fail(c, http.StatusBadRequest, "Некорректный ключ чанка")
		return
	}
	ok(c, "Рельеф сгенерирован", newChunk(rs.session.Project(), key))
}
