package api

import (
	"github.com/annel0/map-editor/internal/storage"
	"github.com/gin-gonic/gin"
)

func (rs *RestServer) handleListProjects(c *gin.Context) {
	list, err := rs.repo.List(c.Request.Context())
	if err != nil {
		rs.respondError(c, err)
		return
	}
	if list == nil {
		list = []storage.ProjectInfo{}
	}
	ok(c, "Сохранённые проекты", list)
}

// handleSaveProject сохраняет текущий проект под его именем
func (rs *RestServer) handleSaveProject(c *gin.Context) {
	p := rs.session.Project()
	if err := rs.repo.Save(c.Request.Context(), p); err != nil {
		rs.respondError(c, err)
		return
	}
	rs.logger.Info("💾 Проект %q сохранён (ревизия %d)", p.Name, p.Revision)
	ok(c, "Проект сохранён", gin.H{"name": p.Name, "revision": p.Revision})
}

// handleLoadProject делает сохранённый проект текущим
func (rs *RestServer) handleLoadProject(c *gin.Context) {
	p, err := rs.repo.Load(c.Request.Context(), c.Param("name"))
	if err != nil {
		rs.respondError(c, err)
		return
	}
	rs.session.Replace(p)
	ok(c, "Проект загружен", newProject(p))
}

func (rs *RestServer) handleDeleteProject(c *gin.Context) {
	if err := rs.repo.Delete(c.Request.Context(), c.Param("name")); err != nil {
		rs.respondError(c, err)
		return
	}
	ok(c, "Проект удалён", nil)
}
