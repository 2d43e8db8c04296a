package api

import (
	"bytes"
	"net/http"

	"github.com/annel0/map-editor/internal/archive"
	"github.com/annel0/map-editor/internal/observability"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
)

// handleImportArchive загружает zip с папкой карты в текущий проект
func (rs *RestServer) handleImportArchive(c *gin.Context) {
	ctx, span := observability.StartSpan(c.Request.Context(), "archive.import")
	defer span.End()

	data, err := readBody(c)
	if err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	span.SetAttributes(attribute.Int("archive.bytes", len(data)))

	report, err := rs.session.Import(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		span.RecordError(err)
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	span.SetAttributes(
		attribute.Int("archive.heightmaps", report.Heightmaps),
		attribute.Int("archive.failed", len(report.Failed)),
	)
	rs.logger.Info("📥 Импорт архива (%d байт), trace=%s", len(data), observability.TraceID(ctx))
	ok(c, "Архив импортирован", report)
}

// handleExportArchive отдаёт проект zip-архивом. ?layers= ограничивает набор слоёв.
func (rs *RestServer) handleExportArchive(c *gin.Context) {
	_, span := observability.StartSpan(c.Request.Context(), "archive.export")
	defer span.End()

	layers, err := archive.ParseLayers(c.Query("layers"))
	if err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	p := rs.session.Project()
	var buf bytes.Buffer
	if err := archive.Export(&buf, p, layers); err != nil {
		span.RecordError(err)
		rs.respondError(c, err)
		return
	}
	span.SetAttributes(attribute.Int("archive.bytes", buf.Len()))
	c.Header("Content-Disposition", `attachment; filename="`+archive.FileName(p)+`"`)
	c.Data(http.StatusOK, "application/zip", buf.Bytes())
}
