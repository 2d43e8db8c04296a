package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/annel0/map-editor/internal/format"
	"github.com/annel0/map-editor/internal/logging"
	"github.com/annel0/map-editor/internal/middleware"
	"github.com/annel0/map-editor/internal/project"
	"github.com/annel0/map-editor/internal/session"
	"github.com/annel0/map-editor/internal/storage"
	"github.com/annel0/map-editor/internal/world"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// maxUploadBytes предел тела запроса с файлом карты или архивом
const maxUploadBytes = 256 << 20

// RestServer представляет REST API сервер редактора
type RestServer struct {
	router  *gin.Engine
	session *session.Session
	repo    storage.ProjectRepo
	cache   *ExportCache
	port    string
	metrics *ServerMetrics
	logger  *logging.Logger
}

// Config содержит конфигурацию для REST сервера
type Config struct {
	Port     string                // порт для запуска сервера
	Session  *session.Session      // сессия редактирования
	Repo     storage.ProjectRepo   // хранилище проектов
	CacheMB  int                   // объём кэша экспорта
	Registry prometheus.Registerer // регистр HTTP-метрик; nil означает глобальный
	Gatherer prometheus.Gatherer   // источник /metrics; nil означает глобальный
}

// GenericResponse представляет общий ответ API
type GenericResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// NewRestServer создает новый REST API сервер
func NewRestServer(config Config) (*RestServer, error) {
	if config.Port == "" {
		config.Port = ":8088"
	}
	if config.Session == nil {
		config.Session = session.New(nil, nil, nil)
	}
	if config.Repo == nil {
		config.Repo = storage.NewMemoryProjectRepo()
	}
	if config.Registry == nil {
		config.Registry = prometheus.DefaultRegisterer
	}
	if config.Gatherer == nil {
		config.Gatherer = prometheus.DefaultGatherer
	}

	cache, err := NewExportCache(config.CacheMB)
	if err != nil {
		return nil, err
	}

	// Устанавливаем режим релиза для gin
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()        // без стандартного logger/recovery
	router.Use(gin.Recovery()) // добавим только recovery

	// === Observability middleware ===
	router.Use(otelgin.Middleware("map_editor"))
	router.Use(middleware.NewRequestLogger().Handler())

	promMw, err := middleware.NewPrometheusMiddleware("map_editor", config.Registry)
	if err != nil {
		cache.Close()
		return nil, fmt.Errorf("не удалось зарегистрировать HTTP-метрики: %w", err)
	}
	router.Use(promMw.Handler())
	promMw.RegisterMetricsEndpoint(router, config.Gatherer)

	server := &RestServer{
		router:  router,
		session: config.Session,
		repo:    config.Repo,
		cache:   cache,
		port:    config.Port,
		metrics: NewServerMetrics(),
		logger:  logging.GetAPILogger(),
	}

	server.setupRoutes()
	return server, nil
}

// Router возвращает http.Handler сервера
func (rs *RestServer) Router() http.Handler {
	return rs.router
}

// Session сессия, которую обслуживает сервер
func (rs *RestServer) Session() *session.Session {
	return rs.session
}

// Close освобождает кэш экспорта
func (rs *RestServer) Close() {
	rs.cache.Close()
}

// setupRoutes настраивает маршруты REST API
func (rs *RestServer) setupRoutes() {
	// Middleware для CORS
	rs.router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	api := rs.router.Group("/api")
	api.GET("/server", rs.handleServerInfo)

	proj := api.Group("/project")
	{
		proj.GET("", rs.handleGetProject)
		proj.POST("", rs.handleCreateProject)
		proj.GET("/settings", rs.handleGetSettings)
		proj.PATCH("/settings", rs.handlePatchSettings)
		proj.PUT("/settings", rs.handlePutSettings)
	}

	chunks := api.Group("/chunks")
	{
		chunks.GET("", rs.handleListChunks)
		chunks.GET("/:key", rs.handleGetChunk)
		chunks.DELETE("/:key", rs.handleDeleteChunk)
		chunks.GET("/:key/files/:file", rs.handleGetChunkFile)
		chunks.PUT("/:key/files/:file", rs.handlePutChunkFile)
		chunks.POST("/:key/undo", rs.handleUndo)
		chunks.POST("/:key/redo", rs.handleRedo)
		chunks.POST("/:key/generate", rs.handleGenerate)
		chunks.PATCH("/:key/objects/:id", rs.handlePatchObject)
		chunks.DELETE("/:key/objects/:id", rs.handleDeleteObject)
		chunks.POST("/:key/objects/:id/transform", rs.handleTransformObject)
	}

	tools := api.Group("/tools")
	{
		tools.POST("/terrain", rs.handleTerrainStroke)
		tools.POST("/attributes", rs.handleAttributeStroke)
	}
	api.POST("/objects", rs.handlePlaceObject)

	spawns := api.Group("/spawns")
	{
		spawns.GET("/:category", rs.handleGetSpawns)
		spawns.PUT("/:category", rs.handlePutSpawns)
		spawns.POST("/:category", rs.handleAddSpawn)
		spawns.PATCH("/:category/:id", rs.handlePatchSpawn)
		spawns.DELETE("/:category/:id", rs.handleDeleteSpawn)
	}

	assets := api.Group("/assets")
	{
		assets.GET("", rs.handleListAssets)
		assets.POST("", rs.handleAddAsset)
	}

	archive := api.Group("/archive")
	{
		archive.POST("/import", rs.handleImportArchive)
		archive.GET("/export", rs.handleExportArchive)
	}

	projects := api.Group("/projects")
	{
		projects.GET("", rs.handleListProjects)
		projects.POST("/save", rs.handleSaveProject)
		projects.POST("/:name/load", rs.handleLoadProject)
		projects.DELETE("/:name", rs.handleDeleteProject)
	}

	// Health check
	rs.router.GET("/health", rs.handleHealth)
}

// chunkKey ключ чанка из пути: "XXXYYY", "XXYY" или "x,y", приведённый к ширине
// координат проекта. Для неразборчивого ключа отвечает 400 и возвращает false.
func (rs *RestServer) chunkKey(c *gin.Context, p *project.Project) (world.ChunkKey, bool) {
	key, valid := world.ResolveChunkKey(c.Param("key"), p.CoordinateDigits)
	if !valid {
		fail(c, http.StatusBadRequest, fmt.Sprintf("Некорректный ключ чанка: %q", c.Param("key")))
	}
	return key, valid
}

// readBody читает тело запроса с ограничением размера
func readBody(c *gin.Context) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(c.Request.Body, maxUploadBytes+1))
	if err != nil {
		return nil, err
	}
	if len(data) > maxUploadBytes {
		return nil, fmt.Errorf("тело запроса больше %d байт", maxUploadBytes)
	}
	return data, nil
}

func ok(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, GenericResponse{Success: true, Message: message, Data: data})
}

func fail(c *gin.Context, status int, message string) {
	c.JSON(status, GenericResponse{Success: false, Message: message})
}

// respondError переводит ошибку в HTTP-статус: ошибки формата дают 400
// с подробностями, отсутствующий проект 404, остальное 500.
func (rs *RestServer) respondError(c *gin.Context, err error) {
	var fe *format.FormatError
	switch {
	case errors.As(err, &fe):
		c.JSON(http.StatusBadRequest, GenericResponse{
			Success: false,
			Message: fe.Error(),
			Data: map[string]interface{}{
				"format":   fe.Format,
				"kind":     fe.Kind.Error(),
				"expected": fe.Expected,
				"actual":   fe.Actual,
			},
		})
	case errors.Is(err, storage.ErrProjectNotFound):
		fail(c, http.StatusNotFound, err.Error())
	case errors.Is(err, storage.ErrInvalidName):
		fail(c, http.StatusBadRequest, err.Error())
	default:
		_ = c.Error(err)
		rs.logger.Error("❌ %s %s: %v", c.Request.Method, c.FullPath(), err)
		fail(c, http.StatusInternalServerError, "Внутренняя ошибка сервера")
	}
}

// handleHealth проверка состояния
func (rs *RestServer) handleHealth(c *gin.Context) {
	p := rs.session.Project()
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"project":   p.Name,
		"revision":  p.Revision,
		"memory_mb": rs.metrics.AllocMB(),
	})
}

// handleServerInfo сведения о процессе, открытом проекте и кэше экспорта
func (rs *RestServer) handleServerInfo(c *gin.Context) {
	ok(c, "Информация о сервере", rs.metrics.Snapshot(rs.session.Project(), rs.cache))
}
