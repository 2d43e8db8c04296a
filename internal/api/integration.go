package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/annel0/map-editor/internal/config"
	"github.com/annel0/map-editor/internal/logging"
	"github.com/annel0/map-editor/internal/session"
	"github.com/annel0/map-editor/internal/storage"
	"github.com/prometheus/client_golang/prometheus"
)

// ServerIntegration поднимает REST API редактора вместе с хранилищем проектов
type ServerIntegration struct {
	restServer *RestServer
	repo       storage.ProjectRepo
	httpServer *http.Server
	logger     *logging.Logger
	ctx        context.Context
	cancel     context.CancelFunc
}

// IntegrationConfig содержит конфигурацию для интеграции
type IntegrationConfig struct {
	// Конфигурация редактора (порт, хранилище, кэш)
	Config *config.Config

	// Сессия редактирования; nil означает пустой проект
	Session *session.Session

	// Регистры метрик; nil означает глобальные
	Registry prometheus.Registerer
	Gatherer prometheus.Gatherer
}

// OpenRepo открывает хранилище проектов выбранного бэкенда
func OpenRepo(ctx context.Context, cfg *config.StorageConfig) (storage.ProjectRepo, error) {
	switch backend := cfg.GetBackend(); backend {
	case config.BackendMemory:
		return storage.NewMemoryProjectRepo(), nil
	case config.BackendBadger:
		return storage.NewBadgerProjectRepo(cfg.GetDataPath())
	case config.BackendRedis:
		redisCfg := storage.DefaultRedisConfig()
		redisCfg.Addr = cfg.GetRedisAddr()
		redisCfg.Password = cfg.GetRedisPassword()
		redisCfg.DB = cfg.RedisDB
		return storage.NewRedisProjectRepo(ctx, redisCfg)
	default:
		return nil, fmt.Errorf("неизвестный бэкенд хранилища: %q", backend)
	}
}

// NewServerIntegration открывает хранилище и создаёт REST сервер
func NewServerIntegration(cfg IntegrationConfig) (*ServerIntegration, error) {
	if cfg.Config == nil {
		cfg.Config = &config.Config{}
	}
	ctx, cancel := context.WithCancel(context.Background())
	logger := logging.GetServerLogger()

	repo, err := OpenRepo(ctx, &cfg.Config.Storage)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("не удалось открыть хранилище: %w", err)
	}
	logger.Info("✅ Хранилище проектов: %s", cfg.Config.Storage.GetBackend())

	restServer, err := NewRestServer(Config{
		Port:     fmt.Sprintf(":%d", cfg.Config.Server.GetRESTPort()),
		Session:  cfg.Session,
		Repo:     repo,
		CacheMB:  cfg.Config.Editor.GetExportCacheMB(),
		Registry: cfg.Registry,
		Gatherer: cfg.Gatherer,
	})
	if err != nil {
		repo.Close()
		cancel()
		return nil, err
	}

	return &ServerIntegration{
		restServer: restServer,
		repo:       repo,
		logger:     logger,
		ctx:        ctx,
		cancel:     cancel,
	}, nil
}

// Start запускает REST API сервер. Ошибка возвращается, если порт занят.
func (si *ServerIntegration) Start() error {
	listener, err := net.Listen("tcp", si.restServer.port)
	if err != nil {
		return fmt.Errorf("не удалось открыть порт %s: %w", si.restServer.port, err)
	}

	// Создаем HTTP сервер для graceful shutdown
	si.httpServer = &http.Server{
		Handler:           si.restServer.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := si.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			si.logger.Error("❌ Ошибка REST API сервера: %v", err)
		}
	}()

	si.logger.Info("✅ REST API сервер запущен на http://%s", listener.Addr())
	si.logger.Info("📋 Эндпоинты: /health, /metrics, /api/project, /api/chunks, /api/tools, /api/objects, /api/spawns, /api/assets, /api/archive, /api/projects")
	return nil
}

// Stop останавливает REST API сервер и закрывает хранилище
func (si *ServerIntegration) Stop() error {
	si.logger.Info("🛑 Остановка REST API сервера...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var firstErr error
	if si.httpServer != nil {
		if err := si.httpServer.Shutdown(ctx); err != nil {
			si.logger.Error("❌ Ошибка при остановке HTTP сервера: %v", err)
			firstErr = err
		}
	}

	si.restServer.Close()
	if err := si.repo.Close(); err != nil {
		si.logger.Error("❌ Ошибка при закрытии хранилища: %v", err)
		if firstErr == nil {
			firstErr = err
		}
	}

	si.cancel()
	si.logger.Info("✅ REST API сервер остановлен")
	return firstErr
}

// GetRestServer возвращает REST сервер
func (si *ServerIntegration) GetRestServer() *RestServer {
	return si.restServer
}

// GetRepo возвращает хранилище проектов
func (si *ServerIntegration) GetRepo() storage.ProjectRepo {
	return si.repo
}

// IsHealthy проверяет, что интеграция не остановлена и хранилище отвечает
func (si *ServerIntegration) IsHealthy() bool {
	select {
	case <-si.ctx.Done():
		return false
	default:
	}
	ctx, cancel := context.WithTimeout(si.ctx, 2*time.Second)
	defer cancel()
	_, err := si.repo.List(ctx)
	return err == nil
}
