package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/annel0/map-editor/internal/api"
	"github.com/annel0/map-editor/internal/config"
	"github.com/annel0/map-editor/internal/eventbus"
	"github.com/annel0/map-editor/internal/logging"
	"github.com/annel0/map-editor/internal/observability"
	"github.com/annel0/map-editor/internal/project"
	"github.com/annel0/map-editor/internal/session"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	var (
		configPath = flag.String("config", "", "YAML config file (default: $MAP_EDITOR_CONFIG)")
		importPath = flag.String("import", "", "Map folder or zip archive to import at startup")
		loadName   = flag.String("load", "", "Saved project to open at startup")
	)
	flag.Parse()

	if err := config.LoadEnv(); err != nil {
		log.Fatalf("❌ Ошибка чтения .env: %v", err)
	}
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("❌ Ошибка загрузки конфигурации: %v", err)
	}

	configureLogging(&cfg.Logging)
	if err := logging.InitDefaultLogger("server"); err != nil {
		log.Fatalf("❌ Ошибка инициализации логирования: %v", err)
	}
	defer logging.CloseDefaultLogger()

	logging.Info("🗺️  Запуск сервера редактора карт...")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// === ТРАССИРОВКА ===
	if cfg.Telemetry.Enabled {
		shutdown, err := observability.InitTelemetry(ctx, cfg.Telemetry.GetServiceName())
		if err != nil {
			logging.Warn("⚠️  OpenTelemetry не инициализирован: %v", err)
		} else {
			defer func() {
				if err := shutdown(context.Background()); err != nil {
					logging.Error("❌ Ошибка остановки OpenTelemetry: %v", err)
				}
			}()
		}
	}

	// === ШИНА СОБЫТИЙ ===
	bus := newEventBus(&cfg.Events)
	eventbus.Init(bus)
	defer bus.Close()

	if _, err := eventbus.StartLoggingListener(bus); err != nil {
		logging.Error("❌ Ошибка подписки логгера событий: %v", err)
	}
	exporter, err := eventbus.NewMetricsExporter(bus, prometheus.DefaultRegisterer)
	if err != nil {
		log.Fatalf("❌ Ошибка регистрации метрик шины: %v", err)
	}
	exporter.Start()
	defer exporter.Stop()

	// === СЕССИЯ РЕДАКТОРА ===
	p := project.New(cfg.Editor.GetProjectName(), cfg.Editor.GetAuthor(), cfg.Editor.GetCoordinateDigits())
	editor := session.New(p, nil, bus)
	editor.SetAttributeSize(cfg.Editor.GetAttributeSize())

	integration, err := api.NewServerIntegration(api.IntegrationConfig{
		Config:  cfg,
		Session: editor,
	})
	if err != nil {
		log.Fatalf("❌ Ошибка создания REST API интеграции: %v", err)
	}

	if *loadName != "" {
		loaded, err := integration.GetRepo().Load(ctx, *loadName)
		if err != nil {
			logging.Error("❌ Не удалось открыть проект %q: %v", *loadName, err)
		} else {
			editor.Replace(loaded)
		}
	}
	if *importPath != "" {
		importAtStartup(editor, *importPath)
	}

	if err := integration.Start(); err != nil {
		log.Fatalf("❌ Ошибка запуска REST API: %v", err)
	}

	port := cfg.Server.GetRESTPort()
	logging.Info("✅ Редактор готов")
	logging.Info("   🌐 REST API: http://localhost:%d/api/project", port)
	logging.Info("   ❤️  Health check: http://localhost:%d/health", port)
	logging.Info("   📈 Метрики: http://localhost:%d/metrics", port)

	<-ctx.Done()
	logging.Info("📡 Получен сигнал завершения, остановка...")

	if err := integration.Stop(); err != nil {
		logging.Error("❌ Ошибка остановки REST API: %v", err)
	}
	logging.Info("👋 Сервер успешно остановлен")
}

// newEventBus шина выбранного бэкенда; при недоступном NATS остаётся in-memory
func newEventBus(cfg *config.EventsConfig) eventbus.EventBus {
	if cfg.GetBackend() == config.BackendNATS {
		bus, err := eventbus.NewJetStreamBus(cfg.GetNATSURL(), cfg.GetStream(), 24*time.Hour)
		if err == nil {
			logging.Info("📨 События публикуются в NATS JetStream (%s)", cfg.GetNATSURL())
			return bus
		}
		logging.Warn("⚠️  NATS недоступен, используется in-memory шина: %v", err)
	}
	return eventbus.NewMemoryBus(1024)
}

func configureLogging(cfg *config.LoggingConfig) {
	opts := logging.Options{
		Dir:          cfg.GetDir(),
		Format:       cfg.GetFormat(),
		ConsoleLevel: logging.ParseLevel(cfg.GetLevel()),
		FileLevel:    logging.DEBUG,
		MaxSizeMB:    50,
		MaxBackups:   5,
		MaxAgeDays:   14,
	}
	if cfg.MaxSizeMB > 0 {
		opts.MaxSizeMB = cfg.MaxSizeMB
	}
	if cfg.MaxBackups > 0 {
		opts.MaxBackups = cfg.MaxBackups
	}
	if cfg.MaxAgeDays > 0 {
		opts.MaxAgeDays = cfg.MaxAgeDays
	}
	logging.Configure(opts)
}

// importAtStartup загружает папку карты или zip-архив в сессию
func importAtStartup(editor *session.Session, path string) {
	info, err := os.Stat(path)
	if err != nil {
		logging.Error("❌ Импорт %s: %v", path, err)
		return
	}

	if info.IsDir() {
		report, err := editor.ImportDir(os.DirFS(path))
		if err != nil {
			logging.Error("❌ Импорт %s: %v", path, err)
			return
		}
		logging.Info("📥 Импортирована папка %s: карт высот %d, ошибок %d", path, report.Heightmaps, len(report.Failed))
		return
	}

	f, err := os.Open(path)
	if err != nil {
		logging.Error("❌ Импорт %s: %v", path, err)
		return
	}
	defer f.Close()
	report, err := editor.Import(f, info.Size())
	if err != nil {
		logging.Error("❌ Импорт %s: %v", path, err)
		return
	}
	logging.Info("📥 Импортирован архив %s: карт высот %d, ошибок %d", path, report.Heightmaps, len(report.Failed))
}
