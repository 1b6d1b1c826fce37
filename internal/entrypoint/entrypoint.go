package entrypoint

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mrlokans/academia/internal/audit"
	"github.com/mrlokans/academia/internal/config"
	"github.com/mrlokans/academia/internal/database"
	auditRepo "github.com/mrlokans/academia/internal/database/audit"
	"github.com/mrlokans/academia/internal/database/authors"
	"github.com/mrlokans/academia/internal/database/departments"
	"github.com/mrlokans/academia/internal/database/scopus"
	http_controllers "github.com/mrlokans/academia/internal/http"
	"github.com/mrlokans/academia/internal/logger"
	"github.com/mrlokans/academia/internal/metrics"
	"github.com/mrlokans/academia/internal/readonly"
	"github.com/mrlokans/academia/internal/scheduler"
	"github.com/mrlokans/academia/internal/services"
	"github.com/mrlokans/academia/internal/tasks"
)

// App holds the wired application and everything that must be released on
// shutdown.
type App struct {
	Router *gin.Engine

	db           *database.Database
	auditService *audit.Service
	rateLimiter  *http_controllers.RateLimiter
	taskClient   *tasks.Client
	cleanup      *scheduler.AuditCleanupScheduler
	cancelTasks  context.CancelFunc
}

// Build opens storage and wires services, background workers and the router.
func Build(cfg *config.Config, version string) (*App, error) {
	db, err := database.Open(database.Options{
		Driver: cfg.Database.Driver,
		Path:   cfg.Database.Path,
		URL:    cfg.Database.URL,
		Debug:  cfg.Log.Level == "debug" || cfg.Log.Level == "trace",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	app := &App{db: db}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	collector := metrics.NewCollector(registry)

	auditEvents := auditRepo.NewRepository(db.DB)
	app.auditService = audit.NewService(auditEvents, collector)

	depRepo := departments.NewRepository(db.DB)
	authorRepo := authors.NewRepository(db.DB)
	accountRepo := scopus.NewRepository(db.DB)

	if cfg.Tasks.Enabled {
		if err := app.startTasks(cfg, auditEvents, collector); err != nil {
			app.Close(context.Background())
			return nil, err
		}
	}

	readOnly := readonly.NewMiddleware(cfg.ReadOnly.Enabled)
	if readOnly.IsEnabled() {
		log.Warn().Msg("read-only mode enabled, write operations will be rejected")
	}

	if cfg.RateLimit.Enabled {
		app.rateLimiter = http_controllers.NewRateLimiter(http_controllers.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:             cfg.RateLimit.Burst,
		}, collector)
	}

	app.Router = http_controllers.NewRouter(http_controllers.RouterConfig{
		Database:       db,
		Departments:    services.NewDepartmentService(depRepo, app.auditService),
		Authors:        services.NewAuthorService(authorRepo, depRepo, accountRepo, app.auditService),
		ScopusAccounts: services.NewScopusAccountService(accountRepo, authorRepo, app.auditService),
		AuditService:   app.auditService,
		Metrics:        collector,
		Gatherer:       registry,
		ReadOnly:       readOnly,
		RateLimiter:    app.rateLimiter,
		CORSOrigins:    cfg.CORS.Origins,
		Version:        version,
	})

	return app, nil
}

func (a *App) startTasks(cfg *config.Config, events *auditRepo.Repository, collector *metrics.Collector) error {
	if cfg.Audit.CleanupEnabled && cfg.Audit.CleanupSchedule != "" {
		if err := scheduler.ValidateCronSchedule(cfg.Audit.CleanupSchedule); err != nil {
			return fmt.Errorf("invalid AUDIT_CLEANUP_SCHEDULE %q: %w", cfg.Audit.CleanupSchedule, err)
		}
	}

	client, err := tasks.NewClient(cfg.Database.Path, tasks.Config{
		Workers:         cfg.Tasks.Workers,
		ReleaseAfter:    cfg.Tasks.ReleaseAfter,
		CleanupInterval: cfg.Tasks.CleanupInterval,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize task queue: %w", err)
	}
	a.taskClient = client

	client.Register(tasks.NewCleanupAuditEventsQueue(events, collector))

	var ctx context.Context
	ctx, a.cancelTasks = context.WithCancel(context.Background())
	go client.Start(ctx)

	if cfg.Audit.CleanupEnabled {
		a.cleanup = scheduler.NewAuditCleanupScheduler(client, cfg.Audit.CleanupSchedule, cfg.Audit.RetentionDays)
		if err := a.cleanup.Start(ctx); err != nil {
			return fmt.Errorf("failed to start audit cleanup scheduler: %w", err)
		}
	}
	return nil
}

// Close stops background work and releases storage. Safe on a partially
// built App.
func (a *App) Close(ctx context.Context) {
	if a.cleanup != nil {
		a.cleanup.Stop()
	}
	if a.taskClient != nil {
		a.taskClient.Stop(ctx)
		if a.cancelTasks != nil {
			a.cancelTasks()
		}
		if err := a.taskClient.Close(); err != nil {
			log.Error().Err(err).Msg("error closing task client")
		}
	}
	if a.rateLimiter != nil {
		a.rateLimiter.Stop()
	}
	if a.auditService != nil {
		a.auditService.Wait()
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			log.Error().Err(err).Msg("error closing database")
		}
	}
}

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second
	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)

	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("listen")
		}
	}()

	// kill (no param) sends SIGTERM, kill -2 is SIGINT
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Dur("timeout", timeout).Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Stop accepting requests before tearing down their dependencies.
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}

	if onShutdown != nil {
		onShutdown(ctx)
	}

	log.Info().Msg("server exiting")
}

func Run(cfg *config.Config, version string) {
	logger.Init(logger.Options{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty})
	if logger.ParseLevel(cfg.Log.Level) >= zerolog.InfoLevel {
		gin.SetMode(gin.ReleaseMode)
	}

	log.Info().Str("version", version).Msg("starting academic records API")

	app, err := Build(cfg, version)
	if err != nil {
		log.Fatal().Err(err).Msg("startup failed")
	}

	Serve(app.Router, cfg, app.Close)
}
