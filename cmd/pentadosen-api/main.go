package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/pentadosen-api/api/swagger"
	"github.com/noah-isme/pentadosen-api/internal/handler"
	internalmiddleware "github.com/noah-isme/pentadosen-api/internal/middleware"
	"github.com/noah-isme/pentadosen-api/internal/models"
	"github.com/noah-isme/pentadosen-api/internal/repository"
	"github.com/noah-isme/pentadosen-api/internal/seed"
	"github.com/noah-isme/pentadosen-api/internal/service"
	"github.com/noah-isme/pentadosen-api/pkg/cache"
	"github.com/noah-isme/pentadosen-api/pkg/civildate"
	"github.com/noah-isme/pentadosen-api/pkg/config"
	"github.com/noah-isme/pentadosen-api/pkg/database"
	"github.com/noah-isme/pentadosen-api/pkg/export"
	"github.com/noah-isme/pentadosen-api/pkg/jobs"
	"github.com/noah-isme/pentadosen-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/pentadosen-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/pentadosen-api/pkg/middleware/requestid"
	"github.com/noah-isme/pentadosen-api/pkg/storage"
)

// @title PentaDosen API
// @version 1.0.0
// @description Lecturer research, publication and HKI records with a shared event calendar
// @BasePath /api/v1
// @schemes http

type stateRepository interface {
	Load(ctx context.Context, key string) (*models.StateRecord, error)
	Save(ctx context.Context, rec models.StateRecord) error
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if err := run(cfg, logr); err != nil {
		logr.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, logr *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	clock, err := civildate.NewClock(cfg.Timezone)
	if err != nil {
		return fmt.Errorf("load timezone: %w", err)
	}

	metricsSvc := service.NewMetricsService()

	var redisClient *redis.Client
	if cfg.State.Backend == config.StateBackendRedis || cfg.Dashboard.CacheEnabled {
		redisClient, err = cache.NewRedis(cfg.Redis)
		switch {
		case err != nil && cfg.State.Backend == config.StateBackendRedis:
			return fmt.Errorf("connect redis: %w", err)
		case err != nil:
			logr.Warn("redis unavailable, dashboard cache disabled", zap.Error(err))
			redisClient = nil
		default:
			defer redisClient.Close() //nolint:errcheck
		}
	}

	stateRepo, closeState, err := newStateRepository(ctx, cfg, redisClient)
	if err != nil {
		return err
	}
	defer closeState()
	stateStore := service.NewStateStore(stateRepo, metricsSvc, logr)

	seedData, err := seed.Load(cfg.Seed.File)
	if err != nil {
		return fmt.Errorf("load seed: %w", err)
	}

	activityMax := cfg.Dashboard.ActivityMax
	if activityMax <= 0 {
		activityMax = 500
	}
	activitySvc := service.NewActivityService(repository.NewActivityRepository(activityMax, seedData.Activities...), logr)
	validate := service.NewValidator()

	eventSvc := service.NewEventService(stateStore, activitySvc, clock, export.NewICSExporter("", ""), validate, logr)
	if err := eventSvc.Bootstrap(ctx, seedData.Events); err != nil {
		return fmt.Errorf("bootstrap events: %w", err)
	}
	notificationSvc := service.NewNotificationService(eventSvc, stateStore, clock, cfg.Notifications.HorizonDays, metricsSvc, logr)
	if err := notificationSvc.Bootstrap(ctx); err != nil {
		return fmt.Errorf("bootstrap read notifications: %w", err)
	}

	artifacts := service.NewArtifactPolicy(cfg.Uploads.MaxFileSizeBytes, cfg.Uploads.AllowedExtensions)
	researchSvc := service.NewResearchService(service.ResearchServiceParams{
		Repo:      repository.NewResearchRepository(seedData.Research...),
		Activity:  activitySvc,
		Artifacts: artifacts,
		Metrics:   metricsSvc,
		Validator: validate,
		Logger:    logr,
		Latency:   cfg.Uploads.SimulatedLatency,
	})
	publicationSvc := service.NewPublicationService(service.PublicationServiceParams{
		Repo:      repository.NewPublicationRepository(seedData.Publications...),
		Activity:  activitySvc,
		Artifacts: artifacts,
		Metrics:   metricsSvc,
		Validator: validate,
		Logger:    logr,
		Latency:   cfg.Uploads.SimulatedLatency,
	})
	hkiSvc := service.NewHKIService(service.HKIServiceParams{
		Repo:      repository.NewHKIRepository(seedData.HKI...),
		Activity:  activitySvc,
		Artifacts: artifacts,
		Metrics:   metricsSvc,
		Clock:     clock,
		Validator: validate,
		Logger:    logr,
		Latency:   cfg.Uploads.SimulatedLatency,
	})
	registrationSvc := service.NewRegistrationService(repository.NewLecturerRepository(), activitySvc, validate, logr)

	var cacheRepo service.CacheRepository
	if redisClient != nil {
		cacheRepo = repository.NewCacheRepository(redisClient, cfg.State.KeyPrefix, logr)
	}
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Dashboard.CacheTTL, logr, cfg.Dashboard.CacheEnabled)
	dashboardSvc := service.NewDashboardService(service.DashboardServiceParams{
		Research:      researchSvc,
		Publications:  publicationSvc,
		HKI:           hkiSvc,
		Notifications: notificationSvc,
		Activities:    activitySvc,
		Cache:         cacheSvc,
		Logger:        logr,
		Config:        service.DashboardServiceConfig{CacheTTL: cfg.Dashboard.CacheTTL},
	})
	activitySvc.OnRecord(func(ctx context.Context, _ models.Activity) { dashboardSvc.Invalidate(ctx) })

	exportStore, err := storage.NewLocalStorage(cfg.Exports.StorageDir)
	if err != nil {
		return fmt.Errorf("init export storage: %w", err)
	}
	exporter := service.NewExportService(service.ExportServiceParams{
		Research:     researchSvc,
		Publications: publicationSvc,
		HKI:          hkiSvc,
		Events:       eventSvc,
		Clock:        clock,
		Storage:      exportStore,
		Signer:       storage.NewSignedURLSigner(cfg.Exports.SignedURLSecret, cfg.Exports.SignedURLTTL),
		Logger:       logr,
		Config:       service.ExportConfig{APIPrefix: cfg.APIPrefix, ResultTTL: cfg.Exports.ResultTTL},
	})
	exportJobSvc := service.NewExportJobService(repository.NewExportJobRepository(), nil, exporter, activitySvc, metricsSvc, logr, service.ExportJobServiceConfig{
		ResultTTL:       cfg.Exports.ResultTTL,
		CleanupInterval: cfg.Exports.CleanupInterval,
	})
	exportQueue := jobs.NewQueue("exports", exportJobSvc.Handle, jobs.QueueConfig{
		Workers:    cfg.Exports.WorkerConcurrency,
		MaxRetries: cfg.Exports.WorkerRetries,
		RetryDelay: 2 * time.Second,
		JobTimeout: 2 * time.Minute,
		OnFailure:  exportJobSvc.HandleFailure,
		Logger:     logr,
	})
	exportJobSvc.SetQueue(exportQueue)
	exportQueue.Start(ctx)
	defer exportQueue.Stop()
	exportJobSvc.StartCleanup(ctx)

	digestSvc := service.NewDigestService(notificationSvc, cfg.Notifications.DigestCron, clock.Location(), metricsSvc, logr)
	if err := digestSvc.Start(); err != nil {
		return err
	}
	defer digestSvc.Stop()

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metricsSvc, "/metrics", "/health"))
	r.Use(internalmiddleware.WithResponseMeta(clock))
	r.Use(internalmiddleware.Actor())

	metricsHandler := handler.NewMetricsHandler(metricsSvc, clock)
	r.GET("/health", metricsHandler.Health)
	r.GET("/metrics", metricsHandler.Prometheus)
	r.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	handler.RegisterRoutes(r.Group(cfg.APIPrefix), handler.Handlers{
		Events:        handler.NewEventHandler(eventSvc),
		Notifications: handler.NewNotificationHandler(notificationSvc),
		Research:      handler.NewResearchHandler(researchSvc),
		Publications:  handler.NewPublicationHandler(publicationSvc),
		HKI:           handler.NewHKIHandler(hkiSvc),
		Registrations: handler.NewRegistrationHandler(registrationSvc),
		Formats:       handler.NewFormatHandler(),
		Dashboard:     handler.NewDashboardHandler(dashboardSvc, activitySvc),
		Exports:       handler.NewExportHandler(exportJobSvc),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env, "state_backend", cfg.State.Backend, "today", clock.Today().String())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func newStateRepository(ctx context.Context, cfg *config.Config, redisClient *redis.Client) (stateRepository, func(), error) {
	noop := func() {}
	switch cfg.State.Backend {
	case config.StateBackendMemory:
		return repository.NewMemoryStateRepository(), noop, nil
	case config.StateBackendRedis:
		return repository.NewRedisStateRepository(redisClient, cfg.State.KeyPrefix), noop, nil
	case config.StateBackendPostgres:
		db, err := database.NewPostgres(cfg.Database)
		if err != nil {
			return nil, noop, fmt.Errorf("connect postgres: %w", err)
		}
		repo := repository.NewPostgresStateRepository(db, cfg.State.KeyPrefix)
		if err := repo.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			return nil, noop, fmt.Errorf("prepare state table: %w", err)
		}
		return repo, func() { _ = db.Close() }, nil
	case config.StateBackendFile, "":
		store, err := storage.NewLocalStorage(cfg.State.Dir)
		if err != nil {
			return nil, noop, fmt.Errorf("init state dir: %w", err)
		}
		return repository.NewFileStateRepository(store, cfg.State.KeyPrefix), noop, nil
	default:
		return nil, noop, fmt.Errorf("unknown STATE_BACKEND %q", cfg.State.Backend)
	}
}
