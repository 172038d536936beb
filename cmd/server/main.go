package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sinavly/exam-engine/internal/cache"
	"github.com/sinavly/exam-engine/internal/catalog"
	"github.com/sinavly/exam-engine/internal/config"
	"github.com/sinavly/exam-engine/internal/handlers"
	"github.com/sinavly/exam-engine/internal/repositories/postgres"
	"github.com/sinavly/exam-engine/internal/services"
	"github.com/sinavly/exam-engine/internal/utils"
	"github.com/sinavly/exam-engine/internal/validator"
	"github.com/sinavly/exam-engine/pkg"
)

func main() {
	logger := utils.NewDefaultLogger()
	slogger := utils.ToSlogLogger(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}

	var cacheService cache.CacheService = cache.NoopCache{}
	if redisClient, err := pkg.NewRedisClient(cfg); err != nil {
		logger.Warn("Redis unavailable, running without cache", "error", err)
	} else {
		cacheService = cache.NewRedisCache(redisClient, slogger)
		defer redisClient.Close()
	}

	if err := postgres.AutoMigrate(db); err != nil {
		logger.Error("Failed to migrate database schema", "error", err)
		os.Exit(1)
	}
	repo := postgres.NewRepository(db, catalog.New())

	publisher, err := cfg.Events.CreateEventPublisher(slogger)
	if err != nil {
		logger.Error("Failed to create event publisher", "error", err)
		os.Exit(1)
	}
	defer publisher.Close()

	v := validator.New()

	provisionService := services.NewProvisionService(repo, slogger)
	sessionService := services.NewSessionService(repo, provisionService, publisher, slogger, v)
	catalogService := services.NewCatalogService(repo, cacheService, slogger)
	predictionService := services.NewPredictionService(repo, slogger, v)
	registrationService := services.NewRegistrationService(repo, predictionService, publisher, slogger, v)
	statisticsService := services.NewStatisticsService(repo, cacheService, slogger)
	importExportService := services.NewImportExportService(repo, slogger, v)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.SweepInterval > 0 {
		services.StartExpirySweep(ctx, sessionService, cfg.SweepInterval, slogger)
	}

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.LoggerMiddleware(logger))

	handlerManager := handlers.NewHandlerManager(
		catalogService,
		sessionService,
		predictionService,
		registrationService,
		statisticsService,
		importExportService,
		logger,
	)
	handlerManager.SetupRoutes(router)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info("Starting exam engine", "port", cfg.Port, "environment", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", "error", err)
	}
}
