package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SAP-F-2025/learning-trails-service/internal/config"
	"github.com/SAP-F-2025/learning-trails-service/internal/events"
	"github.com/SAP-F-2025/learning-trails-service/internal/handlers"
	"github.com/SAP-F-2025/learning-trails-service/internal/metrics"
	"github.com/SAP-F-2025/learning-trails-service/internal/repositories/postgres"
	"github.com/SAP-F-2025/learning-trails-service/internal/services"
	"github.com/SAP-F-2025/learning-trails-service/internal/utils"
	"github.com/SAP-F-2025/learning-trails-service/internal/validator"
	"github.com/SAP-F-2025/learning-trails-service/pkg"
	"github.com/casdoor/casdoor-go-sdk/casdoorsdk"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		utils.NewLogger("development").Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	logger := utils.NewLogger(cfg.Environment)
	if err := run(cfg, logger); err != nil {
		logger.LogError(err, "Server stopped with error")
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger utils.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	cacheService, closeCache, err := pkg.NewCache(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeCache()

	publisher, err := cfg.Events.CreateEventPublisher(logger.Slog())
	if err != nil {
		logger.LogError(err, "Failed to create event publisher, falling back to mock")
		publisher = events.NewMockEventPublisher(logger.Slog())
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.LogError(err, "Failed to close event publisher")
		}
	}()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.NewMetrics(registry)

	casdoorsdk.InitConfig(
		cfg.Casdoor.Endpoint,
		cfg.Casdoor.ClientID,
		cfg.Casdoor.ClientSecret,
		cfg.Casdoor.Certificate,
		cfg.Casdoor.OrganizationName,
		cfg.Casdoor.ApplicationName,
	)

	repo := postgres.NewRepository(db, cacheService)
	serviceManager := services.NewServiceManager(
		repo,
		publisher,
		m,
		validator.New(),
		logger.Slog(),
		services.ProgressServiceConfig{VideoCompletionThreshold: cfg.VideoCompletionThreshold},
	)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.RequestID(services.RequestIDKey))
	router.Use(utils.LoggerMiddleware(logger))
	router.Use(metrics.GinMiddleware(m))

	handlers.NewHandlerManager(serviceManager, handlers.CasdoorTokenParser{}, registry, logger).SetupRoutes(router)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Starting learning trails service", "port", cfg.Port, "environment", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
