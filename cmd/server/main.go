package main

import (
	"context"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"rusunawa-recon-svc/internal/cache"
	"rusunawa-recon-svc/internal/config"
	"rusunawa-recon-svc/internal/engine"
	"rusunawa-recon-svc/internal/handler"
	"rusunawa-recon-svc/internal/middleware"
	"rusunawa-recon-svc/internal/occupancy"
	"rusunawa-recon-svc/internal/repository"
	"rusunawa-recon-svc/internal/revenue"
	"rusunawa-recon-svc/internal/scheduler"
	"rusunawa-recon-svc/internal/service"
	"rusunawa-recon-svc/internal/temporal"
	"rusunawa-recon-svc/pkg/logger"
)

// @title Rusunawa Reconciliation Service API
// @version 1.0
// @description Occupancy and revenue reconciliation over the Rusunawa REST API

// @host localhost:8080
// @BasePath /api/v1

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	appLogger := logger.NewLogger(cfg.Logger.Level, cfg.Logger.Format)
	appLogger.Info("Starting Rusunawa Reconciliation Service...")

	// Set Gin mode
	gin.SetMode(cfg.Server.GinMode)

	// Initialize cache
	sourceCache, err := cache.New(cache.Options{
		Driver:        cfg.Cache.Driver,
		TTL:           cfg.Cache.TTL,
		Size:          cfg.Cache.Size,
		RedisAddr:     cfg.Cache.RedisAddr,
		RedisPassword: cfg.Cache.RedisPassword,
		RedisDB:       cfg.Cache.RedisDB,
	})
	if err != nil {
		appLogger.WithField("error", err).Fatal("Failed to initialize cache")
	}
	appLogger.WithField("driver", cfg.Cache.Driver).Info("Cache initialized successfully")

	// Initialize repositories
	upstreamRepo := repository.NewSourceRepository(upstreamOptions(cfg.Upstream))
	sourceRepo := repository.NewCachedSourceRepository(upstreamRepo, sourceCache, appLogger)

	// Initialize services
	reportEngine := engine.New(engineConfig(cfg.Policy))
	reportService := service.NewReportService(sourceRepo, reportEngine, appLogger)

	// Initialize scheduler
	var reportScheduler *scheduler.ReportScheduler
	if cfg.Scheduler.Enabled {
		timeout := time.Duration(cfg.Scheduler.SnapshotTimeoutSeconds) * time.Second
		reportScheduler = scheduler.NewReportScheduler(reportService, appLogger, cfg.Scheduler.ReportCronExpression, timeout)
		if err := reportScheduler.Start(); err != nil {
			appLogger.WithField("error", err).Fatal("Failed to start report scheduler")
		}
	}

	// Initialize Gin router
	router := gin.New()

	// Add middleware
	router.Use(middleware.RequestID())
	router.Use(middleware.CORS(cfg.CORS.AllowedOriginList()))
	router.Use(middleware.LoggerMiddleware(appLogger))
	router.Use(middleware.ErrorHandler())
	router.NoRoute(middleware.NoRouteHandler())
	router.NoMethod(middleware.NoMethodHandler())

	// Setup routes
	handler.SetupRoutes(router, reportService, appLogger)

	// Create HTTP server
	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		appLogger.WithField("port", cfg.Server.Port).Info("Server starting...")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.WithField("error", err).Fatal("Failed to start server")
		}
	}()

	appLogger.WithField("port", cfg.Server.Port).Info("Server started successfully")

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")

	if reportScheduler != nil {
		reportScheduler.Stop()
	}

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Shutdown server
	if err := server.Shutdown(ctx); err != nil {
		appLogger.WithField("error", err).Fatal("Server forced to shutdown")
	}

	// Close cache connection
	if closer, ok := sourceCache.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			appLogger.WithField("error", err).Error("Failed to close cache connection")
		}
	}

	appLogger.Info("Server exited successfully")
}

func upstreamOptions(cfg config.UpstreamConfig) repository.UpstreamOptions {
	opts := repository.UpstreamOptions{
		BaseURL: cfg.BaseURL,
		Paths: map[engine.Source]string{
			engine.SourceTenants:  cfg.TenantsPath,
			engine.SourceBookings: cfg.BookingsPath,
			engine.SourceRooms:    cfg.RoomsPath,
			engine.SourcePayments: cfg.PaymentsPath,
			engine.SourceInvoices: cfg.InvoicesPath,
		},
		Timeout:    cfg.Timeout,
		RetryCount: cfg.RetryCount,
	}
	if cfg.AuthToken != "" {
		opts.Headers = map[string]string{"Authorization": "Bearer " + cfg.AuthToken}
	}
	return opts
}

func engineConfig(cfg config.PolicyConfig) engine.Config {
	unknownWindow := temporal.FallbackCurrent
	if cfg.UnknownWindow == "reject" {
		unknownWindow = temporal.Reject
	}
	return engine.Config{
		Occupancy: occupancy.Policy{
			MissingStatusActive: cfg.MissingStatusActive,
			DefaultCapacity:     cfg.DefaultCapacity,
		},
		Revenue:         revenue.Policy{PreferHigher: cfg.RevenuePreferHigher},
		Classifier:      temporal.Classifier{UnknownWindow: unknownWindow},
		DuplicateWindow: temporal.Window(cfg.DuplicateWindow),
	}
}
