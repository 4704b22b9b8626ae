package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vanachal/fra-api/internal/analytics"
	"github.com/vanachal/fra-api/internal/config"
	"github.com/vanachal/fra-api/internal/evaluator"
	"github.com/vanachal/fra-api/internal/geometry"
	"github.com/vanachal/fra-api/internal/handlers"
	"github.com/vanachal/fra-api/internal/logger"
	"github.com/vanachal/fra-api/internal/middleware"
	"github.com/vanachal/fra-api/internal/refdata"
	"github.com/vanachal/fra-api/internal/registry"
	"github.com/vanachal/fra-api/internal/report"
	"github.com/vanachal/fra-api/internal/services"
)

const (
	shutdownTimeout = 30 * time.Second
)

func main() {
	// Load configuration from environment variables
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize structured logger
	log := logger.New(cfg.Server.Env)
	log.Info("Starting FRA decision-support API", map[string]interface{}{
		"version":     handlers.APIVersion,
		"environment": cfg.Server.Env,
		"port":        cfg.Server.Port,
	})

	// Load immutable reference geometries and the historical claim
	// baseline. Load failure degrades to the capacity fallback, it
	// never aborts startup.
	zones, seedClaims := refdata.Load(cfg.Data.Dir, log)
	if zones.Degraded() {
		log.Warn("Running without reference geometries, all evaluations use the capacity fallback", nil)
	}

	// Assemble the evaluation engine and the claim registry
	engine := geometry.NewPlanarEngine()
	capacity := evaluator.NewCapacityAccountant(cfg.Data.DefaultCapacity, log)
	spatial := evaluator.NewSpatialEvaluator(zones, engine, capacity, log)

	claimRegistry := registry.New(spatial, log)
	claimRegistry.Seed(seedClaims)
	log.Info("Claim registry ready", map[string]interface{}{
		"seeded_claims": claimRegistry.Count(),
	})

	// Analytics over registry snapshots
	analyticsService := analytics.NewService(claimRegistry, log)

	// Optional compliance-report generation
	var reportGenerator *report.Generator
	if cfg.Report.OpenAIAPIKey != "" {
		provider, err := report.NewOpenAIProvider(report.Config{
			APIKey:    cfg.Report.OpenAIAPIKey,
			Model:     cfg.Report.Model,
			Timeout:   cfg.Report.TimeoutSeconds,
			MaxTokens: cfg.Report.MaxTokens,
		})
		if err != nil {
			log.Fatal("Failed to configure report provider", err, nil)
		}
		ttl := time.Duration(cfg.Report.CacheTTLMinutes) * time.Minute
		reportGenerator = report.NewGenerator(provider, ttl, log)
		log.Info("Report generation enabled", map[string]interface{}{
			"provider":  provider.Name(),
			"cache_ttl": ttl.String(),
		})
	} else {
		log.Warn("Report generation disabled, no API key configured", nil)
	}

	// The generator satisfies services.ReportInvalidator; pass a typed
	// nil-check so a disabled generator stays a nil interface.
	var invalidator services.ReportInvalidator
	if reportGenerator != nil {
		invalidator = reportGenerator
	}
	claimService := services.NewClaimService(claimRegistry, zones, invalidator, log)

	// Setup Gin router
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// Add middleware in order: RequestID -> Logger -> Recovery -> CORS
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(log))
	router.Use(middleware.Recovery(log))
	router.Use(middleware.CORS(cfg.CORS.Origins))

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(zones, claimRegistry, cfg.Server.Env)
	claimsHandler := handlers.NewClaimsHandler(claimService)
	zonesHandler := handlers.NewZonesHandler(claimService)
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsService)
	reportHandler := handlers.NewReportHandler(analyticsService, reportGenerator)

	// Register API routes
	api := router.Group("/api")
	{
		api.GET("/health", healthHandler.Health)
		api.GET("/health/ready", healthHandler.Ready)
		api.GET("/info", healthHandler.Info)

		claims := api.Group("/claims")
		{
			claims.POST("", claimsHandler.Submit)
			claims.GET("", claimsHandler.List)
			claims.POST("/:id/review", claimsHandler.Review)
		}

		api.GET("/zones", zonesHandler.Zones)
		api.GET("/reserved-zones", zonesHandler.ReservedZones)

		api.GET("/analytics", analyticsHandler.Overview)
		api.POST("/analytics/simulate", analyticsHandler.Simulate)

		api.GET("/report/:district", reportHandler.District)
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server listening", map[string]interface{}{
			"port": cfg.Server.Port,
			"addr": srv.Addr,
		})
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start", err, nil)
		}
	}()

	// Wait for interrupt signal (SIGINT or SIGTERM)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	// Graceful shutdown
	log.Info("Shutting down server...", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", err, map[string]interface{}{
			"timeout": shutdownTimeout.String(),
		})
	}

	log.Info("Server exited", nil)
}
