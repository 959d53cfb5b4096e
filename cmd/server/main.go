package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"promptarena/internal/catalog"
	"promptarena/internal/history"
	"promptarena/internal/pricing"
	"promptarena/internal/provider"
	"promptarena/server"
)

func Run() error {
	// Initialize structured logger first
	server.AppLogger = server.NewLogger()

	// Load credentials from .env when present
	if err := godotenv.Load(); err == nil {
		server.AppLogger.Info("Loaded environment from .env")
	}

	app, err := buildApp()
	if err != nil {
		return err
	}

	// Set Gin mode based on environment
	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create Gin router without default middleware (we use custom middleware)
	router := gin.New()
	server.SetupRoutes(router, app)

	// Get port from environment or use default
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:           fmt.Sprintf(":%s", port),
		Handler:        router,
		ReadTimeout:    5 * time.Minute, // long-running run requests
		WriteTimeout:   0,               // disabled for WebSocket connections
		MaxHeaderBytes: 1 << 20,         // 1 MB
	}

	// Periodically drop finished jobs so the registry does not grow
	// without bound on a long-lived server
	cleanupTicker := time.NewTicker(30 * time.Minute)
	defer cleanupTicker.Stop()
	go func() {
		for range cleanupTicker.C {
			app.Jobs.CleanupOldJobs()
		}
	}()

	// Start server in goroutine
	go func() {
		server.AppLogger.Info("Server starting on port %s", port)
		server.AppLogger.Info("API endpoints available at http://localhost:%s/api", port)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			server.AppLogger.Fatal("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	server.AppLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		server.AppLogger.Error("Server forced to shutdown: %v", err)
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	server.AppLogger.Info("Server exited gracefully")
	return nil
}

// buildApp assembles the handler state from the environment:
// PROMPT_FILE (optional YAML catalog), OUTPUT_DIR, STATS_FILE,
// PROVIDER_TIMEOUT (Go duration).
func buildApp() (*server.App, error) {
	var cat *catalog.Catalog
	var err error
	if path := os.Getenv("PROMPT_FILE"); path != "" {
		cat, err = catalog.LoadFile(path)
		if err != nil {
			return nil, fmt.Errorf("loading prompt catalog: %w", err)
		}
	} else {
		cat = catalog.Default()
	}

	timeout := provider.DefaultTimeout
	if v := os.Getenv("PROVIDER_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid PROVIDER_TIMEOUT: %w", err)
		}
		timeout = d
	}

	configs := provider.Defaults()
	registry, err := provider.NewRegistry(configs, timeout)
	if err != nil {
		return nil, fmt.Errorf("building provider registry: %w", err)
	}

	statsPath := os.Getenv("STATS_FILE")
	if statsPath == "" {
		statsPath = "stats.json"
	}
	outputDir := os.Getenv("OUTPUT_DIR")
	if outputDir == "" {
		outputDir = "."
	}

	return &server.App{
		Catalog:   cat,
		Registry:  registry,
		Configs:   configs,
		Store:     history.NewStore(statsPath),
		OutputDir: outputDir,
		Prices:    pricing.Default(),
		Jobs:      server.GetJobManager(),
		Hub:       server.GetHub(),
	}, nil
}
