package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// SetupRoutes configures all HTTP routes for the server
func SetupRoutes(router *gin.Engine, app *App) {
	// Apply global middleware in order
	router.Use(RecoveryMiddleware())
	router.Use(CORSMiddleware())
	router.Use(LoggingMiddleware())

	// API routes group
	api := router.Group("/api")
	{
		// Health check endpoint
		api.GET("/health", app.Health)

		// Catalog and configuration endpoints
		api.GET("/prompts", app.ListPrompts)
		api.GET("/providers", app.ListProviders)

		// Stored results and generated artifacts
		api.GET("/results", app.Results)
		api.GET("/artifacts/:name", app.Artifact)

		// Run execution endpoints
		api.POST("/runs", app.StartRun)
		api.GET("/runs", app.ListRuns)
		api.GET("/runs/:jobId", app.GetRun)
		api.POST("/runs/:jobId/cancel", app.CancelRun)

		// WebSocket endpoint for real-time progress
		api.GET("/runs/:jobId/ws", app.RunSocket)
	}

	// Root endpoint with API info
	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Prompt Arena API",
			"version": "1.0.0",
			"status":  "ok",
			"endpoints": gin.H{
				"health":    "/api/health",
				"prompts":   "/api/prompts",
				"providers": "/api/providers",
				"results":   "/api/results",
				"artifacts": "/api/artifacts/:name",
				"runs":      "/api/runs",
			},
		})
	})

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "Not Found",
			Message: "The requested endpoint does not exist",
			Code:    http.StatusNotFound,
		})
	})
}
