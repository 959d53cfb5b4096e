package server

import (
	"fmt"
	"net/http"
	"os"
	"runtime/debug"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// CORSMiddleware adds CORS headers to allow frontend access. Origins can
// be restricted with CORS_ALLOW_ORIGINS (comma-separated).
func CORSMiddleware() gin.HandlerFunc {
	allowOrigins := []string{"*"}
	if origins := os.Getenv("CORS_ALLOW_ORIGINS"); origins != "" {
		allowOrigins = strings.Split(origins, ",")
		for i, origin := range allowOrigins {
			allowOrigins[i] = strings.TrimSpace(origin)
		}
	}

	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")

		if len(allowOrigins) == 1 && allowOrigins[0] == "*" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		} else if origin != "" {
			for _, allowed := range allowOrigins {
				if allowed == origin || allowed == "*" {
					c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
					break
				}
			}
		}

		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Accept, Origin, Cache-Control")

		// Handle preflight requests
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// LoggingMiddleware logs request details with structured format
func LoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		duration := time.Since(startTime)
		statusCode := c.Writer.Status()

		logMsg := fmt.Sprintf("%s %s | Status: %d | Duration: %v | IP: %s",
			c.Request.Method, path, statusCode, duration, c.ClientIP())
		if query != "" {
			logMsg += fmt.Sprintf(" | Query: %s", query)
		}
		if len(c.Errors) > 0 {
			logMsg += fmt.Sprintf(" | Errors: %s", c.Errors.String())
		}

		// The message embeds the request path, so it must never be used
		// as a format string.
		switch {
		case statusCode >= 500:
			AppLogger.Error("%s", logMsg)
		case statusCode >= 400:
			AppLogger.Warn("%s", logMsg)
		default:
			AppLogger.Info("%s", logMsg)
		}
	}
}

// RecoveryMiddleware recovers from panics and returns a 500 error
func RecoveryMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				AppLogger.ErrorWithFields("PANIC RECOVERED", map[string]interface{}{
					"error": err,
					"stack": string(debug.Stack()),
				})

				c.JSON(http.StatusInternalServerError, ErrorResponse{
					Error:   "Internal Server Error",
					Message: "An unexpected error occurred. Please try again later.",
					Code:    http.StatusInternalServerError,
				})

				c.Abort()
			}
		}()

		c.Next()
	}
}
