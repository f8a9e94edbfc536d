package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"token-dashboard.backend/pkg/metrics"
)

const (
	serviceName    = "token-dashboard-backend"
	serviceVersion = "0.1.0"
)

// applyCORSMiddleware allows credentialed requests from the configured origins.
// Requests and preflights from any other origin are refused with 403.
func applyCORSMiddleware(r *gin.Engine, allowedOrigins []string) error {
	cfg := cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "X-Request-ID"},
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid CORS origins: %w", err)
	}
	r.Use(cors.New(cfg))
	return nil
}

func registerHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": serviceName,
			"version": serviceVersion,
		})
	})
}

func registerMetricsRoute(r *gin.Engine) {
	r.GET("/metrics", gin.WrapH(metrics.Handler()))
}
