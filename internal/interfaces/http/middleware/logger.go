package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"token-dashboard.backend/pkg/logger"
	"token-dashboard.backend/pkg/metrics"
)

const unmatchedRoute = "unmatched"

// LoggerMiddleware logs HTTP requests using the structured logger and counts them
func LoggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		if raw != "" {
			path = path + "?" + raw
		}

		logger.LogRequest(c.Request.Context(), c.Request.Method, path, c.Writer.Status(), latency, c.ClientIP())

		// label by route template; unmatched paths share one label
		route := c.FullPath()
		if route == "" {
			route = unmatchedRoute
		}
		metrics.ObserveHTTPRequest(c.Request.Method, route, strconv.Itoa(c.Writer.Status()))
	}
}
