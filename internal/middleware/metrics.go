package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"riverbird-standalone/services"
)

/**
 * Admin API request statistics middleware
 * @description
 * - Counts requests received by the admin HTTP server
 * - Records request handling time
 * - Separates failed requests (status >= 400)
 */
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		statusCode := c.Writer.Status()

		path := c.FullPath()
		if path == "" {
			path = "unknown"
		}

		services.IncrementRequestCount(path)
		services.RecordRequestDuration(path, duration)

		if statusCode >= 400 {
			services.IncrementErrorCount(path)
		}
	}
}
