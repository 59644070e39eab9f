package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/clinic-scheduler/internal/logger"
	"github.com/BruksfildServices01/clinic-scheduler/internal/metrics"
)

// RequestLogger logs one line per request and feeds the HTTP metrics.
// Paths are recorded as route templates to keep label cardinality bounded.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := c.Writer.Status()
		elapsed := time.Since(start)

		metrics.RecordHTTPRequest(c.Request.Method, path, strconv.Itoa(status), elapsed.Seconds())

		args := []any{
			"method", c.Request.Method,
			"path", path,
			"status", status,
			"latency_ms", elapsed.Milliseconds(),
		}
		if status >= 500 {
			logger.Error("request", args...)
			return
		}
		logger.Info("request", args...)
	}
}
