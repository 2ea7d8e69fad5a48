package middleware

import (
	"strconv"
	"time"

	"puntoventa/internal/metrics"

	"github.com/gin-gonic/gin"
)

// Metrics records per-request Prometheus counters and latency histograms.
// Uses the route template (c.FullPath) as the path label to keep
// cardinality bounded.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())

		metrics.HTTPRequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(c.Request.Method, path, status).
			Observe(time.Since(start).Seconds())
	}
}
