package middleware

import (
	"strconv"
	"time"

	"drive-activity-notifier/internal/metrics"

	"github.com/gin-gonic/gin"
)

// MetricsMiddleware records request counts, latency and webhook outcomes.
func MetricsMiddleware(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		m.ObserveRequest(c.Request.Method, path, strconv.Itoa(c.Writer.Status()), time.Since(startTime))

		if outcome := c.GetString(metrics.OutcomeKey); outcome != "" {
			m.ObserveOutcome(outcome)
		}
	}
}
