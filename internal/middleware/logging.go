package middleware

import (
	"strings"
	"time"

	"drive-activity-notifier/internal/log"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Drive push notification headers worth carrying on every log line.
var driveChannelHeaders = map[string]string{
	"X-Goog-Channel-ID":     "channel_id",
	"X-Goog-Message-Number": "message_number",
	"X-Goog-Resource-State": "resource_state",
	"X-Goog-Resource-ID":    "resource_id",
}

// LoggingMiddleware adds trace IDs, Drive channel fields and request logging.
func LoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := c.GetHeader("X-Cloud-Trace-Context")
		if traceID != "" {
			// Cloud Run format: "TRACE_ID/SPAN_ID;o=TRACE_TRUE"
			if slashIndex := strings.Index(traceID, "/"); slashIndex != -1 {
				traceID = traceID[:slashIndex]
			}
		} else {
			traceID = c.GetHeader("X-Trace-ID")
			if traceID == "" {
				traceID = uuid.New().String()
			}
		}

		c.Set("trace_id", traceID)
		c.Header("X-Trace-ID", traceID)

		ctx := log.WithTraceID(c.Request.Context(), traceID)
		fields := log.LogFields{}
		for header, field := range driveChannelHeaders {
			if value := c.GetHeader(header); value != "" {
				fields[field] = value
			}
		}
		if len(fields) > 0 {
			ctx = log.WithFields(ctx, fields)
		}
		c.Request = c.Request.WithContext(ctx)

		startTime := time.Now()
		log.Debug(ctx, "Request started",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"user_agent", c.Request.UserAgent(),
			"remote_addr", c.ClientIP(),
		)

		c.Next()

		log.Info(ctx, "Request completed",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration_seconds", time.Since(startTime).Seconds(),
		)
	}
}
