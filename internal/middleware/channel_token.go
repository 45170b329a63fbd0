package middleware

import (
	"crypto/subtle"
	"net/http"

	"drive-activity-notifier/internal/log"

	"github.com/gin-gonic/gin"
)

// ChannelTokenMiddleware verifies the X-Goog-Channel-Token Drive echoes back on
// every ping for channels registered with a token. An empty expected token
// disables the check.
func ChannelTokenMiddleware(expected string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if expected == "" {
			c.Next()
			return
		}

		ctx := c.Request.Context()

		provided := c.GetHeader("X-Goog-Channel-Token")
		if provided == "" {
			log.Warn(ctx, "Missing X-Goog-Channel-Token header on Drive ping")
			c.String(http.StatusUnauthorized, "Channel token required")
			c.Abort()
			return
		}

		if subtle.ConstantTimeCompare([]byte(provided), []byte(expected)) != 1 {
			log.Warn(ctx, "Invalid channel token on Drive ping")
			c.String(http.StatusUnauthorized, "Invalid channel token")
			c.Abort()
			return
		}

		c.Next()
	}
}
