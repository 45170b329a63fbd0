package handlers

import (
	"net/http"

	"drive-activity-notifier/internal/metrics"
	"drive-activity-notifier/internal/middleware"

	"github.com/gin-gonic/gin"
)

// NewRouter wires the Drive webhook, health and metrics routes.
func NewRouter(webhook *DriveWebhookHandler, channelToken string, m *metrics.Metrics) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.MetricsMiddleware(m))

	router.POST("/webhooks/drive", middleware.ChannelTokenMiddleware(channelToken), webhook.HandleWebhook)
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})
	router.GET("/metrics", gin.WrapH(m.Handler()))

	return router
}
