package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"drive-activity-notifier/internal/metrics"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := metrics.New()

	router := gin.New()
	router.Use(MetricsMiddleware(m))
	router.POST("/webhooks/drive", func(c *gin.Context) {
		c.Set(metrics.OutcomeKey, "dispatched")
		c.String(http.StatusOK, "ok")
	})
	router.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	for _, req := range []*http.Request{
		httptest.NewRequest(http.MethodPost, "/webhooks/drive", nil),
		httptest.NewRequest(http.MethodPost, "/webhooks/drive", nil),
		httptest.NewRequest(http.MethodGet, "/health", nil),
		httptest.NewRequest(http.MethodGet, "/missing", nil),
	} {
		router.ServeHTTP(httptest.NewRecorder(), req)
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("POST", "/webhooks/drive", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/health", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "unmatched", "404")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.WebhookOutcomes.WithLabelValues("dispatched")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.WebhookOutcomes))
}
