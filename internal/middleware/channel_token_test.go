package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestChannelTokenMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		expectedToken  string
		providedToken  string
		expectedStatus int
		handlerCalled  bool
	}{
		{
			name:           "Check disabled",
			expectedToken:  "",
			providedToken:  "",
			expectedStatus: http.StatusOK,
			handlerCalled:  true,
		},
		{
			name:           "Matching token",
			expectedToken:  "secret",
			providedToken:  "secret",
			expectedStatus: http.StatusOK,
			handlerCalled:  true,
		},
		{
			name:           "Missing token",
			expectedToken:  "secret",
			providedToken:  "",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Wrong token",
			expectedToken:  "secret",
			providedToken:  "guess",
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			router := gin.New()
			router.POST("/webhooks/drive", ChannelTokenMiddleware(tt.expectedToken), func(c *gin.Context) {
				called = true
				c.String(http.StatusOK, "ok")
			})

			req := httptest.NewRequest(http.MethodPost, "/webhooks/drive", nil)
			if tt.providedToken != "" {
				req.Header.Set("X-Goog-Channel-Token", tt.providedToken)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.handlerCalled, called)
		})
	}
}
