package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"busfee/internal/pkg/consts"
	"busfee/internal/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestExtractHeaders_MasksSensitive(t *testing.T) {
	headers := extractHeaders(map[string][]string{
		"Authorization": {"Bearer abc"},
		"Cookie":        {"session=abc"},
		"Accept":        {"text/html", "application/json"},
		"Empty":         {},
	})

	assert.Equal(t, "*****", headers["Authorization"])
	assert.Equal(t, "*****", headers["Cookie"])
	assert.Equal(t, "text/html,application/json", headers["Accept"])
	assert.NotContains(t, headers, "Empty")
}

func TestAttachRequestDetails(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var buf bytes.Buffer
	logger.InitWithWriter(&buf, "info")

	var seen string
	r := gin.New()
	r.Use(AttachRequestDetails())
	r.GET("/ping", func(c *gin.Context) {
		seen = logger.TraceID(c.Request.Context())
		c.Status(http.StatusNoContent)
	})

	t.Run("reuses incoming request id", func(t *testing.T) {
		buf.Reset()
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set(consts.RequestIDHeader, "req-123")
		req.Header.Set("Authorization", "Bearer secret")
		r.ServeHTTP(w, req)

		assert.Equal(t, "req-123", seen)
		assert.Equal(t, "req-123", w.Header().Get(consts.RequestIDHeader))
		assert.Contains(t, buf.String(), `"trace_id":"req-123"`)
		assert.Contains(t, buf.String(), `"status":204`)
		assert.NotContains(t, buf.String(), "secret")
	})

	t.Run("generates request id", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

		assert.NotEmpty(t, seen)
		assert.Equal(t, seen, w.Header().Get(consts.RequestIDHeader))
	})
}
