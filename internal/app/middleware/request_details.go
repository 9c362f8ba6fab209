package middleware

import (
	"log/slog"
	"slices"
	"strings"
	"time"

	"busfee/internal/pkg/consts"
	"busfee/internal/pkg/log_messages"
	"busfee/internal/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func extractHeaders(headers map[string][]string) map[string]string {
	result := make(map[string]string, len(headers))
	for key, values := range headers {
		if len(values) == 0 {
			continue
		}
		if slices.Contains(consts.SensitiveHeaders, key) {
			result[key] = "*****"
			continue
		}
		result[key] = strings.Join(values, ",")
	}
	return result
}

// AttachRequestDetails puts a trace id on the request context, echoes it in
// the response header and writes one access log line per request.
func AttachRequestDetails() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now().UTC()

		requestID := c.GetHeader(consts.RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		ctx := logger.WithTraceID(c.Request.Context(), requestID)
		c.Request = c.Request.WithContext(ctx)
		c.Header(consts.RequestIDHeader, requestID)

		c.Next()

		logger.CtxInfo(ctx, log_messages.RequestCompleted,
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.String("operation", c.FullPath()),
			slog.String("ip", c.ClientIP()),
			slog.String("userAgent", c.Request.UserAgent()),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("latency", time.Since(start)),
			slog.Any("headers", extractHeaders(c.Request.Header)),
		)
	}
}
