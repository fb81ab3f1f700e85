package logger

import (
	"log/slog"
	"time"

	"PaymentIntake/pkg/correlation"

	"github.com/gin-gonic/gin"
)

// CorrelationMiddleware reuses a well-formed X-Correlation-ID or mints one,
// then exposes it on the request context and the response.
func CorrelationMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		corrID := correlation.Resolve(c.GetHeader(correlation.HeaderName))

		ctx := correlation.WithID(c.Request.Context(), corrID)
		c.Request = c.Request.WithContext(ctx)

		c.Header(correlation.HeaderName, corrID)

		c.Next()
	}
}

// GinRequestLogger logs one line per request. Bodies are never logged: the
// webhook body carries customer payment data.
func GinRequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		status := c.Writer.Status()
		level := slog.LevelInfo
		if status >= 500 {
			level = slog.LevelError
		}

		slog.Log(c.Request.Context(), level, "HTTP Request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"query", c.Request.URL.RawQuery,
			"status", status,
			"latency_ms", time.Since(start).Milliseconds(),
		)
	}
}
