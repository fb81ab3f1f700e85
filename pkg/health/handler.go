package health

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// LivenessHandler answers 200 while the process serves HTTP at all.
func LivenessHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", "no-store")
		c.JSON(http.StatusOK, gin.H{"status": StatusUp})
	}
}

// ReadinessHandler answers 503 while a dependency is down so the load
// balancer stops routing webhooks that could not be stored.
func ReadinessHandler(registry *Registry, timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()

		response := registry.CheckAll(ctx)

		status := http.StatusOK
		if response.Status == StatusDown {
			status = http.StatusServiceUnavailable
			for _, check := range response.Checks {
				if check.Status == StatusDown {
					slog.WarnContext(ctx, "readiness check failed", "check", check.Name, "message", check.Message)
				}
			}
		}

		c.Header("Cache-Control", "no-store")
		c.JSON(status, response)
	}
}
