package metrics

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// GinMiddleware records latency and count per route template. Health and
// scrape endpoints are skipped so they do not drown the payment routes.
func GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if skipped(c.Request.URL.Path) {
			c.Next()
			return
		}

		start := time.Now()

		c.Next()

		route := c.FullPath()
		if route == "" {
			// unmatched paths would otherwise explode label cardinality
			route = "unknown"
		}
		status := strconv.Itoa(c.Writer.Status())

		HTTPRequestDuration.WithLabelValues(route, c.Request.Method, status).Observe(time.Since(start).Seconds())
		HTTPRequestsTotal.WithLabelValues(route, c.Request.Method, status).Inc()
	}
}

func skipped(path string) bool {
	return path == "/metrics" || strings.HasPrefix(path, "/health/")
}
