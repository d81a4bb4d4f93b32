package middlewares

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hxuan190/token-route-engine/internal/metrics"
)

// unmatchedPath labels requests that hit no route, so scanners cannot blow up label cardinality.
const unmatchedPath = "unmatched"

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		// FullPath is the route template (/api/v1/route/:token), never the concrete token.
		path := c.FullPath()
		if path == "" {
			path = unmatchedPath
		}
		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		metrics.HTTPRequests.WithLabelValues(c.Request.Method, path, status).Inc()
		metrics.HTTPDuration.WithLabelValues(c.Request.Method, path).Observe(duration)
	}
}
