package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/visitation-api/internal/service"
)

// Metrics observes request duration and status per route template. With a
// nil service it degrades to a pass-through.
func Metrics(metricsSvc *service.MetricsService) gin.HandlerFunc {
	if metricsSvc == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		// Route template keeps cardinality bounded; unmatched requests
		// fall back to the raw path.
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		metricsSvc.ObserveHTTPRequest(c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}
