package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/hitzu/taxdown-tech-challenge/internal/infrastructure/telemetry"
)

// unmatchedRoute labels requests that hit no registered route, keeping the
// route attribute bounded.
const unmatchedRoute = "unmatched"

// HTTPMetrics records request count, latency and in-flight requests.
// A nil metrics set yields a pass-through middleware.
func HTTPMetrics(metrics *telemetry.HTTPMetrics) gin.HandlerFunc {
	if metrics == nil {
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		done := metrics.Start(c.Request.Context(), c.Request.Method)

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = unmatchedRoute
		}
		done(route, c.Writer.Status())
	}
}
