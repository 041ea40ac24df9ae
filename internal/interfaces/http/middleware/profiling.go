package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/hitzu/taxdown-tech-challenge/internal/infrastructure/telemetry"
)

// profilingSkipPrefixes are served without labels
var profilingSkipPrefixes = []string{"/health", "/swagger"}

// Profiling tags the rest of the chain with the route pattern and method so
// profiles can be sliced per endpoint. Disabled means pass-through.
func Profiling(enabled bool) gin.HandlerFunc {
	if !enabled {
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" || skipProfiling(route) {
			c.Next()
			return
		}

		telemetry.WithProfilingLabels(c.Request.Context(), map[string]string{
			telemetry.ProfilingLabelRoute:  route,
			telemetry.ProfilingLabelMethod: c.Request.Method,
		}, func(ctx context.Context) {
			c.Request = c.Request.WithContext(ctx)
			c.Next()
		})
	}
}

func skipProfiling(route string) bool {
	for _, prefix := range profilingSkipPrefixes {
		if strings.HasPrefix(route, prefix) {
			return true
		}
	}
	return false
}
