package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func serveHealth(t *testing.T, h *HealthHandler) (int, HealthResponse) {
	t.Helper()
	engine := gin.New()
	engine.GET("/health", h.Check)

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w.Code, resp
}

func TestHealthHandler(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		h := NewHealthHandler(pingFunc(func(ctx context.Context) error {
			_, hasDeadline := ctx.Deadline()
			assert.True(t, hasDeadline)
			return nil
		}))
		h.started = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		h.now = func() time.Time { return h.started.Add(90 * time.Second) }

		status, resp := serveHealth(t, h)

		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, "ok", resp.Status)
		assert.Equal(t, "ok", resp.Database)
		assert.Equal(t, "2024-01-01T00:01:30Z", resp.Timestamp)
		assert.InDelta(t, 90.0, resp.Uptime, 0.001)
	})

	t.Run("database down", func(t *testing.T) {
		h := NewHealthHandler(pingFunc(func(context.Context) error { return errors.New("dial tcp: refused") }))

		status, resp := serveHealth(t, h)

		assert.Equal(t, http.StatusServiceUnavailable, status)
		assert.Equal(t, "unhealthy", resp.Status)
		assert.Equal(t, "error", resp.Database)
	})
}
