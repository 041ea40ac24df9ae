package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hitzu/taxdown-tech-challenge/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// Pinger reports whether a backing store is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthResponse is the body of GET /health
type HealthResponse struct {
	Status    string  `json:"status" example:"ok"`
	Timestamp string  `json:"timestamp" example:"2024-01-01T00:00:00Z"`
	Uptime    float64 `json:"uptime" example:"42.5"`
	Database  string  `json:"database" example:"ok"`
}

// HealthHandler answers liveness probes
type HealthHandler struct {
	db      Pinger
	started time.Time
	timeout time.Duration
	now     func() time.Time
}

// NewHealthHandler creates a HealthHandler. Uptime counts from this call.
func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{
		db:      db,
		started: time.Now(),
		timeout: 2 * time.Second,
		now:     time.Now,
	}
}

// Check godoc
// @ID           healthCheck
// @Summary      Health check
// @Description  Reports process uptime and database reachability
// @Tags         system
// @Produce      json
// @Success      200 {object} HealthResponse
// @Failure      503 {object} HealthResponse
// @Router       /health [get]
func (h *HealthHandler) Check(c *gin.Context) {
	now := h.now()
	resp := HealthResponse{
		Status:    "ok",
		Timestamp: now.UTC().Format(time.RFC3339),
		Uptime:    now.Sub(h.started).Seconds(),
		Database:  "ok",
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()
	if err := h.db.Ping(ctx); err != nil {
		logger.GetGinLogger(c).Warn("Health check failed", zap.Error(err))
		resp.Status = "unhealthy"
		resp.Database = "error"
		c.JSON(http.StatusServiceUnavailable, resp)
		return
	}

	c.JSON(http.StatusOK, resp)
}
