package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/m1z23r/drift/pkg/drift"
)

// Pinger reports whether the store answers.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	db   Pinger
	demo bool
}

func NewHealthHandler(db Pinger, demo bool) *HealthHandler {
	return &HealthHandler{db: db, demo: demo}
}

func (h *HealthHandler) Check(c *drift.Context) {
	body := map[string]any{"status": "ok", "demo": h.demo, "database": "up"}
	if h.demo {
		body["database"] = "demo"
		_ = c.JSON(http.StatusOK, body)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	if err := h.db.Ping(ctx); err != nil {
		body["status"] = "degraded"
		body["database"] = "down"
		_ = c.JSON(http.StatusServiceUnavailable, body)
		return
	}
	_ = c.JSON(http.StatusOK, body)
}
