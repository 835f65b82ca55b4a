package handlers

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/m1z23r/drift/pkg/drift"
	"github.com/stretchr/testify/assert"

	"github.com/tapri-app/tapri-api/internal/sse"
	"github.com/tapri-app/tapri-api/internal/testutil"
)

type pingerFunc func(context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestHealthHandler(t *testing.T) {
	tests := []struct {
		name   string
		ping   error
		demo   bool
		status int
		want   string
	}{
		{"up", nil, false, http.StatusOK, `"database":"up"`},
		{"down", errors.New("refused"), false, http.StatusServiceUnavailable, `"database":"down"`},
		{"demo skips ping", errors.New("refused"), true, http.StatusOK, `"database":"demo"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ping := tt.ping
			h := NewHealthHandler(pingerFunc(func(context.Context) error { return ping }), tt.demo)
			app := drift.New()
			app.Get("/health", h.Check)

			rec := testutil.NewHTTPTestClient(t, app).GET("/health", nil)

			assert.Equal(t, tt.status, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.want)
		})
	}
}

func TestEventsHandler_RequiresAuth(t *testing.T) {
	hub := sse.NewHub()
	h := NewEventsHandler(hub)
	app := drift.New()
	app.Use(identify())
	app.Get("/events", h.Stream)

	rec := testutil.NewHTTPTestClient(t, app).GET("/events", nil)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Zero(t, hub.ClientCount())
}
