package logging

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/m1z23r/drift/pkg/drift"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstall_Level(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.TraceLevel)

	var buf bytes.Buffer
	logger := install(&buf, "WARN")
	logger.Info().Msg("hidden")
	logger.Warn().Msg("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")

	assert.Equal(t, zerolog.InfoLevel, install(&buf, "nonsense").GetLevel())
	assert.Equal(t, zerolog.InfoLevel, install(&buf, "").GetLevel())
}

func TestRequests(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.TraceLevel)

	var buf bytes.Buffer
	logger := install(&buf, "debug")

	var seen string
	app := drift.New()
	app.Use(Requests(logger))
	app.Get("/ping", func(c *drift.Context) {
		seen = RequestID(c)
		_ = c.JSON(http.StatusOK, map[string]string{"pong": "ok"})
	})

	t.Run("generates an id", func(t *testing.T) {
		buf.Reset()
		rec := httptest.NewRecorder()
		app.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		id := rec.Header().Get("X-Request-ID")
		assert.NotEmpty(t, id)
		assert.Equal(t, id, seen)

		var line map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
		assert.Equal(t, "GET", line["method"])
		assert.Equal(t, "/ping", line["path"])
		assert.Equal(t, id, line["request_id"])
	})

	t.Run("keeps the caller's id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set("X-Request-ID", "abc-123")
		rec := httptest.NewRecorder()
		app.ServeHTTP(rec, req)

		assert.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))
		assert.Equal(t, "abc-123", seen)
	})
}

func TestComponent(t *testing.T) {
	var buf bytes.Buffer
	Component(zerolog.New(&buf), "analytics").Info().Msg("flushed")
	assert.Contains(t, buf.String(), `"component":"analytics"`)
}
