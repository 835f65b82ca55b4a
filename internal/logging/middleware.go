package logging

import (
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/rs/zerolog"
)

const RequestIDKey = "request_id"

// Requests logs every request with its method, path, duration and a request
// id, which is also echoed back in the X-Request-ID header.
func Requests(logger zerolog.Logger) drift.HandlerFunc {
	return func(c *drift.Context) {
		start := time.Now()

		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(RequestIDKey, requestID)
		c.Response.Header().Set("X-Request-ID", requestID)

		defer func() {
			if rec := recover(); rec != nil {
				logger.Error().
					Str("request_id", requestID).
					Str("method", c.Request.Method).
					Str("path", c.Request.URL.Path).
					Interface("panic", rec).
					Str("stack", string(debug.Stack())).
					Msg("recovered from panic")
				panic(rec)
			}
		}()

		c.Next()

		logger.Info().
			Str("request_id", requestID).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Dur("duration", time.Since(start)).
			Str("remote_addr", c.Request.RemoteAddr).
			Msg("http request")
	}
}

// RequestID returns the id assigned by Requests, or "" outside a request.
func RequestID(c *drift.Context) string {
	if v, ok := c.Get(RequestIDKey); ok {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}
