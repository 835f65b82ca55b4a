package handlers

import (
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"

	"github.com/tapri-app/tapri-api/internal/middleware"
	"github.com/tapri-app/tapri-api/internal/sse"
)

const clientBuffer = 64

type EventsHandler struct {
	hub EventHub
}

func NewEventsHandler(hub EventHub) *EventsHandler {
	return &EventsHandler{hub: hub}
}

// Stream holds an SSE connection open and relays every event addressed to
// the caller until the client disconnects.
func (h *EventsHandler) Stream(c *drift.Context) {
	profileID := middleware.GetProfileID(c)
	if profileID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	stream := c.SSE()
	client := &sse.Client{
		ID:        uuid.NewString(),
		ProfileID: profileID,
		Send:      make(chan []byte, clientBuffer),
	}
	h.hub.Register(client)
	defer h.hub.Unregister(client)

	if err := stream.SendJSON(map[string]string{
		"type":      "connected",
		"client_id": client.ID,
	}, "system", ""); err != nil {
		return
	}

	done := c.Request.Context().Done()
	for {
		select {
		case msg, ok := <-client.Send:
			if !ok {
				return
			}
			if err := stream.Send(string(msg), "message", ""); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
