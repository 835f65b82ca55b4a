package sse

import (
	"encoding/json"
	"sync"

	"github.com/google/uuid"
)

const (
	EventMessageCreated     = "message_created"
	EventMessageEdited      = "message_edited"
	EventInvitationCreated  = "invitation_created"
	EventProjectReviewed    = "project_reviewed"
	EventApplicationDecided = "application_decided"
)

type Event struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// Client is one open event stream. A profile may hold several.
type Client struct {
	ID        string
	ProfileID uuid.UUID
	Send      chan []byte
}

type profileMessage struct {
	profileID uuid.UUID
	event     Event
}

// Hub routes events to every connected stream of a profile. Delivery is best
// effort: a profile without streams or a full client buffer drops the event.
type Hub struct {
	clients    map[string]*Client
	register   chan *Client
	unregister chan *Client
	broadcast  chan *profileMessage
	done       chan struct{}
	stopOnce   sync.Once
	mu         sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *profileMessage, 256),
		done:       make(chan struct{}),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.ID] = client
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.ID]; ok {
				delete(h.clients, client.ID)
				close(client.Send)
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			data, err := json.Marshal(msg.event)
			if err != nil {
				continue
			}
			h.mu.RLock()
			for _, client := range h.clients {
				if client.ProfileID != msg.profileID {
					continue
				}
				select {
				case client.Send <- data:
				default:
				}
			}
			h.mu.RUnlock()

		case <-h.done:
			h.mu.Lock()
			for id, client := range h.clients {
				close(client.Send)
				delete(h.clients, id)
			}
			h.mu.Unlock()
			return
		}
	}
}

// Stop ends Run and closes every client stream.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.done) })
}

func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
		close(client.Send)
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// SendToProfile queues an event for every stream of the profile. It never
// blocks the caller.
func (h *Hub) SendToProfile(profileID uuid.UUID, eventType string, data any) {
	msg := &profileMessage{profileID: profileID, event: Event{Type: eventType, Data: data}}
	select {
	case h.broadcast <- msg:
	default:
	}
}

func (h *Hub) IsConnected(profileID uuid.UUID) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, client := range h.clients {
		if client.ProfileID == profileID {
			return true
		}
	}
	return false
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
