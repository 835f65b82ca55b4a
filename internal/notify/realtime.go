package notify

import (
	"context"

	"github.com/google/uuid"
)

type Pusher interface {
	SendToProfile(profileID uuid.UUID, eventType string, data any)
}

// Realtime pushes events to the recipients' open event streams.
type Realtime struct {
	pusher Pusher
}

func NewRealtime(pusher Pusher) *Realtime {
	return &Realtime{pusher: pusher}
}

func (r *Realtime) Notify(_ context.Context, ev Event) error {
	data := ev.Data
	if data == nil {
		data = map[string]string{"subject": ev.Subject, "body": ev.Body, "link": ev.Link}
	}
	for _, rec := range ev.Recipients {
		r.pusher.SendToProfile(rec.ProfileID, ev.Type, data)
	}
	return nil
}
