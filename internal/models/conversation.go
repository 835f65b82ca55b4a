package models

import (
	"time"

	"github.com/google/uuid"
)

type Conversation struct {
	ID             uuid.UUID   `json:"id"`
	ParticipantIDs []uuid.UUID `json:"participant_ids"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
	LastMessage    *Message    `json:"last_message,omitempty"`
}

func (c *Conversation) HasParticipant(id uuid.UUID) bool {
	for _, p := range c.ParticipantIDs {
		if p == id {
			return true
		}
	}
	return false
}

type Message struct {
	ID             uuid.UUID  `json:"id"`
	ConversationID uuid.UUID  `json:"conversation_id"`
	SenderID       uuid.UUID  `json:"sender_id"`
	Content        string     `json:"content"`
	CreatedAt      time.Time  `json:"created_at"`
	EditedAt       *time.Time `json:"edited_at,omitempty"`
}
