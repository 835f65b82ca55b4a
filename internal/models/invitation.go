package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	InvitationPending  = "pending"
	InvitationAccepted = "accepted"
	InvitationDeclined = "declined"
)

type Invitation struct {
	ID          uuid.UUID  `json:"id"`
	ProjectID   uuid.UUID  `json:"project_id"`
	InviteeID   uuid.UUID  `json:"invitee_id"`
	InviterID   uuid.UUID  `json:"inviter_id"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	RespondedAt *time.Time `json:"responded_at,omitempty"`
	Project     *Project   `json:"project,omitempty"`
	Inviter     *Profile   `json:"inviter,omitempty"`
	Invitee     *Profile   `json:"invitee,omitempty"`
}
