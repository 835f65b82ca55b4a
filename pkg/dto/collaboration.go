package dto

import (
	"github.com/google/uuid"

	"github.com/tapri-app/tapri-api/internal/models"
)

type ApplyRequest struct {
	CoverLetter string `json:"cover_letter"`
	Motivation  string `json:"motivation"`
	Experience  string `json:"experience"`
}

func (r ApplyRequest) ToNew() models.NewApplication {
	return models.NewApplication{
		CoverLetter: r.CoverLetter,
		Motivation:  r.Motivation,
		Experience:  r.Experience,
	}
}

type InviteRequest struct {
	InviteeID uuid.UUID `json:"invitee_id"`
}

type StartConversationRequest struct {
	ParticipantID uuid.UUID `json:"participant_id"`
}

type MessageRequest struct {
	Content string `json:"content"`
}
