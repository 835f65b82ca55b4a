package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	ApplicationPending  = "pending"
	ApplicationAccepted = "accepted"
	ApplicationRejected = "rejected"
)

type Application struct {
	ID          uuid.UUID  `json:"id"`
	ProjectID   uuid.UUID  `json:"project_id"`
	ApplicantID uuid.UUID  `json:"applicant_id"`
	Status      string     `json:"status"`
	CoverLetter string     `json:"cover_letter"`
	Motivation  string     `json:"motivation"`
	Experience  string     `json:"experience"`
	DecidedBy   *uuid.UUID `json:"decided_by,omitempty"`
	DecidedAt   *time.Time `json:"decided_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	Applicant   *Profile   `json:"applicant,omitempty"`
	Project     *Project   `json:"project,omitempty"`
}

type NewApplication struct {
	CoverLetter string
	Motivation  string
	Experience  string
}
