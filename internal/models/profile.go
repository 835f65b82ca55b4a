package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	AvailabilityOpen         = "Open to Work"
	AvailabilityExploring    = "Exploring"
	AvailabilityNotAvailable = "Not Available"
)

type Profile struct {
	ID             uuid.UUID `json:"id"`
	Email          string    `json:"email"`
	FullName       string    `json:"full_name"`
	AvatarURL      *string   `json:"avatar_url,omitempty"`
	Bio            string    `json:"bio"`
	Role           string    `json:"role"`
	Location       string    `json:"location"`
	IsAdmin        bool      `json:"is_admin"`
	Skills         []string  `json:"skills"`
	Availability   string    `json:"availability"`
	IsDiscoverable bool      `json:"is_discoverable"`
	RewardPoints   int       `json:"reward_points"`
	Provider       string    `json:"provider"`
	ProviderID     string    `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// ProfileUpdate carries the fields a profile owner may change. Nil fields are
// left untouched.
type ProfileUpdate struct {
	FullName       *string
	Bio            *string
	Role           *string
	Location       *string
	Skills         []string
	Availability   *string
	IsDiscoverable *bool
	AvatarURL      *string
}

func ValidAvailability(v string) bool {
	switch v {
	case AvailabilityOpen, AvailabilityExploring, AvailabilityNotAvailable:
		return true
	}
	return false
}

// Identity is the authenticated caller as seen by the services.
type Identity struct {
	ProfileID uuid.UUID
	IsAdmin   bool
}
