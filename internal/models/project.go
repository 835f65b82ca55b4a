package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Project is a Tapri listing.
type Project struct {
	ID               uuid.UUID  `json:"id"`
	Slug             string     `json:"slug"`
	Title            string     `json:"title"`
	Tagline          *string    `json:"tagline,omitempty"`
	Description      string     `json:"description"`
	Category         string     `json:"category"`
	Stage            string     `json:"stage"`
	Location         string     `json:"location"`
	TeamSize         int        `json:"team_size"`
	OpenPositions    int        `json:"open_positions"`
	Website          *string    `json:"website,omitempty"`
	BannerURL        *string    `json:"banner_url,omitempty"`
	LogoURL          *string    `json:"logo_url,omitempty"`
	Status           string     `json:"status"`
	CreatorID        uuid.UUID  `json:"creator_id"`
	PublishedAt      *time.Time `json:"published_at,omitempty"`
	ReviewedBy       *uuid.UUID `json:"reviewed_by,omitempty"`
	ReviewedAt       *time.Time `json:"reviewed_at,omitempty"`
	RejectionReason  *string    `json:"rejection_reason,omitempty"`
	ViewCount        int64      `json:"view_count"`
	ApplicationCount int        `json:"application_count"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// NewProject is the input for creating a project. Slug, status and creator
// are assigned by the service.
type NewProject struct {
	Title         string
	Tagline       *string
	Description   string
	Category      string
	Stage         string
	Location      string
	TeamSize      int
	OpenPositions int
	Website       *string
	BannerURL     *string
	LogoURL       *string
}

// ProjectUpdate holds the descriptive fields that stay editable after
// creation. Slug, status, creator and publish time never change here.
type ProjectUpdate struct {
	Title         *string
	Tagline       *string
	Description   *string
	Category      *string
	Stage         *string
	Location      *string
	TeamSize      *int
	OpenPositions *int
	Website       *string
	BannerURL     *string
	LogoURL       *string
}

func (p *Project) IsPublic() bool {
	return p.Status == StatusApproved
}

// VisibleTo reports whether the caller may see the project: approved
// projects are public, anything else only to the creator or an admin.
func (p *Project) VisibleTo(id *Identity) bool {
	if p.IsPublic() {
		return true
	}
	if id == nil {
		return false
	}
	return id.IsAdmin || id.ProfileID == p.CreatorID
}

func (p *Project) ManageableBy(id Identity) bool {
	return id.IsAdmin || id.ProfileID == p.CreatorID
}
