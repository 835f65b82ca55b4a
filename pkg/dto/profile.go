package dto

import "github.com/tapri-app/tapri-api/internal/models"

// UpdateProfileRequest fields left out of the body are not changed. An
// explicit empty skills list clears the skills.
type UpdateProfileRequest struct {
	FullName       *string  `json:"full_name"`
	Bio            *string  `json:"bio"`
	Role           *string  `json:"role"`
	Location       *string  `json:"location"`
	Skills         []string `json:"skills"`
	Availability   *string  `json:"availability"`
	IsDiscoverable *bool    `json:"is_discoverable"`
	AvatarURL      *string  `json:"avatar_url"`
}

func (r UpdateProfileRequest) ToUpdate() models.ProfileUpdate {
	return models.ProfileUpdate{
		FullName:       r.FullName,
		Bio:            r.Bio,
		Role:           r.Role,
		Location:       r.Location,
		Skills:         r.Skills,
		Availability:   r.Availability,
		IsDiscoverable: r.IsDiscoverable,
		AvatarURL:      r.AvatarURL,
	}
}

// PublicProfile is what other members see. Email and provider stay private.
type PublicProfile struct {
	ID             string   `json:"id"`
	FullName       string   `json:"full_name"`
	AvatarURL      *string  `json:"avatar_url,omitempty"`
	Bio            string   `json:"bio"`
	Role           string   `json:"role"`
	Location       string   `json:"location"`
	Skills         []string `json:"skills"`
	Availability   string   `json:"availability"`
	RewardPoints   int      `json:"reward_points"`
	IsDiscoverable bool     `json:"is_discoverable"`
}

func NewPublicProfile(p *models.Profile) PublicProfile {
	skills := p.Skills
	if skills == nil {
		skills = []string{}
	}
	return PublicProfile{
		ID:             p.ID.String(),
		FullName:       p.FullName,
		AvatarURL:      p.AvatarURL,
		Bio:            p.Bio,
		Role:           p.Role,
		Location:       p.Location,
		Skills:         skills,
		Availability:   p.Availability,
		RewardPoints:   p.RewardPoints,
		IsDiscoverable: p.IsDiscoverable,
	}
}
