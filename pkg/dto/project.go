package dto

import "github.com/tapri-app/tapri-api/internal/models"

type CreateProjectRequest struct {
	Title         string  `json:"title"`
	Tagline       *string `json:"tagline"`
	Description   string  `json:"description"`
	Category      string  `json:"category"`
	Stage         string  `json:"stage"`
	Location      string  `json:"location"`
	TeamSize      int     `json:"team_size"`
	OpenPositions int     `json:"open_positions"`
	Website       *string `json:"website"`
	BannerURL     *string `json:"banner_url"`
	LogoURL       *string `json:"logo_url"`
}

func (r CreateProjectRequest) ToNew() models.NewProject {
	return models.NewProject{
		Title:         r.Title,
		Tagline:       r.Tagline,
		Description:   r.Description,
		Category:      r.Category,
		Stage:         r.Stage,
		Location:      r.Location,
		TeamSize:      r.TeamSize,
		OpenPositions: r.OpenPositions,
		Website:       r.Website,
		BannerURL:     r.BannerURL,
		LogoURL:       r.LogoURL,
	}
}

type UpdateProjectRequest struct {
	Title         *string `json:"title"`
	Tagline       *string `json:"tagline"`
	Description   *string `json:"description"`
	Category      *string `json:"category"`
	Stage         *string `json:"stage"`
	Location      *string `json:"location"`
	TeamSize      *int    `json:"team_size"`
	OpenPositions *int    `json:"open_positions"`
	Website       *string `json:"website"`
	BannerURL     *string `json:"banner_url"`
	LogoURL       *string `json:"logo_url"`
}

func (r UpdateProjectRequest) ToUpdate() models.ProjectUpdate {
	return models.ProjectUpdate{
		Title:         r.Title,
		Tagline:       r.Tagline,
		Description:   r.Description,
		Category:      r.Category,
		Stage:         r.Stage,
		Location:      r.Location,
		TeamSize:      r.TeamSize,
		OpenPositions: r.OpenPositions,
		Website:       r.Website,
		BannerURL:     r.BannerURL,
		LogoURL:       r.LogoURL,
	}
}

type ReviewRequest struct {
	Reason string `json:"reason"`
}
