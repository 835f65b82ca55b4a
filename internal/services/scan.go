package services

import (
	"github.com/jackc/pgx/v5"

	"github.com/tapri-app/tapri-api/internal/models"
)

type scanner interface {
	Scan(dest ...any) error
}

// scanProject reads a row selected with query.ProjectColumns.
func scanProject(row scanner) (*models.Project, error) {
	var p models.Project
	err := row.Scan(
		&p.ID, &p.Slug, &p.Title, &p.Tagline, &p.Description, &p.Category, &p.Stage, &p.Location,
		&p.TeamSize, &p.OpenPositions, &p.Website, &p.BannerURL, &p.LogoURL, &p.Status, &p.CreatorID,
		&p.PublishedAt, &p.ReviewedBy, &p.ReviewedAt, &p.RejectionReason, &p.ViewCount,
		&p.ApplicationCount, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// scanProfile reads a row selected with query.ProfileColumns.
func scanProfile(row scanner) (*models.Profile, error) {
	var p models.Profile
	err := row.Scan(
		&p.ID, &p.Email, &p.FullName, &p.AvatarURL, &p.Bio, &p.Role, &p.Location, &p.IsAdmin, &p.Skills,
		&p.Availability, &p.IsDiscoverable, &p.RewardPoints, &p.Provider, &p.ProviderID, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if p.Skills == nil {
		p.Skills = []string{}
	}
	return &p, nil
}

func collect[T any](rows pgx.Rows, scan func(scanner) (*T, error)) ([]T, error) {
	defer rows.Close()

	items := []T{}
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
