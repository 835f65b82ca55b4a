package testutil

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"

	"github.com/tapri-app/tapri-api/internal/database"
	"github.com/tapri-app/tapri-api/internal/models"
)

// Fixtures inserts rows directly, bypassing service validation.
type Fixtures struct {
	db      *database.DB
	counter int
}

func NewFixtures(db *database.DB) *Fixtures {
	return &Fixtures{db: db}
}

type ProfileOption func(*models.Profile)

func Admin() ProfileOption {
	return func(p *models.Profile) { p.IsAdmin = true }
}

func Discoverable(skills ...string) ProfileOption {
	return func(p *models.Profile) {
		p.IsDiscoverable = true
		p.Skills = skills
	}
}

func (f *Fixtures) CreateProfile(t *testing.T, opts ...ProfileOption) *models.Profile {
	t.Helper()
	f.counter++

	p := &models.Profile{
		Email:        fmt.Sprintf("member%d@tapri.test", f.counter),
		FullName:     fmt.Sprintf("Member %d", f.counter),
		Skills:       []string{},
		Availability: models.AvailabilityExploring,
		Provider:     "github",
		ProviderID:   fmt.Sprintf("gh-%d", f.counter),
	}
	for _, opt := range opts {
		opt(p)
	}

	err := f.db.Pool.QueryRow(context.Background(), `
		INSERT INTO profiles (email, full_name, is_admin, skills, availability, is_discoverable, provider, provider_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`, p.Email, p.FullName, p.IsAdmin, p.Skills, p.Availability, p.IsDiscoverable, p.Provider, p.ProviderID,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		t.Fatalf("failed to create profile: %v", err)
	}
	return p
}

// CreateProject inserts a project in the given status.
func (f *Fixtures) CreateProject(t *testing.T, creatorID uuid.UUID, status string) *models.Project {
	t.Helper()
	f.counter++

	p := &models.Project{
		Slug:          fmt.Sprintf("fixture-project-%d", f.counter),
		Title:         fmt.Sprintf("Fixture Project %d", f.counter),
		Description:   "A project created by the test fixtures.",
		Category:      "Climate",
		Stage:         "MVP",
		Location:      "Pune",
		TeamSize:      2,
		OpenPositions: 1,
		Status:        status,
		CreatorID:     creatorID,
	}

	err := f.db.Pool.QueryRow(context.Background(), `
		INSERT INTO projects (slug, title, description, category, stage, location, team_size, open_positions, status, creator_id,
			published_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, CASE WHEN $11 THEN NOW() END)
		RETURNING id, created_at, updated_at
	`, p.Slug, p.Title, p.Description, p.Category, p.Stage, p.Location, p.TeamSize, p.OpenPositions, p.Status, p.CreatorID,
		status == models.StatusApproved,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		t.Fatalf("failed to create project: %v", err)
	}
	return p
}
