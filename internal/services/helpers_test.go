package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/require"

	"github.com/tapri-app/tapri-api/internal/database"
	"github.com/tapri-app/tapri-api/internal/models"
	"github.com/tapri-app/tapri-api/internal/notify"
)

func newMockDB(t *testing.T) (*database.DB, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })
	return &database.DB{Pool: mock}, mock
}

var projectCols = []string{
	"id", "slug", "title", "tagline", "description", "category", "stage", "location",
	"team_size", "open_positions", "website", "banner_url", "logo_url", "status", "creator_id",
	"published_at", "reviewed_by", "reviewed_at", "rejection_reason", "view_count",
	"application_count", "created_at", "updated_at",
}

var profileCols = []string{
	"id", "email", "full_name", "avatar_url", "bio", "role", "location", "is_admin", "skills",
	"availability", "is_discoverable", "reward_points", "provider", "provider_id", "created_at", "updated_at",
}

func projectRows(projects ...models.Project) *pgxmock.Rows {
	rows := pgxmock.NewRows(projectCols)
	for _, p := range projects {
		rows.AddRow(p.ID, p.Slug, p.Title, p.Tagline, p.Description, p.Category, p.Stage, p.Location,
			p.TeamSize, p.OpenPositions, p.Website, p.BannerURL, p.LogoURL, p.Status, p.CreatorID,
			p.PublishedAt, p.ReviewedBy, p.ReviewedAt, p.RejectionReason, p.ViewCount,
			p.ApplicationCount, p.CreatedAt, p.UpdatedAt)
	}
	return rows
}

func profileRows(profiles ...models.Profile) *pgxmock.Rows {
	rows := pgxmock.NewRows(profileCols)
	for _, p := range profiles {
		rows.AddRow(p.ID, p.Email, p.FullName, p.AvatarURL, p.Bio, p.Role, p.Location, p.IsAdmin, p.Skills,
			p.Availability, p.IsDiscoverable, p.RewardPoints, p.Provider, p.ProviderID, p.CreatedAt, p.UpdatedAt)
	}
	return rows
}

func fixtureProject(status string, creator uuid.UUID) models.Project {
	now := time.Now()
	return models.Project{
		ID:          uuid.New(),
		Slug:        "solar-coop-ab12c",
		Title:       "Solar Co-op",
		Description: "Community solar for apartment blocks",
		Category:    "Climate",
		Stage:       "MVP",
		Location:    "Pune",
		TeamSize:    3,
		Status:      status,
		CreatorID:   creator,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func fixtureProfile(name string) models.Profile {
	now := time.Now()
	return models.Profile{
		ID:             uuid.New(),
		Email:          name + "@tapri.app",
		FullName:       name,
		Skills:         []string{"Go"},
		Availability:   models.AvailabilityOpen,
		IsDiscoverable: true,
		Provider:       "github",
		ProviderID:     name + "-gh",
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// capture records dispatched events synchronously.
type capture struct {
	events []notify.Event
}

func (c *capture) Dispatch(ev notify.Event) { c.events = append(c.events, ev) }
