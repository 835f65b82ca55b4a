package handlers

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/tapri-app/tapri-api/internal/middleware"
	"github.com/tapri-app/tapri-api/internal/models"
	"github.com/tapri-app/tapri-api/internal/query"
	"github.com/tapri-app/tapri-api/internal/testutil"

	"github.com/m1z23r/drift/pkg/drift"
)

// identify resolves bearer tokens minted by testutil. Handlers answer 401 on
// their own when it finds nothing.
func identify() drift.HandlerFunc {
	return middleware.OptionalAuth(testutil.TestJWTService())
}

func as(t *testing.T, id uuid.UUID) map[string]string {
	return testutil.Bearer(testutil.Token(t, id, false))
}

func asAdmin(t *testing.T, id uuid.UUID) map[string]string {
	return testutil.Bearer(testutil.Token(t, id, true))
}

// staticProjects is a listing source over a fixed slice.
type staticProjects []models.Project

func (s staticProjects) Fetch(_ context.Context, _ query.Filters, limit, offset int) ([]models.Project, error) {
	if offset >= len(s) {
		return []models.Project{}, nil
	}
	end := offset + limit
	if end > len(s) {
		end = len(s)
	}
	return s[offset:end], nil
}

func project(title, status string, creator uuid.UUID) models.Project {
	return models.Project{
		ID:          uuid.New(),
		Slug:        "slug-" + title,
		Title:       title,
		Description: title + " description",
		Status:      status,
		CreatorID:   creator,
	}
}
