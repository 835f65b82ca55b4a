package services

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/tapri-app/tapri-api/internal/apperr"
	"github.com/tapri-app/tapri-api/internal/database"
	"github.com/tapri-app/tapri-api/internal/listing"
	"github.com/tapri-app/tapri-api/internal/models"
	"github.com/tapri-app/tapri-api/internal/query"
	"github.com/tapri-app/tapri-api/internal/slug"
)

const (
	minTitleLength   = 3
	maxTitleLength   = 120
	maxTaglineLength = 160
	slugAttempts     = 3
	slugConstraint   = "projects_slug_key"
)

type ProjectService struct {
	db    *database.DB
	slugs *slug.Generator
}

func NewProjectService(db *database.DB, slugs *slug.Generator) *ProjectService {
	if slugs == nil {
		slugs = slug.Default()
	}
	return &ProjectService{db: db, slugs: slugs}
}

// Create stores a new pending project. A slug collision is retried with a
// fresh suffix before surfacing as Duplicate.
func (s *ProjectService) Create(ctx context.Context, creatorID uuid.UUID, in models.NewProject) (*models.Project, error) {
	if err := validateNewProject(&in); err != nil {
		return nil, err
	}

	var lastErr error
	for attempt := 0; attempt < slugAttempts; attempt++ {
		project, err := scanProject(s.db.Pool.QueryRow(ctx, `
			INSERT INTO projects (slug, title, tagline, description, category, stage, location,
				team_size, open_positions, website, banner_url, logo_url, creator_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
			RETURNING `+query.ProjectColumns,
			s.slugs.Generate(in.Title), in.Title, in.Tagline, in.Description, in.Category, in.Stage, in.Location,
			in.TeamSize, in.OpenPositions, in.Website, in.BannerURL, in.LogoURL, creatorID))
		if err == nil {
			return project, nil
		}
		if constraint, dup := database.IsUniqueViolation(err); dup && constraint == slugConstraint {
			lastErr = err
			continue
		}
		return nil, database.MapError(err, "project")
	}
	return nil, &apperr.Error{
		Kind:    apperr.KindDuplicate,
		Message: fmt.Sprintf("could not allocate a unique slug after %d attempts", slugAttempts),
		Field:   "slug",
		Cause:   lastErr,
	}
}

func (s *ProjectService) GetByID(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	project, err := scanProject(s.db.Pool.QueryRow(ctx,
		`SELECT `+query.ProjectColumns+` FROM projects WHERE id = $1`, id))
	if err != nil {
		return nil, database.MapError(err, "project")
	}
	return project, nil
}

// GetBySlug returns a project the viewer may see. Pending and rejected
// projects look missing to everyone but their creator and admins.
func (s *ProjectService) GetBySlug(ctx context.Context, projectSlug string, viewer *models.Identity) (*models.Project, error) {
	project, err := scanProject(s.db.Pool.QueryRow(ctx,
		`SELECT `+query.ProjectColumns+` FROM projects WHERE slug = $1`, projectSlug))
	if err != nil {
		return nil, database.MapError(err, "project")
	}
	if !project.VisibleTo(viewer) {
		return nil, apperr.NotFound("project")
	}
	return project, nil
}

// Update edits descriptive fields. Slug, status, creator and publish time are
// not reachable from here.
func (s *ProjectService) Update(ctx context.Context, id uuid.UUID, caller models.Identity, u models.ProjectUpdate) (*models.Project, error) {
	current, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !current.ManageableBy(caller) {
		return nil, apperr.Permission("only the creator or an admin can edit this project")
	}
	if err := validateProjectUpdate(&u); err != nil {
		return nil, err
	}

	project, err := scanProject(s.db.Pool.QueryRow(ctx, `
		UPDATE projects SET
			title = COALESCE($2, title),
			tagline = COALESCE($3, tagline),
			description = COALESCE($4, description),
			category = COALESCE($5, category),
			stage = COALESCE($6, stage),
			location = COALESCE($7, location),
			team_size = COALESCE($8, team_size),
			open_positions = COALESCE($9, open_positions),
			website = COALESCE($10, website),
			banner_url = COALESCE($11, banner_url),
			logo_url = COALESCE($12, logo_url),
			updated_at = NOW()
		WHERE id = $1
		RETURNING `+query.ProjectColumns,
		id, u.Title, u.Tagline, u.Description, u.Category, u.Stage, u.Location,
		u.TeamSize, u.OpenPositions, u.Website, u.BannerURL, u.LogoURL))
	if err != nil {
		return nil, database.MapError(err, "project")
	}
	return project, nil
}

// Source returns the server phase of a project listing restricted to scope.
func (s *ProjectService) Source(scope query.Scope) listing.Source[models.Project] {
	return listing.SourceFunc[models.Project](func(ctx context.Context, f query.Filters, limit, offset int) ([]models.Project, error) {
		return s.list(ctx, query.Projects(f, scope, limit, offset))
	})
}

// Fetch is the public listing source: approved projects only.
func (s *ProjectService) Fetch(ctx context.Context, f query.Filters, limit, offset int) ([]models.Project, error) {
	return s.list(ctx, query.Projects(f, query.Public(), limit, offset))
}

func (s *ProjectService) ListMine(ctx context.Context, ownerID uuid.UUID, f query.Filters, limit, offset int) ([]models.Project, error) {
	return s.list(ctx, query.Projects(f, query.Owner(ownerID), limit, offset))
}

func (s *ProjectService) list(ctx context.Context, stmt query.Statement) ([]models.Project, error) {
	rows, err := s.db.Pool.Query(ctx, stmt.SQL, stmt.Args...)
	if err != nil {
		return nil, database.MapError(err, "project")
	}
	projects, err := collect(rows, scanProject)
	if err != nil {
		return nil, database.MapError(err, "project")
	}
	return projects, nil
}

func validateNewProject(in *models.NewProject) error {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Category = strings.TrimSpace(in.Category)
	in.Stage = strings.TrimSpace(in.Stage)
	in.Location = strings.TrimSpace(in.Location)

	if err := validateTitle(in.Title); err != nil {
		return err
	}
	if in.Description == "" {
		return apperr.Validation("description", "description is required")
	}
	if in.Category == "" {
		return apperr.Validation("category", "category is required")
	}
	if in.Stage == "" {
		return apperr.Validation("stage", "stage is required")
	}
	if in.TeamSize < 1 {
		return apperr.Validation("team_size", "team size must be at least 1")
	}
	if in.OpenPositions < 0 {
		return apperr.Validation("open_positions", "open positions cannot be negative")
	}
	return validateProjectLinks(in.Tagline, in.Website, in.BannerURL, in.LogoURL)
}

func validateProjectUpdate(u *models.ProjectUpdate) error {
	if u.Title != nil {
		title := strings.TrimSpace(*u.Title)
		if err := validateTitle(title); err != nil {
			return err
		}
		u.Title = &title
	}
	if u.Description != nil && strings.TrimSpace(*u.Description) == "" {
		return apperr.Validation("description", "description is required")
	}
	if u.Category != nil && strings.TrimSpace(*u.Category) == "" {
		return apperr.Validation("category", "category is required")
	}
	if u.Stage != nil && strings.TrimSpace(*u.Stage) == "" {
		return apperr.Validation("stage", "stage is required")
	}
	if u.TeamSize != nil && *u.TeamSize < 1 {
		return apperr.Validation("team_size", "team size must be at least 1")
	}
	if u.OpenPositions != nil && *u.OpenPositions < 0 {
		return apperr.Validation("open_positions", "open positions cannot be negative")
	}
	return validateProjectLinks(u.Tagline, u.Website, u.BannerURL, u.LogoURL)
}

func validateTitle(title string) error {
	n := utf8.RuneCountInString(title)
	if n < minTitleLength {
		return apperr.Validation("title", fmt.Sprintf("title must be at least %d characters", minTitleLength))
	}
	if n > maxTitleLength {
		return apperr.Validation("title", fmt.Sprintf("title must be at most %d characters", maxTitleLength))
	}
	return nil
}

func validateProjectLinks(tagline, website, banner, logo *string) error {
	if tagline != nil && utf8.RuneCountInString(*tagline) > maxTaglineLength {
		return apperr.Validation("tagline", fmt.Sprintf("tagline must be at most %d characters", maxTaglineLength))
	}
	links := []struct {
		field string
		value *string
	}{{"website", website}, {"banner_url", banner}, {"logo_url", logo}}
	for _, l := range links {
		if l.value != nil && *l.value != "" && !isHTTPURL(*l.value) {
			return apperr.Validation(l.field, l.field+" must be an http(s) URL")
		}
	}
	return nil
}
