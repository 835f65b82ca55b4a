package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/tapri-app/tapri-api/internal/apperr"
	"github.com/tapri-app/tapri-api/internal/database"
	"github.com/tapri-app/tapri-api/internal/models"
	"github.com/tapri-app/tapri-api/internal/moderation"
	"github.com/tapri-app/tapri-api/internal/notify"
	"github.com/tapri-app/tapri-api/internal/query"
)

const (
	applicationColumns = `id, project_id, applicant_id, status, cover_letter, motivation, experience,
		decided_by, decided_at, created_at, updated_at`
	applicationConstraint = "applications_project_applicant_key"
	maxApplicationText    = 5000
)

type ApplicationService struct {
	db       *database.DB
	projects *ProjectService
	profiles *ProfileService
	events   Dispatcher
	links    notify.Links
}

func NewApplicationService(db *database.DB, events Dispatcher, links notify.Links) *ApplicationService {
	return &ApplicationService{
		db:       db,
		projects: NewProjectService(db, nil),
		profiles: NewProfileService(db),
		events:   events,
		links:    links,
	}
}

func scanApplication(row scanner) (*models.Application, error) {
	var a models.Application
	err := row.Scan(&a.ID, &a.ProjectID, &a.ApplicantID, &a.Status, &a.CoverLetter, &a.Motivation,
		&a.Experience, &a.DecidedBy, &a.DecidedAt, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Submit files an application to an approved project and bumps its
// application counter in the same transaction.
func (s *ApplicationService) Submit(ctx context.Context, projectID, applicantID uuid.UUID, in models.NewApplication) (*models.Application, error) {
	if err := validateApplication(&in); err != nil {
		return nil, err
	}

	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return nil, database.MapError(err, "application")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var status string
	var creatorID uuid.UUID
	err = tx.QueryRow(ctx, `SELECT status, creator_id FROM projects WHERE id = $1 FOR SHARE`, projectID).
		Scan(&status, &creatorID)
	if err != nil {
		return nil, database.MapError(err, "project")
	}
	if status != models.StatusApproved {
		return nil, apperr.NotFound("project")
	}
	if creatorID == applicantID {
		return nil, apperr.Validation("project_id", "you cannot apply to your own project")
	}

	app, err := scanApplication(tx.QueryRow(ctx, `
		INSERT INTO applications (project_id, applicant_id, cover_letter, motivation, experience)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+applicationColumns,
		projectID, applicantID, in.CoverLetter, in.Motivation, in.Experience))
	if err != nil {
		if constraint, dup := database.IsUniqueViolation(err); dup && constraint == applicationConstraint {
			return nil, apperr.Duplicate("you have already applied to this project")
		}
		return nil, database.MapError(err, "application")
	}

	if _, err := tx.Exec(ctx, `
		UPDATE projects SET application_count = application_count + 1 WHERE id = $1
	`, projectID); err != nil {
		return nil, database.MapError(err, "project")
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, database.MapError(err, "application")
	}
	return app, nil
}

// ListForProject returns every application to a project with the applicant
// attached. Only the creator or an admin may see them.
func (s *ApplicationService) ListForProject(ctx context.Context, projectID uuid.UUID, caller models.Identity) ([]models.Application, error) {
	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if !project.ManageableBy(caller) {
		return nil, apperr.Permission("only the creator or an admin can view applications")
	}

	rows, err := s.db.Pool.Query(ctx, `
		SELECT `+applicationColumns+` FROM applications
		WHERE project_id = $1
		ORDER BY created_at DESC
	`, projectID)
	if err != nil {
		return nil, database.MapError(err, "application")
	}
	apps, err := collect(rows, scanApplication)
	if err != nil {
		return nil, database.MapError(err, "application")
	}
	return s.attachApplicants(ctx, apps)
}

func (s *ApplicationService) ListMine(ctx context.Context, applicantID uuid.UUID) ([]models.Application, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT `+applicationColumns+` FROM applications
		WHERE applicant_id = $1
		ORDER BY created_at DESC
	`, applicantID)
	if err != nil {
		return nil, database.MapError(err, "application")
	}
	apps, err := collect(rows, scanApplication)
	if err != nil {
		return nil, database.MapError(err, "application")
	}
	return apps, nil
}

// Decide accepts or rejects a pending application. Like project review, the
// pending check happens inside the UPDATE.
func (s *ApplicationService) Decide(ctx context.Context, applicationID uuid.UUID, caller models.Identity, action moderation.Action) (*models.Application, error) {
	to, err := moderation.NextApplication(models.ApplicationPending, action)
	if err != nil {
		return nil, err
	}

	var projectID, creatorID uuid.UUID
	err = s.db.Pool.QueryRow(ctx, `
		SELECT a.project_id, p.creator_id
		FROM applications a
		JOIN projects p ON p.id = a.project_id
		WHERE a.id = $1
	`, applicationID).Scan(&projectID, &creatorID)
	if err != nil {
		return nil, database.MapError(err, "application")
	}
	if !caller.IsAdmin && caller.ProfileID != creatorID {
		return nil, apperr.Permission("only the creator or an admin can decide applications")
	}

	app, err := scanApplication(s.db.Pool.QueryRow(ctx, `
		UPDATE applications SET status = $2, decided_by = $3, decided_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND status = 'pending'
		RETURNING `+applicationColumns,
		applicationID, to, caller.ProfileID))
	if errors.Is(err, pgx.ErrNoRows) {
		var current string
		probe := s.db.Pool.QueryRow(ctx, `SELECT status FROM applications WHERE id = $1`, applicationID).Scan(&current)
		if probe != nil && !errors.Is(probe, pgx.ErrNoRows) {
			return nil, database.MapError(probe, "application")
		}
		return nil, moderation.Decided("application", current, probe == nil)
	}
	if err != nil {
		return nil, database.MapError(err, "application")
	}

	s.notifyDecision(ctx, app)
	return app, nil
}

func (s *ApplicationService) notifyDecision(ctx context.Context, app *models.Application) {
	project, err := s.projects.GetByID(ctx, app.ProjectID)
	if err != nil {
		return
	}
	applicant, err := s.profiles.GetByID(ctx, app.ApplicantID)
	if err != nil {
		return
	}
	s.events.Dispatch(s.links.ApplicationDecided(app, project, applicant))
}

func (s *ApplicationService) attachApplicants(ctx context.Context, apps []models.Application) ([]models.Application, error) {
	if len(apps) == 0 {
		return apps, nil
	}
	ids := make([]uuid.UUID, 0, len(apps))
	for _, a := range apps {
		ids = append(ids, a.ApplicantID)
	}

	rows, err := s.db.Pool.Query(ctx, `SELECT `+query.ProfileColumns+` FROM profiles WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, database.MapError(err, "profile")
	}
	profiles, err := collect(rows, scanProfile)
	if err != nil {
		return nil, database.MapError(err, "profile")
	}

	byID := make(map[uuid.UUID]*models.Profile, len(profiles))
	for i := range profiles {
		byID[profiles[i].ID] = &profiles[i]
	}
	for i := range apps {
		apps[i].Applicant = byID[apps[i].ApplicantID]
	}
	return apps, nil
}

func validateApplication(in *models.NewApplication) error {
	in.CoverLetter = strings.TrimSpace(in.CoverLetter)
	in.Motivation = strings.TrimSpace(in.Motivation)
	in.Experience = strings.TrimSpace(in.Experience)

	if in.CoverLetter == "" {
		return apperr.Validation("cover_letter", "cover letter is required")
	}
	fields := []struct {
		name  string
		value string
	}{{"cover_letter", in.CoverLetter}, {"motivation", in.Motivation}, {"experience", in.Experience}}
	for _, f := range fields {
		if utf8.RuneCountInString(f.value) > maxApplicationText {
			return apperr.Validation(f.name, fmt.Sprintf("%s must be at most %d characters", f.name, maxApplicationText))
		}
	}
	return nil
}
