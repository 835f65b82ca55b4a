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

const maxReasonLength = 500

// Dispatcher hands a notification off without waiting for delivery.
type Dispatcher interface {
	Dispatch(ev notify.Event)
}

type ModerationService struct {
	db       *database.DB
	profiles *ProfileService
	events   Dispatcher
	links    notify.Links
}

func NewModerationService(db *database.DB, events Dispatcher, links notify.Links) *ModerationService {
	return &ModerationService{db: db, profiles: NewProfileService(db), events: events, links: links}
}

// Review applies an admin decision to a pending project. The status check
// and the write are one statement, so two admins racing on the same project
// cannot both succeed.
func (s *ModerationService) Review(ctx context.Context, projectID uuid.UUID, reviewer models.Identity, action moderation.Action, reason string) (*models.Project, error) {
	if !reviewer.IsAdmin {
		return nil, apperr.Permission("only admins can review projects")
	}
	to, err := moderation.Next(models.StatusPending, action)
	if err != nil {
		return nil, err
	}

	var rejection *string
	if to == models.StatusRejected {
		reason = strings.TrimSpace(reason)
		if utf8.RuneCountInString(reason) > maxReasonLength {
			return nil, apperr.Validation("reason", fmt.Sprintf("reason must be at most %d characters", maxReasonLength))
		}
		rejection = nullableString(reason)
	}

	project, err := scanProject(s.db.Pool.QueryRow(ctx, `
		UPDATE projects SET
			status = $2,
			reviewed_by = $3,
			reviewed_at = NOW(),
			published_at = CASE WHEN $2 = 'approved' THEN GREATEST(NOW(), created_at) ELSE published_at END,
			rejection_reason = $4,
			updated_at = NOW()
		WHERE id = $1 AND status = 'pending'
		RETURNING `+query.ProjectColumns,
		projectID, to, reviewer.ProfileID, rejection))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, s.explain(ctx, projectID)
	}
	if err != nil {
		return nil, database.MapError(err, "project")
	}

	if creator, err := s.profiles.GetByID(ctx, project.CreatorID); err == nil {
		s.events.Dispatch(s.links.ProjectReviewed(project, creator))
	}
	return project, nil
}

func (s *ModerationService) explain(ctx context.Context, projectID uuid.UUID) error {
	var status string
	err := s.db.Pool.QueryRow(ctx, `SELECT status FROM projects WHERE id = $1`, projectID).Scan(&status)
	if errors.Is(err, pgx.ErrNoRows) {
		return moderation.Decided("project", "", false)
	}
	if err != nil {
		return database.MapError(err, "project")
	}
	return moderation.Decided("project", status, true)
}
