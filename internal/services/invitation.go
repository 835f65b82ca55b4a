package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/tapri-app/tapri-api/internal/apperr"
	"github.com/tapri-app/tapri-api/internal/database"
	"github.com/tapri-app/tapri-api/internal/models"
	"github.com/tapri-app/tapri-api/internal/notify"
)

const invitationColumns = `id, project_id, invitee_id, inviter_id, status, created_at, responded_at`

type InvitationService struct {
	db       *database.DB
	projects *ProjectService
	profiles *ProfileService
	events   Dispatcher
	links    notify.Links
}

func NewInvitationService(db *database.DB, events Dispatcher, links notify.Links) *InvitationService {
	return &InvitationService{
		db:       db,
		projects: NewProjectService(db, nil),
		profiles: NewProfileService(db),
		events:   events,
		links:    links,
	}
}

func scanInvitation(row scanner) (*models.Invitation, error) {
	var inv models.Invitation
	err := row.Scan(&inv.ID, &inv.ProjectID, &inv.InviteeID, &inv.InviterID, &inv.Status, &inv.CreatedAt, &inv.RespondedAt)
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// Invite asks a profile to join a project. The checks run in a fixed order:
// the project must exist, the inviter must manage it, and the invitee must
// exist and be someone else. The store's unique index decides duplicates.
// The notification is sent after the insert and never fails the call.
func (s *InvitationService) Invite(ctx context.Context, projectID uuid.UUID, inviter models.Identity, inviteeID uuid.UUID) (*models.Invitation, error) {
	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if !project.ManageableBy(inviter) {
		return nil, apperr.Permission("only the creator or an admin can invite to this project")
	}
	invitee, err := s.profiles.GetByID(ctx, inviteeID)
	if err != nil {
		return nil, err
	}
	if inviteeID == inviter.ProfileID {
		return nil, apperr.Validation("invitee_id", "you cannot invite yourself")
	}

	inv, err := scanInvitation(s.db.Pool.QueryRow(ctx, `
		INSERT INTO invitations (project_id, invitee_id, inviter_id)
		VALUES ($1, $2, $3)
		RETURNING `+invitationColumns,
		projectID, inviteeID, inviter.ProfileID))
	if err != nil {
		if _, dup := database.IsUniqueViolation(err); dup {
			return nil, apperr.Duplicate("already invited")
		}
		return nil, database.MapError(err, "invitation")
	}

	inv.Project = project
	inv.Invitee = invitee
	if from, err := s.profiles.GetByID(ctx, inviter.ProfileID); err == nil {
		inv.Inviter = from
		s.events.Dispatch(s.links.InvitationCreated(inv, project, from, invitee))
	}
	return inv, nil
}

func (s *InvitationService) Accept(ctx context.Context, invitationID, inviteeID uuid.UUID) (*models.Invitation, error) {
	return s.respond(ctx, invitationID, inviteeID, models.InvitationAccepted)
}

func (s *InvitationService) Decline(ctx context.Context, invitationID, inviteeID uuid.UUID) (*models.Invitation, error) {
	return s.respond(ctx, invitationID, inviteeID, models.InvitationDeclined)
}

func (s *InvitationService) respond(ctx context.Context, invitationID, inviteeID uuid.UUID, status string) (*models.Invitation, error) {
	inv, err := scanInvitation(s.db.Pool.QueryRow(ctx, `
		UPDATE invitations SET status = $3, responded_at = NOW()
		WHERE id = $1 AND invitee_id = $2 AND status = 'pending'
		RETURNING `+invitationColumns,
		invitationID, inviteeID, status))
	if !errors.Is(err, pgx.ErrNoRows) {
		if err != nil {
			return nil, database.MapError(err, "invitation")
		}
		return inv, nil
	}

	var current string
	var owner uuid.UUID
	err = s.db.Pool.QueryRow(ctx, `SELECT status, invitee_id FROM invitations WHERE id = $1`, invitationID).
		Scan(&current, &owner)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return nil, apperr.NotFound("invitation")
	case err != nil:
		return nil, database.MapError(err, "invitation")
	case owner != inviteeID:
		// Someone else's invitation looks missing.
		return nil, apperr.NotFound("invitation")
	}
	return nil, apperr.AlreadyDecided("invitation", current)
}

// ListForInvitee returns the caller's pending invitations with their projects.
func (s *InvitationService) ListForInvitee(ctx context.Context, inviteeID uuid.UUID) ([]models.Invitation, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT `+invitationColumns+` FROM invitations
		WHERE invitee_id = $1 AND status = 'pending'
		ORDER BY created_at DESC
	`, inviteeID)
	if err != nil {
		return nil, database.MapError(err, "invitation")
	}
	invs, err := collect(rows, scanInvitation)
	if err != nil {
		return nil, database.MapError(err, "invitation")
	}
	for i := range invs {
		if p, err := s.projects.GetByID(ctx, invs[i].ProjectID); err == nil {
			invs[i].Project = p
		}
	}
	return invs, nil
}

func (s *InvitationService) ListForProject(ctx context.Context, projectID uuid.UUID, caller models.Identity) ([]models.Invitation, error) {
	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if !project.ManageableBy(caller) {
		return nil, apperr.Permission("only the creator or an admin can view invitations")
	}

	rows, err := s.db.Pool.Query(ctx, `
		SELECT `+invitationColumns+` FROM invitations
		WHERE project_id = $1
		ORDER BY created_at DESC
	`, projectID)
	if err != nil {
		return nil, database.MapError(err, "invitation")
	}
	invs, err := collect(rows, scanInvitation)
	if err != nil {
		return nil, database.MapError(err, "invitation")
	}
	return invs, nil
}

// Cancel withdraws a pending invitation.
func (s *InvitationService) Cancel(ctx context.Context, invitationID uuid.UUID, caller models.Identity) error {
	inv, err := scanInvitation(s.db.Pool.QueryRow(ctx,
		`SELECT `+invitationColumns+` FROM invitations WHERE id = $1`, invitationID))
	if err != nil {
		return database.MapError(err, "invitation")
	}
	project, err := s.projects.GetByID(ctx, inv.ProjectID)
	if err != nil {
		return err
	}
	if !project.ManageableBy(caller) {
		return apperr.Permission("only the creator or an admin can cancel invitations")
	}
	if inv.Status != models.InvitationPending {
		return apperr.AlreadyDecided("invitation", inv.Status)
	}

	tag, err := s.db.Pool.Exec(ctx, `DELETE FROM invitations WHERE id = $1 AND status = 'pending'`, invitationID)
	if err != nil {
		return database.MapError(err, "invitation")
	}
	if tag.RowsAffected() == 0 {
		return apperr.AlreadyDecided("invitation", "answered")
	}
	return nil
}
