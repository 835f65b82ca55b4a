package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tapri-app/tapri-api/internal/apperr"
	"github.com/tapri-app/tapri-api/internal/models"
	"github.com/tapri-app/tapri-api/internal/moderation"
	"github.com/tapri-app/tapri-api/internal/notify"
	"github.com/tapri-app/tapri-api/internal/sse"
)

var admin = models.Identity{ProfileID: uuid.New(), IsAdmin: true}

func TestModerationService_Approve(t *testing.T) {
	db, mock := newMockDB(t)
	events := &capture{}
	svc := NewModerationService(db, events, notify.Links{BaseURL: "https://tapri.app"})
	creator := fixtureProfile("cy")
	approved := fixtureProject(models.StatusApproved, creator.ID)
	published := time.Now()
	approved.PublishedAt = &published

	mock.ExpectQuery(`UPDATE projects SET .+ WHERE id = \$1 AND status = 'pending'`).
		WithArgs(approved.ID, models.StatusApproved, admin.ProfileID, pgxmock.AnyArg()).
		WillReturnRows(projectRows(approved))
	mock.ExpectQuery(`SELECT .+ FROM profiles WHERE id`).
		WithArgs(creator.ID).
		WillReturnRows(profileRows(creator))

	got, err := svc.Review(context.Background(), approved.ID, admin, moderation.Approve, "")

	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, got.Status)
	assert.NotNil(t, got.PublishedAt)
	require.Len(t, events.events, 1)
	assert.Equal(t, sse.EventProjectReviewed, events.events[0].Type)
	assert.Equal(t, creator.Email, events.events[0].Recipients[0].Email)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestModerationService_RejectStoresReason(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewModerationService(db, &capture{}, notify.Links{})
	rejected := fixtureProject(models.StatusRejected, uuid.New())
	reason := "duplicate listing"
	rejected.RejectionReason = &reason

	mock.ExpectQuery(`UPDATE projects SET`).
		WithArgs(rejected.ID, models.StatusRejected, admin.ProfileID, &reason).
		WillReturnRows(projectRows(rejected))
	mock.ExpectQuery(`SELECT .+ FROM profiles WHERE id`).WillReturnError(pgx.ErrNoRows)

	got, err := svc.Review(context.Background(), rejected.ID, admin, moderation.Reject, "  duplicate listing ")

	require.NoError(t, err)
	assert.Equal(t, reason, *got.RejectionReason)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestModerationService_SecondDecisionIsAlreadyDecided(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewModerationService(db, &capture{}, notify.Links{})
	id := uuid.New()

	mock.ExpectQuery(`UPDATE projects SET`).WillReturnError(pgx.ErrNoRows)
	mock.ExpectQuery(`SELECT status FROM projects WHERE id`).
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows([]string{"status"}).AddRow(models.StatusApproved))

	_, err := svc.Review(context.Background(), id, admin, moderation.Reject, "")

	require.True(t, apperr.IsAlreadyDecided(err))
	assert.Contains(t, err.Error(), "approved")
}

func TestModerationService_MissingProject(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewModerationService(db, &capture{}, notify.Links{})

	mock.ExpectQuery(`UPDATE projects SET`).WillReturnError(pgx.ErrNoRows)
	mock.ExpectQuery(`SELECT status FROM projects`).WillReturnError(pgx.ErrNoRows)

	_, err := svc.Review(context.Background(), uuid.New(), admin, moderation.Approve, "")

	assert.True(t, apperr.IsNotFound(err))
}

func TestModerationService_RequiresAdmin(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewModerationService(db, &capture{}, notify.Links{})

	_, err := svc.Review(context.Background(), uuid.New(), models.Identity{ProfileID: uuid.New()}, moderation.Approve, "")

	assert.True(t, apperr.IsPermission(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestModerationService_AcceptIsNotAProjectAction(t *testing.T) {
	db, _ := newMockDB(t)
	svc := NewModerationService(db, &capture{}, notify.Links{})

	_, err := svc.Review(context.Background(), uuid.New(), admin, moderation.Accept, "")

	assert.True(t, apperr.IsValidation(err))
}
