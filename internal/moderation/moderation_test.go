package moderation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tapri-app/tapri-api/internal/apperr"
	"github.com/tapri-app/tapri-api/internal/models"
)

func TestNext(t *testing.T) {
	tests := []struct {
		name     string
		from     string
		action   Action
		want     string
		wantKind apperr.Kind
	}{
		{"approve pending", models.StatusPending, Approve, models.StatusApproved, ""},
		{"reject pending", models.StatusPending, Reject, models.StatusRejected, ""},
		{"approve approved", models.StatusApproved, Approve, "", apperr.KindAlreadyDecided},
		{"reject approved", models.StatusApproved, Reject, "", apperr.KindAlreadyDecided},
		{"approve rejected", models.StatusRejected, Approve, "", apperr.KindAlreadyDecided},
		{"reject rejected", models.StatusRejected, Reject, "", apperr.KindAlreadyDecided},
		{"accept is not a project action", models.StatusPending, Accept, "", apperr.KindValidation},
		{"unknown status", "archived", Approve, "", apperr.KindValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Next(tt.from, tt.action)
			if tt.wantKind == "" {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.wantKind, apperr.KindOf(err))
		})
	}
}

func TestNext_ApproveTwice(t *testing.T) {
	status, err := Next(models.StatusPending, Approve)
	require.NoError(t, err)

	_, err = Next(status, Approve)
	assert.True(t, apperr.IsAlreadyDecided(err))
	assert.Contains(t, err.Error(), "already approved")
}

func TestNextApplication(t *testing.T) {
	got, err := NextApplication(models.ApplicationPending, Accept)
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationAccepted, got)

	got, err = NextApplication(models.ApplicationPending, Reject)
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationRejected, got)

	_, err = NextApplication(models.ApplicationAccepted, Reject)
	assert.True(t, apperr.IsAlreadyDecided(err))
}

func TestParseAction(t *testing.T) {
	a, err := ParseAction(" Approve ")
	require.NoError(t, err)
	assert.Equal(t, Approve, a)

	_, err = ParseAction("publish")
	assert.True(t, apperr.IsValidation(err))
}

func TestDecided(t *testing.T) {
	assert.True(t, apperr.IsNotFound(Decided("project", "", false)))
	assert.True(t, apperr.IsAlreadyDecided(Decided("project", models.StatusRejected, true)))
}
