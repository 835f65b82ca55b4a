package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestProject_VisibleTo(t *testing.T) {
	creator := uuid.New()
	stranger := &Identity{ProfileID: uuid.New()}
	admin := &Identity{ProfileID: uuid.New(), IsAdmin: true}
	owner := &Identity{ProfileID: creator}

	for _, status := range []string{StatusPending, StatusRejected} {
		p := &Project{Status: status, CreatorID: creator}
		assert.False(t, p.VisibleTo(nil), status)
		assert.False(t, p.VisibleTo(stranger), status)
		assert.True(t, p.VisibleTo(owner), status)
		assert.True(t, p.VisibleTo(admin), status)
	}

	approved := &Project{Status: StatusApproved, CreatorID: creator}
	assert.True(t, approved.VisibleTo(nil))
	assert.True(t, approved.VisibleTo(stranger))
}

func TestProject_ManageableBy(t *testing.T) {
	creator := uuid.New()
	p := &Project{Status: StatusApproved, CreatorID: creator}

	assert.True(t, p.ManageableBy(Identity{ProfileID: creator}))
	assert.True(t, p.ManageableBy(Identity{ProfileID: uuid.New(), IsAdmin: true}))
	assert.False(t, p.ManageableBy(Identity{ProfileID: uuid.New()}))
}

func TestConversation_HasParticipant(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	c := &Conversation{ParticipantIDs: []uuid.UUID{a, b}}

	assert.True(t, c.HasParticipant(a))
	assert.False(t, c.HasParticipant(uuid.New()))
}

func TestValidAvailability(t *testing.T) {
	assert.True(t, ValidAvailability(AvailabilityOpen))
	assert.True(t, ValidAvailability(AvailabilityNotAvailable))
	assert.False(t, ValidAvailability("open to work"))
	assert.False(t, ValidAvailability(""))
}
