package sse

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(profileID uuid.UUID) *Client {
	return &Client{
		ID:        uuid.NewString(),
		ProfileID: profileID,
		Send:      make(chan []byte, 16),
	}
}

func startHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub()
	go hub.Run()
	t.Cleanup(hub.Stop)
	return hub
}

func TestNewHub(t *testing.T) {
	hub := NewHub()

	assert.NotNil(t, hub.clients)
	assert.NotNil(t, hub.register)
	assert.NotNil(t, hub.unregister)
	assert.NotNil(t, hub.broadcast)
}

func TestHub_RegisterAndUnregister(t *testing.T) {
	hub := startHub(t)
	profileID := uuid.New()
	client := newClient(profileID)

	hub.Register(client)
	assert.Eventually(t, func() bool { return hub.IsConnected(profileID) }, time.Second, 5*time.Millisecond)

	hub.Unregister(client)
	assert.Eventually(t, func() bool { return !hub.IsConnected(profileID) }, time.Second, 5*time.Millisecond)

	_, open := <-client.Send
	assert.False(t, open)
}

func TestHub_SendToProfile_ReachesEveryStreamOfThatProfile(t *testing.T) {
	hub := startHub(t)
	alice := uuid.New()
	bob := uuid.New()
	aliceTab1 := newClient(alice)
	aliceTab2 := newClient(alice)
	bobTab := newClient(bob)

	hub.Register(aliceTab1)
	hub.Register(aliceTab2)
	hub.Register(bobTab)
	require.Eventually(t, func() bool { return hub.ClientCount() == 3 }, time.Second, 5*time.Millisecond)

	hub.SendToProfile(alice, EventMessageCreated, map[string]string{"content": "hi"})

	for _, c := range []*Client{aliceTab1, aliceTab2} {
		select {
		case raw := <-c.Send:
			var ev Event
			require.NoError(t, json.Unmarshal(raw, &ev))
			assert.Equal(t, EventMessageCreated, ev.Type)
		case <-time.After(time.Second):
			t.Fatal("event not delivered")
		}
	}

	select {
	case <-bobTab.Send:
		t.Fatal("event leaked to another profile")
	case <-time.After(30 * time.Millisecond):
	}
}

func TestHub_SendToProfile_WithoutConnectionsIsNoop(t *testing.T) {
	hub := startHub(t)

	assert.NotPanics(t, func() {
		hub.SendToProfile(uuid.New(), EventInvitationCreated, nil)
	})
}

func TestHub_FullBufferDropsInsteadOfBlocking(t *testing.T) {
	hub := startHub(t)
	profileID := uuid.New()
	client := &Client{ID: "slow", ProfileID: profileID, Send: make(chan []byte, 1)}
	hub.Register(client)
	require.Eventually(t, func() bool { return hub.IsConnected(profileID) }, time.Second, 5*time.Millisecond)

	for i := 0; i < 10; i++ {
		hub.SendToProfile(profileID, EventMessageCreated, i)
	}

	assert.Eventually(t, func() bool { return len(client.Send) == 1 }, time.Second, 5*time.Millisecond)
}

func TestHub_StopClosesClients(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	client := newClient(uuid.New())
	hub.Register(client)
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	hub.Stop()

	select {
	case _, open := <-client.Send:
		assert.False(t, open)
	case <-time.After(time.Second):
		t.Fatal("client stream not closed on stop")
	}
}
