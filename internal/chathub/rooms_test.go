package chathub_test

import (
	"context"
	"errors"
	"testing"

	"skillswap/backend/internal/chathub"
	"skillswap/backend/internal/models"
	"skillswap/backend/internal/storage/mockstorage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRooms_NonAcceptedSwapsNeverAdmit(t *testing.T) {
	hub := newTestHub(seededStore())
	ctx := context.Background()

	for _, swapID := range []string{pendingSwap, rejectedSwap} {
		for _, user := range []*models.User{userA, userB} {
			adm, err := hub.Rooms.Join(ctx, swapID, user)
			require.NoError(t, err)
			assert.False(t, adm.Admitted)
			assert.Equal(t, chathub.ReasonNotAccepted, adm.Reason)
		}
		assert.Empty(t, hub.Rooms.Members(swapID))
	}
}

func TestRooms_AcceptedSwapAdmitsParticipantsOnly(t *testing.T) {
	hub := newTestHub(seededStore())
	ctx := context.Background()

	for _, user := range []*models.User{userA, userB} {
		adm, err := hub.Rooms.Join(ctx, acceptedSwap, user)
		require.NoError(t, err)
		assert.True(t, adm.Admitted)
	}

	adm, err := hub.Rooms.Join(ctx, acceptedSwap, userC)
	require.NoError(t, err)
	assert.False(t, adm.Admitted)
	assert.Equal(t, chathub.ReasonForbidden, adm.Reason)

	assert.Equal(t, []string{userA.Email, userB.Email}, hub.Rooms.Members(acceptedSwap))
}

func TestRooms_JoinIsIdempotent(t *testing.T) {
	hub := newTestHub(seededStore())
	ctx := context.Background()

	_, err := hub.Rooms.Join(ctx, acceptedSwap, userA)
	require.NoError(t, err)
	_, err = hub.Rooms.Join(ctx, acceptedSwap, userA)
	require.NoError(t, err)
	assert.Equal(t, []string{userA.Email}, hub.Rooms.Members(acceptedSwap))
}

func TestRooms_UnknownSwap(t *testing.T) {
	hub := newTestHub(seededStore())
	adm, err := hub.Rooms.Join(context.Background(), missingSwap, userA)
	require.NoError(t, err)
	assert.False(t, adm.Admitted)
	assert.Equal(t, chathub.ReasonNotFound, adm.Reason)
}

func TestRooms_StoreFailure(t *testing.T) {
	store := new(mockstorage.MockStorage)
	store.On("FindSwapByID", "boom").Return(nil, errors.New("db down"))
	hub := newTestHub(store)

	adm, err := hub.Rooms.Join(context.Background(), "boom", userA)
	assert.Error(t, err)
	assert.False(t, adm.Admitted)
	assert.Equal(t, chathub.ReasonInternal, adm.Reason)
}

func TestRooms_LeaveAbsentAndEmptyRoomDropped(t *testing.T) {
	hub := newTestHub(seededStore())
	assert.NotPanics(t, func() { hub.Rooms.Leave("nowhere", userA.Email) })

	_, err := hub.Rooms.Join(context.Background(), acceptedSwap, userA)
	require.NoError(t, err)
	hub.Rooms.Leave(acceptedSwap, userB.Email)
	assert.Equal(t, []string{userA.Email}, hub.Rooms.Members(acceptedSwap))
	hub.Rooms.Leave(acceptedSwap, userA.Email)
	assert.Empty(t, hub.Rooms.Members(acceptedSwap))
}

func TestRooms_BroadcastSkipsOfflineMembers(t *testing.T) {
	hub := newTestHub(seededStore())
	ctx := context.Background()

	online := newMockClient()
	hub.Registry.Register(userA.Email, hub.NewSession(online))

	for _, user := range []*models.User{userA, userB} {
		_, err := hub.Rooms.Join(ctx, acceptedSwap, user)
		require.NoError(t, err)
	}

	delivered := hub.Rooms.Broadcast(acceptedSwap, models.ServerEvent{Event: models.EventNewMessage, Payload: "hi"})
	assert.Equal(t, 1, delivered)
	assert.Len(t, online.Events(models.EventNewMessage), 1)
}
