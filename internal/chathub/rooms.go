package chathub

import (
	"context"
	"sort"
	"sync"

	"skillswap/backend/internal/models"
	"skillswap/backend/internal/storage"
)

// DenyReason explains why a realtime request was refused.
type DenyReason string

const (
	ReasonNotFound       DenyReason = "not_found"
	ReasonForbidden      DenyReason = "forbidden"
	ReasonNotAccepted    DenyReason = "not_accepted"
	ReasonUserNotFound   DenyReason = "user_not_found"
	ReasonInvalidPayload DenyReason = "invalid_payload"
	ReasonRateLimited    DenyReason = "rate_limited"
	ReasonInternal       DenyReason = "internal"
)

// Admission is the outcome of a join attempt.
type Admission struct {
	Admitted bool
	Reason   DenyReason
	Swap     *models.Swap
}

// RoomManager tracks which identities joined which swap chat. Membership is only
// granted to participants of an accepted swap.
type RoomManager struct {
	swaps    storage.SwapLedger
	registry *Registry

	mu    sync.RWMutex
	rooms map[string]map[string]struct{}
}

func NewRoomManager(swaps storage.SwapLedger, registry *Registry) *RoomManager {
	return &RoomManager{
		swaps:    swaps,
		registry: registry,
		rooms:    make(map[string]map[string]struct{}),
	}
}

// Authorize checks that user may take part in the chat of swapID. The reason is empty
// when access is granted; err is only set for store failures.
func (m *RoomManager) Authorize(ctx context.Context, swapID string, user *models.User) (*models.Swap, DenyReason, error) {
	swap, err := m.swaps.FindSwapByID(ctx, swapID)
	if err != nil {
		return nil, ReasonInternal, err
	}
	if swap == nil {
		return nil, ReasonNotFound, nil
	}
	if !swap.IsParticipant(user.ID) {
		return swap, ReasonForbidden, nil
	}
	if !swap.IsAccepted() {
		return swap, ReasonNotAccepted, nil
	}
	return swap, "", nil
}

// Join admits user's identity into the room of swapID. Joining twice is a no-op.
func (m *RoomManager) Join(ctx context.Context, swapID string, user *models.User) (Admission, error) {
	swap, reason, err := m.Authorize(ctx, swapID, user)
	if err != nil {
		return Admission{Reason: reason}, err
	}
	if reason != "" {
		return Admission{Reason: reason, Swap: swap}, nil
	}

	m.mu.Lock()
	members, ok := m.rooms[swapID]
	if !ok {
		members = make(map[string]struct{})
		m.rooms[swapID] = members
	}
	members[user.Email] = struct{}{}
	m.mu.Unlock()

	return Admission{Admitted: true, Swap: swap}, nil
}

// Leave removes identity from the room. Empty rooms are dropped.
func (m *RoomManager) Leave(swapID, identity string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	members, ok := m.rooms[swapID]
	if !ok {
		return
	}
	delete(members, identity)
	if len(members) == 0 {
		delete(m.rooms, swapID)
	}
}

// Members returns the identities in the room, sorted.
func (m *RoomManager) Members(swapID string) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0, len(m.rooms[swapID]))
	for id := range m.rooms[swapID] {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Broadcast delivers evt to every member that currently has a routable session and
// returns the number of deliveries. Offline members are skipped.
func (m *RoomManager) Broadcast(swapID string, evt models.ServerEvent) int {
	members := m.Members(swapID)
	delivered := 0
	for _, identity := range members {
		s, ok := m.registry.Resolve(identity)
		if !ok {
			continue
		}
		if s.client.Send(evt) {
			delivered++
		}
	}
	return delivered
}
