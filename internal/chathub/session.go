package chathub

import (
	"sort"
	"sync"

	"skillswap/backend/internal/models"

	"golang.org/x/time/rate"
)

// Session is the server-side state of one connection: who it speaks for and which
// rooms it joined. A Session starts anonymous.
type Session struct {
	id      string
	client  Client
	limiter *rate.Limiter

	mu     sync.RWMutex
	email  string
	userID string
	rooms  map[string]struct{}
}

func (s *Session) ID() string { return s.id }

// Identity returns the authenticated email, or "" for an anonymous session.
func (s *Session) Identity() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.email
}

func (s *Session) UserID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userID
}

// Emit sends an event to this connection only.
func (s *Session) Emit(event string, payload any) bool {
	return s.client.Send(models.ServerEvent{Event: event, Payload: payload})
}

// Rooms lists the swap ids this session joined, sorted.
func (s *Session) Rooms() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.rooms))
	for id := range s.rooms {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func (s *Session) bind(user *models.User) {
	s.mu.Lock()
	s.email = user.Email
	s.userID = user.ID
	s.mu.Unlock()
}

func (s *Session) joined(swapID string) {
	s.mu.Lock()
	s.rooms[swapID] = struct{}{}
	s.mu.Unlock()
}

func (s *Session) left(swapID string) {
	s.mu.Lock()
	delete(s.rooms, swapID)
	s.mu.Unlock()
}

// resetRooms forgets every membership and returns what was held.
func (s *Session) resetRooms() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.rooms))
	for id := range s.rooms {
		out = append(out, id)
	}
	s.rooms = make(map[string]struct{})
	return out
}
