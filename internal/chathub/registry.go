package chathub

import "sync"

// Registry maps an identity to its single routable session. The newest
// registration for an identity wins.
type Registry struct {
	mu         sync.RWMutex
	byIdentity map[string]*Session
	bySession  map[string]string
}

func NewRegistry() *Registry {
	return &Registry{
		byIdentity: make(map[string]*Session),
		bySession:  make(map[string]string),
	}
}

// Register routes identity to s and returns the session it replaced, if any.
// If s was routable under another identity, that mapping is released first.
func (r *Registry) Register(identity string, s *Session) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	if prev, ok := r.bySession[s.ID()]; ok && prev != identity {
		if r.byIdentity[prev] == s {
			delete(r.byIdentity, prev)
		}
	}

	replaced := r.byIdentity[identity]
	if replaced == s {
		replaced = nil
	}
	if replaced != nil {
		delete(r.bySession, replaced.ID())
	}

	r.byIdentity[identity] = s
	r.bySession[s.ID()] = identity
	return replaced
}

func (r *Registry) Resolve(identity string) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.byIdentity[identity]
	return s, ok
}

// Unregister drops the mapping of sessionID only if it is still the routable session of
// its identity. A superseded session is a no-op and reports removed=false.
func (r *Registry) Unregister(sessionID string) (identity string, removed bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	identity, ok := r.bySession[sessionID]
	if !ok {
		return "", false
	}
	delete(r.bySession, sessionID)

	if cur, ok := r.byIdentity[identity]; ok && cur.ID() == sessionID {
		delete(r.byIdentity, identity)
		return identity, true
	}
	return identity, false
}

// Count returns the number of routable identities.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byIdentity)
}
