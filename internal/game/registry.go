package game

import "sync"

// Registry owns the set of live sessions and the player-to-session mapping.
// Sessions are keyed by id; each player id maps to at most one session.
type Registry struct {
	mu              sync.RWMutex
	sessions        map[string]*Session
	playerToSession map[string]string
}

// NewRegistry creates an empty Registry
func NewRegistry() *Registry {
	return &Registry{
		sessions:        make(map[string]*Session),
		playerToSession: make(map[string]string),
	}
}

// Put stores a session and binds both players to it, replacing any stale
// bindings so later reconnects find this session before falling through to
// the queue
func (r *Registry) Put(s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.ID] = s
	for _, id := range s.playerIDs() {
		r.playerToSession[id] = s.ID
	}
}

// Get returns the session with the given id, or nil
func (r *Registry) Get(sessionID string) *Session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sessions[sessionID]
}

// ForPlayer returns the session the player is bound to, or nil
func (r *Registry) ForPlayer(playerID string) *Session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sessionID, ok := r.playerToSession[playerID]
	if !ok {
		return nil
	}
	return r.sessions[sessionID]
}

// Evict removes a session and its player bindings
func (r *Registry) Evict(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[sessionID]
	if !ok {
		return
	}
	for _, id := range s.playerIDs() {
		if r.playerToSession[id] == sessionID {
			delete(r.playerToSession, id)
		}
	}
	delete(r.sessions, sessionID)
}

// Count returns the number of live sessions
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
