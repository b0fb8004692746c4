package server

import (
	"sync"

	"github.com/claude/gymlog/internal/workout"
	"github.com/google/uuid"
)

// sessionRegistry tracks live workout sessions by id. Each session belongs
// to one user; lookups check ownership so one user can never drive
// another's session.
type sessionRegistry struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*workout.Session
}

func newSessionRegistry() *sessionRegistry {
	return &sessionRegistry{sessions: make(map[uuid.UUID]*workout.Session)}
}

func (r *sessionRegistry) Add(s *workout.Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.ID] = s
}

func (r *sessionRegistry) Get(id uuid.UUID, userID int) (*workout.Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok || s.UserID() != userID {
		return nil, false
	}
	return s, true
}

// Remove closes and forgets a session. No-op for unknown ids.
func (r *sessionRegistry) Remove(id uuid.UUID, userID int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok || s.UserID() != userID {
		return
	}
	s.Close()
	delete(r.sessions, id)
}

// CloseAll tears down every live session, for server shutdown.
func (r *sessionRegistry) CloseAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, s := range r.sessions {
		s.Close()
		delete(r.sessions, id)
	}
}
