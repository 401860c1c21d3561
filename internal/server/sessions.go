package server

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	defaultSessionTTL = 12 * time.Hour
	sessionCookieName = "taskplanner_session"
)

// sessionStore holds the dashboard login sessions in memory. Sessions do not
// survive a restart; logging in again is the recovery path.
type sessionStore struct {
	mu       sync.Mutex
	ttl      time.Duration
	sessions map[string]time.Time // token -> expiry
}

func newSessionStore(ttl time.Duration) *sessionStore {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &sessionStore{ttl: ttl, sessions: make(map[string]time.Time)}
}

// Create mints a new session token.
func (s *sessionStore) Create(now time.Time) string {
	token := uuid.NewString()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[token] = now.Add(s.ttl)
	s.pruneLocked(now)
	return token
}

// Valid reports whether the token names a live session. Expired sessions are
// dropped on sight.
func (s *sessionStore) Valid(token string, now time.Time) bool {
	if token == "" {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	expiry, ok := s.sessions[token]
	if !ok {
		return false
	}
	if now.After(expiry) {
		delete(s.sessions, token)
		return false
	}
	return true
}

// Delete ends a session. Unknown tokens are a no-op.
func (s *sessionStore) Delete(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
}

func (s *sessionStore) pruneLocked(now time.Time) {
	for token, expiry := range s.sessions {
		if now.After(expiry) {
			delete(s.sessions, token)
		}
	}
}
