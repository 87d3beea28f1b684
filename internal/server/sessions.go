package server

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sells-group/financing-advisor/internal/survey"
)

// Session holds one client's conversation for the lifetime of the
// questionnaire. Handlers lock the session across a full state transition so
// concurrent requests against the same session serialize.
type Session struct {
	mu sync.Mutex

	ID           string
	Conv         survey.Conversation
	VehiclePrice float64
	VehicleName  string
	UpdatedAt    time.Time
}

// SessionStore is an in-memory session table with TTL expiry. Sessions are
// the only mutable state in the service.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	ttl      time.Duration
}

// NewSessionStore creates a store whose sessions expire ttl after their last
// update.
func NewSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*Session),
		ttl:      ttl,
	}
}

// Create registers a new session with a fresh ID.
func (s *SessionStore) Create() *Session {
	sess := &Session{
		ID:        uuid.NewString(),
		UpdatedAt: time.Now(),
	}

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	return sess
}

// Get returns the session for an ID, or nil if unknown or expired. Expired
// sessions are dropped on access.
func (s *SessionStore) Get(id string) *Session {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil
	}

	if time.Since(sess.UpdatedAt) > s.ttl {
		s.Delete(id)
		zap.L().Debug("server: session expired", zap.String("session_id", id))
		return nil
	}
	return sess
}

// Delete removes a session.
func (s *SessionStore) Delete(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

// Sweep drops all expired sessions and returns how many were removed.
// Called periodically from the serve loop.
func (s *SessionStore) Sweep() int {
	cutoff := time.Now().Add(-s.ttl)

	s.mu.Lock()
	defer s.mu.Unlock()

	var removed int
	for id, sess := range s.sessions {
		if sess.UpdatedAt.Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// Len reports the live session count.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// touch refreshes the session's expiry clock. Caller holds sess.mu.
func (sess *Session) touch() {
	sess.UpdatedAt = time.Now()
}
