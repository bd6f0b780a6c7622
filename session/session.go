// Package session holds the process-wide authentication state: the bearer
// token and the current user. It is passed explicitly to every component that
// needs it instead of being read from a global. The token is read at the
// start of every request; logout bumps an epoch so that responses still in
// flight resolve against a stale epoch and are discarded by their consumers.
package session

import (
	"sync"

	"github.com/google/uuid"
	"online/domain"
)

type Session struct {
	mu    sync.RWMutex
	token string
	user  *domain.User
	epoch uuid.UUID
}

func New() *Session {
	return &Session{epoch: uuid.New()}
}

// Token returns the bearer token, empty when unauthenticated. Called from
// command goroutines at the start of every request.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User returns the current user or nil.
func (s *Session) User() *domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

func (s *Session) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != "" && s.user != nil
}

func (s *Session) IsAdmin() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil && s.user.IsAdmin
}

// Epoch identifies the current logical identity. A command captures it when
// issued; its result must be dropped if the epoch has moved on by the time
// the response arrives.
func (s *Session) Epoch() uuid.UUID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.epoch
}

// Valid reports whether a result tagged with e still belongs to the current
// identity.
func (s *Session) Valid(e uuid.UUID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.epoch == e
}

// SetAuth installs a new identity (after login, register or session restore).
func (s *Session) SetAuth(token string, user *domain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.user = user
	s.epoch = uuid.New()
}

// SetUser refreshes the user record without changing identity (profile edit).
func (s *Session) SetUser(user *domain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = user
}

// Logout clears the identity. In-flight requests are not cancelled; their
// responses fail the epoch check and are discarded.
func (s *Session) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.user = nil
	s.epoch = uuid.New()
}
