package shelf

import (
	"fmt"
	"sync"
)

// Session holds the active user of the process.
//
// It is set when a profile is picked and cleared on logout. Every data
// operation reads the active user through Require, which fails with
// ErrNoActiveUser when no profile has been picked.
type Session struct {
	mu     sync.RWMutex
	userID string
}

// NewSession returns a session with no active user.
func NewSession() *Session {
	return &Session{}
}

// Set makes userID the active user. Only catalog profiles are accepted.
func (s *Session) Set(userID string) error {
	if _, ok := LookupUser(userID); !ok {
		return fmt.Errorf("%w: %q", ErrUnknownUser, userID)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userID = userID
	return nil
}

// Clear removes the active user.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userID = ""
}

// Current returns the active user and whether one is set.
func (s *Session) Current() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userID, s.userID != ""
}

// Require returns the active user or ErrNoActiveUser.
func (s *Session) Require() (string, error) {
	id, ok := s.Current()
	if !ok {
		return "", ErrNoActiveUser
	}
	return id, nil
}
