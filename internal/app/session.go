// Package app ties sign-in to the work timer: signing in starts work and
// signing out closes the day's session.
package app

import (
	"fmt"

	"github.com/sadopc/worklog/internal/auth"
	"github.com/sadopc/worklog/internal/timer"
)

type Session struct {
	Auth  *auth.Service
	Timer *timer.Timer
}

func NewSession(a *auth.Service, t *timer.Timer) *Session {
	return &Session{Auth: a, Timer: t}
}

// Login signs in and starts work. A rejected pair returns false and leaves
// the timer alone.
func (s *Session) Login(email, password string) (bool, error) {
	ok, err := s.Auth.Login(email, password)
	if err != nil || !ok {
		return ok, err
	}
	if err := s.Timer.StartWork(); err != nil {
		return true, fmt.Errorf("start work: %w", err)
	}
	return true, nil
}

// Logout saves the open session to the day log, then signs out.
func (s *Session) Logout() error {
	if err := s.Timer.SaveAndReset(); err != nil {
		return err
	}
	return s.Auth.Logout()
}

// SignedIn reports whether a user is currently signed in.
func (s *Session) SignedIn() (bool, error) {
	u, err := s.Auth.Current()
	if err != nil {
		return false, err
	}
	return u != nil, nil
}
