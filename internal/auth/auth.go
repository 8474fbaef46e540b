// Package auth gates the app behind a single configured email and password.
package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"

	"github.com/sadopc/worklog/internal/logger"
	"github.com/sadopc/worklog/internal/store"
)

// ErrInvalidCredentials is returned by callers that turn a rejected login
// into an error.
var ErrInvalidCredentials = errors.New("invalid email or password")

type Credentials struct {
	Email    string
	Password string
}

type Service struct {
	store *store.Store
	creds Credentials
}

func NewService(s *store.Store, creds Credentials) *Service {
	creds.Email = strings.TrimSpace(creds.Email)
	return &Service{store: s, creds: creds}
}

// Login checks the pair against the configured credentials and, on a match,
// records the user as signed in. A mismatch is reported as false, not an error.
func (s *Service) Login(email, password string) (bool, error) {
	email = strings.TrimSpace(email)
	if !s.matches(email, password) {
		logger.Warn("login rejected", "email", email)
		return false, nil
	}
	if err := s.store.SetAuth(&store.AuthState{Email: email}); err != nil {
		return false, fmt.Errorf("login: %w", err)
	}
	logger.Info("signed in", "email", email)
	return true, nil
}

func (s *Service) matches(email, password string) bool {
	e := subtle.ConstantTimeCompare([]byte(email), []byte(s.creds.Email))
	p := subtle.ConstantTimeCompare([]byte(password), []byte(s.creds.Password))
	return e&p == 1
}

func (s *Service) Logout() error {
	if err := s.store.SetAuth(nil); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	logger.Info("signed out")
	return nil
}

// Current returns the signed-in user, or nil.
func (s *Service) Current() (*store.AuthState, error) {
	return s.store.Auth()
}
