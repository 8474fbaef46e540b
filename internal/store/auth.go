package store

import "fmt"

// Auth returns the signed-in user, or nil.
func (s *Store) Auth() (*AuthState, error) {
	a, err := readJSON[*AuthState](s, keyAuth, nil)
	if err != nil {
		return nil, fmt.Errorf("get auth: %w", err)
	}
	if a != nil && a.Email == "" {
		return nil, nil
	}
	return a, nil
}

// SetAuth persists a; nil signs out.
func (s *Store) SetAuth(a *AuthState) error {
	if a == nil {
		return s.Delete(keyAuth)
	}
	return s.writeJSON(keyAuth, a)
}
