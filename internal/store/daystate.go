package store

import "fmt"

// LoadDayState returns the persisted timer state. When nothing is stored the
// zero state is returned; its empty date never matches today, so callers roll
// it over.
func (s *Store) LoadDayState() (DayState, error) {
	st, err := readJSON(s, keyDayState, DayState{})
	if err != nil {
		return DayState{}, fmt.Errorf("load day state: %w", err)
	}
	return st, nil
}

func (s *Store) SaveDayState(st DayState) error {
	if err := s.writeJSON(keyDayState, st); err != nil {
		return fmt.Errorf("save day state: %w", err)
	}
	return nil
}
