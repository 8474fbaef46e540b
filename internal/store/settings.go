package store

import (
	"fmt"
	"strconv"
)

// settingMin holds the known integer settings and their lowest legal value.
var settingMin = map[string]int{
	"daily_target":      1,
	"default_minutes":   1,
	"default_frequency": 0,
}

// ValidateSetting rejects unknown keys and out-of-range values.
func ValidateSetting(key, value string) error {
	lo, ok := settingMin[key]
	if !ok {
		return fmt.Errorf("unknown setting %q", key)
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("setting %s: %q is not a number", key, value)
	}
	if n < lo {
		return fmt.Errorf("setting %s must be at least %d", key, lo)
	}
	return nil
}

func (s *Store) GetSetting(key string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err != nil {
		return "", fmt.Errorf("get setting %q: %w", key, err)
	}
	return value, nil
}

func (s *Store) SetSetting(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	return err
}

func (s *Store) GetAllSettings() ([]Setting, error) {
	rows, err := s.db.Query(`SELECT key, value FROM settings ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}
	defer rows.Close()

	var settings []Setting
	for rows.Next() {
		var s Setting
		if err := rows.Scan(&s.Key, &s.Value); err != nil {
			return nil, err
		}
		settings = append(settings, s)
	}
	return settings, rows.Err()
}

// IntSetting reads key as an integer, returning fallback when the setting is
// missing or not a number.
func (s *Store) IntSetting(key string, fallback int) int {
	v, err := s.GetSetting(key)
	if err != nil {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func (s *Store) DailyTarget() int {
	n := s.IntSetting("daily_target", 3)
	if n < 1 {
		return 1
	}
	return n
}
