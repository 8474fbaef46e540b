package store

import (
	"fmt"
	"sort"
)

// DayLogs returns every stored day log keyed by date.
func (s *Store) DayLogs() (map[string]DayLog, error) {
	logs, err := readJSON(s, keyDayLogs, map[string]DayLog{})
	if err != nil {
		return nil, fmt.Errorf("day logs: %w", err)
	}
	if logs == nil {
		logs = map[string]DayLog{}
	}
	return logs, nil
}

// DayLog returns the log for date, or an empty log when none exists.
func (s *Store) DayLog(date string) (DayLog, error) {
	logs, err := s.DayLogs()
	if err != nil {
		return DayLog{}, err
	}
	if l, ok := logs[date]; ok {
		return l, nil
	}
	return DayLog{Date: date}, nil
}

// SaveDayLog replaces the log stored under log.Date.
func (s *Store) SaveDayLog(log DayLog) error {
	logs, err := s.DayLogs()
	if err != nil {
		return err
	}
	logs[log.Date] = log
	return s.writeJSON(keyDayLogs, logs)
}

// AddSessionToDay stores session in date's log, replacing any session with the
// same id, and adds workSecondsDelta to the running total (never below zero).
func (s *Store) AddSessionToDay(date string, session WorkSession, workSecondsDelta int64) error {
	existing, err := s.DayLog(date)
	if err != nil {
		return err
	}

	sessions := make([]WorkSession, 0, len(existing.Sessions)+1)
	for _, sess := range existing.Sessions {
		if sess.ID != session.ID {
			sessions = append(sessions, sess)
		}
	}
	sessions = append(sessions, session)

	existing.Date = date
	existing.Sessions = sessions
	existing.WorkSeconds = max(0, existing.WorkSeconds+workSecondsDelta)

	if err := s.SaveDayLog(existing); err != nil {
		return fmt.Errorf("add session to %s: %w", date, err)
	}
	return nil
}

// ListDayLogs returns all day logs sorted by date.
func (s *Store) ListDayLogs() ([]DayLog, error) {
	logs, err := s.DayLogs()
	if err != nil {
		return nil, err
	}
	out := make([]DayLog, 0, len(logs))
	for _, l := range logs {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}
