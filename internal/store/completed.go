package store

import (
	"fmt"

	"github.com/google/uuid"
)

func (s *Store) Completed() ([]CompletedTask, error) {
	done, err := readJSON(s, keyCompleted, []CompletedTask(nil))
	if err != nil {
		return nil, fmt.Errorf("list completed: %w", err)
	}
	return done, nil
}

// AddCompleted appends a completion record. A task may be completed any
// number of times, including several times on one day.
func (s *Store) AddCompleted(taskID, date string) (CompletedTask, error) {
	done, err := s.Completed()
	if err != nil {
		return CompletedTask{}, err
	}
	c := CompletedTask{ID: uuid.NewString(), TaskID: taskID, Date: date}
	if err := s.writeJSON(keyCompleted, append(done, c)); err != nil {
		return CompletedTask{}, fmt.Errorf("add completed: %w", err)
	}
	return c, nil
}
