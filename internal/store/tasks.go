package store

import (
	"fmt"

	"github.com/google/uuid"
)

func (s *Store) Tasks() ([]Task, error) {
	tasks, err := readJSON(s, keyTasks, []Task(nil))
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

func (s *Store) SaveTasks(tasks []Task) error {
	if tasks == nil {
		tasks = []Task{}
	}
	if err := s.writeJSON(keyTasks, tasks); err != nil {
		return fmt.Errorf("save tasks: %w", err)
	}
	return nil
}

// AddTask appends t, assigning an id when it has none.
func (s *Store) AddTask(t Task) (Task, error) {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	tasks, err := s.Tasks()
	if err != nil {
		return Task{}, err
	}
	if err := s.SaveTasks(append(tasks, t)); err != nil {
		return Task{}, err
	}
	return t, nil
}

// GetTask looks a task up by id or by unique id prefix.
func (s *Store) GetTask(idOrPrefix string) (Task, error) {
	tasks, err := s.Tasks()
	if err != nil {
		return Task{}, err
	}
	var found []Task
	for _, t := range tasks {
		if t.ID == idOrPrefix {
			return t, nil
		}
		if idOrPrefix != "" && len(idOrPrefix) < len(t.ID) && t.ID[:len(idOrPrefix)] == idOrPrefix {
			found = append(found, t)
		}
	}
	switch len(found) {
	case 0:
		return Task{}, fmt.Errorf("get task %q: %w", idOrPrefix, ErrNotFound)
	case 1:
		return found[0], nil
	default:
		return Task{}, fmt.Errorf("get task %q: ambiguous prefix matches %d tasks", idOrPrefix, len(found))
	}
}
