package planner

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sadopc/worklog/internal/clock"
	"github.com/sadopc/worklog/internal/logger"
	"github.com/sadopc/worklog/internal/store"
)

// Service runs the planner against persisted tasks and week plans.
type Service struct {
	store *store.Store
	clock clock.Clock
	loc   *time.Location
}

func NewService(s *store.Store, c clock.Clock, loc *time.Location) *Service {
	if loc == nil {
		loc = time.Local
	}
	return &Service{store: s, clock: c, loc: loc}
}

// Today is the current day key in the service's location.
func (s *Service) Today() string {
	return store.DayKey(s.clock.Now().In(s.loc))
}

// CurrentWeek is the Monday key of the current week.
func (s *Service) CurrentWeek() string {
	return store.WeekKey(s.clock.Now().In(s.loc))
}

// AddTask validates t and appends it to the task list.
func (s *Service) AddTask(t store.Task) (store.Task, error) {
	t.Name = strings.TrimSpace(t.Name)
	t.Topic = strings.TrimSpace(t.Topic)
	if err := ValidateTask(t); err != nil {
		return store.Task{}, err
	}
	t, err := s.store.AddTask(t)
	if err != nil {
		return store.Task{}, err
	}
	logger.Info("task added", "id", t.ID, "name", t.Name, "topic", t.Topic)
	return t, nil
}

func (s *Service) Tasks() ([]store.Task, error) {
	return s.store.Tasks()
}

// Distribute replaces the week's plan with a fresh greedy distribution of all
// tasks. A dailyTarget below 1 uses the stored setting.
func (s *Service) Distribute(week string, dailyTarget int) (store.WeekPlan, error) {
	if dailyTarget < 1 {
		dailyTarget = s.store.DailyTarget()
	}
	tasks, err := s.store.Tasks()
	if err != nil {
		return store.WeekPlan{}, fmt.Errorf("distribute: %w", err)
	}
	p := Plan(week, tasks, dailyTarget)
	if err := s.store.SaveWeekPlan(p); err != nil {
		return store.WeekPlan{}, fmt.Errorf("distribute: %w", err)
	}
	logger.Info("week distributed", "week", week, "target", dailyTarget, "load", Load(p.Assignments))
	return p, nil
}

// CurrentPlan returns the stored plan for week. When none exists it computes
// one from the current tasks and default target without saving it.
func (s *Service) CurrentPlan(week string) (store.WeekPlan, bool, error) {
	p, err := s.store.WeekPlan(week)
	if err == nil {
		return p, true, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return store.WeekPlan{}, false, err
	}
	tasks, err := s.store.Tasks()
	if err != nil {
		return store.WeekPlan{}, false, err
	}
	return Plan(week, tasks, s.store.DailyTarget()), false, nil
}

// Move relocates one occurrence of taskID within the week's plan and saves
// the result.
func (s *Service) Move(week, taskID string, from, to int) (store.WeekPlan, error) {
	p, _, err := s.CurrentPlan(week)
	if err != nil {
		return store.WeekPlan{}, err
	}
	a, err := Move(p.Assignments, taskID, from, to)
	if err != nil {
		return store.WeekPlan{}, err
	}
	p.Assignments = a
	if err := s.store.SaveWeekPlan(p); err != nil {
		return store.WeekPlan{}, fmt.Errorf("move: %w", err)
	}
	logger.Debug("task moved", "week", week, "task", taskID, "from", from, "to", to)
	return p, nil
}

// MarkDone records one completion of taskID on date, or today when date is
// empty.
func (s *Service) MarkDone(taskID, date string) (store.CompletedTask, error) {
	t, err := s.store.GetTask(taskID)
	if err != nil {
		return store.CompletedTask{}, err
	}
	if date == "" {
		date = s.Today()
	} else if _, err := store.ParseDay(date, s.loc); err != nil {
		return store.CompletedTask{}, fmt.Errorf("mark done: %w", err)
	}
	c, err := s.store.AddCompleted(t.ID, date)
	if err != nil {
		return store.CompletedTask{}, err
	}
	logger.Info("task completed", "task", t.Name, "date", date)
	return c, nil
}
