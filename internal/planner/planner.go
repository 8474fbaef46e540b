// Package planner spreads each task's weekly occurrences over the seven days
// of a week and applies manual moves on top of the result.
package planner

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sadopc/worklog/internal/store"
)

var (
	ErrInvalidDay   = errors.New("day index out of range")
	ErrTaskNotOnDay = errors.New("task not assigned to day")
	ErrInvalidTask  = errors.New("invalid task")
)

// DayNames are the short labels for day indexes 0..6.
var DayNames = [store.DaysPerWeek]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// Distribute places every task FrequencyPerWeek times, task by task in input
// order. Each placement goes to the least-loaded day that is still under
// dailyTarget. Once every day has reached the target the placement goes to
// the least-loaded day overall. Ties go to the lowest day index.
func Distribute(tasks []store.Task, dailyTarget int) store.Assignments {
	var a store.Assignments
	for d := range a {
		a[d] = []string{}
	}
	for _, t := range tasks {
		for i := 0; i < t.FrequencyPerWeek; i++ {
			d := pickDay(a, dailyTarget)
			a[d] = append(a[d], t.ID)
		}
	}
	return a
}

func pickDay(a store.Assignments, dailyTarget int) int {
	best, overflow := -1, 0
	for d := range a {
		n := len(a[d])
		if n < dailyTarget && (best < 0 || n < len(a[best])) {
			best = d
		}
		if n < len(a[overflow]) {
			overflow = d
		}
	}
	if best < 0 {
		return overflow
	}
	return best
}

// Move takes one occurrence of taskID off day from and appends it to day to.
// The input is left untouched.
func Move(a store.Assignments, taskID string, from, to int) (store.Assignments, error) {
	if !validDay(from) || !validDay(to) {
		return a, fmt.Errorf("move %s from %d to %d: %w", taskID, from, to, ErrInvalidDay)
	}
	idx := -1
	for i, id := range a[from] {
		if id == taskID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return a, fmt.Errorf("move %s from %s: %w", taskID, DayNames[from], ErrTaskNotOnDay)
	}

	out := a.Clone()
	out[from] = append(out[from][:idx], out[from][idx+1:]...)
	out[to] = append(out[to], taskID)
	return out, nil
}

// Counts returns how many times each task id is placed across the week.
func Counts(a store.Assignments) map[string]int {
	c := make(map[string]int)
	for _, ids := range a {
		for _, id := range ids {
			c[id]++
		}
	}
	return c
}

// Load returns the number of placements per day.
func Load(a store.Assignments) [store.DaysPerWeek]int {
	var l [store.DaysPerWeek]int
	for d, ids := range a {
		l[d] = len(ids)
	}
	return l
}

// Plan distributes tasks into a fresh plan for the given week key.
func Plan(week string, tasks []store.Task, dailyTarget int) store.WeekPlan {
	return store.WeekPlan{
		WeekOf:      week,
		DailyTarget: dailyTarget,
		Assignments: Distribute(tasks, dailyTarget),
	}
}

func ValidateTask(t store.Task) error {
	switch {
	case strings.TrimSpace(t.Name) == "":
		return fmt.Errorf("%w: name is required", ErrInvalidTask)
	case strings.TrimSpace(t.Topic) == "":
		return fmt.Errorf("%w: topic is required", ErrInvalidTask)
	case t.EstimatedMinutes <= 0:
		return fmt.Errorf("%w: estimated minutes must be positive", ErrInvalidTask)
	case t.FrequencyPerWeek < 0:
		return fmt.Errorf("%w: frequency must not be negative", ErrInvalidTask)
	}
	return nil
}

// ParseDay accepts a day index ("0".."6") or a short or full English day name.
func ParseDay(s string) (int, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) == 1 && s[0] >= '0' && s[0] <= '6' {
		return int(s[0] - '0'), nil
	}
	for d, name := range DayNames {
		short := strings.ToLower(name)
		if s == short || (len(s) > 3 && strings.HasPrefix(s, short) && strings.HasSuffix(s, "day")) {
			return d, nil
		}
	}
	return 0, fmt.Errorf("parse day %q: %w", s, ErrInvalidDay)
}

func validDay(d int) bool { return d >= 0 && d < store.DaysPerWeek }
