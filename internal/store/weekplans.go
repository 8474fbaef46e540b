package store

import "fmt"

func (s *Store) weekPlans() (map[string]WeekPlan, error) {
	plans, err := readJSON(s, keyWeekPlans, map[string]WeekPlan{})
	if err != nil {
		return nil, fmt.Errorf("week plans: %w", err)
	}
	if plans == nil {
		plans = map[string]WeekPlan{}
	}
	return plans, nil
}

// WeekPlan returns the plan for the week starting on the given Monday key,
// or ErrNotFound.
func (s *Store) WeekPlan(week string) (WeekPlan, error) {
	plans, err := s.weekPlans()
	if err != nil {
		return WeekPlan{}, err
	}
	p, ok := plans[week]
	if !ok {
		return WeekPlan{}, fmt.Errorf("week plan %s: %w", week, ErrNotFound)
	}
	return p, nil
}

func (s *Store) SaveWeekPlan(p WeekPlan) error {
	plans, err := s.weekPlans()
	if err != nil {
		return err
	}
	plans[p.WeekOf] = p
	if err := s.writeJSON(keyWeekPlans, plans); err != nil {
		return fmt.Errorf("save week plan %s: %w", p.WeekOf, err)
	}
	return nil
}
