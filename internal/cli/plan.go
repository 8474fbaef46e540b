package cli

import (
	"fmt"
	"strings"

	"github.com/sadopc/worklog/internal/planner"
	"github.com/sadopc/worklog/internal/store"
)

type PlanShowCmd struct {
	Week string `short:"w" help:"Any date in the week (YYYY-MM-DD). Defaults to this week."`
}

func (c *PlanShowCmd) Run(ctx *Context) error {
	week, err := ctx.weekKey(c.Week)
	if err != nil {
		return err
	}
	p, saved, err := ctx.Planner.CurrentPlan(week)
	if err != nil {
		return err
	}
	return ctx.printPlan(p, saved)
}

type PlanDistributeCmd struct {
	Week   string `short:"w" help:"Any date in the week (YYYY-MM-DD). Defaults to this week."`
	Target int    `short:"n" help:"Tasks per day. Defaults to the daily_target setting."`
}

func (c *PlanDistributeCmd) Validate() error {
	if c.Target < 0 {
		return fmt.Errorf("target must not be negative")
	}
	return nil
}

func (c *PlanDistributeCmd) Run(ctx *Context) error {
	if err := ctx.requireSignedIn(); err != nil {
		return err
	}
	week, err := ctx.weekKey(c.Week)
	if err != nil {
		return err
	}
	p, err := ctx.Planner.Distribute(week, c.Target)
	if err != nil {
		return err
	}
	return ctx.printPlan(p, true)
}

type PlanMoveCmd struct {
	ID   string `arg:"" help:"Task id or unique id prefix."`
	From string `help:"Day to take one occurrence from (mon..sun or 0..6)." required:""`
	To   string `help:"Day to move it to (mon..sun or 0..6)." required:""`
	Week string `short:"w" help:"Any date in the week (YYYY-MM-DD). Defaults to this week."`
}

func (c *PlanMoveCmd) Run(ctx *Context) error {
	if err := ctx.requireSignedIn(); err != nil {
		return err
	}
	from, err := planner.ParseDay(c.From)
	if err != nil {
		return err
	}
	to, err := planner.ParseDay(c.To)
	if err != nil {
		return err
	}
	t, err := ctx.Store.GetTask(c.ID)
	if err != nil {
		return err
	}
	week, err := ctx.weekKey(c.Week)
	if err != nil {
		return err
	}
	p, err := ctx.Planner.Move(week, t.ID, from, to)
	if err != nil {
		return err
	}
	return ctx.printPlan(p, true)
}

func (ctx *Context) weekKey(date string) (string, error) {
	if date == "" {
		return ctx.Planner.CurrentWeek(), nil
	}
	d, err := store.ParseDay(date, ctx.Loc)
	if err != nil {
		return "", fmt.Errorf("invalid date %q: %w", date, err)
	}
	return store.WeekKey(d), nil
}

func (ctx *Context) printPlan(p store.WeekPlan, saved bool) error {
	tasks, err := ctx.taskNames()
	if err != nil {
		return err
	}
	note := ""
	if !saved {
		note = " (not saved, run `worklog plan distribute` to keep it)"
	}
	ctx.printf("Week of %s, daily target %d%s\n", p.WeekOf, p.DailyTarget, note)
	for d, ids := range p.Assignments {
		var names []string
		for _, id := range ids {
			if t, ok := tasks[id]; ok {
				names = append(names, t.Name)
			}
		}
		list := "-"
		if len(names) > 0 {
			list = strings.Join(names, ", ")
		}
		ctx.printf("  %s  %s\n", planner.DayNames[d], list)
	}
	return nil
}
