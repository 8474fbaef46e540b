package cli

import (
	"fmt"

	"github.com/sadopc/worklog/internal/store"
)

type TaskAddCmd struct {
	Name    string `arg:"" help:"Task name."`
	Topic   string `short:"t" help:"Topic the task counts towards." required:""`
	Minutes int    `short:"m" help:"Estimated minutes per occurrence. Defaults to the default_minutes setting."`
	Freq    *int   `short:"f" help:"Occurrences per week. Defaults to the default_frequency setting."`
}

func (c *TaskAddCmd) Validate() error {
	if c.Minutes < 0 {
		return fmt.Errorf("minutes must be positive")
	}
	if c.Freq != nil && *c.Freq < 0 {
		return fmt.Errorf("freq must not be negative")
	}
	return nil
}

func (c *TaskAddCmd) Run(ctx *Context) error {
	if err := ctx.requireSignedIn(); err != nil {
		return err
	}
	minutes := c.Minutes
	if minutes == 0 {
		minutes = ctx.Store.IntSetting("default_minutes", 30)
	}
	freq := ctx.Store.IntSetting("default_frequency", 2)
	if c.Freq != nil {
		freq = *c.Freq
	}
	t, err := ctx.Planner.AddTask(store.Task{
		Name:             c.Name,
		Topic:            c.Topic,
		EstimatedMinutes: minutes,
		FrequencyPerWeek: freq,
	})
	if err != nil {
		return err
	}
	ctx.printf("Added task %s (%s)\n", t.Name, shortID(t.ID))
	return nil
}

type TaskListCmd struct{}

func (c *TaskListCmd) Run(ctx *Context) error {
	tasks, err := ctx.Store.Tasks()
	if err != nil {
		return err
	}
	if len(tasks) == 0 {
		ctx.printf("No tasks found\n")
		return nil
	}
	ctx.printf("Tasks:\n")
	for _, t := range tasks {
		ctx.printf("  %s  %s [%s] %dm x%d/week\n", shortID(t.ID), t.Name, t.Topic, t.EstimatedMinutes, t.FrequencyPerWeek)
	}
	return nil
}

type TaskDoneCmd struct {
	ID   string `arg:"" help:"Task id or unique id prefix."`
	Date string `short:"d" help:"Completion date (YYYY-MM-DD). Defaults to today."`
}

func (c *TaskDoneCmd) Run(ctx *Context) error {
	if err := ctx.requireSignedIn(); err != nil {
		return err
	}
	done, err := ctx.Planner.MarkDone(c.ID, c.Date)
	if err != nil {
		return err
	}
	t, err := ctx.Store.GetTask(done.TaskID)
	if err != nil {
		return err
	}
	ctx.printf("Marked %s done on %s\n", t.Name, done.Date)
	return nil
}
