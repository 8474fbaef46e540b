package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/sadopc/worklog/internal/analytics"
	"github.com/sadopc/worklog/internal/store"
)

type ReportWeekCmd struct{}

func (c *ReportWeekCmd) Run(ctx *Context) error {
	logs, err := ctx.Store.DayLogs()
	if err != nil {
		return err
	}
	ctx.printf("Last 7 days:\n")
	for _, d := range analytics.WeeklyHours(logs, ctx.now()) {
		ctx.printf("  %s %s  %6.2fh  %s\n", d.Label, d.Date, d.Hours, bar(d.Hours))
	}
	return nil
}

type ReportTopicsCmd struct{}

func (c *ReportTopicsCmd) Run(ctx *Context) error {
	done, err := ctx.Store.Completed()
	if err != nil {
		return err
	}
	tasks, err := ctx.Store.Tasks()
	if err != nil {
		return err
	}
	topics := analytics.HoursByTopic(done, tasks)
	if len(topics) == 0 {
		ctx.printf("No completed tasks yet\n")
		return nil
	}
	ctx.printf("Hours by topic:\n")
	for _, t := range topics {
		ctx.printf("  %-20s %6.2fh\n", t.Topic, t.Hours)
	}
	return nil
}

type CalendarCmd struct {
	Month string `short:"m" help:"Month to show (YYYY-MM). Defaults to the current month."`
}

func (c *CalendarCmd) Run(ctx *Context) error {
	month := ctx.now()
	if c.Month != "" {
		m, err := time.ParseInLocation("2006-01", c.Month, ctx.Loc)
		if err != nil {
			return fmt.Errorf("invalid month %q: %w", c.Month, err)
		}
		month = m
	}
	logs, err := ctx.Store.DayLogs()
	if err != nil {
		return err
	}
	ctx.printf("%s\n", month.Format("January 2006"))
	ctx.printf("  Mon    Tue    Wed    Thu    Fri    Sat    Sun\n")
	grid := analytics.MonthGrid(month, logs)
	for i := 0; i < len(grid); i += 7 {
		var cells []string
		for _, d := range grid[i:min(i+7, len(grid))] {
			if !d.InMonth {
				cells = append(cells, "     ")
				continue
			}
			cells = append(cells, fmt.Sprintf("%2d%3s", d.Day, shortHours(d.Hours)))
		}
		ctx.printf("  %s\n", strings.Join(cells, "  "))
	}
	return nil
}

type DayCmd struct {
	Date string `arg:"" optional:"" help:"Day to show (YYYY-MM-DD). Defaults to today."`
}

func (c *DayCmd) Run(ctx *Context) error {
	date := store.DayKey(ctx.now())
	if c.Date != "" {
		if _, err := store.ParseDay(c.Date, ctx.Loc); err != nil {
			return fmt.Errorf("invalid date %q: %w", c.Date, err)
		}
		date = c.Date
	}
	log, err := ctx.Store.DayLog(date)
	if err != nil {
		return err
	}
	dd := analytics.Detail(log, ctx.Loc)
	ctx.printf("Date:  %s\n", dd.Date)
	ctx.printf("Total: %.2f hours\n", dd.Hours)
	if len(dd.Sessions) == 0 {
		ctx.printf("No sessions\n")
		return nil
	}
	ctx.printf("Sessions:\n")
	for _, s := range dd.Sessions {
		end := "ongoing"
		if s.End != nil {
			end = s.End.Format("15:04:05")
		}
		ctx.printf("  %s - %s  (%d breaks, %s)\n", s.Start.Format("15:04:05"), end, s.Breaks, analytics.FormatHMS(s.BreakSeconds))
	}
	return nil
}

// bar draws a quarter-hour resolution bar.
func bar(hours float64) string {
	return strings.Repeat("▇", int(hours*4))
}

func shortHours(h float64) string {
	if h == 0 {
		return ""
	}
	if h < 10 {
		return fmt.Sprintf("%.1f", h)
	}
	return fmt.Sprintf("%.0f", h)
}
