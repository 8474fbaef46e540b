package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/worklog/internal/analytics"
	"github.com/sadopc/worklog/internal/clock"
	"github.com/sadopc/worklog/internal/planner"
	"github.com/sadopc/worklog/internal/store"
)

type calendarModel struct {
	store  *store.Store
	clock  clock.Clock
	loc    *time.Location
	width  int
	height int

	month    time.Time // first of the shown month, in loc
	selected time.Time // day under the cursor, always inside month
	logs     map[string]store.DayLog

	showDetail bool
	detail     analytics.DayDetail
}

func newCalendarModel(d Deps) calendarModel {
	c := calendarModel{store: d.Store, clock: d.Clock, loc: d.Loc}
	c.selected = store.StartOfDay(c.now())
	c.month = firstOfMonth(c.selected)
	return c
}

func (c *calendarModel) setSize(w, h int) {
	c.width = w
	c.height = h
}

func (c calendarModel) now() time.Time {
	return c.clock.Now().In(c.loc)
}

func firstOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

type calendarDataMsg struct {
	logs map[string]store.DayLog
	err  error
}

func (c calendarModel) refresh() tea.Cmd {
	return func() tea.Msg {
		logs, err := c.store.DayLogs()
		return calendarDataMsg{logs: logs, err: err}
	}
}

func (c calendarModel) update(msg tea.Msg) (calendarModel, tea.Cmd) {
	switch msg := msg.(type) {
	case calendarDataMsg:
		if msg.err != nil {
			return c, errorStatus(msg.err)
		}
		c.logs = msg.logs
		if c.showDetail {
			c.detail = analytics.Detail(c.selectedLog(), c.loc)
		}
		return c, nil

	case tea.KeyMsg:
		if c.showDetail {
			if key.Matches(msg, keys.Back) || key.Matches(msg, keys.Enter) {
				c.showDetail = false
			}
			return c, nil
		}
		switch {
		case key.Matches(msg, keys.Left):
			c.shiftMonth(-1)
		case key.Matches(msg, keys.Right):
			c.shiftMonth(1)
		case key.Matches(msg, keys.Up):
			c.shiftDay(-1)
		case key.Matches(msg, keys.Down):
			c.shiftDay(1)
		case key.Matches(msg, keys.Enter):
			c.showDetail = true
			c.detail = analytics.Detail(c.selectedLog(), c.loc)
		}
	}
	return c, nil
}

func (c calendarModel) selectedLog() store.DayLog {
	date := store.DayKey(c.selected)
	if log, ok := c.logs[date]; ok {
		return log
	}
	return store.DayLog{Date: date}
}

// shiftMonth moves by n months, keeping the day of month where it exists.
func (c *calendarModel) shiftMonth(n int) {
	c.month = c.month.AddDate(0, n, 0)
	last := c.month.AddDate(0, 1, -1).Day()
	c.selected = c.month.AddDate(0, 0, min(c.selected.Day(), last)-1)
}

// shiftDay moves the cursor by n days without leaving the month.
func (c *calendarModel) shiftDay(n int) {
	next := c.selected.AddDate(0, 0, n)
	if next.Month() == c.month.Month() && next.Year() == c.month.Year() {
		c.selected = next
	}
}

func (c calendarModel) view() string {
	w := c.width - 4
	if c.showDetail {
		return panelStyle.Width(w).Render(c.renderDetail())
	}

	title := titleStyle.Render(c.month.Format("January 2006"))
	grid := analytics.MonthGrid(c.month, c.logs)
	today := store.DayKey(c.now())
	sel := store.DayKey(c.selected)

	head := make([]string, len(planner.DayNames))
	for i, name := range planner.DayNames {
		head[i] = cellStyle.Render(mutedStyle.Render(name))
	}
	rows := []string{title, "", lipgloss.JoinHorizontal(lipgloss.Top, head...)}

	var total float64
	for start := 0; start < len(grid); start += 7 {
		week := grid[start:min(start+7, len(grid))]
		if !anyInMonth(week) {
			continue
		}
		cells := make([]string, len(week))
		for i, day := range week {
			label := fmt.Sprintf("%2d", day.Day)
			if day.Hours > 0 {
				label += " " + formatHours(day.Hours)
			}
			style := cellStyle
			switch {
			case !day.InMonth:
				style = outsideCellStyle
			case day.Date == sel:
				style = selectedCellStyle
			case day.Date == today:
				style = todayCellStyle
			}
			if day.InMonth {
				total += day.Hours
			}
			cells[i] = style.Render(label)
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}

	rows = append(rows, "",
		fmt.Sprintf("%s %s", subtitleStyle.Render("Month total"), highlightStyle.Render(formatHours(analytics.Round2(total)))),
		"",
		mutedStyle.Render("  ←/→: month  ↑/↓: day  enter: details"),
	)
	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func anyInMonth(week []analytics.CalendarDay) bool {
	for _, d := range week {
		if d.InMonth {
			return true
		}
	}
	return false
}

func (c calendarModel) renderDetail() string {
	d := c.detail
	title := titleStyle.Render(c.selected.Format("Monday, January 2 2006"))
	header := fmt.Sprintf("%s  %s", title, highlightStyle.Render(formatHours(d.Hours)))

	if len(d.Sessions) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left,
			header, "",
			mutedStyle.Render("No sessions recorded"),
			"",
			mutedStyle.Render("  esc: back"),
		)
	}

	rows := []string{header, ""}
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-8s %-6s %-6s %7s %10s", "Session", "Start", "End", "Breaks", "Break")))
	rows = append(rows, mutedStyle.Render("  "+strings.Repeat("─", 42)))
	for _, s := range d.Sessions {
		end := "open"
		if s.End != nil {
			end = s.End.Format("15:04")
		}
		rows = append(rows, fmt.Sprintf("  %-8s %-6s %-6s %7d %10s",
			truncate(s.ID, 8), s.Start.Format("15:04"), end, s.Breaks, analytics.FormatHMS(s.BreakSeconds)))
	}
	rows = append(rows, "", mutedStyle.Render("  esc: back"))
	return strings.Join(rows, "\n")
}
