package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/worklog/internal/analytics"
	"github.com/sadopc/worklog/internal/planner"
	"github.com/sadopc/worklog/internal/store"
	"github.com/sadopc/worklog/internal/timer"
)

type dashboardModel struct {
	store   *store.Store
	planner *planner.Service
	loc     *time.Location
	timer   timerModel
	width   int
	height  int

	today       []store.Task // one entry per planned occurrence
	doneToday   map[string]int
	dailyTarget int
}

func newDashboardModel(d Deps) dashboardModel {
	return dashboardModel{
		store:   d.Store,
		planner: d.Planner,
		loc:     d.Loc,
		timer:   newTimerModel(d.Timer, d.Clock, d.IdleTimeout),
	}
}

func (d *dashboardModel) setSize(w, h int) {
	d.width = w
	d.height = h
}

type dashboardDataMsg struct {
	snap        timer.Snapshot
	today       []store.Task
	doneToday   map[string]int
	dailyTarget int
	err         error
}

func (d dashboardModel) loadData() tea.Cmd {
	return func() tea.Msg {
		snap, err := d.timer.timer.Read()
		if err != nil {
			return dashboardDataMsg{err: err}
		}
		msg := dashboardDataMsg{snap: snap, dailyTarget: d.store.DailyTarget()}

		plan, _, err := d.planner.CurrentPlan(d.planner.CurrentWeek())
		if err != nil {
			return dashboardDataMsg{err: err}
		}
		tasks, err := d.store.Tasks()
		if err != nil {
			return dashboardDataMsg{err: err}
		}
		byID := make(map[string]store.Task, len(tasks))
		for _, t := range tasks {
			byID[t.ID] = t
		}
		day, err := store.ParseDay(snap.Date, d.loc)
		if err != nil {
			return dashboardDataMsg{err: err}
		}
		for _, id := range plan.Assignments[store.DayIndex(day)] {
			if t, ok := byID[id]; ok {
				msg.today = append(msg.today, t)
			}
		}

		done, err := d.store.Completed()
		if err != nil {
			return dashboardDataMsg{err: err}
		}
		msg.doneToday = make(map[string]int)
		for _, c := range done {
			if c.Date == snap.Date {
				msg.doneToday[c.TaskID]++
			}
		}
		return msg
	}
}

func (d dashboardModel) update(msg tea.Msg) (dashboardModel, tea.Cmd) {
	switch msg := msg.(type) {
	case dashboardDataMsg:
		if msg.err != nil {
			return d, errorStatus(msg.err)
		}
		d.timer.snap = msg.snap
		d.today = msg.today
		d.doneToday = msg.doneToday
		d.dailyTarget = msg.dailyTarget
		return d, nil

	case tickMsg:
		wasIdle := d.timer.isIdle
		before := d.timer.snap.Date
		if err := d.timer.tick(); err != nil {
			return d, errorStatus(err)
		}
		if d.timer.isIdle && !wasIdle {
			return d, status("Idle, timer paused. Press any key to resume.")
		}
		if before != "" && before != d.timer.snap.Date {
			// New calendar day: the plan column and completions change.
			return d, d.loadData()
		}
		return d, nil

	case tea.KeyMsg:
		before := d.timer.phase()
		var err error
		switch {
		case key.Matches(msg, keys.Break):
			err = d.timer.startBreak()
		case key.Matches(msg, keys.EndBreak):
			err = d.timer.endBreak()
		case key.Matches(msg, keys.Work):
			err = d.timer.startWork()
		default:
			return d, nil
		}
		if err != nil {
			return d, errorStatus(err)
		}
		if after := d.timer.phase(); after != before {
			return d, status("%s", phaseLabel(after))
		}
	}
	return d, nil
}

func phaseLabel(p store.Phase) string {
	switch p {
	case store.PhaseWorking:
		return "Working"
	case store.PhaseOnBreak:
		return "On break"
	case store.PhaseIdle:
		return "Idle"
	}
	return "No session"
}

func (d dashboardModel) view() string {
	if d.width < 20 {
		return "Terminal too small"
	}

	contentWidth := d.width - 4
	return lipgloss.JoinVertical(lipgloss.Left,
		d.renderTimerPanel(contentWidth),
		d.renderTodayPanel(contentWidth),
	)
}

func (d dashboardModel) renderTimerPanel(w int) string {
	snap := d.timer.snap
	work := analytics.FormatHMS(snap.WorkSecondsToday)

	var clock, indicator, hint string
	panel := activePanelStyle
	switch snap.Phase {
	case store.PhaseWorking:
		clock = clockWorkingStyle.Width(w - 6).Render(work)
		indicator = successStyle.Render("●  WORKING")
		hint = mutedStyle.Render("b: take a break")
	case store.PhaseOnBreak:
		clock = clockStyle.Width(w - 6).Render(work)
		indicator = warningStyle.Render("☕  ON BREAK  " + analytics.FormatHMS(snap.BreakSecondsCurrent))
		hint = mutedStyle.Render("e: end break")
	case store.PhaseIdle:
		clock = clockBreakStyle.Width(w - 6).Render(work)
		indicator = warningStyle.Render("⏸  IDLE")
		hint = mutedStyle.Render("w: resume work")
		if d.timer.isIdle {
			hint = mutedStyle.Render("Press any key to resume")
		}
	default:
		panel = panelStyle
		clock = clockStyle.Width(w - 6).Render(work)
		indicator = mutedStyle.Render("■  NO SESSION")
		hint = mutedStyle.Render("w: start working")
	}

	date := subtitleStyle.Render(snap.Date)
	content := lipgloss.JoinVertical(lipgloss.Center, date, clock, indicator, hint)
	return panel.Width(w).Render(content)
}

func (d dashboardModel) renderTodayPanel(w int) string {
	title := titleStyle.Render("Today's tasks")
	target := mutedStyle.Render(fmt.Sprintf("target %d/day", d.dailyTarget))
	header := fmt.Sprintf("%s  %s", title, target)

	if len(d.today) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			header,
			mutedStyle.Render("Nothing planned. Press 2 to plan the week."),
		)
		return panelStyle.Width(w).Render(content)
	}

	// Completions tick off occurrences in plan order.
	remaining := make(map[string]int, len(d.doneToday))
	for id, n := range d.doneToday {
		remaining[id] = n
	}
	var rows []string
	rows = append(rows, header)
	for _, t := range d.today {
		mark := mutedStyle.Render("○")
		name := normalItemStyle.Render(t.Name)
		if remaining[t.ID] > 0 {
			remaining[t.ID]--
			mark = successStyle.Render("✓")
			name = mutedStyle.Render(t.Name)
		}
		topic := ""
		if t.Topic != "" {
			topic = accentStyle.Render(" [" + t.Topic + "]")
		}
		rows = append(rows, fmt.Sprintf("  %s %s%s %s", mark, name, topic,
			mutedStyle.Render(fmt.Sprintf("%d min", t.EstimatedMinutes))))
	}
	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
