// Package tui is the interactive terminal front end: a sign-in screen, then
// tabs for the work clock, the weekly planner, the calendar, the analyzer and
// settings.
package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/worklog/internal/analytics"
	"github.com/sadopc/worklog/internal/app"
	"github.com/sadopc/worklog/internal/clock"
	"github.com/sadopc/worklog/internal/export"
	"github.com/sadopc/worklog/internal/logger"
	"github.com/sadopc/worklog/internal/planner"
	"github.com/sadopc/worklog/internal/store"
	"github.com/sadopc/worklog/internal/timer"
)

// Deps are the services the app drives.
type Deps struct {
	Store       *store.Store
	Timer       *timer.Timer
	Planner     *planner.Service
	Session     *app.Session
	Clock       clock.Clock
	Loc         *time.Location
	IdleTimeout time.Duration // zero disables idle detection
	ExportDir   string
}

// App is the root Bubble Tea model.
type App struct {
	deps   Deps
	width  int
	height int

	signedIn      bool
	activeView    viewState
	showHelp      bool
	exportPicking bool
	exportCursor  int

	login     loginModel
	dashboard dashboardModel
	tasks     tasksModel
	calendar  calendarModel
	analyzer  analyzerModel
	settings  settingsModel

	help      help.Model
	status    string
	statusErr bool
}

func NewApp(d Deps) App {
	if d.Clock == nil {
		d.Clock = clock.Real{}
	}
	if d.Loc == nil {
		d.Loc = time.Local
	}
	h := help.New()
	h.ShowAll = false

	signedIn, err := d.Session.SignedIn()
	if err != nil {
		logger.Warn("read sign-in state", "err", err)
	}

	login := newLoginModel(d.Session)
	if !signedIn {
		login = login.reset()
	}

	return App{
		deps:       d,
		signedIn:   signedIn,
		activeView: viewDashboard,
		login:      login,
		dashboard:  newDashboardModel(d),
		tasks:      newTasksModel(d),
		calendar:   newCalendarModel(d),
		analyzer:   newAnalyzerModel(d),
		settings:   newSettingsModel(d),
		help:       h,
	}
}

func (a App) Init() tea.Cmd {
	if !a.signedIn {
		return tea.Batch(a.login.init(), tickCmd())
	}
	return tea.Batch(
		tea.Sequence(a.resumeWork(), a.dashboard.loadData()),
		tickCmd(),
	)
}

// resumeWork puts a signed-in user back on the clock when the app opens.
func (a App) resumeWork() tea.Cmd {
	t := a.deps.Timer
	return func() tea.Msg {
		if err := t.StartWork(); err != nil {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}
		return nil
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.login.setSize(a.width, a.height)
		a.dashboard.setSize(a.width, contentHeight)
		a.tasks.setSize(a.width, contentHeight)
		a.calendar.setSize(a.width, contentHeight)
		a.analyzer.setSize(a.width, contentHeight)
		a.settings.setSize(a.width, contentHeight)
		return a, nil

	case tickMsg:
		cmds = append(cmds, tickCmd())
		if a.signedIn {
			var cmd tea.Cmd
			a.dashboard, cmd = a.dashboard.update(msg)
			cmds = append(cmds, cmd)
		}
		return a, tea.Batch(cmds...)

	case statusMsg:
		a.status = msg.text
		a.statusErr = msg.isError
		return a, nil

	case loggedInMsg:
		a.signedIn = true
		a.activeView = viewDashboard
		a.status = "Signed in, timer started"
		a.statusErr = false
		a.login.err = ""
		a.dashboard.timer.lastActivity = a.deps.Clock.Now()
		return a, a.dashboard.loadData()

	case loggedOutMsg:
		a.signedIn = false
		a.exportPicking = false
		a.status = "Signed out, session saved"
		a.statusErr = false
		a.dashboard.timer.isIdle = false
		a.login = a.login.reset()
		return a, a.login.init()

	case loginFailedMsg:
		var cmd tea.Cmd
		a.login, cmd = a.login.update(msg)
		return a, cmd

	case exportDoneMsg:
		a.status = "Exported to " + msg.path
		a.statusErr = false
		a.exportPicking = false
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if !a.signedIn {
			var cmd tea.Cmd
			a.login, cmd = a.login.update(msg)
			return a, cmd
		}

		resumed, err := a.dashboard.timer.recordActivity()
		if err != nil {
			cmds = append(cmds, errorStatus(err))
		} else if resumed {
			cmds = append(cmds, status("Welcome back, timer resumed"))
		}

		model, cmd := a.handleKey(msg)
		return model, tea.Batch(append(cmds, cmd)...)
	}

	if !a.signedIn {
		var cmd tea.Cmd
		a.login, cmd = a.login.update(msg)
		return a, cmd
	}
	return a.updateView(msg)
}

func (a App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Export picker
	if a.exportPicking {
		return a.updateExportPicker(msg)
	}

	// If a child view is capturing input (e.g. form), delegate first.
	if a.isFormActive() {
		return a.updateActiveView(msg)
	}

	switch {
	case key.Matches(msg, keys.Export):
		a.exportPicking = true
		a.exportCursor = 0
		return a, nil
	case key.Matches(msg, keys.Logout):
		return a, a.logout()
	case key.Matches(msg, keys.Quit):
		// The open session stays open; the clock keeps running while away.
		return a, tea.Quit
	case key.Matches(msg, keys.Help):
		a.showHelp = !a.showHelp
		a.help.ShowAll = a.showHelp
		return a, nil
	case key.Matches(msg, keys.Tab1):
		a.activeView = viewDashboard
		return a, a.refreshCurrentView()
	case key.Matches(msg, keys.Tab2):
		a.activeView = viewTasks
		return a, a.refreshCurrentView()
	case key.Matches(msg, keys.Tab3):
		a.activeView = viewCalendar
		return a, a.refreshCurrentView()
	case key.Matches(msg, keys.Tab4):
		a.activeView = viewAnalyzer
		return a, a.refreshCurrentView()
	case key.Matches(msg, keys.Tab5):
		a.activeView = viewSettings
		return a, a.refreshCurrentView()
	case key.Matches(msg, keys.Tab):
		a.activeView = (a.activeView + 1) % viewState(len(viewNames))
		return a, a.refreshCurrentView()
	}

	return a.updateActiveView(msg)
}

// updateView routes data messages to the view that asked for them.
func (a App) updateView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg.(type) {
	case dashboardDataMsg:
		a.dashboard, cmd = a.dashboard.update(msg)
	case tasksDataMsg, planSavedMsg:
		a.tasks, cmd = a.tasks.update(msg)
	case calendarDataMsg:
		a.calendar, cmd = a.calendar.update(msg)
	case analyzerDataMsg:
		a.analyzer, cmd = a.analyzer.update(msg)
	case settingsDataMsg:
		a.settings, cmd = a.settings.update(msg)
	default:
		return a.updateActiveView(msg)
	}
	return a, cmd
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewDashboard:
		a.dashboard, cmd = a.dashboard.update(msg)
	case viewTasks:
		a.tasks, cmd = a.tasks.update(msg)
	case viewCalendar:
		a.calendar, cmd = a.calendar.update(msg)
	case viewAnalyzer:
		a.analyzer, cmd = a.analyzer.update(msg)
	case viewSettings:
		a.settings, cmd = a.settings.update(msg)
	}
	return a, cmd
}

func (a App) isFormActive() bool {
	switch a.activeView {
	case viewTasks:
		return a.tasks.formActive || a.tasks.moving
	case viewSettings:
		return a.settings.formActive
	}
	return false
}

func (a App) refreshCurrentView() tea.Cmd {
	switch a.activeView {
	case viewDashboard:
		return a.dashboard.loadData()
	case viewTasks:
		return a.tasks.refresh()
	case viewCalendar:
		return a.calendar.refresh()
	case viewAnalyzer:
		return a.analyzer.refresh()
	case viewSettings:
		return a.settings.refresh()
	}
	return nil
}

func (a App) logout() tea.Cmd {
	s := a.deps.Session
	return func() tea.Msg {
		if err := s.Logout(); err != nil {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}
		return loggedOutMsg{}
	}
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}
	if !a.signedIn {
		return a.login.view()
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	switch a.activeView {
	case viewDashboard:
		content = a.dashboard.view()
	case viewTasks:
		content = a.tasks.view()
	case viewCalendar:
		content = a.calendar.view()
	case viewAnalyzer:
		content = a.analyzer.view()
	case viewSettings:
		content = a.settings.view()
	}

	// Calculate available height for content
	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := a.height - headerHeight - footerHeight
	if contentHeight < 1 {
		contentHeight = 1
	}

	// Show export picker overlay
	if a.exportPicking {
		content = a.renderExportPicker()
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) renderHeader() string {
	var tabs []string
	for i, name := range viewNames {
		if viewState(i) == a.activeView {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}

	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render("worklog")
	gap := a.width - lipgloss.Width(title) - lipgloss.Width(tabRow) - 4
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, spacer, tabRow),
	)
}

func (a App) renderFooter() string {
	helpView := a.help.View(keys)

	statusText := ""
	if a.status != "" {
		style := mutedStyle
		if a.statusErr {
			style = errorStyle
		}
		statusText = style.Render(" " + a.status)
	}

	// Clock indicator in footer
	snap := a.dashboard.timer.snap
	clockInfo := ""
	switch snap.Phase {
	case store.PhaseWorking:
		clockInfo = successStyle.Render(" ● " + analytics.FormatHMS(snap.WorkSecondsToday))
	case store.PhaseOnBreak:
		clockInfo = warningStyle.Render(" ☕ " + analytics.FormatHMS(snap.BreakSecondsCurrent))
	case store.PhaseIdle:
		clockInfo = warningStyle.Render(" ⏸ " + analytics.FormatHMS(snap.WorkSecondsToday))
	}

	left := footerStyle.Render(helpView)
	right := clockInfo + statusText

	gap := a.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, right)
}

var exportFormats = []string{"csv", "json"}

func (a App) renderExportPicker() string {
	title := titleStyle.Render("Export Format")
	var rows []string
	rows = append(rows, title)
	rows = append(rows, mutedStyle.Render("All day logs, one row per session"))
	rows = append(rows, "")
	for i, f := range exportFormats {
		cursor := "  "
		style := normalItemStyle
		if i == a.exportCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursor+f))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: export  esc: cancel"))

	w := a.width - 4
	return activePanelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (a App) updateExportPicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if a.exportCursor > 0 {
			a.exportCursor--
		}
	case key.Matches(msg, keys.Down):
		if a.exportCursor < len(exportFormats)-1 {
			a.exportCursor++
		}
	case key.Matches(msg, keys.Enter):
		a.exportPicking = false
		return a, a.doExport(exportFormats[a.exportCursor])
	case key.Matches(msg, keys.Back):
		a.exportPicking = false
	}
	return a, nil
}

func (a App) doExport(format string) tea.Cmd {
	d := a.deps
	return func() tea.Msg {
		logs, err := d.Store.ListDayLogs()
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
		}

		now := d.Clock.Now().In(d.Loc)
		path := export.FileName(d.ExportDir, format, now)
		if format == "csv" {
			err = export.ToCSV(logs, d.Loc, path)
		} else {
			err = export.ToJSON(logs, d.Loc, now, path)
		}
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
		}
		logger.Info("exported day logs", "format", format, "path", path, "days", len(logs))
		return exportDoneMsg{path: path}
	}
}
