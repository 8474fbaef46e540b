package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/worklog/internal/app"
	"github.com/sadopc/worklog/internal/auth"
)

// loginModel gates the app until the configured credentials are entered.
type loginModel struct {
	session *app.Session
	width   int
	height  int

	form *huh.Form
	err  string

	// Form values as pointers (survive value copies)
	email    *string
	password *string
}

func newLoginModel(s *app.Session) loginModel {
	email, pw := "", ""
	return loginModel{session: s, email: &email, password: &pw}
}

func (l *loginModel) setSize(w, h int) {
	l.width = w
	l.height = h
}

// reset builds a fresh form. The email is kept after a failed attempt.
func (l loginModel) reset() loginModel {
	*l.password = ""
	l.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Email").Value(l.email).Validate(required("email")),
			huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(l.password),
		),
	).WithShowHelp(true).WithShowErrors(true)
	return l
}

func (l loginModel) init() tea.Cmd {
	if l.form == nil {
		return nil
	}
	return l.form.Init()
}

func (l loginModel) update(msg tea.Msg) (loginModel, tea.Cmd) {
	if msg, ok := msg.(loginFailedMsg); ok {
		l.err = msg.err.Error()
		l = l.reset()
		return l, l.init()
	}
	if l.form == nil {
		return l, nil
	}

	form, cmd := l.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		l.form = f
	}
	if l.form.State == huh.StateCompleted {
		l.form = nil
		return l, l.submit(*l.email, *l.password)
	}
	return l, cmd
}

func (l loginModel) submit(email, password string) tea.Cmd {
	return func() tea.Msg {
		ok, err := l.session.Login(strings.TrimSpace(email), password)
		if err != nil {
			return loginFailedMsg{err: err}
		}
		if !ok {
			return loginFailedMsg{err: auth.ErrInvalidCredentials}
		}
		return loggedInMsg{}
	}
}

func (l loginModel) view() string {
	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render("worklog")
	rows := []string{title, subtitleStyle.Render("Sign in to start the work timer"), ""}
	if l.form != nil {
		rows = append(rows, l.form.View())
	} else {
		rows = append(rows, mutedStyle.Render("Signing in..."))
	}
	if l.err != "" {
		rows = append(rows, "", errorStyle.Render(l.err))
	}
	rows = append(rows, "", mutedStyle.Render("ctrl+c: quit"))

	w := min(max(l.width-4, 20), 60)
	panel := activePanelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
	return lipgloss.Place(l.width, max(l.height, lipgloss.Height(panel)), lipgloss.Center, lipgloss.Center, panel)
}
