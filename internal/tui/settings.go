package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/worklog/internal/store"
)

var settingLabels = map[string]string{
	"daily_target":      "Tasks per day",
	"default_minutes":   "Default task minutes",
	"default_frequency": "Default times per week",
}

type settingsModel struct {
	store       *store.Store
	idleTimeout time.Duration
	width       int
	height      int

	settings   []store.Setting
	formActive bool
	form       *huh.Form

	// Form values as pointers (survive value copies)
	dailyTarget      *string
	defaultMinutes   *string
	defaultFrequency *string
}

func newSettingsModel(d Deps) settingsModel {
	dt, dm, df := "", "", ""
	return settingsModel{
		store:            d.Store,
		idleTimeout:      d.IdleTimeout,
		dailyTarget:      &dt,
		defaultMinutes:   &dm,
		defaultFrequency: &df,
	}
}

func (s *settingsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

type settingsDataMsg struct {
	settings []store.Setting
	err      error
}

func (s settingsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		settings, err := s.store.GetAllSettings()
		return settingsDataMsg{settings: settings, err: err}
	}
}

func (s settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}

	switch msg := msg.(type) {
	case settingsDataMsg:
		if msg.err != nil {
			return s, errorStatus(msg.err)
		}
		s.settings = msg.settings
		return s, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Enter), key.Matches(msg, keys.New):
			return s.showForm()
		}
	}
	return s, nil
}

func (s settingsModel) showForm() (settingsModel, tea.Cmd) {
	// Load current values
	*s.dailyTarget = s.getVal("daily_target", "3")
	*s.defaultMinutes = s.getVal("default_minutes", "30")
	*s.defaultFrequency = s.getVal("default_frequency", "2")

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title(settingLabels["daily_target"]).
				Description("How many task occurrences auto-distribute puts on each day before overflowing.").
				Value(s.dailyTarget).Validate(validSetting("daily_target")),
		).Title("Planner"),
		huh.NewGroup(
			huh.NewInput().Title(settingLabels["default_minutes"]).
				Value(s.defaultMinutes).Validate(validSetting("default_minutes")),
			huh.NewInput().Title(settingLabels["default_frequency"]).
				Value(s.defaultFrequency).Validate(validSetting("default_frequency")),
		).Title("New tasks"),
	).WithShowHelp(true).WithShowErrors(true)

	s.formActive = true
	return s, s.form.Init()
}

func validSetting(k string) func(string) error {
	return func(v string) error {
		return store.ValidateSetting(k, strings.TrimSpace(v))
	}
}

func (s settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			s.formActive = false
			s.form = nil
			return s, nil
		}
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.formActive = false
		if err := s.saveSettings(); err != nil {
			return s, tea.Batch(errorStatus(err), s.refresh())
		}
		return s, tea.Batch(status("Settings saved"), s.refresh())
	}

	return s, cmd
}

func (s settingsModel) saveSettings() error {
	values := []store.Setting{
		{Key: "daily_target", Value: *s.dailyTarget},
		{Key: "default_minutes", Value: *s.defaultMinutes},
		{Key: "default_frequency", Value: *s.defaultFrequency},
	}
	for _, kv := range values {
		v := strings.TrimSpace(kv.Value)
		if err := store.ValidateSetting(kv.Key, v); err != nil {
			return err
		}
		if err := s.store.SetSetting(kv.Key, v); err != nil {
			return err
		}
	}
	return nil
}

func (s settingsModel) getVal(k, fallback string) string {
	v, err := s.store.GetSetting(k)
	if err != nil {
		return fallback
	}
	return v
}

func (s settingsModel) view() string {
	w := s.width - 4

	if s.formActive && s.form != nil {
		title := titleStyle.Render("Settings")
		formView := s.form.View()
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", formView),
		)
	}

	title := titleStyle.Render("Settings")
	hint := mutedStyle.Render("Press enter to edit settings")

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")

	for _, setting := range s.settings {
		name := setting.Key
		if l, ok := settingLabels[name]; ok {
			name = l
		}
		label := lipgloss.NewStyle().Width(26).Render(name)
		rows = append(rows, fmt.Sprintf("  %s %s", label, highlightStyle.Render(setting.Value)))
	}

	idle := "off"
	if s.idleTimeout > 0 {
		idle = s.idleTimeout.String()
	}
	label := lipgloss.NewStyle().Width(26).Render("Idle timeout")
	rows = append(rows, fmt.Sprintf("  %s %s %s", label, highlightStyle.Render(idle), mutedStyle.Render("(config file)")))

	rows = append(rows, "")
	rows = append(rows, hint)

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
