package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/worklog/internal/planner"
	"github.com/sadopc/worklog/internal/store"
)

// tasksModel shows the task list above the week's planner grid. The cursor
// sits on one occurrence: a day column and a row within it.
type tasksModel struct {
	store   *store.Store
	planner *planner.Service
	width   int
	height  int

	tasks []store.Task
	plan  store.WeekPlan
	saved bool
	today int

	day    int
	row    int
	moving bool
	moveTo int

	formActive bool
	form       *huh.Form

	// Form field pointers (survive value copies)
	formName    *string
	formTopic   *string
	formMinutes *string
	formFreq    *string
}

func newTasksModel(d Deps) tasksModel {
	name, topic, mins, freq := "", "", "", ""
	return tasksModel{
		store:       d.Store,
		planner:     d.Planner,
		formName:    &name,
		formTopic:   &topic,
		formMinutes: &mins,
		formFreq:    &freq,
	}
}

func (t *tasksModel) setSize(w, h int) {
	t.width = w
	t.height = h
}

type tasksDataMsg struct {
	tasks []store.Task
	plan  store.WeekPlan
	saved bool
	today int
	err   error
}

func (t tasksModel) refresh() tea.Cmd {
	return func() tea.Msg {
		tasks, err := t.planner.Tasks()
		if err != nil {
			return tasksDataMsg{err: err}
		}
		plan, saved, err := t.planner.CurrentPlan(t.planner.CurrentWeek())
		if err != nil {
			return tasksDataMsg{err: err}
		}
		today, err := store.ParseDay(t.planner.Today(), time.UTC)
		if err != nil {
			return tasksDataMsg{err: err}
		}
		return tasksDataMsg{tasks: tasks, plan: plan, saved: saved, today: store.DayIndex(today)}
	}
}

func (t tasksModel) update(msg tea.Msg) (tasksModel, tea.Cmd) {
	if t.formActive && t.form != nil {
		return t.updateForm(msg)
	}

	switch msg := msg.(type) {
	case tasksDataMsg:
		if msg.err != nil {
			return t, errorStatus(msg.err)
		}
		first := t.tasks == nil && msg.tasks != nil
		t.tasks = msg.tasks
		t.plan = msg.plan
		t.saved = msg.saved
		t.today = msg.today
		if first {
			t.day = msg.today
		}
		t.clampRow()
		return t, nil

	case planSavedMsg:
		t.plan = msg.plan
		t.saved = true
		t.clampRow()
		return t, status("%s", msg.text)

	case tea.KeyMsg:
		if t.moving {
			return t.updateMove(msg)
		}
		return t.updateGrid(msg)
	}
	return t, nil
}

func (t tasksModel) updateGrid(msg tea.KeyMsg) (tasksModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Left):
		if t.day > 0 {
			t.day--
			t.clampRow()
		}
	case key.Matches(msg, keys.Right):
		if t.day < store.DaysPerWeek-1 {
			t.day++
			t.clampRow()
		}
	case key.Matches(msg, keys.Up):
		if t.row > 0 {
			t.row--
		}
	case key.Matches(msg, keys.Down):
		if t.row < len(t.plan.Assignments[t.day])-1 {
			t.row++
		}
	case key.Matches(msg, keys.New):
		return t.showNewTaskForm()
	case key.Matches(msg, keys.Distribute):
		return t, t.distribute()
	case key.Matches(msg, keys.Move):
		if _, ok := t.selected(); ok {
			t.moving = true
			t.moveTo = t.day
		}
	case key.Matches(msg, keys.Done):
		if id, ok := t.selected(); ok {
			return t, t.markDone(id)
		}
	}
	return t, nil
}

func (t tasksModel) updateMove(msg tea.KeyMsg) (tasksModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Left):
		if t.moveTo > 0 {
			t.moveTo--
		}
	case key.Matches(msg, keys.Right):
		if t.moveTo < store.DaysPerWeek-1 {
			t.moveTo++
		}
	case key.Matches(msg, keys.Enter):
		t.moving = false
		id, ok := t.selected()
		if !ok || t.moveTo == t.day {
			return t, nil
		}
		from, to := t.day, t.moveTo
		t.day = to
		t.row = len(t.plan.Assignments[to]) // moved occurrences land last
		return t, t.move(id, from, to)
	case key.Matches(msg, keys.Back):
		t.moving = false
	}
	return t, nil
}

func (t tasksModel) selected() (string, bool) {
	ids := t.plan.Assignments[t.day]
	if t.row < 0 || t.row >= len(ids) {
		return "", false
	}
	return ids[t.row], true
}

func (t *tasksModel) clampRow() {
	n := len(t.plan.Assignments[t.day])
	if t.row >= n {
		t.row = max(0, n-1)
	}
}

func (t tasksModel) distribute() tea.Cmd {
	return func() tea.Msg {
		p, err := t.planner.Distribute(t.planner.CurrentWeek(), 0)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}
		return planSavedMsg{plan: p, text: fmt.Sprintf("Week distributed, %d per day", p.DailyTarget)}
	}
}

func (t tasksModel) move(id string, from, to int) tea.Cmd {
	return func() tea.Msg {
		p, err := t.planner.Move(t.plan.WeekOf, id, from, to)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}
		return planSavedMsg{plan: p, text: fmt.Sprintf("Moved to %s", planner.DayNames[to])}
	}
}

func (t tasksModel) markDone(id string) tea.Cmd {
	name := t.taskName(id)
	return func() tea.Msg {
		if _, err := t.planner.MarkDone(id, ""); err != nil {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}
		return statusMsg{text: fmt.Sprintf("Done: %s", name)}
	}
}

// planSavedMsg carries a plan the planner just wrote.
type planSavedMsg struct {
	plan store.WeekPlan
	text string
}

func (t tasksModel) showNewTaskForm() (tasksModel, tea.Cmd) {
	*t.formName = ""
	*t.formTopic = ""
	*t.formMinutes = strconv.Itoa(t.store.IntSetting("default_minutes", 30))
	*t.formFreq = strconv.Itoa(t.store.IntSetting("default_frequency", 2))

	t.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Task Name").Value(t.formName).Validate(required("name")),
			huh.NewInput().Title("Topic").Value(t.formTopic).Validate(required("topic")),
			huh.NewInput().Title("Estimated minutes").Value(t.formMinutes).Validate(intAtLeast(1)),
			huh.NewInput().Title("Times per week").Value(t.formFreq).Validate(intAtLeast(0)),
		),
	).WithShowHelp(true).WithShowErrors(true)

	t.formActive = true
	return t, t.form.Init()
}

func (t tasksModel) updateForm(msg tea.Msg) (tasksModel, tea.Cmd) {
	// Check for escape to cancel form
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			t.formActive = false
			t.form = nil
			return t, nil
		}
	}

	form, cmd := t.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		t.form = f
	}

	if t.form.State == huh.StateCompleted {
		t.formActive = false
		return t, tea.Batch(t.addTask(), t.refresh())
	}

	return t, cmd
}

func (t tasksModel) addTask() tea.Cmd {
	mins, _ := strconv.Atoi(strings.TrimSpace(*t.formMinutes))
	freq, _ := strconv.Atoi(strings.TrimSpace(*t.formFreq))
	task := store.Task{
		Name:             *t.formName,
		Topic:            *t.formTopic,
		EstimatedMinutes: mins,
		FrequencyPerWeek: freq,
	}
	// Runs before the batched refresh reads the task list.
	added, err := t.planner.AddTask(task)
	return func() tea.Msg {
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}
		return statusMsg{text: "Added " + added.Name}
	}
}

func required(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}

func intAtLeast(least int) func(string) error {
	return func(s string) error {
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return errors.New("enter a whole number")
		}
		if n < least {
			return fmt.Errorf("must be at least %d", least)
		}
		return nil
	}
}

func (t tasksModel) taskName(id string) string {
	for _, task := range t.tasks {
		if task.ID == id {
			return task.Name
		}
	}
	return id
}

func (t tasksModel) view() string {
	if t.formActive && t.form != nil {
		title := titleStyle.Render("New Task")
		formView := t.form.View()
		content := lipgloss.JoinVertical(lipgloss.Left, title, "", formView)
		return panelStyle.Width(t.width - 4).Render(content)
	}

	return lipgloss.JoinVertical(lipgloss.Left, t.renderPlanner(), t.renderTaskList())
}

func (t tasksModel) renderPlanner() string {
	w := t.width - 4
	title := titleStyle.Render("Week of " + t.plan.WeekOf)
	if !t.saved {
		title += mutedStyle.Render("  (not saved, press a to distribute)")
	}

	load := planner.Load(t.plan.Assignments)
	cols := make([]string, store.DaysPerWeek)
	for d := 0; d < store.DaysPerWeek; d++ {
		style := cellStyle
		if d == t.today {
			style = todayCellStyle
		}
		head := fmt.Sprintf("%s %d", planner.DayNames[d], load[d])
		if t.moving && d == t.moveTo {
			head = "→ " + head
		}
		lines := []string{style.Render(head)}
		for i, id := range t.plan.Assignments[d] {
			name := truncate(t.taskName(id), 12)
			if d == t.day && i == t.row {
				lines = append(lines, selectedCellStyle.Render(name))
			} else {
				lines = append(lines, cellStyle.Render(name))
			}
		}
		if len(t.plan.Assignments[d]) == 0 {
			lines = append(lines, outsideCellStyle.Render("-"))
		}
		cols[d] = lipgloss.JoinVertical(lipgloss.Left, lines...)
	}
	grid := lipgloss.JoinHorizontal(lipgloss.Top, cols...)

	hint := mutedStyle.Render("  ←/→ ↑/↓: select  n: new  a: auto-distribute  m: move  d: done")
	panel := panelStyle
	if t.moving {
		hint = warningStyle.Render(fmt.Sprintf("  Move to %s  ←/→: day  enter: confirm  esc: cancel", planner.DayNames[t.moveTo]))
		panel = activePanelStyle
	}
	return panel.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, title, "", grid, "", hint))
}

func (t tasksModel) renderTaskList() string {
	w := t.width - 4
	title := titleStyle.Render("Tasks")

	if len(t.tasks) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			mutedStyle.Render("No tasks yet. Press n to add one."),
		)
		return panelStyle.Width(w).Render(content)
	}

	counts := planner.Counts(t.plan.Assignments)
	var rows []string
	rows = append(rows, title)
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-24s %-14s %6s %6s %8s", "Name", "Topic", "Min", "/Week", "Planned")))
	for _, task := range t.tasks {
		row := fmt.Sprintf("  %-24s %-14s %6d %6d %8d",
			truncate(task.Name, 24), truncate(task.Topic, 14),
			task.EstimatedMinutes, task.FrequencyPerWeek, counts[task.ID])
		style := normalItemStyle
		if id, ok := t.selected(); ok && id == task.ID {
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(row))
	}
	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
