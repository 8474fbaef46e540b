package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/worklog/internal/analytics"
	"github.com/sadopc/worklog/internal/clock"
	"github.com/sadopc/worklog/internal/store"
)

// analyzerModel charts hours worked over the trailing week and lists hours
// of completed tasks per topic.
type analyzerModel struct {
	store  *store.Store
	clock  clock.Clock
	loc    *time.Location
	width  int
	height int

	week   []analytics.DayHours
	topics []analytics.TopicHours

	chart barchart.Model
}

func newAnalyzerModel(d Deps) analyzerModel {
	return analyzerModel{
		store: d.Store,
		clock: d.Clock,
		loc:   d.Loc,
		chart: barchart.New(60, 12),
	}
}

func (a *analyzerModel) setSize(w, h int) {
	a.width = w
	a.height = h
	a.buildChart()
}

type analyzerDataMsg struct {
	week   []analytics.DayHours
	topics []analytics.TopicHours
	err    error
}

func (a analyzerModel) refresh() tea.Cmd {
	return func() tea.Msg {
		logs, err := a.store.DayLogs()
		if err != nil {
			return analyzerDataMsg{err: err}
		}
		done, err := a.store.Completed()
		if err != nil {
			return analyzerDataMsg{err: err}
		}
		tasks, err := a.store.Tasks()
		if err != nil {
			return analyzerDataMsg{err: err}
		}
		return analyzerDataMsg{
			week:   analytics.WeeklyHours(logs, a.clock.Now().In(a.loc)),
			topics: analytics.HoursByTopic(done, tasks),
		}
	}
}

func (a analyzerModel) update(msg tea.Msg) (analyzerModel, tea.Cmd) {
	switch msg := msg.(type) {
	case analyzerDataMsg:
		if msg.err != nil {
			return a, errorStatus(msg.err)
		}
		a.week = msg.week
		a.topics = msg.topics
		a.buildChart()
	}
	return a, nil
}

// buildChart redraws the bars. An empty week is shown as text instead.
func (a *analyzerModel) buildChart() {
	if a.total() == 0 {
		return
	}
	chartWidth := a.width - 8
	if chartWidth < 20 {
		chartWidth = 20
	}
	chartHeight := 12
	if a.height > 30 {
		chartHeight = 16
	}

	a.chart = barchart.New(chartWidth, chartHeight)

	barStyle := lipgloss.NewStyle().Foreground(colorPrimary)
	emptyStyle := lipgloss.NewStyle().Foreground(colorSubtle)
	var bars []barchart.BarData
	for _, d := range a.week {
		style := barStyle
		if d.Hours == 0 {
			style = emptyStyle
		}
		bars = append(bars, barchart.BarData{
			Label:  d.Label,
			Values: []barchart.BarValue{{Name: d.Date, Value: d.Hours, Style: style}},
		})
	}

	a.chart.PushAll(bars)
	a.chart.Draw()
}

func (a analyzerModel) total() float64 {
	var sum float64
	for _, d := range a.week {
		sum += d.Hours
	}
	return analytics.Round2(sum)
}

func (a analyzerModel) view() string {
	w := a.width - 4

	label := ""
	if n := len(a.week); n > 0 {
		from, _ := time.Parse(store.DateFormat, a.week[0].Date)
		to, _ := time.Parse(store.DateFormat, a.week[n-1].Date)
		label = mutedStyle.Render(fmt.Sprintf("%s to %s", from.Format("Jan 02"), to.Format("Jan 02, 2006")))
	}
	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Last 7 days"), "  ", label, "  ",
		highlightStyle.Render(formatHours(a.total())),
	)

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header, "", a.renderChart(), "", a.renderDayTable(), "", a.renderTopicTable(w),
		),
	)
}

func (a analyzerModel) renderChart() string {
	if a.total() == 0 {
		return mutedStyle.Render("  No hours recorded in the last 7 days")
	}
	return a.chart.View()
}

func (a analyzerModel) renderDayTable() string {
	cells := make([]string, len(a.week))
	for i, d := range a.week {
		cells[i] = cellStyle.Render(fmt.Sprintf("%s %s", d.Label, formatHours(d.Hours)))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cells...)
}

func (a analyzerModel) renderTopicTable(w int) string {
	title := titleStyle.Render("Hours by topic")
	if len(a.topics) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, title, mutedStyle.Render("  No completed tasks yet"))
	}

	rows := []string{title}
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-24s %8s", "Topic", "Hours")))
	rows = append(rows, mutedStyle.Render("  "+strings.Repeat("─", min(w-6, 33))))
	for _, t := range a.topics {
		rows = append(rows, fmt.Sprintf("  %-24s %8s", truncate(t.Topic, 24), formatHours(t.Hours)))
	}
	return strings.Join(rows, "\n")
}
