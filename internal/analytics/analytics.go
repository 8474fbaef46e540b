// Package analytics derives read-only summaries from day logs and task
// completions. Nothing here writes.
package analytics

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/sadopc/worklog/internal/store"
)

type DayHours struct {
	Date  string
	Label string // short weekday
	Hours float64
}

type TopicHours struct {
	Topic string
	Hours float64
}

// CalendarDay is one cell of a month grid.
type CalendarDay struct {
	Date    string
	Day     int
	InMonth bool
	Hours   float64
}

type SessionDetail struct {
	ID           string
	Start        time.Time
	End          *time.Time // nil while the session is still open
	Breaks       int
	BreakSeconds int64
}

type DayDetail struct {
	Date     string
	Hours    float64
	Sessions []SessionDetail
}

// Round2 rounds to two decimal places.
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}

func hoursOf(secs int64) float64 {
	return Round2(float64(secs) / 3600)
}

// WeeklyHours returns the seven days ending on today, oldest first. Days
// without a log count as zero.
func WeeklyHours(logs map[string]store.DayLog, today time.Time) []DayHours {
	start := store.StartOfDay(today).AddDate(0, 0, -6)
	out := make([]DayHours, 0, 7)
	for i := 0; i < 7; i++ {
		d := start.AddDate(0, 0, i)
		key := store.DayKey(d)
		out = append(out, DayHours{
			Date:  key,
			Label: d.Format("Mon"),
			Hours: hoursOf(logs[key].WorkSeconds),
		})
	}
	return out
}

// HoursByTopic credits each completion with its task's estimated minutes.
// Completions of unknown tasks are skipped. Results are sorted by topic.
func HoursByTopic(completed []store.CompletedTask, tasks []store.Task) []TopicHours {
	byID := make(map[string]store.Task, len(tasks))
	for _, t := range tasks {
		byID[t.ID] = t
	}
	minutes := make(map[string]float64)
	for _, c := range completed {
		t, ok := byID[c.TaskID]
		if !ok {
			continue
		}
		minutes[t.Topic] += float64(t.EstimatedMinutes)
	}

	out := make([]TopicHours, 0, len(minutes))
	for topic, m := range minutes {
		out = append(out, TopicHours{Topic: topic, Hours: Round2(m / 60)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Topic < out[j].Topic })
	return out
}

// MonthGrid lays out month as Monday-first weeks, from the Monday on or
// before the 1st through six days past the month's last day.
func MonthGrid(month time.Time, logs map[string]store.DayLog) []CalendarDay {
	first := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, month.Location())
	last := first.AddDate(0, 1, -1)
	end := last.AddDate(0, 0, 6)

	var out []CalendarDay
	for d := store.StartOfWeek(first); !d.After(end); d = d.AddDate(0, 0, 1) {
		key := store.DayKey(d)
		out = append(out, CalendarDay{
			Date:    key,
			Day:     d.Day(),
			InMonth: d.Month() == first.Month(),
			Hours:   hoursOf(logs[key].WorkSeconds),
		})
	}
	return out
}

// Detail summarises one day's log. Session times are shown in loc.
func Detail(log store.DayLog, loc *time.Location) DayDetail {
	dd := DayDetail{Date: log.Date, Hours: hoursOf(log.WorkSeconds)}
	for _, s := range log.Sessions {
		sd := SessionDetail{
			ID:           s.ID,
			Start:        s.Start.Time().In(loc),
			Breaks:       len(s.Breaks),
			BreakSeconds: s.BreakSeconds(),
		}
		if s.End != nil {
			end := s.End.Time().In(loc)
			sd.End = &end
		}
		dd.Sessions = append(dd.Sessions, sd)
	}
	return dd
}

// FormatHMS renders seconds as HH:MM:SS. Negative input renders as zero.
func FormatHMS(secs int64) string {
	if secs < 0 {
		secs = 0
	}
	return fmt.Sprintf("%02d:%02d:%02d", secs/3600, secs/60%60, secs%60)
}
