package analytics

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/sadopc/worklog/internal/store"
)

var wednesday = time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)

// ============================================================
// Weekly hours
// ============================================================

func TestWeeklyHoursSingleDay(t *testing.T) {
	logs := map[string]store.DayLog{"2026-03-04": {Date: "2026-03-04", WorkSeconds: 3600}}
	got := WeeklyHours(logs, wednesday)

	var hours []float64
	for _, d := range got {
		hours = append(hours, d.Hours)
	}
	if diff := cmp.Diff([]float64{0, 0, 0, 0, 0, 0, 1}, hours); diff != "" {
		t.Fatalf("hours mismatch (-want +got):\n%s", diff)
	}
	if got[0].Date != "2026-02-26" || got[0].Label != "Thu" {
		t.Fatalf("first day = %+v", got[0])
	}
	if got[6].Date != "2026-03-04" || got[6].Label != "Wed" {
		t.Fatalf("last day = %+v", got[6])
	}
}

func TestWeeklyHoursRounding(t *testing.T) {
	logs := map[string]store.DayLog{
		"2026-03-03": {WorkSeconds: 1000},  // 0.2777 -> 0.28
		"2026-03-02": {WorkSeconds: 5400},  // 1.5
		"2026-02-20": {WorkSeconds: 99999}, // outside the window
	}
	got := WeeklyHours(logs, wednesday)
	if got[5].Hours != 0.28 || got[4].Hours != 1.5 {
		t.Fatalf("got %+v", got)
	}
	for i, d := range got {
		if i != 4 && i != 5 && d.Hours != 0 {
			t.Fatalf("day %d should be empty, got %+v", i, d)
		}
	}
}

func TestWeeklyHoursEmpty(t *testing.T) {
	got := WeeklyHours(nil, wednesday)
	if len(got) != 7 {
		t.Fatalf("len = %d", len(got))
	}
	for _, d := range got {
		if d.Hours != 0 {
			t.Fatalf("expected zero hours, got %+v", d)
		}
	}
}

// ============================================================
// Hours by topic
// ============================================================

func TestHoursByTopic(t *testing.T) {
	tasks := []store.Task{
		{ID: "a", Topic: "Go", EstimatedMinutes: 30},
		{ID: "b", Topic: "Go", EstimatedMinutes: 20},
		{ID: "c", Topic: "Art", EstimatedMinutes: 45},
	}
	completed := []store.CompletedTask{
		{TaskID: "a"}, {TaskID: "a"}, {TaskID: "b"},
		{TaskID: "c"},
		{TaskID: "deleted"},
	}
	got := HoursByTopic(completed, tasks)
	want := []TopicHours{{Topic: "Art", Hours: 0.75}, {Topic: "Go", Hours: 1.33}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("topics mismatch (-want +got):\n%s", diff)
	}
}

func TestHoursByTopicEmpty(t *testing.T) {
	if got := HoursByTopic(nil, nil); len(got) != 0 {
		t.Fatalf("expected no topics, got %+v", got)
	}
}

// ============================================================
// Month grid
// ============================================================

func TestMonthGrid(t *testing.T) {
	logs := map[string]store.DayLog{"2026-03-15": {WorkSeconds: 7200}}
	grid := MonthGrid(wednesday, logs)

	// 1 March 2026 is a Sunday, so the grid opens on Monday 23 February and
	// runs to 6 April.
	if len(grid) != 43 {
		t.Fatalf("cells = %d, want 43", len(grid))
	}
	if grid[0].Date != "2026-02-23" || grid[0].InMonth {
		t.Fatalf("first cell = %+v", grid[0])
	}
	if grid[6].Date != "2026-03-01" || !grid[6].InMonth || grid[6].Day != 1 {
		t.Fatalf("seventh cell = %+v", grid[6])
	}
	if last := grid[len(grid)-1]; last.Date != "2026-04-06" || last.InMonth {
		t.Fatalf("last cell = %+v", last)
	}

	for _, c := range grid {
		if c.Date == "2026-03-15" && c.Hours != 2 {
			t.Fatalf("15th hours = %v", c.Hours)
		}
	}
}

func TestMonthGridStartsOnMonday(t *testing.T) {
	for m := time.January; m <= time.December; m++ {
		grid := MonthGrid(time.Date(2027, m, 10, 0, 0, 0, 0, time.UTC), nil)
		first, _ := time.Parse(store.DateFormat, grid[0].Date)
		if first.Weekday() != time.Monday {
			t.Fatalf("%s grid starts on %s", m, first.Weekday())
		}
	}
}

// ============================================================
// Day detail
// ============================================================

func TestDetail(t *testing.T) {
	start := store.MillisOf(time.Date(2026, 3, 4, 9, 0, 0, 0, time.UTC))
	end := store.MillisOf(time.Date(2026, 3, 4, 11, 0, 0, 0, time.UTC))
	logs := map[string]store.DayLog{
		"2026-03-04": {
			Date:        "2026-03-04",
			WorkSeconds: 6000,
			Sessions: []store.WorkSession{
				{ID: "s1", Start: start, End: end.Ptr(), Breaks: []store.Break{
					{Start: start + 1000, End: (start + 61000).Ptr()},
					{Start: start + 100000, End: (start + 160000).Ptr()},
				}},
				{ID: "s2", Start: end},
			},
		},
	}

	dd := Detail(logs["2026-03-04"], time.UTC)
	if dd.Hours != 1.67 || len(dd.Sessions) != 2 {
		t.Fatalf("detail = %+v", dd)
	}
	s1 := dd.Sessions[0]
	if s1.Breaks != 2 || s1.BreakSeconds != 120 || s1.End == nil || s1.End.Hour() != 11 {
		t.Fatalf("s1 = %+v", s1)
	}
	if dd.Sessions[1].End != nil {
		t.Fatal("open session should have no end")
	}
}

func TestDetailMissingDay(t *testing.T) {
	dd := Detail(store.DayLog{Date: "2026-01-01"}, time.UTC)
	if dd.Hours != 0 || len(dd.Sessions) != 0 || dd.Date != "2026-01-01" {
		t.Fatalf("detail = %+v", dd)
	}
}

// ============================================================
// Formatting
// ============================================================

func TestFormatHMS(t *testing.T) {
	tests := map[int64]string{0: "00:00:00", 59: "00:00:59", 3661: "01:01:01", 90000: "25:00:00", -5: "00:00:00"}
	for in, want := range tests {
		if got := FormatHMS(in); got != want {
			t.Errorf("FormatHMS(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestRound2(t *testing.T) {
	if Round2(2.345678) != 2.35 {
		t.Fatalf("Round2 = %v", Round2(2.345678))
	}
}
