package store

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewMemory()
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// ============================================================
// Store initialization
// ============================================================

func TestNewMemory(t *testing.T) {
	s, err := NewMemory()
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	var version int
	s.db.QueryRow("PRAGMA user_version").Scan(&version)
	if version != 1 {
		t.Fatalf("expected user_version 1, got %d", version)
	}
}

func TestNewWithPath(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/sub/worklog.db"
	s, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Put("k", "v"); err != nil {
		t.Fatal(err)
	}
	s.Close()

	// Reopen: data survives and migration is not re-run destructively.
	s2, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s2.Close()
	v, ok, err := s2.Get("k")
	if err != nil || !ok || v != "v" {
		t.Fatalf("Get after reopen = %q, %v, %v", v, ok, err)
	}
}

func TestDefaultDBPath(t *testing.T) {
	path, err := DefaultDBPath()
	if err != nil {
		t.Fatal(err)
	}
	if path == "" {
		t.Fatal("empty path")
	}
}

func TestMigrationIdempotent(t *testing.T) {
	s := newTestStore(t)
	if err := s.migrate(); err != nil {
		t.Fatalf("second migration failed: %v", err)
	}
}

// ============================================================
// Raw key-value access
// ============================================================

func TestGetMissingKey(t *testing.T) {
	s := newTestStore(t)
	v, ok, err := s.Get("nope")
	if err != nil {
		t.Fatal(err)
	}
	if ok || v != "" {
		t.Fatalf("expected missing key, got %q ok=%v", v, ok)
	}
}

func TestPutOverwrites(t *testing.T) {
	s := newTestStore(t)
	s.Put("k", "one")
	s.Put("k", "two")
	v, _, _ := s.Get("k")
	if v != "two" {
		t.Fatalf("last write should win, got %q", v)
	}
}

func TestDelete(t *testing.T) {
	s := newTestStore(t)
	s.Put("k", "v")
	if err := s.Delete("k"); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := s.Get("k"); ok {
		t.Fatal("key should be gone")
	}
}

func TestMalformedValuesFallBackToDefaults(t *testing.T) {
	s := newTestStore(t)
	for _, key := range []string{keyAuth, keyDayLogs, keyDayState, keyTasks, keyCompleted, keyWeekPlans} {
		if err := s.Put(key, "{not json"); err != nil {
			t.Fatal(err)
		}
	}

	if a, err := s.Auth(); err != nil || a != nil {
		t.Fatalf("Auth = %v, %v; want nil, nil", a, err)
	}
	if logs, err := s.DayLogs(); err != nil || len(logs) != 0 {
		t.Fatalf("DayLogs = %v, %v; want empty", logs, err)
	}
	if st, err := s.LoadDayState(); err != nil || st.Date != "" || st.Phase != PhaseNoSession {
		t.Fatalf("LoadDayState = %+v, %v; want zero", st, err)
	}
	if tasks, err := s.Tasks(); err != nil || len(tasks) != 0 {
		t.Fatalf("Tasks = %v, %v; want empty", tasks, err)
	}
	if done, err := s.Completed(); err != nil || len(done) != 0 {
		t.Fatalf("Completed = %v, %v; want empty", done, err)
	}
	if _, err := s.WeekPlan("2026-03-02"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("WeekPlan err = %v, want ErrNotFound", err)
	}
}

func TestWrongShapeFallsBack(t *testing.T) {
	s := newTestStore(t)
	// Valid JSON, wrong type: must not leak a half-decoded value.
	s.Put(keyTasks, `[{"id": 5, "name": "x"}]`)
	tasks, err := s.Tasks()
	if err != nil {
		t.Fatal(err)
	}
	if len(tasks) != 0 {
		t.Fatalf("expected default on type mismatch, got %+v", tasks)
	}
}

// ============================================================
// Auth
// ============================================================

func TestAuthRoundTrip(t *testing.T) {
	s := newTestStore(t)
	a, err := s.Auth()
	if err != nil || a != nil {
		t.Fatalf("fresh store should have no auth, got %v %v", a, err)
	}
	if err := s.SetAuth(&AuthState{Email: "me@example.com"}); err != nil {
		t.Fatal(err)
	}
	a, _ = s.Auth()
	if a == nil || a.Email != "me@example.com" {
		t.Fatalf("Auth = %+v", a)
	}
	if err := s.SetAuth(nil); err != nil {
		t.Fatal(err)
	}
	a, _ = s.Auth()
	if a != nil {
		t.Fatal("SetAuth(nil) should sign out")
	}
}

// ============================================================
// Day logs
// ============================================================

func TestAddSessionToDayCreatesLog(t *testing.T) {
	s := newTestStore(t)
	sess := WorkSession{ID: "a", Start: 1000, End: Millis(5000).Ptr(), Breaks: []Break{}}
	if err := s.AddSessionToDay("2026-03-02", sess, 120); err != nil {
		t.Fatal(err)
	}
	log, err := s.DayLog("2026-03-02")
	if err != nil {
		t.Fatal(err)
	}
	if log.WorkSeconds != 120 || len(log.Sessions) != 1 || log.Sessions[0].ID != "a" {
		t.Fatalf("unexpected log: %+v", log)
	}
}

func TestAddSessionToDayReplacesSameID(t *testing.T) {
	s := newTestStore(t)
	if err := s.AddSessionToDay("2026-03-02", WorkSession{ID: "a", Start: 1}, 60); err != nil {
		t.Fatal(err)
	}
	if err := s.AddSessionToDay("2026-03-02", WorkSession{ID: "b", Start: 2}, 30); err != nil {
		t.Fatal(err)
	}
	if err := s.AddSessionToDay("2026-03-02", WorkSession{ID: "a", Start: 3}, 10); err != nil {
		t.Fatal(err)
	}

	log, _ := s.DayLog("2026-03-02")
	var ids []string
	for _, sess := range log.Sessions {
		ids = append(ids, sess.ID)
	}
	if diff := cmp.Diff([]string{"b", "a"}, ids); diff != "" {
		t.Fatalf("session order (-want +got):\n%s", diff)
	}
	if log.Sessions[1].Start != 3 {
		t.Fatalf("replaced session should carry the new value, got start %d", log.Sessions[1].Start)
	}
	if log.WorkSeconds != 100 {
		t.Fatalf("WorkSeconds = %d, want 100", log.WorkSeconds)
	}
}

func TestAddSessionToDayClampsTotal(t *testing.T) {
	s := newTestStore(t)
	if err := s.AddSessionToDay("2026-03-02", WorkSession{ID: "a"}, 10); err != nil {
		t.Fatal(err)
	}
	if err := s.AddSessionToDay("2026-03-02", WorkSession{ID: "b"}, -50); err != nil {
		t.Fatal(err)
	}
	log, _ := s.DayLog("2026-03-02")
	if log.WorkSeconds != 0 {
		t.Fatalf("WorkSeconds = %d, want clamped 0", log.WorkSeconds)
	}
}

func TestDayLogMissing(t *testing.T) {
	s := newTestStore(t)
	log, err := s.DayLog("2020-01-01")
	if err != nil {
		t.Fatal(err)
	}
	if log.Date != "2020-01-01" || log.WorkSeconds != 0 || len(log.Sessions) != 0 {
		t.Fatalf("expected empty log, got %+v", log)
	}
}

func TestListDayLogsSorted(t *testing.T) {
	s := newTestStore(t)
	if err := s.SaveDayLog(DayLog{Date: "2026-03-04", WorkSeconds: 1}); err != nil {
		t.Fatal(err)
	}
	if err := s.SaveDayLog(DayLog{Date: "2026-03-02", WorkSeconds: 2}); err != nil {
		t.Fatal(err)
	}
	if err := s.SaveDayLog(DayLog{Date: "2026-03-03", WorkSeconds: 3}); err != nil {
		t.Fatal(err)
	}

	logs, err := s.ListDayLogs()
	if err != nil {
		t.Fatal(err)
	}
	var dates []string
	for _, l := range logs {
		dates = append(dates, l.Date)
	}
	if diff := cmp.Diff([]string{"2026-03-02", "2026-03-03", "2026-03-04"}, dates); diff != "" {
		t.Fatalf("dates (-want +got):\n%s", diff)
	}
}

// ============================================================
// Day state
// ============================================================

func TestDayStateRoundTrip(t *testing.T) {
	s := newTestStore(t)
	st := DayState{
		Date:                   "2026-03-02",
		AccumulatedWorkSeconds: 42,
		Session:                &WorkSession{ID: "x", Start: 1000, Breaks: []Break{{Start: 2000}}},
		Phase:                  PhaseOnBreak,
		Since:                  2000,
	}
	if err := s.SaveDayState(st); err != nil {
		t.Fatal(err)
	}
	got, err := s.LoadDayState()
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(st, got); diff != "" {
		t.Fatalf("day state (-want +got):\n%s", diff)
	}
}

func TestDayStateJSONLayout(t *testing.T) {
	st := DayState{Date: "2026-03-02", Session: &WorkSession{ID: "x", Start: 5}, Phase: PhaseWorking, Since: 7}
	data, err := json.Marshal(st)
	if err != nil {
		t.Fatal(err)
	}
	var raw map[string]any
	json.Unmarshal(data, &raw)
	if raw["currentStart"] != float64(7) {
		t.Fatalf("currentStart = %v, want 7", raw["currentStart"])
	}
	if _, ok := raw["currentBreakStart"]; ok {
		t.Fatal("currentBreakStart must be absent while working")
	}
	if raw["isOnBreak"] != false {
		t.Fatalf("isOnBreak = %v", raw["isOnBreak"])
	}
}

func TestDayStateDecodeNormalises(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		wantPhase Phase
		wantSince Millis
	}{
		{"no session ignores markers", `{"date":"d","isOnBreak":true,"currentStart":5,"currentBreakStart":6}`, PhaseNoSession, 0},
		{"both markers, on break", `{"date":"d","currentSession":{"id":"x","start":1,"breaks":[]},"isOnBreak":true,"currentStart":5,"currentBreakStart":6}`, PhaseOnBreak, 6},
		{"on break without marker uses open break", `{"date":"d","currentSession":{"id":"x","start":1,"breaks":[{"start":9}]},"isOnBreak":true}`, PhaseOnBreak, 9},
		{"working", `{"date":"d","currentSession":{"id":"x","start":1,"breaks":[]},"isOnBreak":false,"currentStart":5}`, PhaseWorking, 5},
		{"session without markers is idle", `{"date":"d","currentSession":{"id":"x","start":1,"breaks":[]},"isOnBreak":false}`, PhaseIdle, 0},
		{"zero work start is idle", `{"date":"d","currentSession":{"id":"x","start":1,"breaks":[]},"isOnBreak":false,"currentStart":0}`, PhaseIdle, 0},
		{"negative work start is idle", `{"date":"d","currentSession":{"id":"x","start":1,"breaks":[]},"isOnBreak":false,"currentStart":-4}`, PhaseIdle, 0},
		{"zero break start uses open break", `{"date":"d","currentSession":{"id":"x","start":1,"breaks":[{"start":9}]},"isOnBreak":true,"currentBreakStart":0}`, PhaseOnBreak, 9},
		{"zero break start without open break uses session start", `{"date":"d","currentSession":{"id":"x","start":1,"breaks":[]},"isOnBreak":true,"currentBreakStart":0}`, PhaseOnBreak, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var st DayState
			if err := json.Unmarshal([]byte(tt.raw), &st); err != nil {
				t.Fatal(err)
			}
			if st.Phase != tt.wantPhase || st.Since != tt.wantSince {
				t.Fatalf("phase=%v since=%d, want %v %d", st.Phase, st.Since, tt.wantPhase, tt.wantSince)
			}
		})
	}
}

func TestDayStateDecodeClampsNegative(t *testing.T) {
	var st DayState
	json.Unmarshal([]byte(`{"date":"d","accumulatedWorkSeconds":-20}`), &st)
	if st.AccumulatedWorkSeconds != 0 {
		t.Fatalf("accumulated = %d, want 0", st.AccumulatedWorkSeconds)
	}
}

// ============================================================
// Tasks and completions
// ============================================================

func TestAddTaskAssignsID(t *testing.T) {
	s := newTestStore(t)
	task, err := s.AddTask(Task{Name: "Read", Topic: "Study", EstimatedMinutes: 30, FrequencyPerWeek: 2})
	if err != nil {
		t.Fatal(err)
	}
	if task.ID == "" {
		t.Fatal("expected generated id")
	}
	tasks, _ := s.Tasks()
	if len(tasks) != 1 || tasks[0] != task {
		t.Fatalf("Tasks = %+v", tasks)
	}
}

func TestTasksKeepInsertionOrder(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.AddTask(Task{ID: "b", Name: "B"}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.AddTask(Task{ID: "a", Name: "A"}); err != nil {
		t.Fatal(err)
	}
	tasks, _ := s.Tasks()
	if tasks[0].ID != "b" || tasks[1].ID != "a" {
		t.Fatalf("order = %s,%s", tasks[0].ID, tasks[1].ID)
	}
}

func TestGetTaskByPrefix(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.AddTask(Task{ID: "abc123", Name: "A"}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.AddTask(Task{ID: "abd456", Name: "B"}); err != nil {
		t.Fatal(err)
	}

	task, err := s.GetTask("abc")
	if err != nil || task.Name != "A" {
		t.Fatalf("GetTask(abc) = %+v, %v", task, err)
	}
	if _, err := s.GetTask("ab"); err == nil {
		t.Fatal("ambiguous prefix should fail")
	}
	if _, err := s.GetTask("zzz"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestAddCompletedAllowsRepeats(t *testing.T) {
	s := newTestStore(t)
	c1, _ := s.AddCompleted("t1", "2026-03-02")
	c2, _ := s.AddCompleted("t1", "2026-03-02")
	if c1.ID == c2.ID {
		t.Fatal("completion ids must be unique")
	}
	done, _ := s.Completed()
	if len(done) != 2 {
		t.Fatalf("expected 2 completions, got %d", len(done))
	}
}

// ============================================================
// Week plans
// ============================================================

func TestWeekPlanRoundTrip(t *testing.T) {
	s := newTestStore(t)
	var a Assignments
	a[0] = []string{"t1", "t2"}
	a[3] = []string{"t1"}
	plan := WeekPlan{WeekOf: "2026-03-02", DailyTarget: 2, Assignments: a}
	if err := s.SaveWeekPlan(plan); err != nil {
		t.Fatal(err)
	}
	got, err := s.WeekPlan("2026-03-02")
	if err != nil {
		t.Fatal(err)
	}
	if got.DailyTarget != 2 || len(got.Assignments[0]) != 2 || got.Assignments[3][0] != "t1" {
		t.Fatalf("plan = %+v", got)
	}
}

func TestWeekPlanMissing(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.WeekPlan("2026-03-02"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestAssignmentsJSONObject(t *testing.T) {
	var a Assignments
	a[6] = []string{"x"}
	data, _ := json.Marshal(a)
	var raw map[string][]string
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("assignments should encode as an object: %v", err)
	}
	if len(raw) != 7 || raw["6"][0] != "x" || raw["0"] == nil {
		t.Fatalf("raw = %v", raw)
	}

	var back Assignments
	if err := json.Unmarshal([]byte(`{"0":["a"],"9":["ignored"],"x":["ignored"]}`), &back); err != nil {
		t.Fatal(err)
	}
	if len(back[0]) != 1 || back[0][0] != "a" {
		t.Fatalf("back = %v", back)
	}
}

// ============================================================
// Settings
// ============================================================

func TestDefaultSettings(t *testing.T) {
	s := newTestStore(t)
	settings, err := s.GetAllSettings()
	if err != nil {
		t.Fatal(err)
	}
	if len(settings) != 3 {
		t.Fatalf("expected 3 default settings, got %d", len(settings))
	}
	if s.DailyTarget() != 3 {
		t.Fatalf("DailyTarget = %d, want 3", s.DailyTarget())
	}
}

func TestValidateSetting(t *testing.T) {
	tests := []struct {
		key, value string
		ok         bool
	}{
		{"daily_target", "4", true},
		{"daily_target", "0", false},
		{"daily_target", "x", false},
		{"default_minutes", "45", true},
		{"default_minutes", "0", false},
		{"default_frequency", "0", true},
		{"default_frequency", "-1", false},
		{"colour", "blue", false},
	}
	for _, tt := range tests {
		err := ValidateSetting(tt.key, tt.value)
		if (err == nil) != tt.ok {
			t.Errorf("ValidateSetting(%q, %q) = %v, want ok=%v", tt.key, tt.value, err, tt.ok)
		}
	}
}

func TestSetSettingAndDailyTarget(t *testing.T) {
	s := newTestStore(t)
	if err := s.SetSetting("daily_target", "5"); err != nil {
		t.Fatal(err)
	}
	if s.DailyTarget() != 5 {
		t.Fatalf("DailyTarget = %d, want 5", s.DailyTarget())
	}
	if err := s.SetSetting("daily_target", "0"); err != nil {
		t.Fatal(err)
	}
	if s.DailyTarget() != 1 {
		t.Fatal("DailyTarget should be at least 1")
	}
	if err := s.SetSetting("daily_target", "lots"); err != nil {
		t.Fatal(err)
	}
	if s.DailyTarget() != 3 {
		t.Fatal("non-numeric target should fall back to 3")
	}
}

func TestGetSettingMissing(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.GetSetting("nope"); err == nil {
		t.Fatal("expected error for missing setting")
	}
	if s.IntSetting("nope", 9) != 9 {
		t.Fatal("IntSetting should fall back")
	}
}

// ============================================================
// Dates and elapsed time
// ============================================================

func TestWeekKey(t *testing.T) {
	loc := time.UTC
	tests := []struct {
		day  time.Time
		want string
	}{
		{time.Date(2026, 3, 2, 10, 0, 0, 0, loc), "2026-03-02"}, // Monday
		{time.Date(2026, 3, 4, 23, 0, 0, 0, loc), "2026-03-02"}, // Wednesday
		{time.Date(2026, 3, 8, 12, 0, 0, 0, loc), "2026-03-02"}, // Sunday
		{time.Date(2026, 3, 9, 0, 0, 0, 0, loc), "2026-03-09"},  // next Monday
	}
	for _, tt := range tests {
		if got := WeekKey(tt.day); got != tt.want {
			t.Errorf("WeekKey(%s) = %s, want %s", tt.day.Format(time.RFC3339), got, tt.want)
		}
	}
}

func TestDayIndex(t *testing.T) {
	mon := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 7; i++ {
		if got := DayIndex(mon.AddDate(0, 0, i)); got != i {
			t.Errorf("DayIndex(+%d) = %d", i, got)
		}
	}
}

func TestElapsedSeconds(t *testing.T) {
	tests := []struct {
		a, b Millis
		want int64
	}{
		{0, 999, 0},
		{0, 1000, 1},
		{0, 2999, 2},
		{5000, 1000, 0}, // clock skew
		{1000, 1000, 0},
	}
	for _, tt := range tests {
		if got := ElapsedSeconds(tt.a, tt.b); got != tt.want {
			t.Errorf("ElapsedSeconds(%d, %d) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestSessionClone(t *testing.T) {
	orig := WorkSession{ID: "x", Breaks: []Break{{Start: 1}}}
	c := orig.Clone()
	c.Breaks[0].End = Millis(5).Ptr()
	if orig.Breaks[0].End != nil {
		t.Fatal("clone must not share breaks")
	}
}
