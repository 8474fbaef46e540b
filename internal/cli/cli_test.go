package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sadopc/worklog/internal/auth"
	"github.com/sadopc/worklog/internal/clock"
	"github.com/sadopc/worklog/internal/config"
	"github.com/sadopc/worklog/internal/planner"
	"github.com/sadopc/worklog/internal/store"
)

func setupTestContext(t *testing.T) (*Context, *bytes.Buffer, *clock.Fake) {
	t.Helper()
	s, err := store.NewMemory()
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	cfg := config.Default()
	cfg.Timezone = "UTC"
	cfg.ExportDir = t.TempDir()

	fc := clock.NewFake(time.Date(2026, 3, 4, 9, 0, 0, 0, time.UTC))
	ctx, err := NewContext(cfg, s, fc)
	if err != nil {
		t.Fatal(err)
	}
	var out bytes.Buffer
	ctx.Out = &out
	return ctx, &out, fc
}

func login(t *testing.T, ctx *Context) {
	t.Helper()
	if err := (&LoginCmd{Email: config.DefaultEmail, Password: config.DefaultPassword}).Run(ctx); err != nil {
		t.Fatalf("login: %v", err)
	}
}

// ============================================================
// Session commands
// ============================================================

func TestLoginRejected(t *testing.T) {
	ctx, _, _ := setupTestContext(t)
	err := (&LoginCmd{Email: config.DefaultEmail, Password: "wrong"}).Run(ctx)
	if !errors.Is(err, auth.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLoginBreakLogout(t *testing.T) {
	ctx, out, fc := setupTestContext(t)
	login(t, ctx)

	fc.Advance(30 * time.Minute)
	if err := (&BreakStartCmd{}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "On break (00:30:00 worked today)") {
		t.Fatalf("output = %q", out.String())
	}

	fc.Advance(10 * time.Minute)
	out.Reset()
	if err := (&StatusCmd{}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"State:    on_break", "Worked:   00:30:00", "On break: 00:10:00"} {
		if !strings.Contains(out.String(), want) {
			t.Fatalf("status missing %q:\n%s", want, out.String())
		}
	}

	(&BreakEndCmd{}).Run(ctx)
	fc.Advance(15 * time.Minute)
	out.Reset()
	if err := (&LogoutCmd{}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "00:45:00") {
		t.Fatalf("logout output = %q", out.String())
	}

	log, _ := ctx.Store.DayLog("2026-03-04")
	if log.WorkSeconds != 2700 {
		t.Fatalf("WorkSeconds = %d, want 2700", log.WorkSeconds)
	}
}

func TestWriteCommandsNeedSignIn(t *testing.T) {
	ctx, _, _ := setupTestContext(t)
	for _, run := range []func(*Context) error{
		(&BreakStartCmd{}).Run,
		(&BreakEndCmd{}).Run,
		(&WorkCmd{}).Run,
		(&LogoutCmd{}).Run,
		(&TaskAddCmd{Name: "Read", Topic: "Books"}).Run,
		(&TaskDoneCmd{ID: "abc"}).Run,
		(&PlanDistributeCmd{}).Run,
		(&PlanMoveCmd{ID: "abc", From: "mon", To: "tue"}).Run,
	} {
		if err := run(ctx); !errors.Is(err, ErrNotSignedIn) {
			t.Fatalf("expected ErrNotSignedIn, got %v", err)
		}
	}
}

func TestStatusSignedOut(t *testing.T) {
	ctx, out, _ := setupTestContext(t)
	if err := (&StatusCmd{}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out.String()) != "Signed out" {
		t.Fatalf("output = %q", out.String())
	}
}

// ============================================================
// Tasks and plan
// ============================================================

func TestTaskAddUsesSettingDefaults(t *testing.T) {
	ctx, _, _ := setupTestContext(t)
	login(t, ctx)
	if err := ctx.Store.SetSetting("default_minutes", "45"); err != nil {
		t.Fatal(err)
	}
	if err := (&TaskAddCmd{Name: "Read", Topic: "Books"}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	zero := 0
	if err := (&TaskAddCmd{Name: "Gym", Topic: "Health", Minutes: 60, Freq: &zero}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	tasks, _ := ctx.Store.Tasks()
	if len(tasks) != 2 {
		t.Fatalf("tasks = %d", len(tasks))
	}
	if tasks[0].EstimatedMinutes != 45 || tasks[0].FrequencyPerWeek != 2 {
		t.Fatalf("first task = %+v", tasks[0])
	}
	if tasks[1].EstimatedMinutes != 60 || tasks[1].FrequencyPerWeek != 0 {
		t.Fatalf("second task = %+v", tasks[1])
	}
}

func TestTaskAddValidate(t *testing.T) {
	neg := -1
	if err := (&TaskAddCmd{Name: "x", Topic: "y", Freq: &neg}).Validate(); err == nil {
		t.Fatal("expected error for negative freq")
	}
	if err := (&TaskAddCmd{Name: "x", Topic: "y", Minutes: -5}).Validate(); err == nil {
		t.Fatal("expected error for negative minutes")
	}
}

func TestPlanDistributeMoveShow(t *testing.T) {
	ctx, out, _ := setupTestContext(t)
	login(t, ctx)
	three, two := 3, 2
	if err := (&TaskAddCmd{Name: "Alpha", Topic: "t", Minutes: 10, Freq: &three}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if err := (&TaskAddCmd{Name: "Beta", Topic: "t", Minutes: 10, Freq: &two}).Run(ctx); err != nil {
		t.Fatal(err)
	}

	out.Reset()
	if err := (&PlanDistributeCmd{Target: 2}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "Week of 2026-03-02, daily target 2\n") {
		t.Fatalf("output = %q", out.String())
	}
	if !strings.Contains(out.String(), "Thu  Beta") {
		t.Fatalf("output = %q", out.String())
	}

	tasks, _ := ctx.Store.Tasks()
	beta := tasks[1].ID
	if err := (&PlanMoveCmd{ID: beta[:6], From: "thu", To: "mon"}).Run(ctx); err != nil {
		t.Fatal(err)
	}

	out.Reset()
	if err := (&PlanShowCmd{}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "Mon  Alpha, Beta") || !strings.Contains(out.String(), "Thu  -") {
		t.Fatalf("output = %q", out.String())
	}

	err := (&PlanMoveCmd{ID: beta, From: "sun", To: "mon"}).Run(ctx)
	if !errors.Is(err, planner.ErrTaskNotOnDay) {
		t.Fatalf("expected ErrTaskNotOnDay, got %v", err)
	}
}

func TestPlanShowUnsaved(t *testing.T) {
	ctx, out, _ := setupTestContext(t)
	if err := (&PlanShowCmd{Week: "2026-03-08"}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "Week of 2026-03-02") || !strings.Contains(out.String(), "not saved") {
		t.Fatalf("output = %q", out.String())
	}
	if err := (&PlanShowCmd{Week: "March"}).Run(ctx); err == nil {
		t.Fatal("expected invalid date error")
	}
}

func TestTaskDone(t *testing.T) {
	ctx, out, _ := setupTestContext(t)
	login(t, ctx)
	if err := (&TaskAddCmd{Name: "Read", Topic: "Books", Minutes: 90}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	tasks, _ := ctx.Store.Tasks()

	out.Reset()
	if err := (&TaskDoneCmd{ID: tasks[0].ID}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "Marked Read done on 2026-03-04") {
		t.Fatalf("output = %q", out.String())
	}

	out.Reset()
	(&ReportTopicsCmd{}).Run(ctx)
	if !strings.Contains(out.String(), "Books") || !strings.Contains(out.String(), "1.50h") {
		t.Fatalf("topics output = %q", out.String())
	}
}

// ============================================================
// Reports
// ============================================================

func seedDay(t *testing.T, ctx *Context, date string, secs int64) {
	t.Helper()
	d, _ := store.ParseDay(date, time.UTC)
	start := store.MillisOf(d.Add(9 * time.Hour))
	sess := store.WorkSession{ID: "s-" + date, Start: start, End: (start + store.Millis(secs*1000)).Ptr()}
	if err := ctx.Store.AddSessionToDay(date, sess, secs); err != nil {
		t.Fatal(err)
	}
}

func TestReportWeek(t *testing.T) {
	ctx, out, _ := setupTestContext(t)
	seedDay(t, ctx, "2026-03-04", 3600)
	if err := (&ReportWeekCmd{}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 8 {
		t.Fatalf("lines = %d:\n%s", len(lines), out.String())
	}
	if !strings.Contains(lines[7], "Wed 2026-03-04    1.00h") {
		t.Fatalf("last line = %q", lines[7])
	}
	if !strings.Contains(lines[1], "0.00h") {
		t.Fatalf("first line = %q", lines[1])
	}
}

func TestCalendarAndDay(t *testing.T) {
	ctx, out, _ := setupTestContext(t)
	seedDay(t, ctx, "2026-03-15", 5400)

	if err := (&CalendarCmd{Month: "2026-03"}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "March 2026") || !strings.Contains(out.String(), "151.5") {
		t.Fatalf("calendar output:\n%s", out.String())
	}
	if err := (&CalendarCmd{Month: "03/2026"}).Run(ctx); err == nil {
		t.Fatal("expected invalid month error")
	}

	out.Reset()
	if err := (&DayCmd{Date: "2026-03-15"}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Total: 1.50 hours", "09:00:00 - 10:30:00  (0 breaks, 00:00:00)"} {
		if !strings.Contains(out.String(), want) {
			t.Fatalf("day output missing %q:\n%s", want, out.String())
		}
	}

	out.Reset()
	(&DayCmd{}).Run(ctx)
	if !strings.Contains(out.String(), "2026-03-04") || !strings.Contains(out.String(), "No sessions") {
		t.Fatalf("today output:\n%s", out.String())
	}
}

// ============================================================
// Export and settings
// ============================================================

func TestExportDefaultPath(t *testing.T) {
	ctx, _, _ := setupTestContext(t)
	seedDay(t, ctx, "2026-03-03", 60)
	if err := (&ExportCmd{Format: "json"}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(ctx.Config.ExportDir, "worklog-2026-03-04.json")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"session_id": "s-2026-03-03"`) {
		t.Fatalf("export:\n%s", data)
	}
}

func TestExportCSV(t *testing.T) {
	ctx, _, _ := setupTestContext(t)
	seedDay(t, ctx, "2026-03-03", 60)
	path := filepath.Join(t.TempDir(), "out.csv")
	if err := (&ExportCmd{Format: "csv", Out: path}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	data, _ := os.ReadFile(path)
	if !strings.HasPrefix(string(data), "Date,Session,") {
		t.Fatalf("csv:\n%s", data)
	}
}

func TestSettings(t *testing.T) {
	ctx, out, _ := setupTestContext(t)
	if err := (&SettingsSetCmd{Key: "daily_target", Value: "0"}).Validate(); err == nil {
		t.Fatal("expected validation error")
	}
	cmd := &SettingsSetCmd{Key: "daily_target", Value: "5"}
	if err := cmd.Validate(); err != nil {
		t.Fatal(err)
	}
	cmd.Run(ctx)
	if ctx.Store.DailyTarget() != 5 {
		t.Fatalf("DailyTarget = %d", ctx.Store.DailyTarget())
	}

	out.Reset()
	(&SettingsListCmd{}).Run(ctx)
	if !strings.Contains(out.String(), "daily_target       5") {
		t.Fatalf("settings:\n%s", out.String())
	}
}

// ============================================================
// Config commands
// ============================================================

func TestConfigInit(t *testing.T) {
	ctx, out, _ := setupTestContext(t)
	ctx.ConfigPath = filepath.Join(t.TempDir(), "worklog", "config.yaml")

	if err := (&ConfigInitCmd{}).Run(ctx); err != nil {
		t.Fatalf("config init: %v", err)
	}
	if !strings.Contains(out.String(), "Wrote ") {
		t.Fatalf("output = %q", out.String())
	}
	cfg, err := config.Load(ctx.ConfigPath)
	if err != nil {
		t.Fatalf("load written config: %v", err)
	}
	if cfg.IdleTimeout != "5m" {
		t.Fatalf("IdleTimeout = %q", cfg.IdleTimeout)
	}

	if err := (&ConfigInitCmd{}).Run(ctx); err == nil {
		t.Fatal("expected error for existing file")
	}
	if err := (&ConfigInitCmd{Force: true}).Run(ctx); err != nil {
		t.Fatalf("config init --force: %v", err)
	}
}

func TestConfigShow(t *testing.T) {
	ctx, out, _ := setupTestContext(t)
	ctx.ConfigPath = "/tmp/worklog.yaml"
	if err := (&ConfigShowCmd{}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"/tmp/worklog.yaml", "UTC", "5m", config.DefaultEmail} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("config show missing %q:\n%s", want, out.String())
		}
	}
}
