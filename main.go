package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"github.com/sadopc/worklog/internal/cli"
	"github.com/sadopc/worklog/internal/clock"
	"github.com/sadopc/worklog/internal/config"
	"github.com/sadopc/worklog/internal/logger"
	"github.com/sadopc/worklog/internal/store"
)

var CLI struct {
	Version kong.VersionFlag `help:"Print version and exit."`
	Config  string           `help:"Config file path." type:"path" default:"${config_path}"`
	DB      string           `name:"db" help:"Database path. Overrides db_path from the config file." type:"path"`
	Debug   bool             `help:"Log at debug level and mirror logs to stderr."`

	Tui    cli.TuiCmd    `cmd:"" help:"Launch the interactive app." default:"1"`
	Login  cli.LoginCmd  `cmd:"" help:"Sign in and start the work timer."`
	Logout cli.LogoutCmd `cmd:"" help:"Save today's session and sign out."`
	Status cli.StatusCmd `cmd:"" help:"Show the timer for today."`
	Work   cli.WorkCmd   `cmd:"" help:"Resume timing an idle session."`
	Break  struct {
		Start cli.BreakStartCmd `cmd:"" help:"Start a break."`
		End   cli.BreakEndCmd   `cmd:"" help:"End the current break."`
	} `cmd:"" help:"Manage breaks."`
	Task struct {
		Add  cli.TaskAddCmd  `cmd:"" help:"Add a task."`
		List cli.TaskListCmd `cmd:"" help:"List tasks."`
		Done cli.TaskDoneCmd `cmd:"" help:"Record a task completion."`
	} `cmd:"" help:"Manage tasks."`
	Plan struct {
		Show       cli.PlanShowCmd       `cmd:"" help:"Show the week's plan." default:"1"`
		Distribute cli.PlanDistributeCmd `cmd:"" help:"Spread tasks over the week, replacing manual moves."`
		Move       cli.PlanMoveCmd       `cmd:"" help:"Move one occurrence of a task to another day."`
	} `cmd:"" help:"Weekly planner."`
	Report struct {
		Week   cli.ReportWeekCmd   `cmd:"" help:"Hours worked over the last 7 days." default:"1"`
		Topics cli.ReportTopicsCmd `cmd:"" help:"Hours of completed tasks by topic."`
	} `cmd:"" help:"Reports."`
	Calendar  cli.CalendarCmd `cmd:"" help:"Month view of hours worked."`
	Day       cli.DayCmd      `cmd:"" help:"Sessions of one day."`
	Export    cli.ExportCmd   `cmd:"" help:"Export day logs to CSV or JSON."`
	Configure struct {
		Show cli.ConfigShowCmd `cmd:"" help:"Show the effective configuration." default:"1"`
		Init cli.ConfigInitCmd `cmd:"" help:"Write a default config file."`
	} `cmd:"" name:"config" help:"Inspect or create the config file."`
	Settings struct {
		List cli.SettingsListCmd `cmd:"" help:"List settings." default:"1"`
		Set  cli.SettingsSetCmd  `cmd:"" help:"Change a setting."`
	} `cmd:"" help:"View or change settings."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("worklog"),
		kong.Description("Work timer, weekly task planner and hours analyzer."),
		kong.UsageOnError(),
		kong.Vars{"version": "v0.1.0", "config_path": config.DefaultPath()},
	)

	cfg, err := config.Load(CLI.Config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if CLI.DB != "" {
		cfg.DBPath = CLI.DB
	}
	cfg.Debug = cfg.Debug || CLI.Debug

	if err := logger.Init(logger.Config{Debug: cfg.Debug, DataDir: cfg.DataDir()}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: file logging disabled: %v\n", err)
	}

	s, err := store.New(cfg.DBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
		os.Exit(1)
	}
	defer s.Close()

	appCtx, err := cli.NewContext(cfg, s, clock.Real{})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	appCtx.ConfigPath = CLI.Config

	logger.Debug("running command", "command", ctx.Command(), "db", cfg.DBPath)
	if err := ctx.Run(appCtx); err != nil {
		logger.Error("command failed", "command", ctx.Command(), "err", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		s.Close()
		os.Exit(1)
	}
}
