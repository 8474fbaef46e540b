// Package cli holds the worklog subcommands. Each command is a kong struct
// whose Run method receives the shared Context.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sadopc/worklog/internal/app"
	"github.com/sadopc/worklog/internal/auth"
	"github.com/sadopc/worklog/internal/clock"
	"github.com/sadopc/worklog/internal/config"
	"github.com/sadopc/worklog/internal/planner"
	"github.com/sadopc/worklog/internal/store"
	"github.com/sadopc/worklog/internal/timer"
)

var ErrNotSignedIn = errors.New("not signed in, run `worklog login` first")

type Context struct {
	Config     *config.Config
	ConfigPath string
	Store      *store.Store
	Clock      clock.Clock
	Loc        *time.Location
	Timer      *timer.Timer
	Planner    *planner.Service
	Auth       *auth.Service
	Session    *app.Session
	Out        io.Writer
}

// NewContext wires the services over an open store.
func NewContext(cfg *config.Config, s *store.Store, c clock.Clock) (*Context, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	tm := timer.New(s, c, loc)
	a := auth.NewService(s, auth.Credentials{Email: cfg.Credentials.Email, Password: cfg.Credentials.Password})
	return &Context{
		Config:  cfg,
		Store:   s,
		Clock:   c,
		Loc:     loc,
		Timer:   tm,
		Planner: planner.NewService(s, c, loc),
		Auth:    a,
		Session: app.NewSession(a, tm),
		Out:     os.Stdout,
	}, nil
}

func (ctx *Context) printf(format string, args ...any) {
	fmt.Fprintf(ctx.Out, format, args...)
}

func (ctx *Context) now() time.Time {
	return ctx.Clock.Now().In(ctx.Loc)
}

func (ctx *Context) requireSignedIn() error {
	in, err := ctx.Session.SignedIn()
	if err != nil {
		return err
	}
	if !in {
		return ErrNotSignedIn
	}
	return nil
}

// taskNames maps task ids to names for display.
func (ctx *Context) taskNames() (map[string]store.Task, error) {
	tasks, err := ctx.Store.Tasks()
	if err != nil {
		return nil, err
	}
	m := make(map[string]store.Task, len(tasks))
	for _, t := range tasks {
		m[t.ID] = t
	}
	return m, nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
