package cli

import (
	"github.com/sadopc/worklog/internal/analytics"
	"github.com/sadopc/worklog/internal/auth"
	"github.com/sadopc/worklog/internal/store"
)

type LoginCmd struct {
	Email    string `short:"e" help:"Account email." required:""`
	Password string `short:"p" help:"Account password." required:""`
}

func (c *LoginCmd) Run(ctx *Context) error {
	ok, err := ctx.Session.Login(c.Email, c.Password)
	if err != nil {
		return err
	}
	if !ok {
		return auth.ErrInvalidCredentials
	}
	ctx.printf("Signed in as %s. Work timer started.\n", c.Email)
	return nil
}

type LogoutCmd struct{}

func (c *LogoutCmd) Run(ctx *Context) error {
	if err := ctx.requireSignedIn(); err != nil {
		return err
	}
	snap, err := ctx.Timer.Read()
	if err != nil {
		return err
	}
	if err := ctx.Session.Logout(); err != nil {
		return err
	}
	ctx.printf("Session saved (%s worked today). Signed out.\n", analytics.FormatHMS(snap.WorkSecondsToday))
	return nil
}

type StatusCmd struct{}

func (c *StatusCmd) Run(ctx *Context) error {
	u, err := ctx.Auth.Current()
	if err != nil {
		return err
	}
	if u == nil {
		ctx.printf("Signed out\n")
		return nil
	}
	snap, err := ctx.Timer.Read()
	if err != nil {
		return err
	}
	ctx.printf("User:     %s\n", u.Email)
	ctx.printf("Date:     %s\n", snap.Date)
	ctx.printf("State:    %s\n", snap.Phase)
	ctx.printf("Worked:   %s\n", analytics.FormatHMS(snap.WorkSecondsToday))
	if snap.IsOnBreak {
		ctx.printf("On break: %s\n", analytics.FormatHMS(snap.BreakSecondsCurrent))
	}
	return nil
}

type WorkCmd struct{}

func (c *WorkCmd) Run(ctx *Context) error {
	if err := ctx.requireSignedIn(); err != nil {
		return err
	}
	if err := ctx.Timer.StartWork(); err != nil {
		return err
	}
	return ctx.printPhase()
}

type BreakStartCmd struct{}

func (c *BreakStartCmd) Run(ctx *Context) error {
	if err := ctx.requireSignedIn(); err != nil {
		return err
	}
	if err := ctx.Timer.StartBreak(); err != nil {
		return err
	}
	return ctx.printPhase()
}

type BreakEndCmd struct{}

func (c *BreakEndCmd) Run(ctx *Context) error {
	if err := ctx.requireSignedIn(); err != nil {
		return err
	}
	if err := ctx.Timer.EndBreak(); err != nil {
		return err
	}
	return ctx.printPhase()
}

func (ctx *Context) printPhase() error {
	snap, err := ctx.Timer.Read()
	if err != nil {
		return err
	}
	switch snap.Phase {
	case store.PhaseWorking:
		ctx.printf("Working (%s today).\n", analytics.FormatHMS(snap.WorkSecondsToday))
	case store.PhaseOnBreak:
		ctx.printf("On break (%s worked today).\n", analytics.FormatHMS(snap.WorkSecondsToday))
	default:
		ctx.printf("No session is being timed.\n")
	}
	return nil
}
