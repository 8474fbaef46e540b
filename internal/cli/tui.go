package cli

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sadopc/worklog/internal/tui"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *Context) error {
	idle, err := ctx.Config.Idle()
	if err != nil {
		return err
	}
	app := tui.NewApp(tui.Deps{
		Store:       ctx.Store,
		Timer:       ctx.Timer,
		Planner:     ctx.Planner,
		Session:     ctx.Session,
		Clock:       ctx.Clock,
		Loc:         ctx.Loc,
		IdleTimeout: idle,
		ExportDir:   ctx.Config.ExportDir,
	})
	p := tea.NewProgram(app, tea.WithAltScreen())
	_, err = p.Run()
	return err
}
