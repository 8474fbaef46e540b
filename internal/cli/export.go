package cli

import (
	"fmt"
	"os"

	"github.com/sadopc/worklog/internal/export"
)

type ExportCmd struct {
	Format string `short:"f" help:"Output format." enum:"csv,json" default:"csv"`
	Out    string `short:"o" help:"Output file. Defaults to worklog-<date>.<format> in export_dir." type:"path"`
}

func (c *ExportCmd) Run(ctx *Context) error {
	logs, err := ctx.Store.ListDayLogs()
	if err != nil {
		return err
	}
	path := c.Out
	if path == "" {
		if err := os.MkdirAll(ctx.Config.ExportDir, 0o755); err != nil {
			return fmt.Errorf("create export dir: %w", err)
		}
		path = export.FileName(ctx.Config.ExportDir, c.Format, ctx.now())
	}

	switch c.Format {
	case "json":
		err = export.ToJSON(logs, ctx.Loc, ctx.Clock.Now(), path)
	default:
		err = export.ToCSV(logs, ctx.Loc, path)
	}
	if err != nil {
		return err
	}
	ctx.printf("Exported %d days to %s\n", len(logs), path)
	return nil
}
