package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/sadopc/worklog/internal/config"
)

// ConfigInitCmd writes the default config so it can be edited by hand.
type ConfigInitCmd struct {
	Force bool `help:"Overwrite an existing config file."`
}

func (c *ConfigInitCmd) Run(ctx *Context) error {
	if ctx.ConfigPath == "" {
		return errors.New("no config path")
	}
	if _, err := os.Stat(ctx.ConfigPath); err == nil && !c.Force {
		return fmt.Errorf("%s already exists, use --force to overwrite", ctx.ConfigPath)
	}
	if err := config.Save(config.Default(), ctx.ConfigPath); err != nil {
		return err
	}
	ctx.printf("Wrote %s\n", ctx.ConfigPath)
	return nil
}

type ConfigShowCmd struct{}

func (c *ConfigShowCmd) Run(ctx *Context) error {
	idle := ctx.Config.IdleTimeout
	if idle == "" || idle == "0" {
		idle = "off"
	}
	ctx.printf("%-14s %s\n", "config", ctx.ConfigPath)
	ctx.printf("%-14s %s\n", "db_path", ctx.Config.DBPath)
	ctx.printf("%-14s %s\n", "timezone", ctx.Loc.String())
	ctx.printf("%-14s %s\n", "idle_timeout", idle)
	ctx.printf("%-14s %s\n", "export_dir", ctx.Config.ExportDir)
	ctx.printf("%-14s %s\n", "email", ctx.Config.Credentials.Email)
	return nil
}
