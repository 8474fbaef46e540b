package cli

import "github.com/sadopc/worklog/internal/store"

type SettingsListCmd struct{}

func (c *SettingsListCmd) Run(ctx *Context) error {
	settings, err := ctx.Store.GetAllSettings()
	if err != nil {
		return err
	}
	for _, s := range settings {
		ctx.printf("%-18s %s\n", s.Key, s.Value)
	}
	return nil
}

type SettingsSetCmd struct {
	Key   string `arg:"" help:"Setting name (daily_target, default_minutes, default_frequency)."`
	Value string `arg:"" help:"New value."`
}

func (c *SettingsSetCmd) Validate() error {
	return store.ValidateSetting(c.Key, c.Value)
}

func (c *SettingsSetCmd) Run(ctx *Context) error {
	if err := ctx.Store.SetSetting(c.Key, c.Value); err != nil {
		return err
	}
	ctx.printf("%s = %s\n", c.Key, c.Value)
	return nil
}
