// Package config loads worklog's settings file.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultEmail    = "harsh@gmail.com"
	DefaultPassword = "123"
)

type Credentials struct {
	Email    string `yaml:"email" json:"email"`
	Password string `yaml:"password" json:"password"`
}

type Config struct {
	DBPath      string      `yaml:"db_path" json:"db_path"`
	Timezone    string      `yaml:"timezone" json:"timezone"`
	IdleTimeout string      `yaml:"idle_timeout" json:"idle_timeout"`
	Debug       bool        `yaml:"debug" json:"debug"`
	Credentials Credentials `yaml:"credentials" json:"credentials"`
	ExportDir   string      `yaml:"export_dir" json:"export_dir"`
}

// Dir returns <user config dir>/worklog.
func Dir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "worklog"), nil
}

// DefaultPath is the config file used when --config is not given.
func DefaultPath() string {
	dir, err := Dir()
	if err != nil {
		return "worklog.yaml"
	}
	return filepath.Join(dir, "config.yaml")
}

func Default() *Config {
	dir, err := Dir()
	if err != nil {
		dir = "."
	}
	home, _ := os.UserHomeDir()
	return &Config{
		DBPath:      filepath.Join(dir, "worklog.db"),
		Timezone:    "Local",
		IdleTimeout: "5m",
		Credentials: Credentials{Email: DefaultEmail, Password: DefaultPassword},
		ExportDir:   home,
	}
}

// Load reads path over the defaults. A missing file yields the defaults.
// YAML and JSON are picked by extension; anything else is tried as YAML.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse JSON config: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse YAML config: %w", err)
		}
	}

	cfg.DBPath = expandHome(cfg.DBPath)
	cfg.ExportDir = expandHome(cfg.ExportDir)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes cfg to path, creating its directory.
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	var (
		data []byte
		err  error
	)
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		data, err = json.MarshalIndent(cfg, "", "  ")
	} else {
		data, err = yaml.Marshal(cfg)
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0o600)
}

func (c *Config) Validate() error {
	if _, err := c.Location(); err != nil {
		return err
	}
	if _, err := c.Idle(); err != nil {
		return err
	}
	if strings.TrimSpace(c.Credentials.Email) == "" {
		return errors.New("credentials.email must not be empty")
	}
	return nil
}

// Location resolves the timezone that defines calendar days.
func (c *Config) Location() (*time.Location, error) {
	switch c.Timezone {
	case "", "Local", "local":
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Idle returns the idle timeout. Zero disables idle detection.
func (c *Config) Idle() (time.Duration, error) {
	if c.IdleTimeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.IdleTimeout)
	if err != nil {
		return 0, fmt.Errorf("invalid idle_timeout %q: %w", c.IdleTimeout, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("idle_timeout must not be negative, got %s", d)
	}
	return d, nil
}

// DataDir is the directory holding the database and logs.
func (c *Config) DataDir() string {
	return filepath.Dir(c.DBPath)
}

func expandHome(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}
