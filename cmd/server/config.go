package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/hazyhaar/climate-dashboard/pkg/dashboard"
)

type tlsConfig struct {
	Enabled  bool   `yaml:"enabled"`
	CertFile string `yaml:"cert_file"`
	KeyFile  string `yaml:"key_file"`
}

type config struct {
	Addr          string        `yaml:"addr"`
	LogLevel      string        `yaml:"log_level"`
	DataDir       string        `yaml:"data_dir"`
	Encoding      string        `yaml:"encoding"`
	Cache         bool          `yaml:"cache"`
	CatalogDB     string        `yaml:"catalog_db"`
	CheckInterval time.Duration `yaml:"check_interval"`
	MCP           bool          `yaml:"mcp"`
	TLS           tlsConfig     `yaml:"tls"`

	dashboard.Config `yaml:",inline"`
}

func defaultConfig() config {
	return config{
		Addr:          ":3001",
		LogLevel:      "info",
		DataDir:       "data",
		CatalogDB:     "dashboard.db",
		CheckInterval: 5 * time.Minute,
		MCP:           true,
		Config:        dashboard.DefaultConfig(),
	}
}

// loadConfig reads path over the defaults. A missing file yields the
// defaults unchanged.
func loadConfig(path string) (config, bool, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, false, nil
		}
		return cfg, false, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, true, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return cfg, true, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, true, nil
}

func (c config) validate() error {
	if c.Addr == "" {
		return errors.New("addr is required")
	}
	if c.Years.Combined.From > c.CutoffYear || c.CutoffYear > c.Years.Combined.To {
		return fmt.Errorf("cutoff_year %d outside combined years %d-%d",
			c.CutoffYear, c.Years.Combined.From, c.Years.Combined.To)
	}
	if c.TopLimit <= 0 {
		return fmt.Errorf("top_limit must be positive, got %d", c.TopLimit)
	}
	if _, err := c.level(); err != nil {
		return err
	}
	return nil
}

func (c config) level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.ToUpper(c.LogLevel))); err != nil {
		return slog.LevelInfo, fmt.Errorf("log_level: %w", err)
	}
	return l, nil
}

func newLogger(c config) *slog.Logger {
	level, _ := c.level()
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
