package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig_Missing(t *testing.T) {
	cfg, found, err := loadConfig(filepath.Join(t.TempDir(), "none.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if found {
		t.Error("found = true for a missing file")
	}
	if cfg.Addr != ":3001" || cfg.CutoffYear != 2020 || cfg.Files.GDP != "country_gdp_filtered.csv" {
		t.Errorf("defaults not applied: %+v", cfg)
	}
}

func TestLoadConfig_Overrides(t *testing.T) {
	path := writeConfig(t, `
addr: ":9000"
log_level: debug
data_dir: /srv/climate
cache: true
check_interval: 90s
tls:
  enabled: true
files:
  population: pop.csv
years:
  emissions:
    from: 2000
    to: 2019
top_limit: 5
`)
	cfg, found, err := loadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if !found {
		t.Error("found = false")
	}
	if cfg.Addr != ":9000" || cfg.DataDir != "/srv/climate" || !cfg.Cache || !cfg.TLS.Enabled {
		t.Errorf("server fields: %+v", cfg)
	}
	if cfg.CheckInterval != 90*time.Second {
		t.Errorf("check_interval = %v", cfg.CheckInterval)
	}
	if cfg.Files.Population != "pop.csv" {
		t.Errorf("files.population = %q", cfg.Files.Population)
	}
	// Fields absent from the file keep their defaults.
	if cfg.Files.GDP != "country_gdp_filtered.csv" {
		t.Errorf("files.gdp = %q", cfg.Files.GDP)
	}
	if cfg.Years.Emissions.From != 2000 || cfg.Years.Emissions.To != 2019 || cfg.Years.Combined.To != 2030 {
		t.Errorf("years = %+v", cfg.Years)
	}
	if cfg.TopLimit != 5 || cfg.Filters.Gas != "All GHG" {
		t.Errorf("top_limit = %d, gas = %q", cfg.TopLimit, cfg.Filters.Gas)
	}
	if l, _ := cfg.level(); l != slog.LevelDebug {
		t.Errorf("level = %v", l)
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	for name, body := range map[string]string{
		"syntax":    "addr: [",
		"level":     "log_level: loud",
		"cutoff":    "cutoff_year: 2040",
		"top limit": "top_limit: 0",
		"empty":     `addr: ""`,
	} {
		t.Run(name, func(t *testing.T) {
			if _, _, err := loadConfig(writeConfig(t, body)); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestParseToolArgs(t *testing.T) {
	got, err := parseToolArgs([]string{"type=gdp", "countries=USA,FRA", "year="})
	if err != nil {
		t.Fatal(err)
	}
	if got["type"] != "gdp" || got["countries"] != "USA,FRA" || got["year"] != "" {
		t.Errorf("got %v", got)
	}
	if _, err := parseToolArgs([]string{"oops"}); err == nil {
		t.Error("missing '=' accepted")
	}
}
