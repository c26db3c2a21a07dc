package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadUsesDefaultsWhenFileMissing(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load(context.Background(), "")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Database.DSN != "data/safetrack.db" {
		t.Fatalf("database.dsn = %q", cfg.Database.DSN)
	}
	if cfg.Dashboard.LookaheadDays != 30 {
		t.Fatalf("dashboard.lookahead_days = %d", cfg.Dashboard.LookaheadDays)
	}
	if !cfg.Import.DayFirst {
		t.Fatalf("import.day_first expected true")
	}
	if len(cfg.Import.Columns.Registration) == 0 || cfg.Import.Columns.Registration[0] != "MATRICULA" {
		t.Fatalf("import.columns.registration = %v", cfg.Import.Columns.Registration)
	}
}

func TestLoadReadsYAMLAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	path := filepath.Join(dir, "config.yaml")
	content := "database:\n  dsn: custom.db\ndashboard:\n  lookahead_days: 45\nimport:\n  columns:\n    name: [FULL NAME]\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("SAFETRACK_HTTP_ADDR", ":9999")

	cfg, err := Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Database.DSN != "custom.db" {
		t.Fatalf("database.dsn = %q", cfg.Database.DSN)
	}
	if cfg.Dashboard.LookaheadDays != 45 {
		t.Fatalf("dashboard.lookahead_days = %d", cfg.Dashboard.LookaheadDays)
	}
	if len(cfg.Import.Columns.Name) != 1 || cfg.Import.Columns.Name[0] != "FULL NAME" {
		t.Fatalf("import.columns.name = %v", cfg.Import.Columns.Name)
	}
	if cfg.HTTP.Addr != ":9999" {
		t.Fatalf("http.addr = %q", cfg.HTTP.Addr)
	}
}

func TestValidateRejectsNegativeLookahead(t *testing.T) {
	cfg := Default()
	cfg.Dashboard.LookaheadDays = -1
	if err := cfg.Validate(); err == nil {
		t.Fatalf("Validate() expected error for negative lookahead")
	}
}

// chdir changes the working directory for the duration of the test,
// equivalent to testing.T.Chdir (Go 1.24+).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatalf("restore wd: %v", err)
		}
	})
}
