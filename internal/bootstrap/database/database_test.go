package database

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"safetrack/internal/bootstrap/config"
)

func TestWithPragmasAppendsOnce(t *testing.T) {
	got := WithPragmas("data/app.db")
	if !strings.HasPrefix(got, "data/app.db?_pragma=foreign_keys(1)") {
		t.Fatalf("WithPragmas() = %q", got)
	}
	if strings.Count(got, "?") != 1 {
		t.Fatalf("WithPragmas() should use a single '?' separator: %q", got)
	}

	again := WithPragmas("data/app.db?_pragma=foreign_keys(1)")
	if strings.Count(again, "foreign_keys") != 1 {
		t.Fatalf("WithPragmas() duplicated foreign_keys: %q", again)
	}
	if !strings.Contains(again, "&_pragma=busy_timeout(5000)") {
		t.Fatalf("WithPragmas() = %q", again)
	}
}

func TestOpenEnablesForeignKeysAndCreatesDirectory(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "nested", "safety.db")
	db, err := Open(context.Background(), config.DatabaseConfig{Driver: "sqlite", DSN: dsn})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	x, err := SQLX(db)
	if err != nil {
		t.Fatalf("SQLX() error = %v", err)
	}
	var enabled int
	if err := x.Get(&enabled, "PRAGMA foreign_keys"); err != nil {
		t.Fatalf("read pragma: %v", err)
	}
	if enabled != 1 {
		t.Fatalf("foreign_keys = %d, want 1", enabled)
	}
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	if _, err := Open(context.Background(), config.DatabaseConfig{Driver: "oracle", DSN: "x"}); err == nil {
		t.Fatalf("Open() expected error for unsupported driver")
	}
}
