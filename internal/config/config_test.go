package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"rollcall/internal/config"
)

func TestLoadDefaultsExpandPathsAndDeriveSQLitePath(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantData := filepath.Join(tempHome, ".local", "share", "rollcall")
	if cfg.Paths.DataDir != wantData {
		t.Fatalf("unexpected data dir: got %q want %q", cfg.Paths.DataDir, wantData)
	}
	if cfg.Database.Driver != "sqlite" {
		t.Fatalf("expected sqlite default driver, got %q", cfg.Database.Driver)
	}
	if want := filepath.Join(wantData, "rollcall.db"); cfg.Database.Path != want {
		t.Fatalf("unexpected database path: got %q want %q", cfg.Database.Path, want)
	}
	if cfg.Ingest.BatchSize != 100 {
		t.Fatalf("expected default batch size 100, got %d", cfg.Ingest.BatchSize)
	}
	if cfg.Ingest.ColumnMapping != "dated" {
		t.Fatalf("expected default mapping dated, got %q", cfg.Ingest.ColumnMapping)
	}
	if cfg.Logging.Format != "console" {
		t.Fatalf("expected console log format, got %q", cfg.Logging.Format)
	}
	if cfg.DelimiterRune() != ',' {
		t.Fatalf("expected comma delimiter, got %q", cfg.DelimiterRune())
	}
}

func TestLoadReadsFileAndEnvPassword(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := strings.Join([]string{
		"[database]",
		`driver = "mysql"`,
		`host = "db.internal"`,
		`user = "roster"`,
		`name = "rollcall"`,
		"",
		"[ingest]",
		"batch_size = 25",
		`column_mapping = "undated"`,
	}, "\n")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("ROLLCALL_DB_PASSWORD", "sekrit")

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("expected config at %q to be used, got %q exists=%v", path, resolved, exists)
	}
	if cfg.Database.Driver != "mysql" {
		t.Fatalf("unexpected driver: %q", cfg.Database.Driver)
	}
	if cfg.Database.Password != "sekrit" {
		t.Fatalf("expected env password fallback, got %q", cfg.Database.Password)
	}
	if cfg.Database.Port != 3306 {
		t.Fatalf("expected default port, got %d", cfg.Database.Port)
	}
	if cfg.Ingest.BatchSize != 25 {
		t.Fatalf("unexpected batch size: %d", cfg.Ingest.BatchSize)
	}
	if cfg.Ingest.ColumnMapping != "undated" {
		t.Fatalf("unexpected mapping: %q", cfg.Ingest.ColumnMapping)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"unknown driver", func(c *config.Config) { c.Database.Driver = "oracle" }},
		{"mysql missing user", func(c *config.Config) {
			c.Database.Driver = "mysql"
			c.Database.Host = "db"
			c.Database.Name = "rollcall"
		}},
		{"bad mapping", func(c *config.Config) { c.Ingest.ColumnMapping = "sideways" }},
		{"bad mode", func(c *config.Config) { c.Ingest.Mode = "parquet" }},
		{"zero batch", func(c *config.Config) { c.Ingest.BatchSize = 0 }},
		{"wide delimiter", func(c *config.Config) { c.Ingest.Delimiter = "::" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.Database.Path = "/tmp/rollcall.db"
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestCreateSampleWritesParsableConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	if _, _, exists, err := config.Load(path); err != nil {
		t.Fatalf("sample config failed to load: %v", err)
	} else if !exists {
		t.Fatal("expected sample config to exist")
	}
}
