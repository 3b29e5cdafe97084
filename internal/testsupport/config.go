package testsupport

import (
	"path/filepath"
	"testing"

	"rollcall/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config backed by unique temp directories per test,
// using the sqlite driver so tests stay hermetic.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Database.Driver = "sqlite"
	cfg.Database.Path = filepath.Join(cfg.Paths.DataDir, "rollcall.db")

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithBatchSize overrides the ingest commit cadence.
func WithBatchSize(size int) ConfigOption {
	return func(c *config.Config) {
		c.Ingest.BatchSize = size
	}
}

// WithMapping overrides the ingest column mapping.
func WithMapping(mapping string) ConfigOption {
	return func(c *config.Config) {
		c.Ingest.ColumnMapping = mapping
	}
}

// WithSkipHeader marks sources as carrying a header row.
func WithSkipHeader() ConfigOption {
	return func(c *config.Config) {
		c.Ingest.SkipHeader = true
	}
}
