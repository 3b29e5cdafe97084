package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeDatabase(); err != nil {
		return err
	}
	c.normalizeIngest()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeDatabase() error {
	c.Database.Driver = strings.ToLower(strings.TrimSpace(c.Database.Driver))
	if c.Database.Driver == "" {
		c.Database.Driver = defaultDBDriver
	}

	if c.Database.Driver == "sqlite" {
		if strings.TrimSpace(c.Database.Path) == "" {
			c.Database.Path = filepath.Join(c.Paths.DataDir, "rollcall.db")
		}
		var err error
		if c.Database.Path, err = expandPath(c.Database.Path); err != nil {
			return fmt.Errorf("database.path: %w", err)
		}
		return nil
	}

	c.Database.Host = strings.TrimSpace(c.Database.Host)
	if c.Database.Host == "" {
		c.Database.Host = defaultDBHost
	}
	if c.Database.Port <= 0 {
		c.Database.Port = defaultDBPort
	}
	c.Database.User = strings.TrimSpace(c.Database.User)
	c.Database.Name = strings.TrimSpace(c.Database.Name)
	if c.Database.Password == "" {
		if value, ok := os.LookupEnv("ROLLCALL_DB_PASSWORD"); ok {
			c.Database.Password = value
		}
	}
	return nil
}

func (c *Config) normalizeIngest() {
	c.Ingest.Mode = strings.ToLower(strings.TrimSpace(c.Ingest.Mode))
	if c.Ingest.Mode == "" {
		c.Ingest.Mode = defaultIngestMode
	}
	c.Ingest.ColumnMapping = strings.ToLower(strings.TrimSpace(c.Ingest.ColumnMapping))
	if c.Ingest.ColumnMapping == "" {
		c.Ingest.ColumnMapping = defaultColumnMapping
	}
	if c.Ingest.BatchSize <= 0 {
		c.Ingest.BatchSize = defaultBatchSize
	}
	if c.Ingest.Delimiter == "" {
		c.Ingest.Delimiter = defaultDelimiter
	}
	c.Ingest.Sheet = strings.TrimSpace(c.Ingest.Sheet)
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
