package config

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateDatabase(); err != nil {
		return err
	}
	if err := c.validateIngest(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateDatabase() error {
	switch c.Database.Driver {
	case "sqlite":
		if c.Database.Path == "" {
			return errors.New("database.path must be set when database.driver is sqlite")
		}
	case "mysql":
		if c.Database.Host == "" {
			return errors.New("database.host must be set when database.driver is mysql")
		}
		if c.Database.User == "" {
			return errors.New("database.user must be set when database.driver is mysql")
		}
		if c.Database.Name == "" {
			return errors.New("database.name must be set when database.driver is mysql")
		}
	default:
		return fmt.Errorf("database.driver must be sqlite or mysql, got %q", c.Database.Driver)
	}
	return nil
}

func (c *Config) validateIngest() error {
	switch c.Ingest.Mode {
	case "auto", "delimited", "spreadsheet":
	default:
		return fmt.Errorf("ingest.mode must be auto, delimited, or spreadsheet, got %q", c.Ingest.Mode)
	}
	switch c.Ingest.ColumnMapping {
	case "dated", "undated", "ignore-first":
	default:
		return fmt.Errorf("ingest.column_mapping must be dated, undated, or ignore-first, got %q", c.Ingest.ColumnMapping)
	}
	if c.Ingest.BatchSize <= 0 {
		return errors.New("ingest.batch_size must be positive")
	}
	if utf8.RuneCountInString(c.Ingest.Delimiter) != 1 {
		return fmt.Errorf("ingest.delimiter must be a single character, got %q", c.Ingest.Delimiter)
	}
	return nil
}

// DelimiterRune returns the configured field delimiter as a rune.
func (c *Config) DelimiterRune() rune {
	r, _ := utf8.DecodeRuneInString(c.Ingest.Delimiter)
	return r
}
