// Package config loads, normalizes, and validates rollcall configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// ROLLCALL_DB_PASSWORD. The Config type centralizes every knob the CLI and
// ingestion pipeline need: store credentials, source parsing options, data
// and log directories, and log output settings.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical enum values, and clear validation errors.
package config
