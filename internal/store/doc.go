// Package store persists identities and seen events in SQL and exposes the
// reconciliation operations the ingestion pipeline needs.
//
// The Store manages connections, schema initialization, and read-only
// lookups; a Batch wraps one transaction and carries the mutating
// operations (identity resolution, event recording) so the pipeline can
// commit at its own cadence. Two drivers are supported: a local sqlite
// file for standalone use and testing, and mysql for a shared server.
//
// Identity dedup relies on the unique index on users.email and event dedup
// on the unique (user_id, seen_date) pair; both are enforced by the schema,
// not just by lookups. Treat this package as the single source of truth for
// store semantics; schema changes bump schemaVersion in schema.go.
package store
