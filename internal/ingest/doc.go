// Package ingest orchestrates the reconciliation pipeline: it streams raw
// records out of a roster source, normalizes dates, resolves identities,
// records seen events, and commits in fixed-size transactional batches.
//
// Row-level problems (bad dates, malformed rows) never escape the
// pipeline; they are tallied and the run continues. Everything else —
// configuration, connection, source format, and commit failures — is
// classified with the package's sentinel errors and propagates to the
// caller, which owns exit-code mapping.
package ingest
