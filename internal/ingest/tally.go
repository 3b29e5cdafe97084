package ingest

// RunTally aggregates the observable outcome of one pipeline run. It is
// reset per run and returned to the caller instead of being printed row by
// row.
type RunTally struct {
	// RunID uniquely identifies the run in logs and reports.
	RunID string

	// NewIdentities counts rows that created an identity.
	NewIdentities int
	// DuplicateIdentities counts rows that found an existing identity and
	// still recorded a new seen event for it.
	DuplicateIdentities int
	// RowsProcessed counts rows that made it through the full
	// resolve-and-record path.
	RowsProcessed int
	// RowsSkipped counts rows rejected for shape or date problems.
	RowsSkipped int

	// EventsRecorded counts newly persisted seen events.
	EventsRecorded int
	// DuplicateEvents counts (identity, date) pairs that were already
	// recorded.
	DuplicateEvents int
	// Commits counts transactional commits, including the final flush.
	Commits int
	// CommittedRows counts rows made durable by those commits; on a
	// commit failure it reports how much progress survived.
	CommittedRows int
}
