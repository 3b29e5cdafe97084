package ingest

import (
	"log/slog"

	"rollcall/internal/logging"
)

// Observer receives pipeline progress callbacks. Implementations must be
// cheap; they run inline with row processing.
type Observer interface {
	RowSkipped(row int, cause error)
	IdentityCreated(email string, id int64)
	BatchCommitted(rows int)
	RunFinished(tally RunTally)
}

// NopObserver ignores every callback.
type NopObserver struct{}

func (NopObserver) RowSkipped(int, error) {}
func (NopObserver) IdentityCreated(string, int64) {}
func (NopObserver) BatchCommitted(int) {}
func (NopObserver) RunFinished(RunTally) {}

// LogObserver reports progress through a structured logger.
type LogObserver struct {
	logger *slog.Logger
}

// NewLogObserver builds an observer that logs through the given logger.
func NewLogObserver(logger *slog.Logger) *LogObserver {
	return &LogObserver{logger: logging.NewComponentLogger(logger, "ingest")}
}

func (o *LogObserver) RowSkipped(row int, cause error) {
	o.logger.Warn("row skipped", logging.FieldRow, row, "cause", cause.Error())
}

func (o *LogObserver) IdentityCreated(email string, id int64) {
	o.logger.Debug("identity created", logging.FieldEmail, email, "user_id", id)
}

func (o *LogObserver) BatchCommitted(rows int) {
	o.logger.Info("batch committed", "rows", rows)
}

func (o *LogObserver) RunFinished(tally RunTally) {
	o.logger.Info("run finished",
		logging.FieldRunID, tally.RunID,
		"rows_processed", tally.RowsProcessed,
		"rows_skipped", tally.RowsSkipped,
		"new_identities", tally.NewIdentities,
		"duplicate_identities", tally.DuplicateIdentities,
		"events_recorded", tally.EventsRecorded,
		"duplicate_events", tally.DuplicateEvents,
		"commits", tally.Commits,
	)
}
