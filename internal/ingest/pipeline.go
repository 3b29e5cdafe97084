package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"rollcall/internal/config"
	"rollcall/internal/dates"
	"rollcall/internal/logging"
	"rollcall/internal/source"
	"rollcall/internal/store"
)

// Phase is the pipeline lifecycle state. Transitions are linear —
// Idle → SourceOpened → Streaming → Committing → Streaming … → Closed —
// with Failed as the terminal state for unrecoverable errors.
type Phase string

const (
	PhaseIdle         Phase = "idle"
	PhaseSourceOpened Phase = "source_opened"
	PhaseStreaming    Phase = "streaming"
	PhaseCommitting   Phase = "committing"
	PhaseClosed       Phase = "closed"
	PhaseFailed       Phase = "failed"
)

// Pipeline reconciles one roster source against the store. A Pipeline
// value runs once; it owns its source reader, store batch, and run lock
// exclusively for the duration of Run and releases them on every exit
// path.
type Pipeline struct {
	cfg      *config.Config
	store    *store.Store
	logger   *slog.Logger
	observer Observer
	now      func() time.Time
	phase    Phase
}

// Option configures optional Pipeline behavior.
type Option func(*Pipeline)

// WithObserver installs a progress observer.
func WithObserver(observer Observer) Option {
	return func(p *Pipeline) {
		if observer != nil {
			p.observer = observer
		}
	}
}

// WithClock overrides the time source used for defaulted seen dates.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) {
		if now != nil {
			p.now = now
		}
	}
}

// New constructs a pipeline bound to an open store.
func New(cfg *config.Config, st *store.Store, logger *slog.Logger, opts ...Option) *Pipeline {
	p := &Pipeline{
		cfg:      cfg,
		store:    st,
		logger:   logging.NewComponentLogger(logger, "pipeline"),
		observer: NopObserver{},
		now:      time.Now,
		phase:    PhaseIdle,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Phase reports the pipeline's current lifecycle state.
func (p *Pipeline) Phase() Phase {
	return p.phase
}

// Run streams the source at sourcePath through the reconciliation steps
// and returns the run tally. Row-level failures are tallied and skipped;
// any returned error is fatal for the run. The tally is valid even on
// failure and reports the rows made durable before the error.
func (p *Pipeline) Run(ctx context.Context, sourcePath string) (*RunTally, error) {
	tally := &RunTally{RunID: uuid.NewString()}

	if sourcePath == "" {
		return tally, p.fail(Wrap(ErrConfiguration, "no source file provided", nil))
	}
	opts, err := p.sourceOptions()
	if err != nil {
		return tally, p.fail(Wrap(ErrConfiguration, "source options", err))
	}

	lock, err := AcquireRunLock(p.cfg.Paths.DataDir)
	if err != nil {
		return tally, p.fail(err)
	}
	defer lock.Release()

	reader, err := source.Open(sourcePath, opts)
	if err != nil {
		return tally, p.fail(Wrap(ErrSourceFormat, sourcePath, err))
	}
	defer reader.Close()
	p.phase = PhaseSourceOpened

	logger := p.logger.With(logging.FieldRunID, tally.RunID)
	logger.Info("run started", "source", sourcePath, "store", p.store.Source(), "batch_size", p.cfg.Ingest.BatchSize)

	batch, err := p.store.Begin(ctx)
	if err != nil {
		return tally, p.fail(Wrap(ErrConnection, "open batch", err))
	}
	// Covers every fatal exit; a no-op once the final commit lands.
	defer func() { _ = batch.Rollback() }()

	p.phase = PhaseStreaming
	for {
		if err := ctx.Err(); err != nil {
			// The in-flight batch is discarded deliberately: rows not yet
			// committed do not count as progress.
			_ = batch.Rollback()
			return tally, p.fail(fmt.Errorf("run canceled: %w", err))
		}

		record, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var rowErr *source.RowError
			if errors.As(err, &rowErr) {
				tally.RowsSkipped++
				p.observer.RowSkipped(rowErr.Row, rowErr.Err)
				continue
			}
			return tally, p.fail(Wrap(ErrSourceFormat, "read source", err))
		}

		seenDate, ok := p.normalizeDate(record, tally)
		if !ok {
			continue
		}

		id, created, err := batch.ResolveIdentity(ctx, record.Email, record.Name, record.Department)
		if err != nil {
			return tally, p.fail(fmt.Errorf("resolve identity: %w", err))
		}
		if created {
			tally.NewIdentities++
			p.observer.IdentityCreated(record.Email, id)
		}

		recorded, err := batch.RecordEvent(ctx, id, seenDate)
		if err != nil {
			return tally, p.fail(fmt.Errorf("record event: %w", err))
		}
		if recorded {
			tally.EventsRecorded++
			if !created {
				tally.DuplicateIdentities++
			}
		} else {
			tally.DuplicateEvents++
		}

		tally.RowsProcessed++
		if tally.RowsProcessed%p.cfg.Ingest.BatchSize == 0 {
			batch, err = p.commitAndReopen(ctx, batch, tally)
			if err != nil {
				return tally, p.fail(err)
			}
		}
	}

	// Final flush, unconditional so the remainder is always durable.
	p.phase = PhaseCommitting
	if err := batch.Commit(); err != nil {
		return tally, p.fail(Wrap(ErrCommit, fmt.Sprintf("final commit (%d rows durable)", tally.CommittedRows), err))
	}
	tally.Commits++
	p.observer.BatchCommitted(tally.RowsProcessed - tally.CommittedRows)
	tally.CommittedRows = tally.RowsProcessed

	p.phase = PhaseClosed
	p.observer.RunFinished(*tally)
	logger.Info("run closed",
		"rows_processed", tally.RowsProcessed,
		"rows_skipped", tally.RowsSkipped,
		"new_identities", tally.NewIdentities,
		"commits", tally.Commits,
	)
	return tally, nil
}

func (p *Pipeline) commitAndReopen(ctx context.Context, batch *store.Batch, tally *RunTally) (*store.Batch, error) {
	p.phase = PhaseCommitting
	if err := batch.Commit(); err != nil {
		return nil, Wrap(ErrCommit, fmt.Sprintf("batch commit (%d rows durable)", tally.CommittedRows), err)
	}
	tally.Commits++
	p.observer.BatchCommitted(tally.RowsProcessed - tally.CommittedRows)
	tally.CommittedRows = tally.RowsProcessed

	next, err := p.store.Begin(ctx)
	if err != nil {
		return nil, Wrap(ErrConnection, "reopen batch", err)
	}
	p.phase = PhaseStreaming
	return next, nil
}

// normalizeDate resolves the record's raw date, defaulting to the run date
// for mappings without a date column. A rejected date skips the row.
func (p *Pipeline) normalizeDate(record source.RawRecord, tally *RunTally) (time.Time, bool) {
	if record.RawDate == nil {
		return dates.DateOnly(p.now()), true
	}
	seenDate, err := dates.Normalize(record.RawDate)
	if err != nil {
		tally.RowsSkipped++
		p.observer.RowSkipped(record.Row, err)
		return time.Time{}, false
	}
	return seenDate, true
}

func (p *Pipeline) sourceOptions() (source.Options, error) {
	mapping, err := source.ParseMapping(p.cfg.Ingest.ColumnMapping)
	if err != nil {
		return source.Options{}, err
	}
	mode, err := source.ParseMode(p.cfg.Ingest.Mode)
	if err != nil {
		return source.Options{}, err
	}
	return source.Options{
		Mode:       mode,
		Mapping:    mapping,
		SkipHeader: p.cfg.Ingest.SkipHeader,
		Delimiter:  p.cfg.DelimiterRune(),
		Sheet:      p.cfg.Ingest.Sheet,
	}, nil
}

func (p *Pipeline) fail(err error) error {
	p.phase = PhaseFailed
	return err
}
