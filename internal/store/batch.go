package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Batch is one transactional unit of reconciliation work. All mutating
// operations run inside it; nothing is durable until Commit. A Batch is
// owned by a single goroutine and must end in exactly one Commit or
// Rollback.
type Batch struct {
	tx     *sql.Tx
	driver Driver
	done   bool
}

// Begin opens a new transactional batch.
func (s *Store) Begin(ctx context.Context) (*Batch, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin batch: %w", err)
	}
	return &Batch{tx: tx, driver: s.driver}, nil
}

// Commit makes the batch durable.
func (b *Batch) Commit() error {
	if b.done {
		return errors.New("batch already finished")
	}
	b.done = true
	if err := b.tx.Commit(); err != nil {
		return fmt.Errorf("commit batch: %w", err)
	}
	return nil
}

// Rollback discards the batch. Calling it after Commit is a no-op, which
// lets callers defer it unconditionally.
func (b *Batch) Rollback() error {
	if b == nil || b.done {
		return nil
	}
	b.done = true
	if err := b.tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return fmt.Errorf("rollback batch: %w", err)
	}
	return nil
}

// ResolveIdentity looks up an identity by exact email and creates it when
// absent. It reports the durable identifier and whether a row was created.
// The lookup sees rows committed by prior batches as well as rows inserted
// earlier in this batch, so the email key deduplicates across the whole
// store, not just within one run.
func (b *Batch) ResolveIdentity(ctx context.Context, email, name, department string) (int64, bool, error) {
	id, found, err := b.findIdentity(ctx, email)
	if err != nil {
		return 0, false, err
	}
	if found {
		return id, false, nil
	}

	res, err := b.tx.ExecContext(
		ctx,
		`INSERT INTO users (name, email, department) VALUES (?, ?, ?)`,
		name, email, department,
	)
	if err != nil {
		// A concurrent writer may have claimed the email between the
		// lookup and the insert; the unique index is authoritative, so
		// fall back to fetching the winner's row.
		if id, found, selErr := b.findIdentity(ctx, email); selErr == nil && found {
			return id, false, nil
		}
		return 0, false, fmt.Errorf("insert identity %q: %w", email, err)
	}
	id, err = res.LastInsertId()
	if err != nil {
		return 0, false, fmt.Errorf("identity id for %q: %w", email, err)
	}
	return id, true, nil
}

// RecordEvent persists a seen event unless the (identity, date) pair is
// already recorded. It reports whether a row was inserted; false means the
// pair was a duplicate and the store is unchanged. The check and insert are
// a single statement, so the uniqueness guarantee holds even with
// concurrent writers.
func (b *Batch) RecordEvent(ctx context.Context, userID int64, seenDate time.Time) (bool, error) {
	query := `INSERT OR IGNORE INTO user_reports (user_id, seen_date) VALUES (?, ?)`
	if b.driver == DriverMySQL {
		query = `INSERT IGNORE INTO user_reports (user_id, seen_date) VALUES (?, ?)`
	}
	res, err := b.tx.ExecContext(ctx, query, userID, seenDate.Format(dateLayout))
	if err != nil {
		return false, fmt.Errorf("record event for user %d: %w", userID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("record event result: %w", err)
	}
	return affected > 0, nil
}

func (b *Batch) findIdentity(ctx context.Context, email string) (int64, bool, error) {
	var id int64
	err := b.tx.QueryRowContext(ctx, `SELECT user_id FROM users WHERE email = ?`, email).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("look up identity %q: %w", email, err)
	}
	return id, true, nil
}
