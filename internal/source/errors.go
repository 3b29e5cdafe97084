package source

import (
	"errors"
	"fmt"
)

// ErrInsufficientColumns reports a source whose rows are narrower than the
// configured column mapping. It is raised once, at open time, before any
// row is yielded.
var ErrInsufficientColumns = errors.New("source has insufficient columns")

// RowError marks a single malformed row. The stream remains usable after a
// RowError; callers skip the row and continue reading.
type RowError struct {
	Row int
	Err error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Row, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

func rowErrorf(row int, format string, args ...any) *RowError {
	return &RowError{Row: row, Err: fmt.Errorf(format, args...)}
}
