package store

import "time"

// Identity is a deduplicated person record keyed by email. Rows are created
// once per unique email and never mutated or deleted by the pipeline; the
// name and department seen first win.
type Identity struct {
	ID         int64
	Name       string
	Email      string
	Department string
}

// SeenEvent is a dated observation of an Identity, unique per
// (identity, calendar date).
type SeenEvent struct {
	UserID   int64
	SeenDate time.Time
}

// dateLayout is the canonical storage encoding for seen dates; it is
// accepted verbatim by both sqlite TEXT and mysql DATE columns.
const dateLayout = "2006-01-02"
