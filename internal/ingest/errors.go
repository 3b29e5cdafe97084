package ingest

import (
	"errors"
	"fmt"
	"strings"
)

// Fatal error classes. Only these escape a pipeline run; row-level
// problems are absorbed into the RunTally instead.
var (
	// ErrConfiguration marks unusable run parameters, detected before any
	// store I/O happens.
	ErrConfiguration = errors.New("configuration error")
	// ErrConnection marks an unreachable or unauthenticated store.
	ErrConnection = errors.New("store connection error")
	// ErrSourceFormat marks a source the extractor cannot stream at all,
	// such as a missing file or too few columns.
	ErrSourceFormat = errors.New("source format error")
	// ErrCommit marks a failed transactional commit. Batches committed
	// before the failure remain durable.
	ErrCommit = errors.New("commit error")
)

// Wrap tags err with one of the sentinel classes above while preserving
// the operation context in the message.
func Wrap(class error, operation string, err error) error {
	operation = strings.TrimSpace(operation)
	if err == nil {
		return fmt.Errorf("%w: %s", class, operation)
	}
	if operation == "" {
		return fmt.Errorf("%w: %w", class, err)
	}
	return fmt.Errorf("%w: %s: %w", class, operation, err)
}
