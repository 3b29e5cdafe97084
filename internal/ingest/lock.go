package ingest

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// RunLock serializes ingest runs that share a data directory. The store's
// dedup guarantees make overlapping runs safe for correctness, but a
// second writer against the same sqlite file would spend its life blocked
// on the database lock; refusing up front gives a clear error instead.
type RunLock struct {
	lock *flock.Flock
	path string
}

// AcquireRunLock takes the ingest lock for the given data directory
// without blocking. It fails when another run holds the lock.
func AcquireRunLock(dataDir string) (*RunLock, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data directory %q: %w", dataDir, err)
	}
	path := filepath.Join(dataDir, "ingest.lock")
	lock := flock.New(path)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire ingest lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("another rollcall ingest is already running (lock %s)", path)
	}
	return &RunLock{lock: lock, path: path}, nil
}

// Release drops the lock. Safe to call once per acquired lock.
func (l *RunLock) Release() {
	if l == nil || l.lock == nil {
		return
	}
	_ = l.lock.Unlock()
}

// Path reports the lock file location.
func (l *RunLock) Path() string {
	return l.path
}
