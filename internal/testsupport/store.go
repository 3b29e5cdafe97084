package testsupport

import (
	"context"
	"testing"
	"time"

	"rollcall/internal/config"
	"rollcall/internal/store"
)

// MustOpenStore opens a store.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *store.Store {
	t.Helper()

	st, err := store.Open(context.Background(), cfg)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

// SeedIdentity creates an identity with one committed seen event and
// returns its identifier.
func SeedIdentity(t testing.TB, st *store.Store, email, name, department string, seen time.Time) int64 {
	t.Helper()

	ctx := context.Background()
	batch, err := st.Begin(ctx)
	if err != nil {
		t.Fatalf("store.Begin: %v", err)
	}
	id, created, err := batch.ResolveIdentity(ctx, email, name, department)
	if err != nil {
		t.Fatalf("ResolveIdentity: %v", err)
	}
	if !created {
		t.Fatalf("expected %q to be a new identity", email)
	}
	if _, err := batch.RecordEvent(ctx, id, seen); err != nil {
		t.Fatalf("RecordEvent: %v", err)
	}
	if err := batch.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	return id
}
