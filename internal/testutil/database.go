// Package testutil provides test helpers for packages that need a real
// storage backend.
package testutil

import (
	"context"
	"testing"

	"github.com/mfalcone/soldi/internal/storage"
)

// SetupTestDB creates a migrated in-memory SQLite database seeded with the
// default category set, and registers its cleanup.
func SetupTestDB(t *testing.T) *storage.SQLiteStorage {
	t.Helper()

	store, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() {
		_ = store.Close()
	})

	return store
}
