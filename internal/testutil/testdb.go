package testutil

import (
	"database/sql"
	"testing"

	"github.com/moa-plans/agriplan/internal/state"
)

// NewTestDB creates an in-memory state database with all migrations
// applied. The database is closed when the test completes.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := state.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("failed to create test state database: %v", err)
	}
	t.Cleanup(func() {
		db.Close()
	})
	return db
}

// NewTestStore creates a state store backed by an in-memory database.
func NewTestStore(t *testing.T) *state.Store {
	t.Helper()
	return state.NewStore(NewTestDB(t))
}
