package testutil

import (
	"testing"

	"gameshelf/internal/database"
	"gameshelf/internal/shelf"
)

// NewTestDatabase creates a new in-memory SQLite database with schema applied.
// The database is automatically closed when the test completes.
func NewTestDatabase(t *testing.T) shelf.Database {
	t.Helper()

	sqlDB, err := database.OpenConnection(":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}

	if _, err := sqlDB.Exec(database.Schema); err != nil {
		sqlDB.Close()
		t.Fatalf("failed to apply schema: %v", err)
	}

	db := database.NewSQLiteDatabaseFromDB(sqlDB, FixedClock())

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

// NewTestRepository returns a repository over a fresh in-memory database.
func NewTestRepository(t *testing.T) *shelf.Repository {
	t.Helper()
	return shelf.NewRepository(NewTestDatabase(t), shelf.NewNopLogger())
}
