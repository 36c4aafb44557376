package testutil

import (
	"database/sql"
	"testing"

	"github.com/vrsandeep/tokyo-links/internal/assets"
	"github.com/vrsandeep/tokyo-links/internal/db"
	"github.com/vrsandeep/tokyo-links/internal/logger"
)

// SetupTestDB creates an in-memory SQLite database and applies all migrations.
// It returns the database connection, ready for use in tests.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	database, err := db.Open(db.MemoryPath, assets.MigrationsFS, logger.NewNop())
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() {
		database.Close()
	})
	return database
}
