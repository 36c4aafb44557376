package db_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vrsandeep/tokyo-links/internal/assets"
	"github.com/vrsandeep/tokyo-links/internal/db"
	"github.com/vrsandeep/tokyo-links/internal/logger"
	"github.com/vrsandeep/tokyo-links/internal/testutil"
)

func TestForeignKeyCascadeDelete(t *testing.T) {
	database := testutil.SetupTestDB(t)

	var foreignKeysEnabled int
	require.NoError(t, database.QueryRow("PRAGMA foreign_keys").Scan(&foreignKeysEnabled))
	assert.Equal(t, 1, foreignKeysEnabled)

	_, err := database.Exec(`INSERT INTO runs (catalog_url, metric, started_at, finished_at)
		VALUES (?, ?, datetime('now'), datetime('now'))`, "https://host/anime/B/Bleach", "Latest")
	require.NoError(t, err)
	_, err = database.Exec(`INSERT INTO run_items (run_id, type, item_index, page_url, status)
		VALUES (1, 'episode', 1, 'https://host/anime/B/Bleach/episode/1', 'success')`)
	require.NoError(t, err)

	_, err = database.Exec("DELETE FROM runs WHERE id = 1")
	require.NoError(t, err)

	var count int
	require.NoError(t, database.QueryRow("SELECT COUNT(*) FROM run_items WHERE run_id = 1").Scan(&count))
	assert.Equal(t, 0, count)
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")

	first, err := db.Open(path, assets.MigrationsFS, logger.NewNop())
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := db.Open(path, assets.MigrationsFS, logger.NewNop())
	require.NoError(t, err)
	defer second.Close()

	var tables int
	require.NoError(t, second.QueryRow(
		"SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name IN ('runs', 'run_items')").Scan(&tables))
	assert.Equal(t, 2, tables)
}

func TestForeignKeysOnEveryConnection(t *testing.T) {
	database, err := db.Open(filepath.Join(t.TempDir(), "history.db"), assets.MigrationsFS, logger.NewNop())
	require.NoError(t, err)
	defer database.Close()

	ctx := context.Background()
	first, err := database.Conn(ctx)
	require.NoError(t, err)
	defer first.Close()
	second, err := database.Conn(ctx)
	require.NoError(t, err)
	defer second.Close()

	for _, conn := range []*sql.Conn{first, second} {
		var enabled int
		require.NoError(t, conn.QueryRowContext(ctx, "PRAGMA foreign_keys").Scan(&enabled))
		assert.Equal(t, 1, enabled)
	}

	_, err = second.ExecContext(ctx, `INSERT INTO run_items (run_id, type, item_index, page_url, status)
		VALUES (42, 'episode', 1, 'https://host/x', 'success')`)
	assert.Error(t, err, "orphan item must violate the runs foreign key")
}
