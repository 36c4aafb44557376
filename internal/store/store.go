// To handle all database interactions. This is our
// data access layer, keeping SQL queries separate from business logic.

package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/vrsandeep/tokyo-links/internal/models"
)

// ErrRunNotFound is returned when a run id has no stored record.
var ErrRunNotFound = errors.New("run not found")

// Store provides all functions to interact with the database.
type Store struct {
	db *sql.DB
}

// New creates a new Store instance.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// SaveRun stores a run summary together with its per-item outcomes in a
// single transaction and returns the new run id.
func (s *Store) SaveRun(run *models.RunRecord, items []models.RunItem) (int64, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	res, err := tx.Exec(`
		INSERT INTO runs (catalog_url, metric, total, succeeded, failed, partial, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.CatalogURL, run.Metric, run.Total, run.Succeeded, run.Failed, run.Partial, run.StartedAt, run.FinishedAt)
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	stmt, err := tx.Prepare(`
		INSERT INTO run_items (run_id, type, item_index, page_url, status, message, download_url)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	for _, it := range items {
		if _, err := stmt.Exec(runID, it.Type, it.Index, it.PageURL, it.Status, it.Message, it.DownloadURL); err != nil {
			return 0, fmt.Errorf("failed to insert run item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	run.ID = runID
	return runID, nil
}

const runColumns = "id, catalog_url, metric, total, succeeded, failed, partial, started_at, finished_at"

func scanRun(row interface{ Scan(...any) error }) (*models.RunRecord, error) {
	var r models.RunRecord
	err := row.Scan(&r.ID, &r.CatalogURL, &r.Metric, &r.Total, &r.Succeeded, &r.Failed, &r.Partial, &r.StartedAt, &r.FinishedAt)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// ListRuns returns the most recent runs first. A limit of zero or less
// returns every run.
func (s *Store) ListRuns(limit int) ([]*models.RunRecord, error) {
	query := "SELECT " + runColumns + " FROM runs ORDER BY started_at DESC, id DESC"
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	runs := make([]*models.RunRecord, 0)
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run row: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// GetRun retrieves a single run by id.
func (s *Store) GetRun(id int64) (*models.RunRecord, error) {
	r, err := scanRun(s.db.QueryRow("SELECT "+runColumns+" FROM runs WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %d", ErrRunNotFound, id)
	}
	return r, err
}

// GetRunItems returns the stored items of a run in the order they were saved.
func (s *Store) GetRunItems(runID int64) ([]*models.RunItem, error) {
	rows, err := s.db.Query(`
		SELECT id, run_id, type, item_index, page_url, status, message, download_url
		FROM run_items WHERE run_id = ? ORDER BY id ASC`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query run items: %w", err)
	}
	defer rows.Close()

	items := make([]*models.RunItem, 0)
	for rows.Next() {
		var it models.RunItem
		if err := rows.Scan(&it.ID, &it.RunID, &it.Type, &it.Index, &it.PageURL, &it.Status, &it.Message, &it.DownloadURL); err != nil {
			return nil, fmt.Errorf("failed to scan run item row: %w", err)
		}
		items = append(items, &it)
	}
	return items, rows.Err()
}

// DeleteRun removes a run. Its items go with it.
func (s *Store) DeleteRun(id int64) error {
	res, err := s.db.Exec("DELETE FROM runs WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %d", ErrRunNotFound, id)
	}
	return nil
}
