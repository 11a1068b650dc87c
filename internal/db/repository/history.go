// Package repository contains SQL-backed implementations of the domain
// repository interfaces.
package repository

import (
	"context"
	"database/sql"
	"fmt"

	"dashengine/internal/domain"
)

// defaultHistoryLimit bounds unfiltered history listings.
const defaultHistoryLimit = 100

// Compile-time check.
var _ domain.HistoryRepository = (*HistoryRepo)(nil)

// HistoryRepo persists warehouse submission records in SQLite.
type HistoryRepo struct {
	db *sql.DB
}

// NewHistoryRepo creates a HistoryRepo around an open handle.
func NewHistoryRepo(db *sql.DB) *HistoryRepo {
	return &HistoryRepo{db: db}
}

// Insert writes one history entry and fills in its assigned ID.
func (r *HistoryRepo) Insert(ctx context.Context, entry *domain.HistoryEntry) error {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO query_history
			(query_id, query_name, status, error_message, duration_ms,
			 bytes_billed, bytes_processed, rows_returned)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.QueryID, entry.QueryName, entry.Status, entry.ErrorMessage,
		entry.DurationMs, entry.BytesBilled, entry.BytesProcessed, entry.RowsReturned,
	)
	if err != nil {
		return fmt.Errorf("insert history entry: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("history entry id: %w", err)
	}
	entry.ID = id
	return nil
}

// List returns history entries, newest first, honoring the optional status
// filter and limit.
func (r *HistoryRepo) List(ctx context.Context, filter domain.HistoryFilter) ([]domain.HistoryEntry, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultHistoryLimit
	}

	query := `
		SELECT id, query_id, query_name, status, error_message, duration_ms,
		       bytes_billed, bytes_processed, rows_returned, created_at
		FROM query_history`
	args := []interface{}{}
	if filter.Status != nil {
		query += ` WHERE status = ?`
		args = append(args, *filter.Status)
	}
	query += ` ORDER BY id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	var entries []domain.HistoryEntry
	for rows.Next() {
		var e domain.HistoryEntry
		if err := rows.Scan(
			&e.ID, &e.QueryID, &e.QueryName, &e.Status, &e.ErrorMessage,
			&e.DurationMs, &e.BytesBilled, &e.BytesProcessed, &e.RowsReturned,
			&e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan history entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	return entries, nil
}
