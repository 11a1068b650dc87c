// Package warehouse contains adapters for the external query-execution
// boundary. Each adapter submits a query body verbatim and reports the
// tabular result set plus execution metadata.
package warehouse

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"dashengine/internal/domain"
)

// Compile-time check.
var _ domain.Warehouse = (*DuckDB)(nil)

// DuckDB executes queries against a local DuckDB handle. It is the
// development-mode warehouse: bytes billed is always zero, and bytes
// processed is approximated from the scanned cell volume since DuckDB does
// not report a scan-volume metric.
type DuckDB struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewDuckDB creates a DuckDB warehouse adapter around an open handle.
func NewDuckDB(db *sql.DB, logger *slog.Logger) *DuckDB {
	return &DuckDB{db: db, logger: logger}
}

// Submit runs queryText and scans the full result set.
func (w *DuckDB) Submit(ctx context.Context, queryText string) (*domain.Job, error) {
	started := time.Now()

	rows, err := w.db.QueryContext(ctx, queryText)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	cols, scanned, bytesScanned, err := scanRows(rows)
	if err != nil {
		return nil, err
	}
	ended := time.Now()

	w.logger.Debug("duckdb query complete",
		"rows", len(scanned),
		"duration", ended.Sub(started),
	)

	return &domain.Job{
		Columns:        cols,
		Rows:           scanned,
		StartedAt:      started,
		EndedAt:        ended,
		BytesBilled:    0,
		BytesProcessed: float64(bytesScanned),
	}, nil
}

// scanRows reads every row into dynamically-typed cells. Byte slices are
// converted to strings for JSON serialization.
func scanRows(rows *sql.Rows) ([]string, [][]interface{}, int64, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, 0, err
	}

	var (
		resultRows [][]interface{}
		totalBytes int64
	)
	for rows.Next() {
		vals := make([]interface{}, len(cols))
		ptrs := make([]interface{}, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, 0, err
		}
		row := make([]interface{}, len(vals))
		for i, v := range vals {
			if b, ok := v.([]byte); ok {
				row[i] = string(b)
			} else {
				row[i] = v
			}
			totalBytes += cellSize(row[i])
		}
		resultRows = append(resultRows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, 0, err
	}

	return cols, resultRows, totalBytes, nil
}

// cellSize estimates the in-memory size of a scanned cell.
func cellSize(v interface{}) int64 {
	switch c := v.(type) {
	case nil:
		return 0
	case string:
		return int64(len(c))
	default:
		return 8
	}
}
