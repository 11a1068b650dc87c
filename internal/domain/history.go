package domain

import "time"

// History entry statuses.
const (
	HistoryStatusSucceeded = "SUCCEEDED"
	HistoryStatusFailed    = "FAILED"
)

// HistoryEntry represents a single warehouse submission record. Unlike the
// result cache, history survives process restarts.
type HistoryEntry struct {
	ID             int64
	QueryID        string
	QueryName      string
	Status         string
	ErrorMessage   *string
	DurationMs     int64
	BytesBilled    float64
	BytesProcessed float64
	RowsReturned   int64
	CreatedAt      time.Time
}

// HistoryFilter holds filter parameters for listing history entries.
type HistoryFilter struct {
	Status *string
	Limit  int
}
