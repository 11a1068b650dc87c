// Package query implements the execute-or-reuse coordinator: check the
// cache, execute against the warehouse on a miss, capture metadata, populate
// the cache, and return the result.
package query

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"dashengine/internal/domain"
)

// QueryService orchestrates definition loading, warehouse submission, and
// result caching. A cached result is valid indefinitely for the life of the
// process; there is no staleness check.
//
//nolint:revive // Name chosen for clarity across package boundaries
type QueryService struct {
	store     domain.DefinitionStore
	cache     domain.ResultCache
	warehouse domain.Warehouse
	history   domain.HistoryRepository // optional, best-effort
	logger    *slog.Logger
	flight    singleflight.Group
}

// NewQueryService creates a new QueryService.
func NewQueryService(store domain.DefinitionStore, cache domain.ResultCache, warehouse domain.Warehouse, logger *slog.Logger) *QueryService {
	return &QueryService{store: store, cache: cache, warehouse: warehouse, logger: logger}
}

// SetHistory configures durable execution-history recording.
// This is optional — if not called, history is silently skipped.
func (s *QueryService) SetHistory(repo domain.HistoryRepository) {
	s.history = repo
}

// Execute returns the result for identifier, reusing a cached result when one
// exists and executing against the warehouse otherwise. Concurrent cold
// callers for the same identifier share a single warehouse submission; late
// arrivals wait for and receive the first caller's result.
func (s *QueryService) Execute(ctx context.Context, identifier string) (*domain.QueryResult, error) {
	if strings.TrimSpace(identifier) == "" {
		return nil, domain.ErrValidation("query identifier is required")
	}

	if result, ok := s.cache.Get(identifier); ok {
		return result, nil
	}

	v, err, shared := s.flight.Do(identifier, func() (interface{}, error) {
		// A racing caller may have inserted between the miss and this call.
		if result, ok := s.cache.Get(identifier); ok {
			return result, nil
		}
		return s.executeCold(ctx, identifier)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		s.logger.Debug("joined in-flight execution", "query_id", identifier)
	}
	return v.(*domain.QueryResult), nil
}

// executeCold performs the full miss path: load, submit, wrap, insert.
// A failed execution is never cached.
func (s *QueryService) executeCold(ctx context.Context, identifier string) (*domain.QueryResult, error) {
	def, err := s.store.Load(identifier)
	if err != nil {
		return nil, err
	}

	started := time.Now()
	job, err := s.warehouse.Submit(ctx, def.Body)
	if err != nil {
		s.recordHistory(ctx, identifier, def, nil, time.Since(started), err)
		return nil, domain.ErrQueryExecution(identifier, err)
	}

	duration := job.EndedAt.Sub(job.StartedAt)
	if duration < 0 {
		duration = 0
	}
	result := &domain.QueryResult{
		ID:             uuid.NewString(),
		Source:         def,
		Data:           domain.Table{Columns: job.Columns, Rows: job.Rows},
		CompletedAt:    job.EndedAt,
		Duration:       duration,
		BytesBilled:    job.BytesBilled,
		BytesProcessed: job.BytesProcessed,
	}

	s.cache.Put(identifier, result)
	s.recordHistory(ctx, identifier, def, result, duration, nil)

	s.logger.Info("query executed",
		"query_id", identifier,
		"query_name", def.Name,
		"rows", result.Data.RowCount(),
		"duration", duration,
		"bytes_billed", result.BytesBilled,
		"bytes_processed", result.BytesProcessed,
	)
	return result, nil
}

// Lookup returns the cached result for identifier without executing.
func (s *QueryService) Lookup(identifier string) (*domain.QueryResult, bool) {
	return s.cache.Get(identifier)
}

// Results returns a snapshot of every cached result, the sole read surface
// for presentation-layer consumers.
func (s *QueryService) Results() []*domain.QueryResult {
	return s.cache.All()
}

// Definition loads the definition for identifier without executing it.
func (s *QueryService) Definition(identifier string) (domain.QueryDefinition, error) {
	if strings.TrimSpace(identifier) == "" {
		return domain.QueryDefinition{}, domain.ErrValidation("query identifier is required")
	}
	return s.store.Load(identifier)
}

// History lists recorded warehouse submissions. Returns an empty slice when
// history recording is not configured.
func (s *QueryService) History(ctx context.Context, filter domain.HistoryFilter) ([]domain.HistoryEntry, error) {
	if s.history == nil {
		return nil, nil
	}
	return s.history.List(ctx, filter)
}

// recordHistory writes one history entry per warehouse submission.
// Best-effort — a history failure never fails the query.
func (s *QueryService) recordHistory(ctx context.Context, identifier string, def domain.QueryDefinition, result *domain.QueryResult, elapsed time.Duration, execErr error) {
	if s.history == nil {
		return
	}

	entry := &domain.HistoryEntry{
		QueryID:    identifier,
		QueryName:  def.Name,
		Status:     domain.HistoryStatusSucceeded,
		DurationMs: elapsed.Milliseconds(),
	}
	if result != nil {
		entry.BytesBilled = result.BytesBilled
		entry.BytesProcessed = result.BytesProcessed
		entry.RowsReturned = int64(result.Data.RowCount())
	}
	if execErr != nil {
		entry.Status = domain.HistoryStatusFailed
		msg := execErr.Error()
		entry.ErrorMessage = &msg
	}

	if err := s.history.Insert(ctx, entry); err != nil {
		s.logger.Warn("record history failed", "query_id", identifier, "error", err)
	}
}
