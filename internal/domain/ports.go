package domain

import "context"

// DefinitionStore loads query definitions by identifier.
type DefinitionStore interface {
	Load(identifier string) (QueryDefinition, error)
}

// ResultCache is the process-wide in-memory store of prior results.
// Implementations must make individual Get/Put/All calls safe for concurrent
// use; callers must not rely on any atomicity across calls.
type ResultCache interface {
	Get(identifier string) (*QueryResult, bool)
	Put(identifier string, result *QueryResult)
	All() []*QueryResult
}

// Warehouse is the external query-execution boundary. Submit blocks for the
// full duration of the remote query.
type Warehouse interface {
	Submit(ctx context.Context, queryText string) (*Job, error)
}

// HistoryRepository records one entry per warehouse submission.
type HistoryRepository interface {
	Insert(ctx context.Context, entry *HistoryEntry) error
	List(ctx context.Context, filter HistoryFilter) ([]HistoryEntry, error)
}
