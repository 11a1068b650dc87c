// Package app provides application-level wiring and dependency injection
// for dashengine.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"dashengine/internal/cache"
	"dashengine/internal/config"
	"dashengine/internal/db/repository"
	"dashengine/internal/domain"
	"dashengine/internal/queries"
	"dashengine/internal/service/query"
	"dashengine/internal/warehouse"
)

// Deps holds the external dependencies that main() must provide. These are
// things the app package cannot (or should not) create itself: database
// handles, config, and the logger.
type Deps struct {
	Cfg       *config.Config
	DuckDB    *sql.DB // required when Cfg.Warehouse is "duckdb"
	HistoryDB *sql.DB // nil disables execution-history recording
	Logger    *slog.Logger
}

// App holds the fully-wired application.
type App struct {
	Query *query.QueryService
	Cache *cache.ResultCache
	Store *queries.FileStore
}

// New wires the definition store, result cache, warehouse adapter, and
// coordinator from the provided deps. The warehouse client is constructed
// exactly once here; a credential or configuration failure surfaces as a
// ClientInitializationError.
func New(ctx context.Context, deps Deps) (*App, error) {
	cfg := deps.Cfg

	store := queries.NewFileStore(cfg.QueryDir)
	resultCache := cache.New()

	wh, err := newWarehouse(ctx, deps)
	if err != nil {
		return nil, err
	}

	querySvc := query.NewQueryService(store, resultCache, wh, deps.Logger.With("component", "query"))

	if deps.HistoryDB != nil {
		querySvc.SetHistory(repository.NewHistoryRepo(deps.HistoryDB))
		deps.Logger.Info("execution history enabled", "path", cfg.HistoryDBPath)
	}

	return &App{Query: querySvc, Cache: resultCache, Store: store}, nil
}

// newWarehouse selects and constructs the configured warehouse adapter.
func newWarehouse(ctx context.Context, deps Deps) (domain.Warehouse, error) {
	cfg := deps.Cfg
	switch cfg.Warehouse {
	case config.WarehouseBigQuery:
		return warehouse.NewBigQuery(
			ctx, cfg.BigQueryProject, cfg.BigQueryLocation, cfg.CredentialsFile,
			deps.Logger.With("component", "bigquery"),
		)
	case config.WarehouseDuckDB:
		if deps.DuckDB == nil {
			return nil, fmt.Errorf("duckdb warehouse selected but no handle provided")
		}
		return warehouse.NewDuckDB(deps.DuckDB, deps.Logger.With("component", "duckdb")), nil
	default:
		return nil, fmt.Errorf("unknown warehouse backend %q", cfg.Warehouse)
	}
}
