// Command server runs the dashengine HTTP API: query execution with
// result reuse, cache enumeration, and execution history.
package main

import (
	"context"
	"database/sql"
	"log"
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	_ "github.com/duckdb/duckdb-go/v2"
	_ "github.com/mattn/go-sqlite3"

	"dashengine/internal/api"
	"dashengine/internal/app"
	"dashengine/internal/config"
	internaldb "dashengine/internal/db"
	"dashengine/internal/middleware"
)

func main() {
	ctx := context.Background()

	// Load .env file (if present)
	if err := config.LoadDotEnv(".env"); err != nil {
		log.Printf("warning: could not load .env: %v", err)
	}

	cfg, err := config.LoadFromEnv()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	for _, warning := range cfg.Warnings {
		logger.Warn(warning)
	}

	// Local DuckDB handle, only needed for the duckdb warehouse backend.
	var duckDB *sql.DB
	if cfg.Warehouse == config.WarehouseDuckDB {
		duckDB, err = sql.Open("duckdb", cfg.DuckDBPath)
		if err != nil {
			log.Fatalf("open duckdb: %v", err)
		}
		defer duckDB.Close() //nolint:errcheck
	}

	// History metastore
	historyDB, err := internaldb.OpenSQLite(cfg.HistoryDBPath)
	if err != nil {
		log.Fatalf("open history metastore: %v", err)
	}
	defer historyDB.Close() //nolint:errcheck
	if err := internaldb.RunMigrations(historyDB); err != nil {
		log.Fatalf("history migrations: %v", err)
	}

	application, err := app.New(ctx, app.Deps{
		Cfg:       cfg,
		DuckDB:    duckDB,
		HistoryDB: historyDB,
		Logger:    logger,
	})
	if err != nil {
		log.Fatalf("wire application: %v", err)
	}

	handler := api.NewHandler(application.Query, logger.With("component", "api"))

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
	}))
	r.Use(middleware.RateLimiter(middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		Burst:             cfg.RateLimitBurst,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Mount("/v1", handler.Routes())

	logger.Info("server listening",
		"addr", cfg.ListenAddr,
		"warehouse", cfg.Warehouse,
		"query_dir", cfg.QueryDir,
	)
	if err := http.ListenAndServe(cfg.ListenAddr, r); err != nil { //nolint:gosec // timeouts delegated to upstream proxy in deployment
		log.Fatalf("server: %v", err)
	}
}
