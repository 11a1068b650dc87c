// Package cli implements the dashengine command-line interface. Commands
// wire the core directly: queries run in-process against the configured
// warehouse, and the result cache lives for the duration of one invocation.
package cli

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	_ "github.com/duckdb/duckdb-go/v2"
	_ "github.com/mattn/go-sqlite3"

	"dashengine/internal/app"
	"dashengine/internal/config"
	internaldb "dashengine/internal/db"
)

var (
	version = "dev"
	commit  = "none"
)

// Execute runs the CLI.
func Execute() int {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "dashengine",
		Short:         "Declared-query execution with result reuse",
		Long:          "Run named SQL queries against the configured warehouse, reusing prior results for identical identifiers.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		newRunCmd(),
		newResultsCmd(),
		newValidateCmd(),
		newHistoryCmd(),
		newVersionCmd(),
	)
	return rootCmd
}

// buildApp loads configuration and wires an in-process application instance.
// The returned cleanup closes any opened handles.
func buildApp(ctx context.Context, withHistory bool) (*app.App, *config.Config, func(), error) {
	if err := config.LoadDotEnv(".env"); err != nil {
		fmt.Fprintf(os.Stderr, "warning: could not load .env: %v\n", err)
	}
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return nil, nil, nil, err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	var duckDB *sql.DB
	if cfg.Warehouse == config.WarehouseDuckDB {
		duckDB, err = sql.Open("duckdb", cfg.DuckDBPath)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("open duckdb: %w", err)
		}
		closers = append(closers, func() { _ = duckDB.Close() })
	}

	var historyDB *sql.DB
	if withHistory {
		historyDB, err = internaldb.OpenSQLite(cfg.HistoryDBPath)
		if err != nil {
			cleanup()
			return nil, nil, nil, fmt.Errorf("open history metastore: %w", err)
		}
		closers = append(closers, func() { _ = historyDB.Close() })
		if err := internaldb.RunMigrations(historyDB); err != nil {
			cleanup()
			return nil, nil, nil, fmt.Errorf("history migrations: %w", err)
		}
	}

	application, err := app.New(ctx, app.Deps{
		Cfg:       cfg,
		DuckDB:    duckDB,
		HistoryDB: historyDB,
		Logger:    logger,
	})
	if err != nil {
		cleanup()
		return nil, nil, nil, err
	}
	return application, cfg, cleanup, nil
}
