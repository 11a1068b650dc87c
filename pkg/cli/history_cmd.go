package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"dashengine/internal/config"
	internaldb "dashengine/internal/db"
	"dashengine/internal/db/repository"
	"dashengine/internal/domain"
)

func newHistoryCmd() *cobra.Command {
	var (
		status string
		limit  int
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded warehouse submissions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := config.LoadDotEnv(".env"); err != nil {
				fmt.Fprintf(os.Stderr, "warning: could not load .env: %v\n", err)
			}
			cfg, err := config.LoadFromEnv()
			if err != nil {
				return err
			}

			db, err := internaldb.OpenSQLite(cfg.HistoryDBPath)
			if err != nil {
				return fmt.Errorf("open history metastore: %w", err)
			}
			defer db.Close() //nolint:errcheck
			if err := internaldb.RunMigrations(db); err != nil {
				return fmt.Errorf("history migrations: %w", err)
			}

			filter := domain.HistoryFilter{Limit: limit}
			if status != "" {
				filter.Status = &status
			}
			entries, err := repository.NewHistoryRepo(db).List(cmd.Context(), filter)
			if err != nil {
				return err
			}

			rows := make([][]interface{}, len(entries))
			for i, e := range entries {
				errMsg := ""
				if e.ErrorMessage != nil {
					errMsg = *e.ErrorMessage
				}
				rows[i] = []interface{}{
					e.CreatedAt.Format("2006-01-02 15:04:05"),
					e.QueryID,
					e.Status,
					fmt.Sprintf("%dms", e.DurationMs),
					e.RowsReturned,
					formatBytes(e.BytesBilled),
					errMsg,
				}
			}
			printTable(os.Stdout, []string{"at", "query", "status", "duration", "rows", "billed", "error"}, rows)
			return nil
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "filter by status (SUCCEEDED or FAILED)")
	cmd.Flags().IntVar(&limit, "limit", 50, "maximum number of entries to list")
	return cmd
}
