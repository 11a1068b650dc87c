package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newResultsCmd() *cobra.Command {
	var noHistory bool

	cmd := &cobra.Command{
		Use:   "results <identifier>...",
		Short: "Execute queries and print a cost summary of the cached results",
		Long:  "Execute the named queries, then enumerate the result cache and print one summary line per cached result (rows, duration, bytes billed, bytes processed).",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			application, _, cleanup, err := buildApp(cmd.Context(), !noHistory)
			if err != nil {
				return err
			}
			defer cleanup()

			for _, id := range args {
				if _, err := application.Query.Execute(cmd.Context(), id); err != nil {
					return err
				}
			}

			results := application.Query.Results()
			rows := make([][]interface{}, len(results))
			for i, res := range results {
				rows[i] = []interface{}{
					res.Source.Name,
					res.Data.RowCount(),
					res.Duration.String(),
					formatBytes(res.BytesBilled),
					formatBytes(res.BytesProcessed),
				}
			}
			printTable(os.Stdout, []string{"name", "rows", "duration", "billed", "processed"}, rows)
			fmt.Fprintf(os.Stdout, "%d cached result(s)\n", len(results))
			return nil
		},
	}

	cmd.Flags().BoolVar(&noHistory, "no-history", false, "skip recording executions in the history metastore")
	return cmd
}
