package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newRunCmd() *cobra.Command {
	var noHistory bool

	cmd := &cobra.Command{
		Use:   "run <identifier>...",
		Short: "Execute one or more declared queries",
		Long:  "Execute the named queries against the configured warehouse. A repeated identifier within one invocation reuses the cached result.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			application, _, cleanup, err := buildApp(cmd.Context(), !noHistory)
			if err != nil {
				return err
			}
			defer cleanup()

			for _, id := range args {
				result, err := application.Query.Execute(cmd.Context(), id)
				if err != nil {
					return err
				}

				fmt.Fprintf(os.Stdout, "%s — %s\n", result.Source.Name, result.Source.Description)
				printTable(os.Stdout, result.Data.Columns, result.Data.Rows)
				fmt.Fprintf(os.Stdout, "%d row(s) in %s  billed %s  processed %s\n\n",
					result.Data.RowCount(),
					result.Duration,
					formatBytes(result.BytesBilled),
					formatBytes(result.BytesProcessed),
				)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&noHistory, "no-history", false, "skip recording executions in the history metastore")
	return cmd
}
