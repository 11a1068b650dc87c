package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"dashengine/internal/config"
	"dashengine/internal/queries"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [identifier...]",
		Short: "Check that query definitions load and parse",
		Long:  "Load the named query definitions (or every definition in the query directory) and report parse failures without executing anything.",
		RunE: func(_ *cobra.Command, args []string) error {
			if err := config.LoadDotEnv(".env"); err != nil {
				fmt.Fprintf(os.Stderr, "warning: could not load .env: %v\n", err)
			}
			cfg, err := config.LoadFromEnv()
			if err != nil {
				return err
			}

			store := queries.NewFileStore(cfg.QueryDir)
			ids := args
			if len(ids) == 0 {
				ids, err = store.Identifiers()
				if err != nil {
					return err
				}
				if len(ids) == 0 {
					fmt.Fprintf(os.Stdout, "no query definitions in %s\n", cfg.QueryDir)
					return nil
				}
			}

			failures := 0
			for _, id := range ids {
				def, err := store.Load(id)
				if err != nil {
					failures++
					fmt.Fprintf(os.Stdout, "FAIL  %s: %v\n", id, err)
					continue
				}
				fmt.Fprintf(os.Stdout, "OK    %s (%s)\n", id, def.Name)
			}
			if failures > 0 {
				return fmt.Errorf("%d of %d definition(s) failed validation", failures, len(ids))
			}
			return nil
		},
	}
}
