package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zachrizzo/hens-travel/internal/config"
	"github.com/zachrizzo/hens-travel/internal/repository/postgres"
)

func MigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending Postgres migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadStore()
			out := cmd.OutOrStdout()
			if cfg.Driver != config.StoreDriverPostgres {
				fmt.Fprintf(out, "Store driver %s has no migrations.\n", cfg.Driver)
				return nil
			}

			db, err := postgres.New(cfg.DatabaseURL)
			if err != nil {
				return fmt.Errorf("failed to connect: %w", err)
			}
			defer db.Close()

			applied, err := postgres.Migrate(cmd.Context(), db)
			if err != nil {
				return fmt.Errorf("failed to migrate: %w", err)
			}
			if len(applied) == 0 {
				fmt.Fprintln(out, "No pending migrations.")
				return nil
			}
			for _, v := range applied {
				fmt.Fprintf(out, "Applied migration: %s\n", v)
			}
			return nil
		},
	}
	return cmd
}
