package cmd

import (
	"fmt"

	"github.com/solatis/parametrix/internal/core/db"
	"github.com/spf13/cobra"
)

func newMigrateCommand(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage database migrations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			database, err := openDB(root)
			if err != nil {
				return err
			}
			defer database.Close()

			if err := db.MigrateUp(database); err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show applied and pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			database, err := openDB(root)
			if err != nil {
				return err
			}
			defer database.Close()

			statuses, err := db.MigrateStatus(database)
			if err != nil {
				return fmt.Errorf("failed to read migration status: %w", err)
			}

			out := cmd.OutOrStdout()
			if root.format == "json" {
				return writeJSON(out, statuses)
			}
			for _, s := range statuses {
				state := "pending"
				if s.Applied {
					state = "applied"
				}
				fmt.Fprintf(out, "%-8s %s\n", state, s.ID)
			}
			return nil
		},
	})

	return cmd
}
