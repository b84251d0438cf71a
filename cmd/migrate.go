package cmd

import (
	"fmt"
	"strconv"

	"pointsbot/database"

	"github.com/spf13/cobra"
)

// NewMigrateCommand creates the migrate command group
func NewMigrateCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage database migrations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return database.MigrateUp(databaseURL(opts))
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "down [steps]",
		Short: "Roll back migrations (default 1 step)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			steps := 1
			if len(args) == 1 {
				n, err := strconv.Atoi(args[0])
				if err != nil || n <= 0 {
					return fmt.Errorf("invalid steps %q: must be a positive integer", args[0])
				}
				steps = n
			}
			return database.MigrateDown(databaseURL(opts), steps)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show the applied migration version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := database.GetMigrationStatus(databaseURL(opts))
			if err != nil {
				return err
			}
			return NewPrinter(cmd.OutOrStdout(), opts.Format).MigrationStatus(status)
		},
	})

	return cmd
}

func databaseURL(opts *RootOptions) string {
	return database.ConstructDatabaseURL(opts.cfg.DatabaseURL, opts.cfg.DatabaseName)
}
