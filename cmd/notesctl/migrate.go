package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newMigrateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, dbConnections, err := openRepository()
			if err != nil {
				return err
			}
			defer dbConnections.Close()

			if err := migrate(cmd.Context(), dbConnections); err != nil {
				return err
			}
			opts.logger.Info("schema is up to date")
			fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
			return nil
		},
	}
}
