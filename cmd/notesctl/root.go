package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kingrain94/notes-saas-api/internal/config"
	"github.com/kingrain94/notes-saas-api/internal/repository"
	"github.com/kingrain94/notes-saas-api/internal/repository/postgres"
	"github.com/kingrain94/notes-saas-api/pkg/logger"
)

type rootOptions struct {
	verbose bool
	logger  *logger.Logger
}

// newRootCmd builds the command tree. Commands are constructed per call so tests get
// fresh flag state.
func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "notesctl",
		Short: "Operate the notes SaaS backend",
		Long: `notesctl runs schema migrations, seeds tenants and users, creates tenants
and issues bearer tokens against the configured Postgres database.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			env := os.Getenv("APP_ENV")
			if opts.verbose {
				env = "development"
			}
			opts.logger = logger.NewLogger(env)
		},
	}
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable verbose logging")

	cmd.AddCommand(
		newMigrateCmd(opts),
		newSeedCmd(opts),
		newTokenCmd(opts),
		newTenantCmd(opts),
	)
	return cmd
}

// openRepository connects to the writer and reader pools.
func openRepository() (repository.PostgresRepository, *config.DatabaseConnections, error) {
	dbConnections, err := config.NewDatabaseConnections()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return postgres.NewPostgresRepository(dbConnections), dbConnections, nil
}

func migrate(ctx context.Context, dbConnections *config.DatabaseConnections) error {
	return postgres.Migrate(ctx, dbConnections.Writer)
}
