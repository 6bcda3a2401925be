package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kingrain94/notes-saas-api/internal/config"
	"github.com/kingrain94/notes-saas-api/internal/security/password"
	"github.com/kingrain94/notes-saas-api/internal/service"
)

func newSeedCmd(opts *rootOptions) *cobra.Command {
	var fixturePath string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert the demo tenants and users, or those of a fixture file",
		Long: `seed is idempotent: tenants are matched by slug and users by email within
their tenant, so running it again inserts nothing.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fixture := service.DefaultFixture()
			if fixturePath != "" {
				loaded, err := service.LoadFixture(fixturePath)
				if err != nil {
					return err
				}
				fixture = loaded
			}

			repo, dbConnections, err := openRepository()
			if err != nil {
				return err
			}
			defer dbConnections.Close()

			if err := migrate(cmd.Context(), dbConnections); err != nil {
				return err
			}

			hasher := password.NewHasher(bcryptCost())
			result, err := service.NewSeedService(repo, hasher, opts.logger).Seed(cmd.Context(), fixture)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "tenants created: %d, users created: %d\n", result.TenantsCreated, result.UsersCreated)
			return nil
		},
	}
	cmd.Flags().StringVarP(&fixturePath, "file", "f", "", "YAML fixture to seed instead of the demo data")
	return cmd
}

// bcryptCost reads BCRYPT_COST without requiring the rest of the API configuration.
func bcryptCost() int {
	cfg, err := config.Load()
	if err != nil {
		return 0
	}
	return cfg.BcryptCost
}
