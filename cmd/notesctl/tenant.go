package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kingrain94/notes-saas-api/internal/domain"
	"github.com/kingrain94/notes-saas-api/internal/security/password"
	"github.com/kingrain94/notes-saas-api/internal/service"
)

func newTenantCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tenant",
		Short: "Manage tenants",
	}
	cmd.AddCommand(newTenantCreateCmd(opts))
	return cmd
}

type tenantCreateOptions struct {
	name          string
	slug          string
	plan          string
	adminEmail    string
	adminPassword string
	adminFirst    string
	adminLast     string
}

func (o tenantCreateOptions) fixture() (service.Fixture, error) {
	if o.name == "" || o.slug == "" {
		return service.Fixture{}, fmt.Errorf("--name and --slug are required")
	}
	plan := strings.ToUpper(o.plan)
	if !domain.IsValidPlan(plan) {
		return service.Fixture{}, fmt.Errorf("invalid plan %q, expected FREE or PRO", o.plan)
	}

	tenant := service.FixtureTenant{Name: o.name, Slug: o.slug, Plan: domain.Plan(plan)}
	if o.adminEmail != "" {
		if err := password.Validate(o.adminPassword); err != nil {
			return service.Fixture{}, err
		}
		tenant.Users = []service.FixtureUser{{
			Email:     o.adminEmail,
			Password:  o.adminPassword,
			FirstName: o.adminFirst,
			LastName:  o.adminLast,
			Role:      domain.RoleAdmin,
		}}
	}
	return service.Fixture{Tenants: []service.FixtureTenant{tenant}}, nil
}

func newTenantCreateCmd(opts *rootOptions) *cobra.Command {
	o := tenantCreateOptions{}

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a tenant, optionally with its first admin",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fixture, err := o.fixture()
			if err != nil {
				return err
			}

			repo, dbConnections, err := openRepository()
			if err != nil {
				return err
			}
			defer dbConnections.Close()

			result, err := service.NewSeedService(repo, password.NewHasher(bcryptCost()), opts.logger).Seed(cmd.Context(), fixture)
			if err != nil {
				return err
			}
			if result.TenantsCreated == 0 {
				return fmt.Errorf("tenant %q already exists", o.slug)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "created tenant %s (%s)\n", o.slug, strings.ToUpper(o.plan))
			if result.UsersCreated > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "created admin %s\n", o.adminEmail)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&o.name, "name", "", "Display name")
	cmd.Flags().StringVar(&o.slug, "slug", "", "URL slug, lowercase letters, digits and dashes")
	cmd.Flags().StringVar(&o.plan, "plan", string(domain.PlanFree), "FREE or PRO")
	cmd.Flags().StringVar(&o.adminEmail, "admin-email", "", "Email of the first admin")
	cmd.Flags().StringVar(&o.adminPassword, "admin-password", "", "Password of the first admin")
	cmd.Flags().StringVar(&o.adminFirst, "admin-first-name", "Admin", "First name of the first admin")
	cmd.Flags().StringVar(&o.adminLast, "admin-last-name", "User", "Last name of the first admin")
	return cmd
}
