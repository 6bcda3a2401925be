package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kingrain94/notes-saas-api/internal/config"
	"github.com/kingrain94/notes-saas-api/internal/domain"
	"github.com/kingrain94/notes-saas-api/internal/service"
)

type tokenOptions struct {
	userID     string
	email      string
	tenant     string
	role       string
	expiration time.Duration
}

// offlineUser builds the token subject from flags alone.
func (o tokenOptions) offlineUser() (*domain.User, error) {
	if o.tenant == "" {
		return nil, fmt.Errorf("--tenant is required")
	}
	role := strings.ToUpper(o.role)
	if !domain.IsValidRole(role) {
		return nil, fmt.Errorf("invalid role %q, expected ADMIN or MEMBER", o.role)
	}
	return &domain.User{
		ID:         o.userID,
		Email:      domain.NormalizeEmail(o.email),
		TenantSlug: o.tenant,
		Role:       domain.Role(role),
	}, nil
}

func newTokenCmd(opts *rootOptions) *cobra.Command {
	o := tokenOptions{}

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a bearer token",
		Long: `token signs a JWT with JWT_SECRET_KEY. With --user-id the claims come from the
flags only; otherwise the user is looked up by --email and --tenant.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			expiration := cfg.JWTExpiration
			if o.expiration > 0 {
				expiration = o.expiration
			}
			tokens := service.NewTokenManager(cfg.JWTSecretKey, cfg.JWTIssuer, expiration)

			var user *domain.User
			if o.userID != "" {
				if user, err = o.offlineUser(); err != nil {
					return err
				}
			} else {
				if o.email == "" || o.tenant == "" {
					return fmt.Errorf("--email and --tenant are required without --user-id")
				}
				repo, dbConnections, err := openRepository()
				if err != nil {
					return err
				}
				defer dbConnections.Close()

				if user, err = repo.User().GetByEmailAndTenant(cmd.Context(), domain.NormalizeEmail(o.email), o.tenant); err != nil {
					return fmt.Errorf("failed to find %s in tenant %s: %w", o.email, o.tenant, err)
				}
			}

			token, expiresAt, err := tokens.Issue(user)
			if err != nil {
				return err
			}
			opts.logger.Debug("issued token", zap.String("user_id", user.ID), zap.Time("expires_at", expiresAt))
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&o.userID, "user-id", "", "User ID (skips the database lookup)")
	cmd.Flags().StringVar(&o.email, "email", "", "User email")
	cmd.Flags().StringVar(&o.tenant, "tenant", "", "Tenant slug")
	cmd.Flags().StringVar(&o.role, "role", string(domain.RoleMember), "ADMIN or MEMBER, with --user-id")
	cmd.Flags().DurationVar(&o.expiration, "exp", 0, "Token lifetime, defaults to JWT_EXPIRATION_MINUTES")
	return cmd
}
