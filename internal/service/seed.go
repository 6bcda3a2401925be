package service

import (
	"context"
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/kingrain94/notes-saas-api/internal/domain"
	"github.com/kingrain94/notes-saas-api/internal/repository"
	"github.com/kingrain94/notes-saas-api/internal/security/password"
	"github.com/kingrain94/notes-saas-api/pkg/logger"
)

type FixtureTenant struct {
	Name  string        `yaml:"name"`
	Slug  string        `yaml:"slug"`
	Plan  domain.Plan   `yaml:"plan"`
	Users []FixtureUser `yaml:"users"`
}

type FixtureUser struct {
	Email     string      `yaml:"email"`
	Password  string      `yaml:"password"`
	FirstName string      `yaml:"first_name"`
	LastName  string      `yaml:"last_name"`
	Role      domain.Role `yaml:"role"`
}

type Fixture struct {
	Tenants []FixtureTenant `yaml:"tenants"`
}

// DefaultFixture is the demo data: two FREE tenants with one admin and one member each.
func DefaultFixture() Fixture {
	tenant := func(name, slug string) FixtureTenant {
		return FixtureTenant{
			Name: name,
			Slug: slug,
			Plan: domain.PlanFree,
			Users: []FixtureUser{
				{Email: "admin@" + slug + ".test", Password: "password", FirstName: "Admin", LastName: "User", Role: domain.RoleAdmin},
				{Email: "user@" + slug + ".test", Password: "password", FirstName: "Regular", LastName: "User", Role: domain.RoleMember},
			},
		}
	}
	return Fixture{Tenants: []FixtureTenant{
		tenant("Acme Corporation", "acme"),
		tenant("Globex Corporation", "globex"),
	}}
}

func LoadFixture(path string) (Fixture, error) {
	var fixture Fixture
	data, err := os.ReadFile(path)
	if err != nil {
		return fixture, fmt.Errorf("failed to read fixture: %w", err)
	}
	if err := yaml.Unmarshal(data, &fixture); err != nil {
		return fixture, fmt.Errorf("failed to parse fixture: %w", err)
	}
	return fixture, nil
}

// SeedResult counts what a seed run actually inserted.
type SeedResult struct {
	TenantsCreated int
	UsersCreated   int
}

type SeedService struct {
	repo   repository.PostgresRepository
	hasher *password.Hasher
	logger *logger.Logger
}

func NewSeedService(repo repository.PostgresRepository, hasher *password.Hasher, log *logger.Logger) *SeedService {
	return &SeedService{
		repo:   repo,
		hasher: hasher,
		logger: log,
	}
}

// Seed inserts whatever part of fixture is missing. Running it again changes nothing.
func (s *SeedService) Seed(ctx context.Context, fixture Fixture) (SeedResult, error) {
	var result SeedResult

	for _, ft := range fixture.Tenants {
		if !domain.IsValidSlug(ft.Slug) {
			return result, fmt.Errorf("invalid tenant slug %q", ft.Slug)
		}

		created, err := s.seedTenant(ctx, ft)
		if err != nil {
			return result, err
		}
		if created {
			result.TenantsCreated++
		}

		for _, fu := range ft.Users {
			created, err := s.seedUser(ctx, ft.Slug, fu)
			if err != nil {
				return result, err
			}
			if created {
				result.UsersCreated++
			}
		}
	}

	s.logger.Info("seed completed",
		zap.Int("tenants_created", result.TenantsCreated),
		zap.Int("users_created", result.UsersCreated),
	)
	return result, nil
}

func (s *SeedService) seedTenant(ctx context.Context, ft FixtureTenant) (bool, error) {
	exists, err := s.repo.Tenant().ExistsBySlug(ctx, ft.Slug)
	if err != nil {
		return false, fmt.Errorf("failed to check tenant %s: %w", ft.Slug, err)
	}
	if exists {
		return false, nil
	}

	plan := ft.Plan
	if plan == "" {
		plan = domain.PlanFree
	}
	if !domain.IsValidPlan(string(plan)) {
		return false, fmt.Errorf("invalid plan %q for tenant %s", plan, ft.Slug)
	}

	_, err = s.repo.Tenant().Create(ctx, &domain.Tenant{Name: ft.Name, Slug: ft.Slug, Plan: plan})
	if errors.Is(err, repository.ErrDuplicate) {
		// Another instance seeded it first.
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to create tenant %s: %w", ft.Slug, err)
	}
	return true, nil
}

func (s *SeedService) seedUser(ctx context.Context, slug string, fu FixtureUser) (bool, error) {
	email := domain.NormalizeEmail(fu.Email)
	exists, err := s.repo.User().ExistsByEmailAndTenant(ctx, email, slug)
	if err != nil {
		return false, fmt.Errorf("failed to check user %s: %w", email, err)
	}
	if exists {
		return false, nil
	}

	role := fu.Role
	if role == "" {
		role = domain.RoleMember
	}
	if !domain.IsValidRole(string(role)) {
		return false, fmt.Errorf("invalid role %q for user %s", role, email)
	}

	hash, err := s.hasher.Hash(fu.Password)
	if err != nil {
		return false, fmt.Errorf("failed to hash password for %s: %w", email, err)
	}

	err = s.repo.User().Create(ctx, &domain.User{
		Email:        email,
		PasswordHash: hash,
		FirstName:    fu.FirstName,
		LastName:     fu.LastName,
		TenantSlug:   slug,
		Role:         role,
	})
	if errors.Is(err, repository.ErrDuplicate) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to create user %s: %w", email, err)
	}
	return true, nil
}
