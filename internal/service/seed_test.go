package service

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"github.com/kingrain94/notes-saas-api/internal/domain"
	"github.com/kingrain94/notes-saas-api/internal/mocks"
	"github.com/kingrain94/notes-saas-api/internal/repository"
	"github.com/kingrain94/notes-saas-api/internal/security/password"
	"github.com/kingrain94/notes-saas-api/pkg/logger"
)

type SeedServiceTestSuite struct {
	suite.Suite
	mockRepo   *mocks.PostgresRepository
	mockTenant *mocks.TenantRepository
	mockUser   *mocks.UserRepository
	hasher     *password.Hasher
	service    *SeedService
}

func (s *SeedServiceTestSuite) SetupTest() {
	s.mockRepo = new(mocks.PostgresRepository)
	s.mockTenant = new(mocks.TenantRepository)
	s.mockUser = new(mocks.UserRepository)

	s.mockRepo.On("Tenant").Return(s.mockTenant)
	s.mockRepo.On("User").Return(s.mockUser)

	s.hasher = password.NewHasher(bcrypt.MinCost)
	s.service = NewSeedService(s.mockRepo, s.hasher, logger.NewNop())
}

func TestSeedService(t *testing.T) {
	suite.Run(t, new(SeedServiceTestSuite))
}

func (s *SeedServiceTestSuite) TestDefaultFixture() {
	fixture := DefaultFixture()

	s.Require().Len(fixture.Tenants, 2)
	s.Equal("acme", fixture.Tenants[0].Slug)
	s.Equal("globex", fixture.Tenants[1].Slug)
	for _, t := range fixture.Tenants {
		s.Equal(domain.PlanFree, t.Plan)
		s.Require().Len(t.Users, 2)
		s.Equal("admin@"+t.Slug+".test", t.Users[0].Email)
		s.Equal(domain.RoleAdmin, t.Users[0].Role)
		s.Equal(domain.RoleMember, t.Users[1].Role)
	}
}

func (s *SeedServiceTestSuite) TestSeed_EmptyDatabase() {
	ctx := context.Background()
	s.mockTenant.On("ExistsBySlug", ctx, mock.Anything).Return(false, nil)
	s.mockTenant.On("Create", ctx, mock.AnythingOfType("*domain.Tenant")).Return(&domain.Tenant{}, nil)
	s.mockUser.On("ExistsByEmailAndTenant", ctx, mock.Anything, mock.Anything).Return(false, nil)
	s.mockUser.On("Create", ctx, mock.AnythingOfType("*domain.User")).Return(nil)

	result, err := s.service.Seed(ctx, DefaultFixture())

	s.NoError(err)
	s.Equal(2, result.TenantsCreated)
	s.Equal(4, result.UsersCreated)

	for _, call := range s.mockUser.Calls {
		if call.Method != "Create" {
			continue
		}
		user := call.Arguments.Get(1).(*domain.User)
		s.NotEqual("password", user.PasswordHash)
		s.True(s.hasher.Verify("password", user.PasswordHash))
	}
}

func (s *SeedServiceTestSuite) TestSeed_IsIdempotent() {
	ctx := context.Background()
	s.mockTenant.On("ExistsBySlug", ctx, mock.Anything).Return(true, nil)
	s.mockUser.On("ExistsByEmailAndTenant", ctx, mock.Anything, mock.Anything).Return(true, nil)

	result, err := s.service.Seed(ctx, DefaultFixture())

	s.NoError(err)
	s.Equal(SeedResult{}, result)
	s.mockTenant.AssertNotCalled(s.T(), "Create", mock.Anything, mock.Anything)
	s.mockUser.AssertNotCalled(s.T(), "Create", mock.Anything, mock.Anything)
}

func (s *SeedServiceTestSuite) TestSeed_ConcurrentInsertCountsAsExisting() {
	ctx := context.Background()
	s.mockTenant.On("ExistsBySlug", ctx, mock.Anything).Return(false, nil)
	s.mockTenant.On("Create", ctx, mock.Anything).Return(nil, repository.ErrDuplicate)
	s.mockUser.On("ExistsByEmailAndTenant", ctx, mock.Anything, mock.Anything).Return(false, nil)
	s.mockUser.On("Create", ctx, mock.Anything).Return(repository.ErrDuplicate)

	result, err := s.service.Seed(ctx, DefaultFixture())

	s.NoError(err)
	s.Equal(SeedResult{}, result)
}

func (s *SeedServiceTestSuite) TestSeed_RejectsInvalidSlug() {
	_, err := s.service.Seed(context.Background(), Fixture{Tenants: []FixtureTenant{{Name: "Bad", Slug: "Not Valid"}}})

	s.Error(err)
	s.mockTenant.AssertNotCalled(s.T(), "ExistsBySlug", mock.Anything, mock.Anything)
}

func (s *SeedServiceTestSuite) TestLoadFixture() {
	fixture, err := LoadFixture(filepath.Join("testdata", "fixture.yaml"))

	s.Require().NoError(err)
	s.Require().Len(fixture.Tenants, 1)
	tenant := fixture.Tenants[0]
	s.Equal("initech", tenant.Slug)
	s.Equal(domain.PlanPro, tenant.Plan)
	s.Require().Len(tenant.Users, 2)
	s.Equal(domain.RoleAdmin, tenant.Users[0].Role)
	s.Empty(tenant.Users[1].Role)
}

func (s *SeedServiceTestSuite) TestLoadFixture_MissingFile() {
	_, err := LoadFixture(filepath.Join("testdata", "missing.yaml"))

	s.Error(err)
}
