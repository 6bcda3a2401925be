package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"github.com/kingrain94/notes-saas-api/internal/api/dto"
	"github.com/kingrain94/notes-saas-api/internal/domain"
	"github.com/kingrain94/notes-saas-api/internal/mocks"
	"github.com/kingrain94/notes-saas-api/internal/repository"
	"github.com/kingrain94/notes-saas-api/internal/security/password"
	"github.com/kingrain94/notes-saas-api/pkg/logger"
)

type AuthServiceTestSuite struct {
	suite.Suite
	mockRepo       *mocks.Repository
	mockTenant     *mocks.TenantRepository
	mockUser       *mocks.UserRepository
	mockInvitation *mocks.InvitationRepository
	hasher         *password.Hasher
	tokens         *TokenManager
	service        *AuthService
	hash           string
}

func (s *AuthServiceTestSuite) SetupTest() {
	s.mockRepo = new(mocks.Repository)
	s.mockTenant = new(mocks.TenantRepository)
	s.mockUser = new(mocks.UserRepository)
	s.mockInvitation = new(mocks.InvitationRepository)

	s.mockRepo.On("Tenant").Return(s.mockTenant)
	s.mockRepo.On("User").Return(s.mockUser)
	s.mockRepo.On("Invitation").Return(s.mockInvitation)

	s.hasher = password.NewHasher(bcrypt.MinCost)
	s.tokens = NewTokenManager("test-secret", "notes-test", time.Hour)
	s.service = NewAuthService(s.mockRepo, s.hasher, s.tokens, nil, logger.NewNop())

	hash, err := s.hasher.Hash("password")
	s.Require().NoError(err)
	s.hash = hash
}

func TestAuthService(t *testing.T) {
	suite.Run(t, new(AuthServiceTestSuite))
}

func (s *AuthServiceTestSuite) user(id, slug string, role domain.Role) domain.User {
	return domain.User{
		ID:           id,
		Email:        "admin@" + slug + ".test",
		PasswordHash: s.hash,
		FirstName:    "Admin",
		LastName:     "User",
		TenantSlug:   slug,
		Role:         role,
	}
}

func (s *AuthServiceTestSuite) TestLogin_SingleTenant() {
	ctx := context.Background()
	user := s.user("u1", "acme", domain.RoleAdmin)

	s.mockUser.On("FindByEmail", ctx, "admin@acme.test").Return([]domain.User{user}, nil)
	s.mockTenant.On("GetBySlug", ctx, "acme").Return(&domain.Tenant{Slug: "acme", Name: "Acme Corporation", Plan: domain.PlanFree}, nil)

	resp, err := s.service.Login(ctx, dto.LoginRequest{Email: "  Admin@Acme.test ", Password: "password"})

	s.NoError(err)
	s.Equal("Bearer", resp.TokenType)
	s.Equal(int64(3600), resp.ExpiresIn)
	s.Equal("u1", resp.User.ID)
	s.Require().NotNil(resp.Tenant)
	s.Equal("acme", resp.Tenant.Slug)

	claims, err := s.tokens.Parse(resp.Token)
	s.Require().NoError(err)
	s.Equal("acme", claims.TenantSlug)
	s.Equal(domain.RoleAdmin, claims.Role)
	s.mockUser.AssertExpectations(s.T())
}

func (s *AuthServiceTestSuite) TestLogin_WrongPassword() {
	ctx := context.Background()
	user := s.user("u1", "acme", domain.RoleAdmin)

	s.mockUser.On("FindByEmail", ctx, "admin@acme.test").Return([]domain.User{user}, nil)

	resp, err := s.service.Login(ctx, dto.LoginRequest{Email: "admin@acme.test", Password: "wrong-password"})

	s.Nil(resp)
	s.ErrorIs(err, ErrInvalidCredentials)
}

func (s *AuthServiceTestSuite) TestLogin_UnknownEmailMatchesWrongPassword() {
	ctx := context.Background()
	s.mockUser.On("FindByEmail", ctx, "ghost@acme.test").Return([]domain.User{}, nil)

	_, err := s.service.Login(ctx, dto.LoginRequest{Email: "ghost@acme.test", Password: "password"})

	s.ErrorIs(err, ErrInvalidCredentials)
	s.Equal(KindAuthentication, KindOf(err))
}

func (s *AuthServiceTestSuite) TestLogin_AmbiguousEmailRequiresTenant() {
	ctx := context.Background()
	acme := s.user("u1", "acme", domain.RoleAdmin)
	globex := s.user("u2", "globex", domain.RoleMember)
	globex.Email = acme.Email

	s.mockUser.On("FindByEmail", ctx, acme.Email).Return([]domain.User{acme, globex}, nil)

	_, err := s.service.Login(ctx, dto.LoginRequest{Email: acme.Email, Password: "password"})

	s.ErrorIs(err, ErrTenantRequired)
	s.Equal(KindValidation, KindOf(err))
}

func (s *AuthServiceTestSuite) TestLogin_AmbiguousEmailResolvedByPassword() {
	ctx := context.Background()
	acme := s.user("u1", "acme", domain.RoleAdmin)
	globex := s.user("u2", "globex", domain.RoleMember)
	globex.Email = acme.Email
	otherHash, err := s.hasher.Hash("another-password")
	s.Require().NoError(err)
	globex.PasswordHash = otherHash

	s.mockUser.On("FindByEmail", ctx, acme.Email).Return([]domain.User{acme, globex}, nil)
	s.mockTenant.On("GetBySlug", ctx, "globex").Return(&domain.Tenant{Slug: "globex"}, nil)

	resp, err := s.service.Login(ctx, dto.LoginRequest{Email: acme.Email, Password: "another-password"})

	s.NoError(err)
	s.Equal("u2", resp.User.ID)
}

func (s *AuthServiceTestSuite) TestLogin_ExplicitTenant() {
	ctx := context.Background()
	user := s.user("u2", "globex", domain.RoleAdmin)

	s.mockUser.On("GetByEmailAndTenant", ctx, "admin@globex.test", "globex").Return(&user, nil)
	s.mockTenant.On("GetBySlug", ctx, "globex").Return(&domain.Tenant{Slug: "globex"}, nil)

	resp, err := s.service.Login(ctx, dto.LoginRequest{Email: "admin@globex.test", Password: "password", Tenant: "globex"})

	s.NoError(err)
	s.Equal("globex", resp.User.TenantSlug)
	s.mockUser.AssertNotCalled(s.T(), "FindByEmail", mock.Anything, mock.Anything)
}

func (s *AuthServiceTestSuite) TestLogin_ExplicitTenantUnknownUser() {
	ctx := context.Background()
	s.mockUser.On("GetByEmailAndTenant", ctx, "admin@acme.test", "globex").Return(nil, repository.ErrNotFound)

	_, err := s.service.Login(ctx, dto.LoginRequest{Email: "admin@acme.test", Password: "password", Tenant: "globex"})

	s.ErrorIs(err, ErrInvalidCredentials)
}

func (s *AuthServiceTestSuite) TestMe_DeletedUser() {
	ctx := context.Background()
	principal := domain.Principal{UserID: "u1", TenantSlug: "acme", Role: domain.RoleAdmin}

	s.mockUser.On("GetByIDAndTenant", ctx, "u1", "acme").Return(nil, repository.ErrNotFound)

	_, err := s.service.Me(ctx, principal)

	s.ErrorIs(err, ErrInvalidToken)
}

func (s *AuthServiceTestSuite) TestMe_Success() {
	ctx := context.Background()
	user := s.user("u1", "acme", domain.RoleMember)
	principal := domain.Principal{UserID: "u1", TenantSlug: "acme", Role: domain.RoleMember}

	s.mockUser.On("GetByIDAndTenant", ctx, "u1", "acme").Return(&user, nil)
	s.mockTenant.On("GetBySlug", ctx, "acme").Return(&domain.Tenant{Slug: "acme", Plan: domain.PlanPro}, nil)

	resp, err := s.service.Me(ctx, principal)

	s.NoError(err)
	s.Equal("u1", resp.User.ID)
	s.Equal(domain.PlanPro, resp.Tenant.Plan)
}

func (s *AuthServiceTestSuite) TestRegister_Success() {
	ctx := context.Background()
	req := dto.RegisterRequest{
		TenantName: "Initech",
		TenantSlug: "initech",
		Email:      "Owner@Initech.test",
		Password:   "correct-horse",
		FirstName:  "Bill",
	}

	s.mockTenant.On("ExistsBySlug", ctx, "initech").Return(false, nil)
	s.mockTenant.On("CreateWithAdmin", ctx, mock.AnythingOfType("*domain.Tenant"), mock.AnythingOfType("*domain.User")).
		Run(func(args mock.Arguments) {
			admin := args.Get(2).(*domain.User)
			admin.ID = "u9"
			admin.TenantSlug = "initech"
		}).
		Return(nil)
	s.mockTenant.On("GetBySlug", ctx, "initech").Return(&domain.Tenant{Slug: "initech", Plan: domain.PlanFree}, nil)

	resp, err := s.service.Register(ctx, req)

	s.NoError(err)
	s.Equal("owner@initech.test", resp.User.Email)
	s.Equal(domain.RoleAdmin, resp.User.Role)
	s.Equal(domain.PlanFree, resp.Tenant.Plan)

	created := s.mockTenant.Calls[1].Arguments.Get(2).(*domain.User)
	s.NotEqual("correct-horse", created.PasswordHash)
	s.True(s.hasher.Verify("correct-horse", created.PasswordHash))
}

func (s *AuthServiceTestSuite) TestRegister_DuplicateSlug() {
	ctx := context.Background()
	s.mockTenant.On("ExistsBySlug", ctx, "acme").Return(true, nil)

	_, err := s.service.Register(ctx, dto.RegisterRequest{
		TenantName: "Acme", TenantSlug: "acme", Email: "x@acme.test", Password: "long-enough", FirstName: "X",
	})

	s.ErrorIs(err, ErrTenantExists)
	s.Equal(KindConflict, KindOf(err))
}

func (s *AuthServiceTestSuite) TestRegister_Validation() {
	ctx := context.Background()
	cases := []dto.RegisterRequest{
		{TenantName: "Bad", TenantSlug: "Bad Slug", Email: "x@x.test", Password: "long-enough"},
		{TenantName: "", TenantSlug: "ok-slug", Email: "x@x.test", Password: "long-enough"},
		{TenantName: "Short", TenantSlug: "short", Email: "x@x.test", Password: "short"},
	}
	for _, req := range cases {
		_, err := s.service.Register(ctx, req)
		s.ErrorIs(err, ErrValidation, req.TenantSlug)
	}
	s.mockTenant.AssertNotCalled(s.T(), "CreateWithAdmin", mock.Anything, mock.Anything, mock.Anything)
}

func (s *AuthServiceTestSuite) TestAcceptInvite_Success() {
	ctx := context.Background()
	invitation := &domain.Invitation{ID: "i1", TenantSlug: "acme", Email: "new@acme.test", Role: domain.RoleMember, Token: "tok"}

	s.mockInvitation.On("GetPendingByToken", ctx, "tok", mock.AnythingOfType("time.Time")).Return(invitation, nil)
	s.mockInvitation.On("Accept", ctx, invitation, mock.AnythingOfType("*domain.User")).
		Run(func(args mock.Arguments) {
			args.Get(2).(*domain.User).ID = "u5"
		}).
		Return(nil)
	s.mockTenant.On("GetBySlug", ctx, "acme").Return(&domain.Tenant{Slug: "acme"}, nil)

	resp, err := s.service.AcceptInvite(ctx, dto.AcceptInviteRequest{Token: "tok", Password: "long-enough", FirstName: "New"})

	s.NoError(err)
	s.Equal("u5", resp.User.ID)
	s.Equal(domain.RoleMember, resp.User.Role)
	s.Equal("acme", resp.User.TenantSlug)
}

func (s *AuthServiceTestSuite) TestAcceptInvite_ExpiredToken() {
	ctx := context.Background()
	s.mockInvitation.On("GetPendingByToken", ctx, "old", mock.AnythingOfType("time.Time")).Return(nil, repository.ErrNotFound)

	_, err := s.service.AcceptInvite(ctx, dto.AcceptInviteRequest{Token: "old", Password: "long-enough", FirstName: "Late"})

	s.ErrorIs(err, ErrInvitationNotFound)
	s.Equal(KindNotFound, KindOf(err))
}

func (s *AuthServiceTestSuite) TestAcceptInvite_RepositoryFailureIsInternal() {
	ctx := context.Background()
	s.mockInvitation.On("GetPendingByToken", ctx, "tok", mock.AnythingOfType("time.Time")).Return(nil, errors.New("connection reset"))

	_, err := s.service.AcceptInvite(ctx, dto.AcceptInviteRequest{Token: "tok", Password: "long-enough", FirstName: "X"})

	s.Equal(KindInternal, KindOf(err))
}
