package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/kingrain94/notes-saas-api/internal/api/dto"
	"github.com/kingrain94/notes-saas-api/internal/domain"
	"github.com/kingrain94/notes-saas-api/internal/metrics"
	"github.com/kingrain94/notes-saas-api/internal/repository"
	"github.com/kingrain94/notes-saas-api/internal/security/password"
	"github.com/kingrain94/notes-saas-api/pkg/logger"
)

const tokenType = "Bearer"

type AuthService struct {
	repo    repository.Repository
	hasher  *password.Hasher
	tokens  *TokenManager
	metrics *metrics.Metrics
	logger  *logger.Logger
}

func NewAuthService(repo repository.Repository, hasher *password.Hasher, tokens *TokenManager, m *metrics.Metrics, log *logger.Logger) *AuthService {
	return &AuthService{
		repo:    repo,
		hasher:  hasher,
		tokens:  tokens,
		metrics: m,
		logger:  log,
	}
}

// Login checks credentials within a tenant. Without an explicit tenant the email must
// resolve to exactly one account whose password matches.
func (s *AuthService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.authenticate(ctx, domain.NormalizeEmail(req.Email), req.Password, strings.TrimSpace(req.Tenant))
	if err != nil {
		s.metrics.LoginAttempt("failure")
		return nil, err
	}
	s.metrics.LoginAttempt("success")

	return s.issue(ctx, user)
}

func (s *AuthService) authenticate(ctx context.Context, email, plain, tenantSlug string) (*domain.User, error) {
	if tenantSlug != "" {
		user, err := s.repo.User().GetByEmailAndTenant(ctx, email, tenantSlug)
		if errors.Is(err, repository.ErrNotFound) {
			s.hasher.VerifyDummy(plain)
			return nil, ErrInvalidCredentials
		}
		if err != nil {
			return nil, NewInternalError("failed to load user", err)
		}
		if !s.hasher.Verify(plain, user.PasswordHash) {
			return nil, ErrInvalidCredentials
		}
		return user, nil
	}

	candidates, err := s.repo.User().FindByEmail(ctx, email)
	if err != nil {
		return nil, NewInternalError("failed to load user", err)
	}
	if len(candidates) == 0 {
		s.hasher.VerifyDummy(plain)
		return nil, ErrInvalidCredentials
	}

	// Ambiguity is only reported to callers who already know a valid password.
	var matched []*domain.User
	for i := range candidates {
		if s.hasher.Verify(plain, candidates[i].PasswordHash) {
			matched = append(matched, &candidates[i])
		}
	}
	switch len(matched) {
	case 0:
		return nil, ErrInvalidCredentials
	case 1:
		return matched[0], nil
	default:
		return nil, ErrTenantRequired
	}
}

func (s *AuthService) issue(ctx context.Context, user *domain.User) (*dto.LoginResponse, error) {
	token, _, err := s.tokens.Issue(user)
	if err != nil {
		return nil, NewInternalError("failed to issue token", err)
	}

	resp := &dto.LoginResponse{
		Token:     token,
		TokenType: tokenType,
		ExpiresIn: int64(s.tokens.TTL().Seconds()),
		User:      *dto.FromUser(user),
	}
	if tenant, err := s.repo.Tenant().GetBySlug(ctx, user.TenantSlug); err == nil {
		resp.Tenant = dto.FromTenant(tenant)
	}
	return resp, nil
}

// Me re-reads the principal's account so a token for a deleted user stops working.
func (s *AuthService) Me(ctx context.Context, principal domain.Principal) (*dto.MeResponse, error) {
	user, err := s.repo.User().GetByIDAndTenant(ctx, principal.UserID, principal.TenantSlug)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidToken
	}
	if err != nil {
		return nil, NewInternalError("failed to load user", err)
	}

	tenant, err := s.repo.Tenant().GetBySlug(ctx, user.TenantSlug)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidToken
	}
	if err != nil {
		return nil, NewInternalError("failed to load tenant", err)
	}

	return &dto.MeResponse{
		User:   *dto.FromUser(user),
		Tenant: *dto.FromTenant(tenant),
	}, nil
}

// Register creates a FREE tenant together with its first ADMIN.
func (s *AuthService) Register(ctx context.Context, req dto.RegisterRequest) (*dto.LoginResponse, error) {
	slug := strings.TrimSpace(req.TenantSlug)
	if !domain.IsValidSlug(slug) {
		return nil, NewValidationError("tenant_slug must be 2-63 lowercase letters, digits or single hyphens")
	}
	if strings.TrimSpace(req.TenantName) == "" {
		return nil, NewValidationError("tenant_name is required")
	}
	if err := password.Validate(req.Password); err != nil {
		return nil, NewValidationError("%s", err.Error())
	}

	exists, err := s.repo.Tenant().ExistsBySlug(ctx, slug)
	if err != nil {
		return nil, NewInternalError("failed to check tenant", err)
	}
	if exists {
		return nil, ErrTenantExists
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, NewInternalError("failed to hash password", err)
	}

	tenant := &domain.Tenant{
		Name: strings.TrimSpace(req.TenantName),
		Slug: slug,
		Plan: domain.PlanFree,
	}
	admin := &domain.User{
		Email:        domain.NormalizeEmail(req.Email),
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Role:         domain.RoleAdmin,
	}

	if err := s.repo.Tenant().CreateWithAdmin(ctx, tenant, admin); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrTenantExists
		}
		return nil, NewInternalError("failed to create tenant", err)
	}

	s.logger.Info("tenant registered", zap.String("tenant", tenant.Slug), zap.String("admin_id", admin.ID))

	resp, err := s.issue(ctx, admin)
	if err != nil {
		return nil, err
	}
	resp.Tenant = dto.FromTenant(tenant)
	return resp, nil
}

// AcceptInvite turns a pending invitation into an account with the invited role.
func (s *AuthService) AcceptInvite(ctx context.Context, req dto.AcceptInviteRequest) (*dto.LoginResponse, error) {
	if err := password.Validate(req.Password); err != nil {
		return nil, NewValidationError("%s", err.Error())
	}

	invitation, err := s.repo.Invitation().GetPendingByToken(ctx, strings.TrimSpace(req.Token), nowUTC())
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvitationNotFound
	}
	if err != nil {
		return nil, NewInternalError("failed to load invitation", err)
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, NewInternalError("failed to hash password", err)
	}

	user := &domain.User{
		Email:        invitation.Email,
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		TenantSlug:   invitation.TenantSlug,
		Role:         invitation.Role,
	}

	if err := s.repo.Invitation().Accept(ctx, invitation, user); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrInvitationNotFound
		case errors.Is(err, repository.ErrDuplicate):
			return nil, ErrEmailAlreadyExists
		default:
			return nil, NewInternalError("failed to accept invitation", err)
		}
	}

	s.logger.Info("invitation accepted", zap.String("tenant", user.TenantSlug), zap.String("user_id", user.ID))
	return s.issue(ctx, user)
}
