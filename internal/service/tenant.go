package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"github.com/kingrain94/notes-saas-api/internal/api/dto"
	"github.com/kingrain94/notes-saas-api/internal/domain"
	"github.com/kingrain94/notes-saas-api/internal/metrics"
	"github.com/kingrain94/notes-saas-api/internal/repository"
	"github.com/kingrain94/notes-saas-api/internal/service/mail"
	"github.com/kingrain94/notes-saas-api/pkg/logger"
)

//go:generate mockery --name Mailer --output ../mocks
type Mailer interface {
	SendInvitation(ctx context.Context, inv mail.Invitation) error
}

type TenantServiceConfig struct {
	Limits        domain.PlanLimits
	InvitationTTL time.Duration
	CacheTTL      time.Duration
	PublicBaseURL string
}

type TenantService struct {
	repo    repository.Repository
	cfg     TenantServiceConfig
	queue   QueueService
	mailer  Mailer
	cache   *gocache.Cache
	metrics *metrics.Metrics
	logger  *logger.Logger
}

func NewTenantService(repo repository.Repository, cfg TenantServiceConfig, queue QueueService, mailer Mailer, m *metrics.Metrics, log *logger.Logger) *TenantService {
	if cfg.InvitationTTL <= 0 {
		cfg.InvitationTTL = 72 * time.Hour
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 30 * time.Second
	}
	return &TenantService{
		repo:    repo,
		cfg:     cfg,
		queue:   queue,
		mailer:  mailer,
		cache:   gocache.New(cfg.CacheTTL, 2*cfg.CacheTTL),
		metrics: m,
		logger:  log,
	}
}

func requireMember(principal domain.Principal, slug string) error {
	if !principal.BelongsTo(slug) {
		return ErrTenantMismatch
	}
	return nil
}

// requireAdmin gates tenant management. Both a foreign tenant and a non-admin role are
// authorization failures, never not-found.
func requireAdmin(principal domain.Principal, slug string) error {
	if !principal.BelongsTo(slug) {
		return ErrTenantMismatch
	}
	if !principal.IsAdmin() {
		return ErrAdminRequired
	}
	return nil
}

// tenant reads through a short-lived cache. The plan is never taken from here when
// enforcing limits; note creation reads the locked row instead.
func (s *TenantService) tenant(ctx context.Context, slug string) (*domain.Tenant, error) {
	if cached, ok := s.cache.Get(slug); ok {
		t := cached.(domain.Tenant)
		return &t, nil
	}

	tenant, err := s.repo.Tenant().GetBySlug(ctx, slug)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrTenantNotFound
	}
	if err != nil {
		return nil, NewInternalError("failed to load tenant", err)
	}

	s.cache.SetDefault(slug, *tenant)
	return tenant, nil
}

func (s *TenantService) Get(ctx context.Context, principal domain.Principal, slug string) (*dto.TenantDetailResponse, error) {
	if err := requireMember(principal, slug); err != nil {
		return nil, err
	}

	tenant, err := s.tenant(ctx, slug)
	if err != nil {
		return nil, err
	}

	usage, err := s.repo.Tenant().Usage(ctx, slug)
	if err != nil {
		return nil, NewInternalError("failed to load tenant usage", err)
	}

	return &dto.TenantDetailResponse{
		TenantResponse: *dto.FromTenant(tenant),
		NoteCount:      usage.Notes,
		UserCount:      usage.Users,
		Limits:         s.cfg.Limits.Info(tenant.Plan, usage.Notes),
	}, nil
}

func (s *TenantService) Limits(ctx context.Context, principal domain.Principal, slug string) (*domain.LimitInfo, error) {
	if err := requireMember(principal, slug); err != nil {
		return nil, err
	}

	tenant, err := s.tenant(ctx, slug)
	if err != nil {
		return nil, err
	}

	count, err := s.repo.Note().CountByTenant(ctx, slug)
	if err != nil {
		return nil, NewInternalError("failed to count notes", err)
	}

	info := s.cfg.Limits.Info(tenant.Plan, count)
	return &info, nil
}

// Upgrade moves a tenant to PRO. Upgrading a PRO tenant returns it unchanged.
func (s *TenantService) Upgrade(ctx context.Context, principal domain.Principal, slug string) (*dto.TenantResponse, error) {
	if err := requireAdmin(principal, slug); err != nil {
		return nil, err
	}

	current, err := s.repo.Tenant().GetBySlug(ctx, slug)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrTenantNotFound
	}
	if err != nil {
		return nil, NewInternalError("failed to load tenant", err)
	}
	if current.Plan == domain.PlanPro {
		return dto.FromTenant(current), nil
	}

	upgraded, err := s.repo.Tenant().UpdatePlan(ctx, slug, domain.PlanPro)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrTenantNotFound
	}
	if err != nil {
		return nil, NewInternalError("failed to upgrade tenant", err)
	}

	s.cache.Delete(slug)
	s.metrics.PlanUpgraded()
	s.logger.Info("tenant upgraded", zap.String("tenant", slug), zap.String("by", principal.UserID))

	return dto.FromTenant(upgraded), nil
}

// Invite records a pending invitation and emails it when SMTP is configured.
func (s *TenantService) Invite(ctx context.Context, principal domain.Principal, slug string, req dto.InviteUserRequest) (*dto.InvitationResponse, error) {
	if err := requireAdmin(principal, slug); err != nil {
		return nil, err
	}

	email := domain.NormalizeEmail(req.Email)
	if email == "" {
		return nil, NewValidationError("email is required")
	}
	role := domain.RoleMember
	if req.Role != "" {
		r := strings.ToUpper(strings.TrimSpace(req.Role))
		if !domain.IsValidRole(r) {
			return nil, NewValidationError("role must be ADMIN or MEMBER")
		}
		role = domain.Role(r)
	}

	tenant, err := s.tenant(ctx, slug)
	if err != nil {
		return nil, err
	}

	exists, err := s.repo.User().ExistsByEmailAndTenant(ctx, email, slug)
	if err != nil {
		return nil, NewInternalError("failed to check user", err)
	}
	if exists {
		return nil, ErrEmailAlreadyExists
	}

	invitation := &domain.Invitation{
		TenantSlug: slug,
		Email:      email,
		Role:       role,
		Token:      newInvitationToken(),
		InvitedBy:  principal.UserID,
		ExpiresAt:  nowUTC().Add(s.cfg.InvitationTTL),
	}
	if err := s.repo.Invitation().Create(ctx, invitation); err != nil {
		return nil, NewInternalError("failed to create invitation", err)
	}

	if s.mailer != nil {
		inviter := principal.Email
		if user, err := s.repo.User().GetByIDAndTenant(ctx, principal.UserID, slug); err == nil && user.FullName() != "" {
			inviter = user.FullName()
		}
		err := s.mailer.SendInvitation(ctx, mail.Invitation{
			To:          email,
			TenantName:  tenant.Name,
			Role:        string(role),
			InviterName: inviter,
			AcceptURL:   s.acceptURL(invitation.Token),
			Token:       invitation.Token,
		})
		if err != nil {
			// The invitation exists and its token is returned to the admin.
			s.logger.Error("failed to send invitation email", err, zap.String("tenant", slug))
		}
	}

	return dto.FromInvitation(invitation), nil
}

func (s *TenantService) acceptURL(token string) string {
	base := strings.TrimRight(s.cfg.PublicBaseURL, "/")
	return fmt.Sprintf("%s/accept-invite?token=%s", base, url.QueryEscape(token))
}

func newInvitationToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "") + strings.ReplaceAll(uuid.NewString(), "-", "")
}

func (s *TenantService) ListInvitations(ctx context.Context, principal domain.Principal, slug string) ([]dto.InvitationResponse, error) {
	if err := requireAdmin(principal, slug); err != nil {
		return nil, err
	}

	invitations, err := s.repo.Invitation().ListPendingByTenant(ctx, slug, nowUTC())
	if err != nil {
		return nil, NewInternalError("failed to list invitations", err)
	}

	responses := make([]dto.InvitationResponse, len(invitations))
	for i := range invitations {
		responses[i] = *dto.FromInvitation(&invitations[i])
		// Tokens are only shown once, at creation.
		responses[i].Token = ""
	}
	return responses, nil
}

func (s *TenantService) ListUsers(ctx context.Context, principal domain.Principal, slug string) ([]dto.UserResponse, error) {
	if err := requireAdmin(principal, slug); err != nil {
		return nil, err
	}

	users, err := s.repo.User().ListByTenant(ctx, domain.UserFilter{TenantSlug: slug})
	if err != nil {
		return nil, NewInternalError("failed to list users", err)
	}
	return dto.FromUsers(users), nil
}

// DeleteUser removes a user of the tenant together with their notes and no others.
func (s *TenantService) DeleteUser(ctx context.Context, principal domain.Principal, slug, userID string) (*dto.DeleteUserResponse, error) {
	if err := requireAdmin(principal, slug); err != nil {
		return nil, err
	}
	if userID == principal.UserID {
		return nil, ErrCannotDeleteSelf
	}
	if _, err := uuid.Parse(userID); err != nil {
		return nil, ErrUserNotFound
	}

	removed, err := s.repo.User().DeleteWithNotes(ctx, userID, slug)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, NewInternalError("failed to delete user", err)
	}

	if s.queue != nil {
		if err := s.queue.SendDeleteUserMessage(ctx, slug, userID); err != nil {
			s.logger.Error("failed to enqueue user index cleanup", err, zap.String("user_id", userID))
		}
	}

	s.logger.Info("user deleted",
		zap.String("tenant", slug),
		zap.String("user_id", userID),
		zap.Int64("notes_deleted", removed),
	)
	return &dto.DeleteUserResponse{UserID: userID, NotesDeleted: removed}, nil
}

// RequestExport queues an asynchronous export of every note in the tenant.
func (s *TenantService) RequestExport(ctx context.Context, principal domain.Principal, slug string) (*dto.ExportResponse, error) {
	if err := requireAdmin(principal, slug); err != nil {
		return nil, err
	}
	if s.queue == nil {
		return nil, NewInternalError("export queue not configured", nil)
	}

	if err := s.queue.SendExportMessage(ctx, slug, principal.UserID); err != nil {
		return nil, NewInternalError("failed to queue export", err)
	}

	return &dto.ExportResponse{
		TenantSlug: slug,
		Status:     "queued",
		QueuedAt:   nowUTC(),
	}, nil
}
