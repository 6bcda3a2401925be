package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kingrain94/notes-saas-api/internal/domain"
	"github.com/kingrain94/notes-saas-api/internal/repository"
)

type InvitationRepository struct {
	writerDB *gorm.DB
	readerDB *gorm.DB
}

func NewInvitationRepository(writerDB, readerDB *gorm.DB) *InvitationRepository {
	return &InvitationRepository{
		writerDB: writerDB,
		readerDB: readerDB,
	}
}

func (r *InvitationRepository) Create(ctx context.Context, invitation *domain.Invitation) error {
	if invitation.ID == "" {
		invitation.ID = uuid.New().String()
	}
	invitation.Email = domain.NormalizeEmail(invitation.Email)
	return translateError(r.writerDB.WithContext(ctx).Create(invitation).Error)
}

// GetPendingByToken reads from the writer so a freshly created invitation is visible
// even when the reader replica lags.
func (r *InvitationRepository) GetPendingByToken(ctx context.Context, token string, now time.Time) (*domain.Invitation, error) {
	var invitation domain.Invitation
	err := r.writerDB.WithContext(ctx).
		Where("token = ? AND accepted_at IS NULL AND expires_at > ?", token, now).
		First(&invitation).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &invitation, nil
}

func (r *InvitationRepository) Accept(ctx context.Context, invitation *domain.Invitation, user *domain.User) error {
	err := r.writerDB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now().UTC()
		claimed := tx.Model(&domain.Invitation{}).
			Where("id = ? AND accepted_at IS NULL AND expires_at > ?", invitation.ID, now).
			Update("accepted_at", now)
		if claimed.Error != nil {
			return claimed.Error
		}
		if claimed.RowsAffected == 0 {
			return repository.ErrNotFound
		}

		if user.ID == "" {
			user.ID = uuid.New().String()
		}
		user.Email = domain.NormalizeEmail(user.Email)
		if err := tx.Create(user).Error; err != nil {
			return err
		}

		invitation.AcceptedAt = &now
		return nil
	})
	return translateError(err)
}

func (r *InvitationRepository) ListPendingByTenant(ctx context.Context, tenantSlug string, now time.Time) ([]domain.Invitation, error) {
	invitations := []domain.Invitation{}
	err := r.readerDB.WithContext(ctx).
		Scopes(tenantScope(tenantSlug)).
		Where("accepted_at IS NULL AND expires_at > ?", now).
		Order("created_at DESC").
		Find(&invitations).Error
	if err != nil {
		return nil, err
	}
	return invitations, nil
}

// DeleteExpired removes unaccepted invitations that expired before the cutoff.
func (r *InvitationRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	result := r.writerDB.WithContext(ctx).
		Where("accepted_at IS NULL AND expires_at < ?", before).
		Delete(&domain.Invitation{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
