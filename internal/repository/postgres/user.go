package postgres

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kingrain94/notes-saas-api/internal/domain"
	"github.com/kingrain94/notes-saas-api/internal/repository"
)

type UserRepository struct {
	writerDB *gorm.DB
	readerDB *gorm.DB
}

func NewUserRepository(writerDB, readerDB *gorm.DB) *UserRepository {
	return &UserRepository{
		writerDB: writerDB,
		readerDB: readerDB,
	}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	user.Email = domain.NormalizeEmail(user.Email)
	if user.Role == "" {
		user.Role = domain.RoleMember
	}
	return translateError(r.writerDB.WithContext(ctx).Create(user).Error)
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	var user domain.User
	if err := r.readerDB.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return &user, nil
}

func (r *UserRepository) GetByIDAndTenant(ctx context.Context, id, tenantSlug string) (*domain.User, error) {
	var user domain.User
	err := r.readerDB.WithContext(ctx).
		Scopes(tenantScope(tenantSlug)).
		First(&user, "id = ?", id).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &user, nil
}

// FindByEmail returns every account registered with email, one per tenant.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) ([]domain.User, error) {
	var users []domain.User
	err := r.readerDB.WithContext(ctx).
		Where("email = ?", domain.NormalizeEmail(email)).
		Order("tenant_slug").
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

func (r *UserRepository) GetByEmailAndTenant(ctx context.Context, email, tenantSlug string) (*domain.User, error) {
	var user domain.User
	err := r.readerDB.WithContext(ctx).
		Scopes(tenantScope(tenantSlug)).
		First(&user, "email = ?", domain.NormalizeEmail(email)).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &user, nil
}

func (r *UserRepository) ExistsByEmailAndTenant(ctx context.Context, email, tenantSlug string) (bool, error) {
	var count int64
	err := r.readerDB.WithContext(ctx).
		Model(&domain.User{}).
		Scopes(tenantScope(tenantSlug)).
		Where("email = ?", domain.NormalizeEmail(email)).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *UserRepository) ListByTenant(ctx context.Context, filter domain.UserFilter) ([]domain.User, error) {
	var users []domain.User
	db := r.readerDB.WithContext(ctx).Scopes(tenantScope(filter.TenantSlug))
	if filter.Role != "" {
		db = db.Where("role = ?", filter.Role)
	}
	if err := db.Order("created_at, email").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *UserRepository) CountByTenant(ctx context.Context, tenantSlug string) (int64, error) {
	var count int64
	err := r.readerDB.WithContext(ctx).Model(&domain.User{}).Scopes(tenantScope(tenantSlug)).Count(&count).Error
	return count, err
}

func (r *UserRepository) DeleteWithNotes(ctx context.Context, id, tenantSlug string) (int64, error) {
	var removed int64
	err := r.writerDB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		notes := tx.Scopes(tenantScope(tenantSlug)).Where("user_id = ?", id).Delete(&domain.Note{})
		if notes.Error != nil {
			return notes.Error
		}
		removed = notes.RowsAffected

		user := tx.Scopes(tenantScope(tenantSlug)).Where("id = ?", id).Delete(&domain.User{})
		if user.Error != nil {
			return user.Error
		}
		if user.RowsAffected == 0 {
			return repository.ErrNotFound
		}
		return nil
	})
	if err != nil {
		return 0, translateError(err)
	}
	return removed, nil
}
