package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/kingrain94/notes-saas-api/internal/domain"
	"github.com/kingrain94/notes-saas-api/internal/repository"
)

type TenantRepository struct {
	writerDB *gorm.DB
	readerDB *gorm.DB
}

func NewTenantRepository(writerDB, readerDB *gorm.DB) *TenantRepository {
	return &TenantRepository{
		writerDB: writerDB,
		readerDB: readerDB,
	}
}

func (r *TenantRepository) Create(ctx context.Context, tenant *domain.Tenant) (*domain.Tenant, error) {
	if tenant.ID == "" {
		tenant.ID = uuid.New().String()
	}
	if tenant.Plan == "" {
		tenant.Plan = domain.PlanFree
	}
	if err := r.writerDB.WithContext(ctx).Create(tenant).Error; err != nil {
		return nil, translateError(err)
	}
	return tenant, nil
}

func (r *TenantRepository) CreateWithAdmin(ctx context.Context, tenant *domain.Tenant, admin *domain.User) error {
	if tenant.ID == "" {
		tenant.ID = uuid.New().String()
	}
	if tenant.Plan == "" {
		tenant.Plan = domain.PlanFree
	}
	if admin.ID == "" {
		admin.ID = uuid.New().String()
	}
	admin.TenantSlug = tenant.Slug
	admin.Email = domain.NormalizeEmail(admin.Email)
	admin.Role = domain.RoleAdmin

	err := r.writerDB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(tenant).Error; err != nil {
			return err
		}
		return tx.Omit(clause.Associations).Create(admin).Error
	})
	return translateError(err)
}

func (r *TenantRepository) GetBySlug(ctx context.Context, slug string) (*domain.Tenant, error) {
	var tenant domain.Tenant
	if err := r.readerDB.WithContext(ctx).First(&tenant, "slug = ?", slug).Error; err != nil {
		return nil, translateError(err)
	}
	return &tenant, nil
}

func (r *TenantRepository) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	var count int64
	if err := r.readerDB.WithContext(ctx).Model(&domain.Tenant{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// UpdatePlan changes the plan in a single UPDATE on the tenant row, so it serializes with
// note creation, which locks the same row.
func (r *TenantRepository) UpdatePlan(ctx context.Context, slug string, plan domain.Plan) (*domain.Tenant, error) {
	var tenant domain.Tenant
	result := r.writerDB.WithContext(ctx).
		Model(&tenant).
		Clauses(clause.Returning{}).
		Where("slug = ?", slug).
		Updates(map[string]any{"plan": plan, "updated_at": time.Now().UTC()})
	if result.Error != nil {
		return nil, translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, repository.ErrNotFound
	}
	return &tenant, nil
}

func (r *TenantRepository) Usage(ctx context.Context, slug string) (*domain.TenantUsage, error) {
	var usage domain.TenantUsage
	db := r.readerDB.WithContext(ctx)
	if err := db.Model(&domain.Note{}).Scopes(tenantScope(slug)).Count(&usage.Notes).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&domain.User{}).Scopes(tenantScope(slug)).Count(&usage.Users).Error; err != nil {
		return nil, err
	}
	return &usage, nil
}

func (r *TenantRepository) List(ctx context.Context) ([]domain.Tenant, error) {
	var tenants []domain.Tenant
	if err := r.readerDB.WithContext(ctx).Order("slug").Find(&tenants).Error; err != nil {
		return nil, err
	}
	return tenants, nil
}
