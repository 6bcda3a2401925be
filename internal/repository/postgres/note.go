package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/kingrain94/notes-saas-api/internal/domain"
	"github.com/kingrain94/notes-saas-api/internal/repository"
)

type NoteRepository struct {
	writerDB *gorm.DB
	readerDB *gorm.DB
}

func NewNoteRepository(writerDB, readerDB *gorm.DB) *NoteRepository {
	return &NoteRepository{
		writerDB: writerDB,
		readerDB: readerDB,
	}
}

// CreateGuarded locks the tenant row, counts the tenant's notes and lets guard decide
// before inserting. Concurrent creates for one tenant queue on the lock, so two requests
// can never both observe the last free slot.
func (r *NoteRepository) CreateGuarded(ctx context.Context, note *domain.Note, guard repository.CreateGuard) error {
	err := r.writerDB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var tenant domain.Tenant
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("slug = ?", note.TenantSlug).
			First(&tenant).Error
		if err != nil {
			return err
		}

		var count int64
		if err := tx.Model(&domain.Note{}).Scopes(tenantScope(note.TenantSlug)).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to count notes: %w", err)
		}

		if guard != nil {
			if err := guard(&tenant, count); err != nil {
				return err
			}
		}

		if note.ID == "" {
			note.ID = uuid.New().String()
		}
		if note.Tags == nil {
			note.Tags = []string{}
		}
		return tx.Omit(clause.Associations).Create(note).Error
	})
	return translateError(err)
}

func (r *NoteRepository) GetByIDAndTenant(ctx context.Context, id, tenantSlug string) (*domain.Note, error) {
	var note domain.Note
	err := r.readerDB.WithContext(ctx).
		Scopes(tenantScope(tenantSlug)).
		First(&note, "id = ?", id).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &note, nil
}

func (r *NoteRepository) GetByIDTenantAndUser(ctx context.Context, id, tenantSlug, userID string) (*domain.Note, error) {
	var note domain.Note
	err := r.readerDB.WithContext(ctx).
		Scopes(tenantScope(tenantSlug)).
		Where("user_id = ?", userID).
		First(&note, "id = ?", id).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &note, nil
}

func (r *NoteRepository) applyFilter(db *gorm.DB, filter domain.NoteFilter) (*gorm.DB, error) {
	db = db.Scopes(tenantScope(filter.TenantSlug))

	if filter.UserID != "" {
		db = db.Where("user_id = ?", filter.UserID)
	}
	if filter.Category != "" {
		db = db.Where("category = ?", filter.Category)
	}
	if filter.Tag != "" {
		tag, err := json.Marshal([]string{filter.Tag})
		if err != nil {
			return nil, err
		}
		db = db.Where("tags @> ?::jsonb", string(tag))
	}
	if filter.Pinned != nil {
		db = db.Where("pinned = ?", *filter.Pinned)
	}
	if filter.Query != "" {
		pattern := "%" + escapeLike(filter.Query) + "%"
		db = db.Where("(title ILIKE ? OR content ILIKE ? OR tags::text ILIKE ?)", pattern, pattern, pattern)
	}
	if !filter.UpdatedAfter.IsZero() {
		db = db.Where("updated_at >= ?", filter.UpdatedAfter)
	}
	if !filter.UpdatedBefore.IsZero() {
		db = db.Where("updated_at <= ?", filter.UpdatedBefore)
	}
	return db, nil
}

// List returns one page of notes, pinned first then most recently updated, plus the
// total number of matches.
func (r *NoteRepository) List(ctx context.Context, filter domain.NoteFilter) ([]domain.Note, int64, error) {
	if filter.TenantSlug == "" {
		return nil, 0, fmt.Errorf("tenant_slug is required")
	}

	db, err := r.applyFilter(r.readerDB.WithContext(ctx).Model(&domain.Note{}), filter)
	if err != nil {
		return nil, 0, err
	}
	// The count and the page query share the same conditions.
	db = db.Session(&gorm.Session{})

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	notes := []domain.Note{}
	err = db.Scopes(paginate(filter.Limit, filter.Offset)).
		Order("pinned DESC, updated_at DESC, id").
		Find(&notes).Error
	if err != nil {
		return nil, 0, err
	}
	return notes, total, nil
}

func (r *NoteRepository) ListByIDs(ctx context.Context, tenantSlug string, ids []string) ([]domain.Note, error) {
	notes := []domain.Note{}
	if len(ids) == 0 {
		return notes, nil
	}
	err := r.readerDB.WithContext(ctx).
		Scopes(tenantScope(tenantSlug)).
		Where("id IN ?", ids).
		Find(&notes).Error
	if err != nil {
		return nil, err
	}
	return notes, nil
}

// Update writes the mutable fields of note. The row must belong to note.TenantSlug.
func (r *NoteRepository) Update(ctx context.Context, note *domain.Note) error {
	if note.Tags == nil {
		note.Tags = []string{}
	}
	result := r.writerDB.WithContext(ctx).
		Model(note).
		Scopes(tenantScope(note.TenantSlug)).
		Select("title", "content", "category", "tags", "pinned", "color", "updated_at").
		Updates(note)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *NoteRepository) Delete(ctx context.Context, id, tenantSlug string) error {
	result := r.writerDB.WithContext(ctx).
		Scopes(tenantScope(tenantSlug)).
		Where("id = ?", id).
		Delete(&domain.Note{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *NoteRepository) CountByTenant(ctx context.Context, tenantSlug string) (int64, error) {
	var count int64
	err := r.readerDB.WithContext(ctx).Model(&domain.Note{}).Scopes(tenantScope(tenantSlug)).Count(&count).Error
	return count, err
}

func (r *NoteRepository) CountByUser(ctx context.Context, tenantSlug, userID string) (int64, error) {
	var count int64
	err := r.readerDB.WithContext(ctx).
		Model(&domain.Note{}).
		Scopes(tenantScope(tenantSlug)).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}

func (r *NoteRepository) StreamByTenant(ctx context.Context, tenantSlug string, pageSize int, fn func(batch []domain.Note) error) error {
	if pageSize <= 0 {
		pageSize = 500
	}
	var batch []domain.Note
	result := r.readerDB.WithContext(ctx).
		Scopes(tenantScope(tenantSlug)).
		FindInBatches(&batch, pageSize, func(_ *gorm.DB, _ int) error {
			return fn(batch)
		})
	return result.Error
}
