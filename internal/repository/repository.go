package repository

import (
	"context"
	"errors"
	"time"

	"github.com/kingrain94/notes-saas-api/internal/domain"
)

var (
	// ErrNotFound is returned when a lookup matches no row in the caller's scope.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a unique constraint rejects a write.
	ErrDuplicate = errors.New("duplicate record")
	// ErrForeignKey is returned when a write references a row that no longer exists.
	ErrForeignKey = errors.New("referenced record not found")
)

// CreateGuard runs inside the note-creation transaction after the tenant row is locked.
// Returning an error aborts the insert.
type CreateGuard func(tenant *domain.Tenant, noteCount int64) error

//go:generate mockery --name TenantRepository --output ../mocks
type TenantRepository interface {
	Create(ctx context.Context, tenant *domain.Tenant) (*domain.Tenant, error)
	// CreateWithAdmin inserts a tenant and its first user in one transaction.
	CreateWithAdmin(ctx context.Context, tenant *domain.Tenant, admin *domain.User) error
	GetBySlug(ctx context.Context, slug string) (*domain.Tenant, error)
	ExistsBySlug(ctx context.Context, slug string) (bool, error)
	UpdatePlan(ctx context.Context, slug string, plan domain.Plan) (*domain.Tenant, error)
	Usage(ctx context.Context, slug string) (*domain.TenantUsage, error)
	List(ctx context.Context) ([]domain.Tenant, error)
}

//go:generate mockery --name UserRepository --output ../mocks
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByIDAndTenant(ctx context.Context, id, tenantSlug string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) ([]domain.User, error)
	GetByEmailAndTenant(ctx context.Context, email, tenantSlug string) (*domain.User, error)
	ExistsByEmailAndTenant(ctx context.Context, email, tenantSlug string) (bool, error)
	ListByTenant(ctx context.Context, filter domain.UserFilter) ([]domain.User, error)
	CountByTenant(ctx context.Context, tenantSlug string) (int64, error)
	// DeleteWithNotes removes the user and every note they own in one transaction and
	// returns the number of notes removed.
	DeleteWithNotes(ctx context.Context, id, tenantSlug string) (int64, error)
}

//go:generate mockery --name NoteRepository --output ../mocks
type NoteRepository interface {
	// CreateGuarded inserts note after guard approves the tenant's current count.
	CreateGuarded(ctx context.Context, note *domain.Note, guard CreateGuard) error
	GetByIDAndTenant(ctx context.Context, id, tenantSlug string) (*domain.Note, error)
	GetByIDTenantAndUser(ctx context.Context, id, tenantSlug, userID string) (*domain.Note, error)
	List(ctx context.Context, filter domain.NoteFilter) ([]domain.Note, int64, error)
	ListByIDs(ctx context.Context, tenantSlug string, ids []string) ([]domain.Note, error)
	Update(ctx context.Context, note *domain.Note) error
	Delete(ctx context.Context, id, tenantSlug string) error
	CountByTenant(ctx context.Context, tenantSlug string) (int64, error)
	CountByUser(ctx context.Context, tenantSlug, userID string) (int64, error)
	// StreamByTenant pages through all notes of a tenant in creation order.
	StreamByTenant(ctx context.Context, tenantSlug string, pageSize int, fn func(batch []domain.Note) error) error
}

//go:generate mockery --name InvitationRepository --output ../mocks
type InvitationRepository interface {
	Create(ctx context.Context, invitation *domain.Invitation) error
	GetPendingByToken(ctx context.Context, token string, now time.Time) (*domain.Invitation, error)
	// Accept marks the invitation accepted and creates user in the same transaction.
	Accept(ctx context.Context, invitation *domain.Invitation, user *domain.User) error
	ListPendingByTenant(ctx context.Context, tenantSlug string, now time.Time) ([]domain.Invitation, error)
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

//go:generate mockery --name SearchRepository --output ../mocks
type SearchRepository interface {
	// IndexNote upserts a note document into an index created by EnsureIndex.
	IndexNote(ctx context.Context, note *domain.Note) error
	DeleteNote(ctx context.Context, tenantSlug, noteID string) error
	DeleteUserNotes(ctx context.Context, tenantSlug, userID string) error
	// SearchNoteIDs returns matching note ids ordered by relevance plus the total hit count.
	SearchNoteIDs(ctx context.Context, filter domain.NoteFilter) ([]string, int64, error)
	EnsureIndex(ctx context.Context, tenantSlug string) error
	DeleteIndex(ctx context.Context, tenantSlug string) error
}

//go:generate mockery --name PostgresRepository --output ../mocks
type PostgresRepository interface {
	Tenant() TenantRepository
	User() UserRepository
	Note() NoteRepository
	Invitation() InvitationRepository
	Ping(ctx context.Context) error
}

//go:generate mockery --name Repository --output ../mocks
type Repository interface {
	PostgresRepository
	Search() SearchRepository
}
