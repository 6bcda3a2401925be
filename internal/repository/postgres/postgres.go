package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/kingrain94/notes-saas-api/internal/config"
	"github.com/kingrain94/notes-saas-api/internal/domain"
	"github.com/kingrain94/notes-saas-api/internal/repository"
)

type postgresRepository struct {
	writerDB       *gorm.DB
	readerDB       *gorm.DB
	tenantRepo     repository.TenantRepository
	userRepo       repository.UserRepository
	noteRepo       repository.NoteRepository
	invitationRepo repository.InvitationRepository
}

func NewPostgresRepository(dbConnections *config.DatabaseConnections) repository.PostgresRepository {
	return &postgresRepository{
		writerDB:       dbConnections.Writer,
		readerDB:       dbConnections.Reader,
		tenantRepo:     NewTenantRepository(dbConnections.Writer, dbConnections.Reader),
		userRepo:       NewUserRepository(dbConnections.Writer, dbConnections.Reader),
		noteRepo:       NewNoteRepository(dbConnections.Writer, dbConnections.Reader),
		invitationRepo: NewInvitationRepository(dbConnections.Writer, dbConnections.Reader),
	}
}

func (r *postgresRepository) Tenant() repository.TenantRepository {
	return r.tenantRepo
}

func (r *postgresRepository) User() repository.UserRepository {
	return r.userRepo
}

func (r *postgresRepository) Note() repository.NoteRepository {
	return r.noteRepo
}

func (r *postgresRepository) Invitation() repository.InvitationRepository {
	return r.invitationRepo
}

func (r *postgresRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.writerDB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// constraintStatements add what gorm tags cannot express: the composite key that ties a
// note's tenant to its owner's tenant, and a GIN index for tag containment filters.
var constraintStatements = []string{
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_users_id_tenant ON users (id, tenant_slug)`,
	`DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'fk_notes_user_tenant') THEN
			ALTER TABLE notes ADD CONSTRAINT fk_notes_user_tenant
				FOREIGN KEY (user_id, tenant_slug) REFERENCES users (id, tenant_slug) ON DELETE CASCADE;
		END IF;
	END $$`,
	`CREATE INDEX IF NOT EXISTS idx_notes_tags ON notes USING GIN (tags)`,
	`CREATE INDEX IF NOT EXISTS idx_notes_tenant_user ON notes (tenant_slug, user_id)`,
}

// Migrate creates or updates the schema. It is safe to run repeatedly.
func Migrate(ctx context.Context, db *gorm.DB) error {
	db = db.WithContext(ctx)

	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto`).Error; err != nil {
		return fmt.Errorf("failed to enable pgcrypto: %w", err)
	}

	if err := db.AutoMigrate(&domain.Tenant{}, &domain.User{}, &domain.Note{}, &domain.Invitation{}); err != nil {
		return fmt.Errorf("failed to auto-migrate: %w", err)
	}

	for _, stmt := range constraintStatements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("failed to apply constraint: %w", err)
		}
	}

	return nil
}
