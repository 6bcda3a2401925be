package postgres

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/kingrain94/notes-saas-api/internal/repository"
)

// translateError maps driver and gorm errors onto repository sentinels. Errors that
// already are sentinels, or came from a caller-supplied guard, pass through unchanged.
func translateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return repository.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey), strings.Contains(err.Error(), "SQLSTATE 23505"):
		return repository.ErrDuplicate
	case errors.Is(err, gorm.ErrForeignKeyViolated), strings.Contains(err.Error(), "SQLSTATE 23503"):
		return repository.ErrForeignKey
	default:
		return err
	}
}

// tenantScope restricts a query to one tenant's rows.
func tenantScope(slug string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("tenant_slug = ?", slug)
	}
}

func paginate(limit, offset int) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if limit > 0 {
			db = db.Limit(limit)
		}
		if offset > 0 {
			db = db.Offset(offset)
		}
		return db
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes user input literal inside an ILIKE pattern.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
