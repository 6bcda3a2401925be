package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/kingrain94/notes-saas-api/internal/repository"
)

func TestTranslateError(t *testing.T) {
	guardErr := errors.New("quota exceeded")

	tests := []struct {
		name string
		in   error
		want error
	}{
		{"nil", nil, nil},
		{"record not found", gorm.ErrRecordNotFound, repository.ErrNotFound},
		{"duplicated key", gorm.ErrDuplicatedKey, repository.ErrDuplicate},
		{"raw unique violation", errors.New(`duplicate key value (SQLSTATE 23505)`), repository.ErrDuplicate},
		{"foreign key", gorm.ErrForeignKeyViolated, repository.ErrForeignKey},
		{"wrapped foreign key", fmt.Errorf("insert: %w", gorm.ErrForeignKeyViolated), repository.ErrForeignKey},
		{"raw foreign key violation", errors.New(`violates foreign key constraint "fk_notes_user_tenant" (SQLSTATE 23503)`), repository.ErrForeignKey},
		{"guard error passes through", guardErr, guardErr},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := translateError(tt.in)
			if tt.want == nil {
				assert.NoError(t, got)
				return
			}
			assert.ErrorIs(t, got, tt.want)
		})
	}
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `50\% off\_now \\ later`, escapeLike(`50% off_now \ later`))
}
