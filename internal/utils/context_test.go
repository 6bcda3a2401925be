package utils

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kingrain94/notes-saas-api/internal/domain"
)

func TestPrincipalContext(t *testing.T) {
	principal := domain.Principal{UserID: "u1", TenantSlug: "acme", Role: domain.RoleMember}
	ctx := WithPrincipal(context.Background(), principal)

	got, err := GetPrincipalFromContext(ctx)
	assert.NoError(t, err)
	assert.Equal(t, principal, got)
}

func TestPrincipalContext_Missing(t *testing.T) {
	_, err := GetPrincipalFromContext(context.Background())
	assert.ErrorIs(t, err, ErrNoPrincipalInContext)

	ctx := context.WithValue(context.Background(), PrincipalKey, "not a principal")
	_, err = GetPrincipalFromContext(ctx)
	assert.ErrorIs(t, err, ErrInvalidPrincipalType)
}
