package utils

import (
	"context"
	"errors"

	"github.com/kingrain94/notes-saas-api/internal/domain"
)

type ContextKey string

const (
	PrincipalKey ContextKey = "principal"
	RequestIDKey ContextKey = "request_id"
)

var (
	ErrNoPrincipalInContext = errors.New("no principal found in context")
	ErrInvalidPrincipalType = errors.New("invalid principal type")
)

// WithPrincipal returns a copy of ctx carrying the authenticated principal.
func WithPrincipal(ctx context.Context, principal domain.Principal) context.Context {
	return context.WithValue(ctx, PrincipalKey, principal)
}

func GetPrincipalFromContext(ctx context.Context) (domain.Principal, error) {
	value := ctx.Value(PrincipalKey)
	if value == nil {
		return domain.Principal{}, ErrNoPrincipalInContext
	}

	principal, ok := value.(domain.Principal)
	if !ok {
		return domain.Principal{}, ErrInvalidPrincipalType
	}
	return principal, nil
}
