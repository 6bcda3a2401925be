package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kingrain94/notes-saas-api/internal/domain"
)

func testUser() *domain.User {
	return &domain.User{ID: "u1", Email: "admin@acme.test", TenantSlug: "acme", Role: domain.RoleAdmin}
}

func TestTokenManager_RoundTrip(t *testing.T) {
	m := NewTokenManager("secret", "notes-test", time.Hour)

	token, expiresAt, err := m.Issue(testUser())
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := m.Parse(token)
	require.NoError(t, err)
	principal := claims.Principal()
	assert.Equal(t, "u1", principal.UserID)
	assert.Equal(t, "acme", principal.TenantSlug)
	assert.Equal(t, domain.RoleAdmin, principal.Role)
	assert.Equal(t, "u1", claims.Subject)
}

func TestTokenManager_Expired(t *testing.T) {
	m := NewTokenManager("secret", "notes-test", time.Minute)
	m.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, _, err := m.Issue(testUser())
	require.NoError(t, err)

	m.now = time.Now
	_, err = m.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_WrongSecret(t *testing.T) {
	token, _, err := NewTokenManager("secret", "notes-test", time.Hour).Issue(testUser())
	require.NoError(t, err)

	_, err = NewTokenManager("other", "notes-test", time.Hour).Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_WrongIssuer(t *testing.T) {
	token, _, err := NewTokenManager("secret", "someone-else", time.Hour).Issue(testUser())
	require.NoError(t, err)

	_, err = NewTokenManager("secret", "notes-test", time.Hour).Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_RejectsNoneAlgorithm(t *testing.T) {
	claims := &Claims{
		UserID:     "u1",
		TenantSlug: "acme",
		Role:       domain.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "notes-test",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewTokenManager("secret", "notes-test", time.Hour).Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_RejectsUnknownRole(t *testing.T) {
	user := testUser()
	user.Role = "OWNER"
	m := NewTokenManager("secret", "notes-test", time.Hour)

	token, _, err := m.Issue(user)
	require.NoError(t, err)

	_, err = m.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_Garbage(t *testing.T) {
	_, err := NewTokenManager("secret", "notes-test", time.Hour).Parse("not.a.jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
