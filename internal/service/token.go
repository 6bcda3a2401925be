package service

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/kingrain94/notes-saas-api/internal/domain"
)

// Claims is the JWT payload issued at login.
type Claims struct {
	UserID     string      `json:"user_id"`
	Email      string      `json:"email"`
	TenantSlug string      `json:"tenant_slug"`
	Role       domain.Role `json:"role"`
	jwt.RegisteredClaims
}

func (c *Claims) Principal() domain.Principal {
	return domain.Principal{
		UserID:     c.UserID,
		Email:      c.Email,
		TenantSlug: c.TenantSlug,
		Role:       c.Role,
	}
}

// TokenManager issues and verifies HS256 session tokens. Tokens are stateless and live
// until they expire.
type TokenManager struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenManager(secret, issuer string, ttl time.Duration) *TokenManager {
	return &TokenManager{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
	}
}

func (m *TokenManager) TTL() time.Duration {
	return m.ttl
}

// Issue signs a token for user and returns it with its expiry.
func (m *TokenManager) Issue(user *domain.User) (string, time.Time, error) {
	now := m.now()
	expiresAt := now.Add(m.ttl)

	claims := &Claims{
		UserID:     user.ID,
		Email:      user.Email,
		TenantSlug: user.TenantSlug,
		Role:       user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return token, expiresAt, nil
}

// Parse verifies signature, algorithm, issuer and expiry. Every failure is reported as
// ErrInvalidToken.
func (m *TokenManager) Parse(tokenString string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return m.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(m.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return nil, ErrInvalidToken
	}

	if claims.UserID == "" || claims.TenantSlug == "" || !domain.IsValidRole(string(claims.Role)) {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
