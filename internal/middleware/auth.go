package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kingrain94/notes-saas-api/internal/api/dto"
	"github.com/kingrain94/notes-saas-api/internal/domain"
	"github.com/kingrain94/notes-saas-api/internal/service"
	"github.com/kingrain94/notes-saas-api/internal/utils"
)

// TokenParser verifies a bearer token and returns its claims.
type TokenParser interface {
	Parse(token string) (*service.Claims, error)
}

type AuthMiddleware struct {
	tokens TokenParser
}

func NewAuthMiddleware(tokens TokenParser) *AuthMiddleware {
	return &AuthMiddleware{
		tokens: tokens,
	}
}

func abortWithError(c *gin.Context, status int, kind service.ErrorKind, message string) {
	c.AbortWithStatusJSON(status, dto.Error{Error: string(kind), Message: message})
}

// JWTAuth resolves the bearer token into a principal and stores it in both the gin
// context and the request context.
func (m *AuthMiddleware) JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			abortWithError(c, http.StatusUnauthorized, service.KindAuthentication, "Authorization header with a Bearer token is required")
			return
		}

		claims, err := m.tokens.Parse(token)
		if err != nil {
			abortWithError(c, http.StatusUnauthorized, service.KindAuthentication, service.ErrInvalidToken.Message)
			return
		}

		principal := claims.Principal()
		c.Set(string(utils.PrincipalKey), principal)
		c.Request = c.Request.WithContext(utils.WithPrincipal(c.Request.Context(), principal))
		c.Next()
	}
}

// bearerToken reads the Authorization header. Browsers cannot set headers on a websocket
// handshake, so upgrade requests may pass the token as ?token= instead.
func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		if c.IsWebsocket() {
			token := c.Query("token")
			return token, token != ""
		}
		return "", false
	}

	parts := strings.Fields(authHeader)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	return parts[1], true
}

// RequireRole aborts with 403 unless the principal holds role.
func (m *AuthMiddleware) RequireRole(role domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := PrincipalFrom(c)
		if !ok {
			abortWithError(c, http.StatusUnauthorized, service.KindAuthentication, "No authentication found")
			return
		}

		if principal.Role != role {
			abortWithError(c, http.StatusForbidden, service.KindAuthorization, "Insufficient permissions")
			return
		}

		c.Next()
	}
}

// PrincipalFrom returns the principal stored by JWTAuth.
func PrincipalFrom(c *gin.Context) (domain.Principal, bool) {
	value, exists := c.Get(string(utils.PrincipalKey))
	if !exists {
		return domain.Principal{}, false
	}
	principal, ok := value.(domain.Principal)
	return principal, ok
}
