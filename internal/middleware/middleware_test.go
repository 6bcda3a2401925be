package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"

	"github.com/kingrain94/notes-saas-api/internal/api/dto"
	"github.com/kingrain94/notes-saas-api/internal/domain"
	"github.com/kingrain94/notes-saas-api/internal/service"
	"github.com/kingrain94/notes-saas-api/internal/utils"
	"github.com/kingrain94/notes-saas-api/pkg/logger"
)

type memoryCounter struct {
	mu     sync.Mutex
	counts map[string]int64
	err    error
}

func (m *memoryCounter) Incr(_ context.Context, key string, _ time.Duration) (int64, error) {
	if m.err != nil {
		return 0, m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.counts == nil {
		m.counts = map[string]int64{}
	}
	m.counts[key]++
	return m.counts[key], nil
}

type MiddlewareTestSuite struct {
	suite.Suite
	tokens *service.TokenManager
	auth   *AuthMiddleware
}

func (s *MiddlewareTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.tokens = service.NewTokenManager("secret", "notes-test", time.Hour)
	s.auth = NewAuthMiddleware(s.tokens)
}

func TestMiddleware(t *testing.T) {
	suite.Run(t, new(MiddlewareTestSuite))
}

func (s *MiddlewareTestSuite) token(role domain.Role) string {
	token, _, err := s.tokens.Issue(&domain.User{ID: "u1", Email: "a@acme.test", TenantSlug: "acme", Role: role})
	s.Require().NoError(err)
	return token
}

func (s *MiddlewareTestSuite) decodeError(w *httptest.ResponseRecorder) dto.Error {
	var body dto.Error
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func (s *MiddlewareTestSuite) TestJWTAuth_SetsPrincipal() {
	router := gin.New()
	router.GET("/me", s.auth.JWTAuth(), func(c *gin.Context) {
		fromGin, ok := PrincipalFrom(c)
		s.True(ok)
		fromCtx, err := utils.GetPrincipalFromContext(c.Request.Context())
		s.NoError(err)
		s.Equal(fromGin, fromCtx)
		c.JSON(http.StatusOK, fromGin)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+s.token(domain.RoleMember))
	router.ServeHTTP(w, req)

	s.Equal(http.StatusOK, w.Code)
	var principal domain.Principal
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &principal))
	s.Equal("acme", principal.TenantSlug)
	s.Equal(domain.RoleMember, principal.Role)
}

func (s *MiddlewareTestSuite) TestJWTAuth_Rejects() {
	router := gin.New()
	router.GET("/me", s.auth.JWTAuth(), func(c *gin.Context) { c.Status(http.StatusOK) })

	for name, header := range map[string]string{
		"missing":   "",
		"no scheme": s.token(domain.RoleAdmin),
		"basic":     "Basic dXNlcjpwYXNz",
		"garbage":   "Bearer not-a-token",
	} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		router.ServeHTTP(w, req)

		s.Equal(http.StatusUnauthorized, w.Code, name)
		s.Equal(string(service.KindAuthentication), s.decodeError(w).Error, name)
	}
}

func (s *MiddlewareTestSuite) TestRequireRole() {
	router := gin.New()
	router.GET("/admin", s.auth.JWTAuth(), s.auth.RequireRole(domain.RoleAdmin), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+s.token(domain.RoleMember))
	router.ServeHTTP(w, req)
	s.Equal(http.StatusForbidden, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+s.token(domain.RoleAdmin))
	router.ServeHTTP(w, req)
	s.Equal(http.StatusOK, w.Code)
}

func (s *MiddlewareTestSuite) TestGlobalRateLimit() {
	rl := NewRateLimitMiddleware(&memoryCounter{}, RateLimitConfig{GlobalLimit: 2}, nil, logger.NewNop())
	router := gin.New()
	router.GET("/ping", rl.GlobalRateLimit(), func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 3)
	for i := range codes {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
		codes[i] = w.Code
		if i == 2 {
			s.Equal("0", w.Header().Get("X-RateLimit-Remaining"))
			s.Equal(string(service.KindRateLimited), s.decodeError(w).Error)
		}
	}
	s.Equal([]int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func (s *MiddlewareTestSuite) TestTenantRateLimit_IsPerTenant() {
	counter := &memoryCounter{}
	rl := NewRateLimitMiddleware(counter, RateLimitConfig{TenantLimit: 1}, nil, logger.NewNop())
	router := gin.New()
	router.GET("/notes", s.auth.JWTAuth(), rl.TenantRateLimit(), func(c *gin.Context) { c.Status(http.StatusOK) })

	globex, _, err := s.tokens.Issue(&domain.User{ID: "u2", TenantSlug: "globex", Role: domain.RoleAdmin})
	s.Require().NoError(err)

	send := func(token string) int {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/notes", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		router.ServeHTTP(w, req)
		return w.Code
	}

	s.Equal(http.StatusOK, send(s.token(domain.RoleAdmin)))
	s.Equal(http.StatusTooManyRequests, send(s.token(domain.RoleMember)))
	s.Equal(http.StatusOK, send(globex))
}

func (s *MiddlewareTestSuite) TestRateLimit_FailsOpen() {
	rl := NewRateLimitMiddleware(&memoryCounter{err: errors.New("connection refused")}, RateLimitConfig{LoginLimit: 1}, nil, logger.NewNop())
	router := gin.New()
	router.POST("/login", rl.LoginRateLimit(), func(c *gin.Context) { c.Status(http.StatusOK) })

	for range 3 {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))
		s.Equal(http.StatusOK, w.Code)
	}
}

func (s *MiddlewareTestSuite) TestCORS() {
	cors := NewCORSMiddleware([]string{"http://localhost:3000", "https://*.vercel.app"}, nil)
	router := gin.New()
	router.Use(cors.Handle())
	router.GET("/notes", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.OPTIONS("/notes", func(c *gin.Context) { c.Status(http.StatusOK) })

	s.True(cors.IsAllowed("https://notes-app.vercel.app"))
	s.False(cors.IsAllowed("https://vercel.app.evil.test"))
	s.False(cors.IsAllowed("https://a.b.vercel.app/"))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/notes", nil)
	req.Header.Set("Origin", "https://notes-app.vercel.app")
	router.ServeHTTP(w, req)
	s.Equal(http.StatusNoContent, w.Code)
	s.Equal("https://notes-app.vercel.app", w.Header().Get("Access-Control-Allow-Origin"))
	s.Contains(w.Header().Get("Access-Control-Allow-Headers"), "Authorization")

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/notes", nil)
	req.Header.Set("Origin", "https://evil.test")
	router.ServeHTTP(w, req)
	s.Equal(http.StatusOK, w.Code)
	s.Empty(w.Header().Get("Access-Control-Allow-Origin"))

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodOptions, "/notes", nil)
	req.Header.Set("Origin", "https://evil.test")
	router.ServeHTTP(w, req)
	s.Equal(http.StatusForbidden, w.Code)
}

func (s *MiddlewareTestSuite) TestBlockSuspiciousPatterns() {
	v := NewValidationMiddleware(logger.NewNop())
	router := gin.New()
	router.GET("/notes", v.BlockSuspiciousPatterns(), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/notes?category=x%27%20UNION%20SELECT%20*", nil))
	s.Equal(http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/notes?q=delete%20from%20my%20list", nil))
	s.Equal(http.StatusOK, w.Code)
}

func (s *MiddlewareTestSuite) TestValidateContentType() {
	v := NewValidationMiddleware(logger.NewNop())
	router := gin.New()
	router.POST("/notes", v.ValidateContentType("application/json"), func(c *gin.Context) { c.Status(http.StatusCreated) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/notes", strings.NewReader(`{"title":"x"}`))
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	router.ServeHTTP(w, req)
	s.Equal(http.StatusCreated, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/notes", strings.NewReader("title=x"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	router.ServeHTTP(w, req)
	s.Equal(http.StatusUnsupportedMediaType, w.Code)
}

func (s *MiddlewareTestSuite) TestSanitizeString() {
	s.Equal("abc\tdef", sanitizeString("a\x00bc\tde\x07f"))
}
