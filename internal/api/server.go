package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/kingrain94/notes-saas-api/internal/domain"
	"github.com/kingrain94/notes-saas-api/internal/metrics"
	"github.com/kingrain94/notes-saas-api/internal/middleware"
	"github.com/kingrain94/notes-saas-api/pkg/logger"
)

const maxRequestBodySize = 1 << 20 // 1MB

// Services are the domain operations the HTTP layer exposes.
type Services struct {
	Auth   AuthService
	Notes  NoteService
	Tenant TenantService
	// Events feeds /notes/stream. The route is not registered when nil.
	Events EventSubscriber
	Health map[string]Pinger
}

// Middlewares are the request filters applied around the routes.
type Middlewares struct {
	Auth       *middleware.AuthMiddleware
	RateLimit  *middleware.RateLimitMiddleware
	Validation *middleware.ValidationMiddleware
	CORS       *middleware.CORSMiddleware
}

type Server struct {
	auth    *AuthHandler
	notes   *NoteHandler
	tenants *TenantHandler
	stream  *NoteStreamHandler
	health  *HealthHandler
	mw      Middlewares
	metrics *metrics.Metrics
	logger  *logger.Logger
}

func NewServer(services Services, mw Middlewares, m *metrics.Metrics, logger *logger.Logger) *Server {
	base := NewBaseHandler(logger)

	s := &Server{
		auth:    NewAuthHandler(base, services.Auth),
		notes:   NewNoteHandler(base, services.Notes),
		tenants: NewTenantHandler(base, services.Tenant),
		health:  NewHealthHandler(base, services.Health),
		mw:      mw,
		metrics: m,
		logger:  logger,
	}
	if services.Events != nil {
		var origins OriginChecker
		if mw.CORS != nil {
			origins = mw.CORS
		}
		s.stream = NewNoteStreamHandler(base, services.Events, origins)
	}
	return s
}

// SetupRoutes installs the global middleware chain, the operational endpoints and
// the /api/v1 routes on router.
func (s *Server) SetupRoutes(router *gin.Engine) {
	router.Use(middleware.RequestID())
	router.Use(middleware.AccessLog(s.logger))
	router.Use(middleware.Metrics(s.metrics))
	if s.mw.CORS != nil {
		router.Use(s.mw.CORS.Handle())
	}

	router.GET("/health", s.health.Health)
	if s.metrics != nil {
		router.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	}

	api := router.Group("/api/v1")

	// Apply security middleware first
	api.Use(s.mw.Validation.BlockSuspiciousPatterns())
	api.Use(s.mw.Validation.SanitizeInput())
	api.Use(s.mw.Validation.ValidateRequestSize(maxRequestBodySize))
	api.Use(s.mw.Validation.ValidateContentType("application/json"))
	api.Use(s.mw.RateLimit.GlobalRateLimit())

	authenticated := []gin.HandlerFunc{s.mw.Auth.JWTAuth(), s.mw.RateLimit.TenantRateLimit()}
	adminOnly := s.mw.Auth.RequireRole(domain.RoleAdmin)

	auth := api.Group("/auth")
	{
		login := s.mw.RateLimit.LoginRateLimit()
		auth.POST("/login", login, s.auth.Login)
		auth.POST("/register", login, s.auth.Register)
		auth.POST("/accept-invite", login, s.auth.AcceptInvite)
		auth.GET("/me", append(authenticated, s.auth.Me)...)
	}

	notes := api.Group("/notes", authenticated...)
	{
		if s.stream != nil {
			notes.GET("/stream", s.stream.Stream)
		}
		notes.GET("", s.notes.List)
		notes.POST("", s.notes.Create)
		notes.GET("/:id", s.notes.Get)
		notes.PUT("/:id", s.notes.Update)
		notes.DELETE("/:id", s.notes.Delete)
	}

	tenants := api.Group("/tenants", authenticated...)
	{
		tenants.GET("/:slug", s.tenants.GetTenant)
		tenants.GET("/:slug/limits", s.tenants.GetLimits)
		tenants.POST("/:slug/upgrade", adminOnly, s.tenants.Upgrade)
		tenants.POST("/:slug/invite", adminOnly, s.tenants.Invite)
		tenants.GET("/:slug/invitations", adminOnly, s.tenants.ListInvitations)
		tenants.GET("/:slug/users", adminOnly, s.tenants.ListUsers)
		tenants.DELETE("/:slug/users/:id", adminOnly, s.tenants.DeleteUser)
		tenants.POST("/:slug/export", adminOnly, s.tenants.Export)
	}
}

// Handler wraps router with OpenTelemetry HTTP instrumentation.
func Handler(router *gin.Engine) http.Handler {
	return otelhttp.NewHandler(router, "notes-api")
}

// StartStreamHub starts the websocket hub for live note events.
func (s *Server) StartStreamHub() {
	if s.stream != nil {
		go s.stream.Start()
	}
}

// StopStreamHub disconnects every stream client and drops the tenant subscriptions.
func (s *Server) StopStreamHub() {
	if s.stream != nil {
		s.stream.Stop()
	}
}
