package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kingrain94/notes-saas-api/internal/api/dto"
	"github.com/kingrain94/notes-saas-api/internal/domain"
)

//go:generate mockery --name AuthService --output ../mocks
type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	Register(ctx context.Context, req dto.RegisterRequest) (*dto.LoginResponse, error)
	AcceptInvite(ctx context.Context, req dto.AcceptInviteRequest) (*dto.LoginResponse, error)
	Me(ctx context.Context, principal domain.Principal) (*dto.MeResponse, error)
}

type AuthHandler struct {
	*BaseHandler
	service AuthService
}

func NewAuthHandler(base *BaseHandler, service AuthService) *AuthHandler {
	return &AuthHandler{BaseHandler: base, service: service}
}

// Login godoc
// @Summary Log in
// @Description Exchange email and password for a bearer token. tenant is only needed when the email exists in several tenants.
// @Tags    auth
// @Accept  json
// @Produce json
// @Param   body body dto.LoginRequest true "Credentials"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} dto.Error
// @Failure 401 {object} dto.Error
// @Failure 429 {object} dto.Error
// @Router  /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, err)
		return
	}

	resp, err := h.service.Login(h.RequestCtx(c), req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Register godoc
// @Summary Register a tenant
// @Description Create a FREE tenant together with its first ADMIN user
// @Tags    auth
// @Accept  json
// @Produce json
// @Param   body body dto.RegisterRequest true "Tenant and admin"
// @Success 201 {object} dto.LoginResponse
// @Failure 400 {object} dto.Error
// @Failure 409 {object} dto.Error
// @Router  /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, err)
		return
	}

	resp, err := h.service.Register(h.RequestCtx(c), req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// AcceptInvite godoc
// @Summary Accept an invitation
// @Description Create the invited account and log it in
// @Tags    auth
// @Accept  json
// @Produce json
// @Param   body body dto.AcceptInviteRequest true "Invitation token and account details"
// @Success 201 {object} dto.LoginResponse
// @Failure 400 {object} dto.Error
// @Failure 404 {object} dto.Error
// @Failure 409 {object} dto.Error
// @Router  /auth/accept-invite [post]
func (h *AuthHandler) AcceptInvite(c *gin.Context) {
	var req dto.AcceptInviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, err)
		return
	}

	resp, err := h.service.AcceptInvite(h.RequestCtx(c), req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// Me godoc
// @Summary Current user
// @Tags    auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.MeResponse
// @Failure 401 {object} dto.Error
// @Router  /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	principal, ok := h.Principal(c)
	if !ok {
		return
	}

	resp, err := h.service.Me(h.RequestCtx(c), principal)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
