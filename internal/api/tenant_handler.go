package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kingrain94/notes-saas-api/internal/api/dto"
	"github.com/kingrain94/notes-saas-api/internal/domain"
)

//go:generate mockery --name TenantService --output ../mocks
type TenantService interface {
	Get(ctx context.Context, principal domain.Principal, slug string) (*dto.TenantDetailResponse, error)
	Limits(ctx context.Context, principal domain.Principal, slug string) (*domain.LimitInfo, error)
	Upgrade(ctx context.Context, principal domain.Principal, slug string) (*dto.TenantResponse, error)
	Invite(ctx context.Context, principal domain.Principal, slug string, req dto.InviteUserRequest) (*dto.InvitationResponse, error)
	ListInvitations(ctx context.Context, principal domain.Principal, slug string) ([]dto.InvitationResponse, error)
	ListUsers(ctx context.Context, principal domain.Principal, slug string) ([]dto.UserResponse, error)
	DeleteUser(ctx context.Context, principal domain.Principal, slug, userID string) (*dto.DeleteUserResponse, error)
	RequestExport(ctx context.Context, principal domain.Principal, slug string) (*dto.ExportResponse, error)
}

type TenantHandler struct {
	*BaseHandler
	service TenantService
}

func NewTenantHandler(base *BaseHandler, service TenantService) *TenantHandler {
	return &TenantHandler{BaseHandler: base, service: service}
}

// GetTenant godoc
// @Summary Get a tenant
// @Description Tenant details with note and user counts
// @Tags    tenants
// @Produce json
// @Security BearerAuth
// @Param   slug path string true "Tenant slug"
// @Success 200 {object} dto.TenantDetailResponse
// @Failure 401 {object} dto.Error
// @Failure 403 {object} dto.Error
// @Failure 404 {object} dto.Error
// @Router  /tenants/{slug} [get]
func (h *TenantHandler) GetTenant(c *gin.Context) {
	principal, ok := h.Principal(c)
	if !ok {
		return
	}

	tenant, err := h.service.Get(h.RequestCtx(c), principal, c.Param("slug"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, tenant)
}

// GetLimits godoc
// @Summary Plan limits
// @Description Current plan, note limit and usage of a tenant
// @Tags    tenants
// @Produce json
// @Security BearerAuth
// @Param   slug path string true "Tenant slug"
// @Success 200 {object} domain.LimitInfo
// @Failure 401 {object} dto.Error
// @Failure 403 {object} dto.Error
// @Router  /tenants/{slug}/limits [get]
func (h *TenantHandler) GetLimits(c *gin.Context) {
	principal, ok := h.Principal(c)
	if !ok {
		return
	}

	limits, err := h.service.Limits(h.RequestCtx(c), principal, c.Param("slug"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, limits)
}

// Upgrade godoc
// @Summary Upgrade to PRO
// @Description Lift the note limit. Upgrading a PRO tenant again is a no-op.
// @Tags    tenants
// @Produce json
// @Security BearerAuth
// @Param   slug path string true "Tenant slug"
// @Success 200 {object} dto.TenantResponse
// @Failure 401 {object} dto.Error
// @Failure 403 {object} dto.Error
// @Failure 404 {object} dto.Error
// @Router  /tenants/{slug}/upgrade [post]
func (h *TenantHandler) Upgrade(c *gin.Context) {
	principal, ok := h.Principal(c)
	if !ok {
		return
	}

	tenant, err := h.service.Upgrade(h.RequestCtx(c), principal, c.Param("slug"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, tenant)
}

// Invite godoc
// @Summary Invite a user
// @Description Create an invitation and email its link when SMTP is configured
// @Tags    tenants
// @Accept  json
// @Produce json
// @Security BearerAuth
// @Param   slug path string                true "Tenant slug"
// @Param   body body dto.InviteUserRequest true "Invitee"
// @Success 201 {object} dto.InvitationResponse
// @Failure 400 {object} dto.Error
// @Failure 403 {object} dto.Error
// @Failure 409 {object} dto.Error
// @Router  /tenants/{slug}/invite [post]
func (h *TenantHandler) Invite(c *gin.Context) {
	principal, ok := h.Principal(c)
	if !ok {
		return
	}

	var req dto.InviteUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, err)
		return
	}

	invitation, err := h.service.Invite(h.RequestCtx(c), principal, c.Param("slug"), req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, invitation)
}

// ListInvitations godoc
// @Summary Pending invitations
// @Tags    tenants
// @Produce json
// @Security BearerAuth
// @Param   slug path string true "Tenant slug"
// @Success 200 {array} dto.InvitationResponse
// @Failure 403 {object} dto.Error
// @Router  /tenants/{slug}/invitations [get]
func (h *TenantHandler) ListInvitations(c *gin.Context) {
	principal, ok := h.Principal(c)
	if !ok {
		return
	}

	invitations, err := h.service.ListInvitations(h.RequestCtx(c), principal, c.Param("slug"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, invitations)
}

// ListUsers godoc
// @Summary List tenant users
// @Tags    tenants
// @Produce json
// @Security BearerAuth
// @Param   slug path string true "Tenant slug"
// @Success 200 {array} dto.UserResponse
// @Failure 403 {object} dto.Error
// @Router  /tenants/{slug}/users [get]
func (h *TenantHandler) ListUsers(c *gin.Context) {
	principal, ok := h.Principal(c)
	if !ok {
		return
	}

	users, err := h.service.ListUsers(h.RequestCtx(c), principal, c.Param("slug"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, users)
}

// DeleteUser godoc
// @Summary Delete a tenant user
// @Description Remove a user and their notes. Admins cannot delete themselves.
// @Tags    tenants
// @Produce json
// @Security BearerAuth
// @Param   slug path string true "Tenant slug"
// @Param   id   path string true "User ID"
// @Success 200 {object} dto.DeleteUserResponse
// @Failure 400 {object} dto.Error
// @Failure 403 {object} dto.Error
// @Failure 404 {object} dto.Error
// @Router  /tenants/{slug}/users/{id} [delete]
func (h *TenantHandler) DeleteUser(c *gin.Context) {
	principal, ok := h.Principal(c)
	if !ok {
		return
	}

	resp, err := h.service.DeleteUser(h.RequestCtx(c), principal, c.Param("slug"), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Export godoc
// @Summary Export tenant notes
// @Description Queue an asynchronous JSON export of every note to S3
// @Tags    tenants
// @Produce json
// @Security BearerAuth
// @Param   slug path string true "Tenant slug"
// @Success 202 {object} dto.ExportResponse
// @Failure 403 {object} dto.Error
// @Router  /tenants/{slug}/export [post]
func (h *TenantHandler) Export(c *gin.Context) {
	principal, ok := h.Principal(c)
	if !ok {
		return
	}

	resp, err := h.service.RequestExport(h.RequestCtx(c), principal, c.Param("slug"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, resp)
}
