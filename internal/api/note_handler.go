package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kingrain94/notes-saas-api/internal/api/dto"
	"github.com/kingrain94/notes-saas-api/internal/domain"
)

//go:generate mockery --name NoteService --output ../mocks
type NoteService interface {
	Create(ctx context.Context, principal domain.Principal, req dto.NoteRequest) (*dto.NoteResponse, error)
	Get(ctx context.Context, principal domain.Principal, id string) (*dto.NoteResponse, error)
	List(ctx context.Context, principal domain.Principal, query dto.ListNotesQuery) (*dto.NoteListResponse, error)
	Update(ctx context.Context, principal domain.Principal, id string, req dto.NoteRequest) (*dto.NoteResponse, error)
	Delete(ctx context.Context, principal domain.Principal, id string) error
}

type NoteHandler struct {
	*BaseHandler
	service NoteService
}

func NewNoteHandler(base *BaseHandler, service NoteService) *NoteHandler {
	return &NoteHandler{BaseHandler: base, service: service}
}

// Create godoc
// @Summary Create a note
// @Description Create a note in the caller's tenant. FREE tenants are limited to 3 notes.
// @Tags    notes
// @Accept  json
// @Produce json
// @Security BearerAuth
// @Param   body body dto.NoteRequest true "Note"
// @Success 201 {object} dto.NoteResponse
// @Failure 400 {object} dto.Error
// @Failure 401 {object} dto.Error
// @Failure 402 {object} dto.Error
// @Router  /notes [post]
func (h *NoteHandler) Create(c *gin.Context) {
	principal, ok := h.Principal(c)
	if !ok {
		return
	}

	var req dto.NoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, err)
		return
	}

	note, err := h.service.Create(h.RequestCtx(c), principal, req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, note)
}

// Get godoc
// @Summary Get a note
// @Tags    notes
// @Produce json
// @Security BearerAuth
// @Param   id path string true "Note ID"
// @Success 200 {object} dto.NoteResponse
// @Failure 401 {object} dto.Error
// @Failure 404 {object} dto.Error
// @Router  /notes/{id} [get]
func (h *NoteHandler) Get(c *gin.Context) {
	principal, ok := h.Principal(c)
	if !ok {
		return
	}

	note, err := h.service.Get(h.RequestCtx(c), principal, c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, note)
}

// List godoc
// @Summary List notes
// @Description Admins see every note of their tenant, members only their own. q runs a full-text search.
// @Tags    notes
// @Produce json
// @Security BearerAuth
// @Param   page           query int    false "Page number (default 1)"
// @Param   page_size      query int    false "Page size (default 20, max 100)"
// @Param   category       query string false "Category"
// @Param   tag            query string false "Tag"
// @Param   pinned         query bool   false "Pinned only"
// @Param   q              query string false "Full-text query"
// @Param   updated_after  query string false "RFC3339 time or date"
// @Param   updated_before query string false "RFC3339 time or date"
// @Success 200 {object} dto.NoteListResponse
// @Failure 400 {object} dto.Error
// @Failure 401 {object} dto.Error
// @Router  /notes [get]
func (h *NoteHandler) List(c *gin.Context) {
	principal, ok := h.Principal(c)
	if !ok {
		return
	}

	var query dto.ListNotesQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.bindError(c, err)
		return
	}

	notes, err := h.service.List(h.RequestCtx(c), principal, query)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, notes)
}

// Update godoc
// @Summary Update a note
// @Description Replace a note's fields. Members may only update their own notes.
// @Tags    notes
// @Accept  json
// @Produce json
// @Security BearerAuth
// @Param   id   path string          true "Note ID"
// @Param   body body dto.NoteRequest true "Note"
// @Success 200 {object} dto.NoteResponse
// @Failure 400 {object} dto.Error
// @Failure 401 {object} dto.Error
// @Failure 404 {object} dto.Error
// @Router  /notes/{id} [put]
func (h *NoteHandler) Update(c *gin.Context) {
	principal, ok := h.Principal(c)
	if !ok {
		return
	}

	var req dto.NoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, err)
		return
	}

	note, err := h.service.Update(h.RequestCtx(c), principal, c.Param("id"), req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, note)
}

// Delete godoc
// @Summary Delete a note
// @Tags    notes
// @Security BearerAuth
// @Param   id path string true "Note ID"
// @Success 204
// @Failure 401 {object} dto.Error
// @Failure 404 {object} dto.Error
// @Router  /notes/{id} [delete]
func (h *NoteHandler) Delete(c *gin.Context) {
	principal, ok := h.Principal(c)
	if !ok {
		return
	}

	if err := h.service.Delete(h.RequestCtx(c), principal, c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
