package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/kingrain94/notes-saas-api/internal/api/dto"
	"github.com/kingrain94/notes-saas-api/internal/domain"
	"github.com/kingrain94/notes-saas-api/internal/service"
	"github.com/kingrain94/notes-saas-api/pkg/logger"
)

type MockNoteService struct {
	mock.Mock
}

func (m *MockNoteService) Create(ctx context.Context, principal domain.Principal, req dto.NoteRequest) (*dto.NoteResponse, error) {
	args := m.Called(ctx, principal, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.NoteResponse), args.Error(1)
}

func (m *MockNoteService) Get(ctx context.Context, principal domain.Principal, id string) (*dto.NoteResponse, error) {
	args := m.Called(ctx, principal, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.NoteResponse), args.Error(1)
}

func (m *MockNoteService) List(ctx context.Context, principal domain.Principal, query dto.ListNotesQuery) (*dto.NoteListResponse, error) {
	args := m.Called(ctx, principal, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.NoteListResponse), args.Error(1)
}

func (m *MockNoteService) Update(ctx context.Context, principal domain.Principal, id string, req dto.NoteRequest) (*dto.NoteResponse, error) {
	args := m.Called(ctx, principal, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.NoteResponse), args.Error(1)
}

func (m *MockNoteService) Delete(ctx context.Context, principal domain.Principal, id string) error {
	args := m.Called(ctx, principal, id)
	return args.Error(0)
}

type NoteHandlerTestSuite struct {
	suite.Suite
	router      *gin.Engine
	mockService *MockNoteService
	handler     *NoteHandler
}

func (s *NoteHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.mockService = new(MockNoteService)
	s.handler = NewNoteHandler(NewBaseHandler(logger.NewNop()), s.mockService)

	s.router = gin.New()
	notes := s.router.Group("/notes", withPrincipal(acmeMember))
	notes.GET("", s.handler.List)
	notes.POST("", s.handler.Create)
	notes.GET("/:id", s.handler.Get)
	notes.PUT("/:id", s.handler.Update)
	notes.DELETE("/:id", s.handler.Delete)
}

func TestNoteHandler(t *testing.T) {
	suite.Run(t, new(NoteHandlerTestSuite))
}

func (s *NoteHandlerTestSuite) serve(method, path string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *NoteHandlerTestSuite) TestCreate_Success() {
	req := dto.NoteRequest{Title: "Groceries", Content: "milk", Tags: []string{"home"}}
	s.mockService.On("Create", mock.Anything, acmeMember, req).
		Return(&dto.NoteResponse{ID: "n1", Title: "Groceries", TenantSlug: "acme", UserID: "u1"}, nil)

	body, _ := json.Marshal(req)
	w := s.serve(http.MethodPost, "/notes", body)

	s.Equal(http.StatusCreated, w.Code)
	var response dto.NoteResponse
	s.NoError(json.Unmarshal(w.Body.Bytes(), &response))
	s.Equal("n1", response.ID)
	s.mockService.AssertExpectations(s.T())
}

func (s *NoteHandlerTestSuite) TestCreate_QuotaExceededIsPaymentRequired() {
	req := dto.NoteRequest{Title: "Fourth"}
	s.mockService.On("Create", mock.Anything, acmeMember, req).Return(nil, service.NewQuotaExceededError(3))

	body, _ := json.Marshal(req)
	w := s.serve(http.MethodPost, "/notes", body)

	s.Equal(http.StatusPaymentRequired, w.Code)
	s.Equal("quota_exceeded", decodeError(w).Error)
}

func (s *NoteHandlerTestSuite) TestCreate_MalformedJSON() {
	w := s.serve(http.MethodPost, "/notes", []byte(`{"title":`))

	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal(dto.Error{Error: "validation_error", Message: "invalid request body"}, decodeError(w))
	s.mockService.AssertNotCalled(s.T(), "Create", mock.Anything, mock.Anything, mock.Anything)
}

func (s *NoteHandlerTestSuite) TestGet_NotFound() {
	s.mockService.On("Get", mock.Anything, acmeMember, "n2").Return(nil, service.ErrNoteNotFound)

	w := s.serve(http.MethodGet, "/notes/n2", nil)

	s.Equal(http.StatusNotFound, w.Code)
	s.Equal(dto.Error{Error: "not_found", Message: "note not found"}, decodeError(w))
}

func (s *NoteHandlerTestSuite) TestList_BindsQuery() {
	pinned := true
	query := dto.ListNotesQuery{Page: 2, PageSize: 5, Tag: "home", Pinned: &pinned, Q: "milk"}
	s.mockService.On("List", mock.Anything, acmeMember, query).
		Return(&dto.NoteListResponse{Notes: []dto.NoteResponse{}, Total: 0, Page: 2, PageSize: 5}, nil)

	w := s.serve(http.MethodGet, "/notes?page=2&page_size=5&tag=home&pinned=true&q=milk", nil)

	s.Equal(http.StatusOK, w.Code)
	s.mockService.AssertExpectations(s.T())
}

func (s *NoteHandlerTestSuite) TestList_BadPage() {
	w := s.serve(http.MethodGet, "/notes?page=abc", nil)

	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal("validation_error", decodeError(w).Error)
}

func (s *NoteHandlerTestSuite) TestUpdate_Success() {
	req := dto.NoteRequest{Title: "Renamed", Pinned: true}
	s.mockService.On("Update", mock.Anything, acmeMember, "n1", req).
		Return(&dto.NoteResponse{ID: "n1", Title: "Renamed", Pinned: true}, nil)

	body, _ := json.Marshal(req)
	w := s.serve(http.MethodPut, "/notes/n1", body)

	s.Equal(http.StatusOK, w.Code)
	s.mockService.AssertExpectations(s.T())
}

func (s *NoteHandlerTestSuite) TestDelete() {
	s.mockService.On("Delete", mock.Anything, acmeMember, "n1").Return(nil)
	s.mockService.On("Delete", mock.Anything, acmeMember, "other").Return(service.ErrNoteNotFound)

	w := s.serve(http.MethodDelete, "/notes/n1", nil)
	s.Equal(http.StatusNoContent, w.Code)
	s.Empty(w.Body.String())

	w = s.serve(http.MethodDelete, "/notes/other", nil)
	s.Equal(http.StatusNotFound, w.Code)
}
