package service

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/kingrain94/notes-saas-api/internal/api/dto"
	"github.com/kingrain94/notes-saas-api/internal/domain"
	"github.com/kingrain94/notes-saas-api/internal/mocks"
	"github.com/kingrain94/notes-saas-api/internal/repository"
	"github.com/kingrain94/notes-saas-api/pkg/logger"
)

const (
	noteID  = "7f1d3a4e-2b8c-4d6e-9f10-1a2b3c4d5e6f"
	adminID = "a0000000-0000-0000-0000-000000000001"
	userID  = "b0000000-0000-0000-0000-000000000002"
)

type NoteServiceTestSuite struct {
	suite.Suite
	mockRepo      *mocks.Repository
	mockNote      *mocks.NoteRepository
	mockSearch    *mocks.SearchRepository
	mockQueue     *mocks.QueueService
	mockPublisher *mocks.EventPublisher
	service       *NoteService

	admin  domain.Principal
	member domain.Principal
}

func (s *NoteServiceTestSuite) SetupTest() {
	s.mockRepo = new(mocks.Repository)
	s.mockNote = new(mocks.NoteRepository)
	s.mockSearch = new(mocks.SearchRepository)
	s.mockQueue = new(mocks.QueueService)
	s.mockPublisher = new(mocks.EventPublisher)

	s.mockRepo.On("Note").Return(s.mockNote)

	s.service = NewNoteService(s.mockRepo, domain.DefaultPlanLimits(), s.mockQueue, nil, logger.NewNop())
	s.service.SetEventPublisher(s.mockPublisher)

	s.admin = domain.Principal{UserID: adminID, Email: "admin@acme.test", TenantSlug: "acme", Role: domain.RoleAdmin}
	s.member = domain.Principal{UserID: userID, Email: "user@acme.test", TenantSlug: "acme", Role: domain.RoleMember}
}

func TestNoteService(t *testing.T) {
	suite.Run(t, new(NoteServiceTestSuite))
}

// expectCreate makes CreateGuarded run the guard against a tenant holding count notes.
func (s *NoteServiceTestSuite) expectCreate(plan domain.Plan, count int64) {
	s.mockNote.On("CreateGuarded", mock.Anything, mock.AnythingOfType("*domain.Note"), mock.Anything).
		Return(func(_ context.Context, note *domain.Note, guard repository.CreateGuard) error {
			if err := guard(&domain.Tenant{Slug: note.TenantSlug, Plan: plan}, count); err != nil {
				return err
			}
			note.ID = noteID
			return nil
		})
}

func (s *NoteServiceTestSuite) TestCreate_Success() {
	ctx := context.Background()
	s.expectCreate(domain.PlanFree, 2)
	s.mockQueue.On("SendIndexMessage", ctx, mock.AnythingOfType("*domain.Note")).Return(nil)
	s.mockPublisher.On("PublishNoteEvent", ctx, mock.MatchedBy(func(e *domain.NoteEvent) bool {
		return e.Type == domain.NoteCreated && e.NoteID == noteID && e.TenantSlug == "acme"
	})).Return(nil)

	resp, err := s.service.Create(ctx, s.member, dto.NoteRequest{
		Title: "  Groceries ",
		Tags:  []string{"home", " home ", "", "errands"},
		Color: "#ffd166",
	})

	s.NoError(err)
	s.Equal(noteID, resp.ID)
	s.Equal("Groceries", resp.Title)
	s.Equal("acme", resp.TenantSlug)
	s.Equal(userID, resp.UserID)
	s.Equal([]string{"home", "errands"}, resp.Tags)
	s.mockQueue.AssertExpectations(s.T())
	s.mockPublisher.AssertExpectations(s.T())
}

func (s *NoteServiceTestSuite) TestCreate_FreePlanAtLimit() {
	ctx := context.Background()
	s.expectCreate(domain.PlanFree, 3)

	resp, err := s.service.Create(ctx, s.admin, dto.NoteRequest{Title: "Fourth"})

	s.Nil(resp)
	s.ErrorIs(err, ErrQuotaExceeded)
	s.Equal(KindQuotaExceeded, KindOf(err))
	s.mockQueue.AssertNotCalled(s.T(), "SendIndexMessage", mock.Anything, mock.Anything)
	s.mockPublisher.AssertNotCalled(s.T(), "PublishNoteEvent", mock.Anything, mock.Anything)
}

func (s *NoteServiceTestSuite) TestCreate_DeletedUserTokenIsUnauthenticated() {
	ctx := context.Background()
	s.mockNote.On("CreateGuarded", ctx, mock.AnythingOfType("*domain.Note"), mock.Anything).
		Return(repository.ErrForeignKey)

	resp, err := s.service.Create(ctx, s.member, dto.NoteRequest{Title: "Orphan"})

	s.Nil(resp)
	s.ErrorIs(err, ErrInvalidToken)
	s.Equal(KindAuthentication, KindOf(err))
	s.mockQueue.AssertNotCalled(s.T(), "SendIndexMessage", mock.Anything, mock.Anything)
}

func (s *NoteServiceTestSuite) TestCreate_ProPlanUnlimited() {
	ctx := context.Background()
	s.expectCreate(domain.PlanPro, 10000)
	s.mockQueue.On("SendIndexMessage", ctx, mock.Anything).Return(nil)
	s.mockPublisher.On("PublishNoteEvent", ctx, mock.Anything).Return(nil)

	resp, err := s.service.Create(ctx, s.admin, dto.NoteRequest{Title: "Many"})

	s.NoError(err)
	s.Equal(noteID, resp.ID)
}

func (s *NoteServiceTestSuite) TestCreate_SideEffectFailuresDoNotFailWrite() {
	ctx := context.Background()
	s.expectCreate(domain.PlanFree, 0)
	s.mockQueue.On("SendIndexMessage", ctx, mock.Anything).Return(errors.New("sqs down"))
	s.mockPublisher.On("PublishNoteEvent", ctx, mock.Anything).Return(errors.New("redis down"))

	resp, err := s.service.Create(ctx, s.admin, dto.NoteRequest{Title: "Still saved"})

	s.NoError(err)
	s.Equal(noteID, resp.ID)
}

func (s *NoteServiceTestSuite) TestCreate_Validation() {
	ctx := context.Background()
	manyTags := make([]string, maxTags+1)
	for i := range manyTags {
		manyTags[i] = strings.Repeat("t", i+1)
	}

	cases := map[string]dto.NoteRequest{
		"missing title": {Title: "   "},
		"long title":    {Title: strings.Repeat("a", maxTitleLength+1)},
		"long content":  {Title: "ok", Content: strings.Repeat("a", maxContentLength+1)},
		"bad color":     {Title: "ok", Color: "red"},
		"too many tags": {Title: "ok", Tags: manyTags},
		"long tag":      {Title: "ok", Tags: []string{strings.Repeat("t", maxTagLength+1)}},
	}
	for name, req := range cases {
		_, err := s.service.Create(ctx, s.admin, req)
		s.ErrorIs(err, ErrValidation, name)
	}
	s.mockNote.AssertNotCalled(s.T(), "CreateGuarded", mock.Anything, mock.Anything, mock.Anything)
}

func (s *NoteServiceTestSuite) TestGet_AdminUsesTenantScope() {
	ctx := context.Background()
	note := &domain.Note{ID: noteID, TenantSlug: "acme", UserID: userID, Title: "Member note"}
	s.mockNote.On("GetByIDAndTenant", ctx, noteID, "acme").Return(note, nil)

	resp, err := s.service.Get(ctx, s.admin, noteID)

	s.NoError(err)
	s.Equal("Member note", resp.Title)
	s.mockNote.AssertNotCalled(s.T(), "GetByIDTenantAndUser", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *NoteServiceTestSuite) TestGet_MemberUsesOwnerScope() {
	ctx := context.Background()
	s.mockNote.On("GetByIDTenantAndUser", ctx, noteID, "acme", userID).Return(nil, repository.ErrNotFound)

	resp, err := s.service.Get(ctx, s.member, noteID)

	s.Nil(resp)
	s.ErrorIs(err, ErrNoteNotFound)
	s.Equal(KindNotFound, KindOf(err))
}

func (s *NoteServiceTestSuite) TestGet_MalformedIDIsNotFound() {
	_, err := s.service.Get(context.Background(), s.admin, "not-a-uuid")

	s.ErrorIs(err, ErrNoteNotFound)
	s.mockNote.AssertNotCalled(s.T(), "GetByIDAndTenant", mock.Anything, mock.Anything, mock.Anything)
}

func (s *NoteServiceTestSuite) TestList_MemberFilterIsOwnerScoped() {
	ctx := context.Background()
	notes := []domain.Note{{ID: noteID, TenantSlug: "acme", UserID: userID, Title: "Mine"}}

	s.mockNote.On("List", ctx, mock.MatchedBy(func(f domain.NoteFilter) bool {
		return f.TenantSlug == "acme" && f.UserID == userID && f.Page == 1 && f.PageSize == defaultPageSize && f.Offset == 0
	})).Return(notes, int64(1), nil)

	resp, err := s.service.List(ctx, s.member, dto.ListNotesQuery{})

	s.NoError(err)
	s.Equal(int64(1), resp.Total)
	s.Len(resp.Notes, 1)
}

func (s *NoteServiceTestSuite) TestList_AdminSeesTenantAndPageSizeIsCapped() {
	ctx := context.Background()
	s.mockNote.On("List", ctx, mock.MatchedBy(func(f domain.NoteFilter) bool {
		return f.UserID == "" && f.PageSize == maxPageSize && f.Offset == maxPageSize
	})).Return([]domain.Note{}, int64(0), nil)

	resp, err := s.service.List(ctx, s.admin, dto.ListNotesQuery{Page: 2, PageSize: 1000})

	s.NoError(err)
	s.Equal(2, resp.Page)
	s.Equal(maxPageSize, resp.PageSize)
}

func (s *NoteServiceTestSuite) TestList_PageOutOfRange() {
	_, err := s.service.List(context.Background(), s.admin, dto.ListNotesQuery{Page: math.MaxInt, PageSize: 20})

	s.ErrorIs(err, ErrValidation)
	s.mockNote.AssertNotCalled(s.T(), "List", mock.Anything, mock.Anything)
}

func (s *NoteServiceTestSuite) TestList_InvalidTimeRange() {
	_, err := s.service.List(context.Background(), s.admin, dto.ListNotesQuery{
		UpdatedAfter:  "2025-06-01",
		UpdatedBefore: "2025-01-01",
	})

	s.ErrorIs(err, ErrValidation)
}

func (s *NoteServiceTestSuite) TestList_SearchKeepsRelevanceOrder() {
	ctx := context.Background()
	s.mockRepo.On("Search").Return(s.mockSearch)

	s.mockSearch.On("SearchNoteIDs", ctx, mock.MatchedBy(func(f domain.NoteFilter) bool {
		return f.Query == "plan" && f.UserID == userID
	})).Return([]string{"n2", "n1", "gone"}, int64(3), nil)
	s.mockNote.On("ListByIDs", ctx, "acme", []string{"n2", "n1", "gone"}).Return([]domain.Note{
		{ID: "n1", TenantSlug: "acme", Title: "first"},
		{ID: "n2", TenantSlug: "acme", Title: "second"},
	}, nil)

	resp, err := s.service.List(ctx, s.member, dto.ListNotesQuery{Q: " plan "})

	s.NoError(err)
	s.Require().Len(resp.Notes, 2)
	s.Equal("n2", resp.Notes[0].ID)
	s.Equal("n1", resp.Notes[1].ID)
	s.mockNote.AssertNotCalled(s.T(), "List", mock.Anything, mock.Anything)
}

func (s *NoteServiceTestSuite) TestList_SearchFailureFallsBackToDatabase() {
	ctx := context.Background()
	s.mockRepo.On("Search").Return(s.mockSearch)

	s.mockSearch.On("SearchNoteIDs", ctx, mock.Anything).Return(nil, int64(0), errors.New("cluster red"))
	s.mockNote.On("List", ctx, mock.MatchedBy(func(f domain.NoteFilter) bool {
		return f.Query == "plan"
	})).Return([]domain.Note{{ID: "n1", TenantSlug: "acme"}}, int64(1), nil)

	resp, err := s.service.List(ctx, s.admin, dto.ListNotesQuery{Q: "plan"})

	s.NoError(err)
	s.Len(resp.Notes, 1)
}

func (s *NoteServiceTestSuite) TestList_QueryWithoutSearchUsesDatabase() {
	ctx := context.Background()
	s.mockRepo.On("Search").Return(nil)
	s.mockNote.On("List", ctx, mock.Anything).Return([]domain.Note{}, int64(0), nil)

	_, err := s.service.List(ctx, s.admin, dto.ListNotesQuery{Q: "plan"})

	s.NoError(err)
	s.mockNote.AssertExpectations(s.T())
}

func (s *NoteServiceTestSuite) TestUpdate_Success() {
	ctx := context.Background()
	note := &domain.Note{ID: noteID, TenantSlug: "acme", UserID: userID, Title: "Old"}
	s.mockNote.On("GetByIDTenantAndUser", ctx, noteID, "acme", userID).Return(note, nil)
	s.mockNote.On("Update", ctx, note).Return(nil)
	s.mockQueue.On("SendIndexMessage", ctx, note).Return(nil)
	s.mockPublisher.On("PublishNoteEvent", ctx, mock.MatchedBy(func(e *domain.NoteEvent) bool {
		return e.Type == domain.NoteUpdated
	})).Return(nil)

	resp, err := s.service.Update(ctx, s.member, noteID, dto.NoteRequest{Title: "New", Pinned: true})

	s.NoError(err)
	s.Equal("New", resp.Title)
	s.True(resp.Pinned)
	s.False(note.UpdatedAt.IsZero())
}

func (s *NoteServiceTestSuite) TestUpdate_OtherMembersNoteIsNotFound() {
	ctx := context.Background()
	s.mockNote.On("GetByIDTenantAndUser", ctx, noteID, "acme", userID).Return(nil, repository.ErrNotFound)

	_, err := s.service.Update(ctx, s.member, noteID, dto.NoteRequest{Title: "Hijack"})

	s.ErrorIs(err, ErrNoteNotFound)
	s.mockNote.AssertNotCalled(s.T(), "Update", mock.Anything, mock.Anything)
}

func (s *NoteServiceTestSuite) TestDelete_Success() {
	ctx := context.Background()
	note := &domain.Note{ID: noteID, TenantSlug: "acme", UserID: userID}
	s.mockNote.On("GetByIDAndTenant", ctx, noteID, "acme").Return(note, nil)
	s.mockNote.On("Delete", ctx, noteID, "acme").Return(nil)
	s.mockQueue.On("SendDeleteMessage", ctx, "acme", noteID).Return(nil)
	s.mockPublisher.On("PublishNoteEvent", ctx, mock.MatchedBy(func(e *domain.NoteEvent) bool {
		return e.Type == domain.NoteDeleted && e.Note == nil
	})).Return(nil)

	err := s.service.Delete(ctx, s.admin, noteID)

	s.NoError(err)
	s.mockQueue.AssertExpectations(s.T())
	s.mockPublisher.AssertExpectations(s.T())
}

func (s *NoteServiceTestSuite) TestDelete_RepositoryFailureIsInternal() {
	ctx := context.Background()
	note := &domain.Note{ID: noteID, TenantSlug: "acme", UserID: userID}
	s.mockNote.On("GetByIDAndTenant", ctx, noteID, "acme").Return(note, nil)
	s.mockNote.On("Delete", ctx, noteID, "acme").Return(errors.New("deadlock"))

	err := s.service.Delete(ctx, s.admin, noteID)

	s.Equal(KindInternal, KindOf(err))
}
