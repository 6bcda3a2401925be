package service

import (
	"context"
	"errors"
	"math"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kingrain94/notes-saas-api/internal/api/dto"
	"github.com/kingrain94/notes-saas-api/internal/domain"
	"github.com/kingrain94/notes-saas-api/internal/metrics"
	"github.com/kingrain94/notes-saas-api/internal/repository"
	"github.com/kingrain94/notes-saas-api/pkg/logger"
	"github.com/kingrain94/notes-saas-api/pkg/utils"
)

const (
	maxTitleLength    = 200
	maxContentLength  = 100000
	maxCategoryLength = 50
	maxTags           = 20
	maxTagLength      = 50

	defaultPageSize = 20
	maxPageSize     = 100
)

var colorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

var nowUTC = func() time.Time { return time.Now().UTC() }

//go:generate mockery --name QueueService --output ../mocks
type QueueService interface {
	SendIndexMessage(ctx context.Context, note *domain.Note) error
	SendDeleteMessage(ctx context.Context, tenantSlug, noteID string) error
	SendDeleteUserMessage(ctx context.Context, tenantSlug, userID string) error
	SendExportMessage(ctx context.Context, tenantSlug, requestedBy string) error
}

//go:generate mockery --name EventPublisher --output ../mocks
type EventPublisher interface {
	PublishNoteEvent(ctx context.Context, event *domain.NoteEvent) error
}

type NoteService struct {
	repo      repository.Repository
	limits    domain.PlanLimits
	queue     QueueService
	publisher EventPublisher
	metrics   *metrics.Metrics
	logger    *logger.Logger
}

func NewNoteService(repo repository.Repository, limits domain.PlanLimits, queue QueueService, m *metrics.Metrics, log *logger.Logger) *NoteService {
	return &NoteService{
		repo:    repo,
		limits:  limits,
		queue:   queue,
		metrics: m,
		logger:  log,
	}
}

// SetEventPublisher enables live note events.
func (s *NoteService) SetEventPublisher(publisher EventPublisher) {
	s.publisher = publisher
}

// Create stores a note for the principal. The tenant's plan limit is checked against
// the locked tenant row in the same transaction as the insert.
func (s *NoteService) Create(ctx context.Context, principal domain.Principal, req dto.NoteRequest) (*dto.NoteResponse, error) {
	if err := normalizeNoteRequest(&req); err != nil {
		return nil, err
	}

	note := req.ToNote(principal)
	var plan domain.Plan
	err := s.repo.Note().CreateGuarded(ctx, note, func(tenant *domain.Tenant, count int64) error {
		plan = tenant.Plan
		if !s.limits.CanCreateNote(tenant.Plan, count) {
			return NewQuotaExceededError(s.limits.NoteLimit(tenant.Plan))
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrQuotaExceeded) {
			s.metrics.QuotaRejected(string(plan))
			return nil, err
		}
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTenantNotFound
		}
		if errors.Is(err, repository.ErrForeignKey) {
			// The token outlived its user.
			return nil, ErrInvalidToken
		}
		return nil, NewInternalError("failed to create note", err)
	}

	s.metrics.NoteCreated(string(plan))
	s.afterWrite(ctx, domain.NoteCreated, note)
	return dto.FromNote(note), nil
}

func (s *NoteService) Get(ctx context.Context, principal domain.Principal, id string) (*dto.NoteResponse, error) {
	note, err := s.findScoped(ctx, principal, id)
	if err != nil {
		return nil, err
	}
	return dto.FromNote(note), nil
}

// List pages through the notes visible to the principal. With q set and search enabled
// the results come from the search index in relevance order.
func (s *NoteService) List(ctx context.Context, principal domain.Principal, query dto.ListNotesQuery) (*dto.NoteListResponse, error) {
	filter, err := s.buildFilter(principal, query)
	if err != nil {
		return nil, err
	}

	var (
		notes []domain.Note
		total int64
	)
	if filter.Query != "" && s.repo.Search() != nil {
		notes, total, err = s.search(ctx, filter)
		if err != nil {
			// The relational store can answer the same query, only without ranking.
			s.logger.Warn("search failed, falling back to database", zap.Error(err), zap.String("tenant", filter.TenantSlug))
			notes, total, err = s.repo.Note().List(ctx, filter)
		}
	} else {
		notes, total, err = s.repo.Note().List(ctx, filter)
	}
	if err != nil {
		return nil, NewInternalError("failed to list notes", err)
	}

	return &dto.NoteListResponse{
		Notes:    dto.FromNotes(notes),
		Total:    total,
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}, nil
}

func (s *NoteService) search(ctx context.Context, filter domain.NoteFilter) ([]domain.Note, int64, error) {
	ids, total, err := s.repo.Search().SearchNoteIDs(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	found, err := s.repo.Note().ListByIDs(ctx, filter.TenantSlug, ids)
	if err != nil {
		return nil, 0, err
	}

	// Keep relevance order and drop hits the database no longer has.
	byID := make(map[string]domain.Note, len(found))
	for _, n := range found {
		byID[n.ID] = n
	}
	notes := make([]domain.Note, 0, len(ids))
	for _, id := range ids {
		if n, ok := byID[id]; ok {
			notes = append(notes, n)
		}
	}
	return notes, total, nil
}

func (s *NoteService) buildFilter(principal domain.Principal, query dto.ListNotesQuery) (domain.NoteFilter, error) {
	filter := domain.NoteFilter{
		TenantSlug: principal.TenantSlug,
		Category:   strings.TrimSpace(query.Category),
		Tag:        strings.TrimSpace(query.Tag),
		Pinned:     query.Pinned,
		Query:      strings.TrimSpace(query.Q),
		Page:       query.Page,
		PageSize:   query.PageSize,
	}
	if !principal.IsAdmin() {
		filter.UserID = principal.UserID
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = defaultPageSize
	}
	if filter.PageSize > maxPageSize {
		filter.PageSize = maxPageSize
	}
	if filter.Page-1 > math.MaxInt/filter.PageSize {
		return filter, NewValidationError("page is out of range")
	}
	filter.Limit = filter.PageSize
	filter.Offset = (filter.Page - 1) * filter.PageSize

	if query.UpdatedAfter != "" {
		t, err := utils.ParseTimeBound(query.UpdatedAfter, false)
		if err != nil {
			return filter, NewValidationError("updated_after: %s", err.Error())
		}
		filter.UpdatedAfter = t
	}
	if query.UpdatedBefore != "" {
		t, err := utils.ParseTimeBound(query.UpdatedBefore, true)
		if err != nil {
			return filter, NewValidationError("updated_before: %s", err.Error())
		}
		filter.UpdatedBefore = t
	}
	if !filter.UpdatedAfter.IsZero() && !filter.UpdatedBefore.IsZero() && filter.UpdatedAfter.After(filter.UpdatedBefore) {
		return filter, NewValidationError("updated_after must not be later than updated_before")
	}

	return filter, nil
}

// Update replaces the mutable fields of a note the principal can reach.
func (s *NoteService) Update(ctx context.Context, principal domain.Principal, id string, req dto.NoteRequest) (*dto.NoteResponse, error) {
	if err := normalizeNoteRequest(&req); err != nil {
		return nil, err
	}

	note, err := s.findScoped(ctx, principal, id)
	if err != nil {
		return nil, err
	}

	note.Title = req.Title
	note.Content = req.Content
	note.Category = req.Category
	note.Tags = req.Tags
	note.Pinned = req.Pinned
	note.Color = req.Color
	note.UpdatedAt = nowUTC()

	if err := s.repo.Note().Update(ctx, note); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNoteNotFound
		}
		return nil, NewInternalError("failed to update note", err)
	}

	s.afterWrite(ctx, domain.NoteUpdated, note)
	return dto.FromNote(note), nil
}

func (s *NoteService) Delete(ctx context.Context, principal domain.Principal, id string) error {
	note, err := s.findScoped(ctx, principal, id)
	if err != nil {
		return err
	}

	if err := s.repo.Note().Delete(ctx, note.ID, note.TenantSlug); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNoteNotFound
		}
		return NewInternalError("failed to delete note", err)
	}

	s.afterWrite(ctx, domain.NoteDeleted, note)
	return nil
}

// findScoped resolves id within the principal's reach: the whole tenant for admins,
// only their own notes for members. Anything else is indistinguishable from absence.
func (s *NoteService) findScoped(ctx context.Context, principal domain.Principal, id string) (*domain.Note, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNoteNotFound
	}

	var (
		note *domain.Note
		err  error
	)
	if principal.IsAdmin() {
		note, err = s.repo.Note().GetByIDAndTenant(ctx, id, principal.TenantSlug)
	} else {
		note, err = s.repo.Note().GetByIDTenantAndUser(ctx, id, principal.TenantSlug, principal.UserID)
	}
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNoteNotFound
	}
	if err != nil {
		return nil, NewInternalError("failed to load note", err)
	}
	return note, nil
}

// afterWrite schedules indexing and publishes a live event. Both are best effort: the
// write has already committed.
func (s *NoteService) afterWrite(ctx context.Context, eventType domain.NoteEventType, note *domain.Note) {
	if s.queue != nil {
		var err error
		if eventType == domain.NoteDeleted {
			err = s.queue.SendDeleteMessage(ctx, note.TenantSlug, note.ID)
		} else {
			err = s.queue.SendIndexMessage(ctx, note)
		}
		if err != nil {
			s.logger.Error("failed to enqueue index message", err, zap.String("note_id", note.ID))
		}
	}

	if s.publisher != nil {
		event := &domain.NoteEvent{
			Type:       eventType,
			TenantSlug: note.TenantSlug,
			NoteID:     note.ID,
			UserID:     note.UserID,
			OccurredAt: nowUTC(),
		}
		if eventType != domain.NoteDeleted {
			event.Note = note
		}
		if err := s.publisher.PublishNoteEvent(ctx, event); err != nil {
			s.logger.Error("failed to publish note event", err, zap.String("note_id", note.ID))
		}
	}
}

func normalizeNoteRequest(req *dto.NoteRequest) error {
	req.Title = strings.TrimSpace(req.Title)
	req.Category = strings.TrimSpace(req.Category)
	req.Color = strings.TrimSpace(req.Color)

	if req.Title == "" {
		return NewValidationError("title is required")
	}
	if utf8.RuneCountInString(req.Title) > maxTitleLength {
		return NewValidationError("title must be at most %d characters", maxTitleLength)
	}
	if utf8.RuneCountInString(req.Content) > maxContentLength {
		return NewValidationError("content must be at most %d characters", maxContentLength)
	}
	if utf8.RuneCountInString(req.Category) > maxCategoryLength {
		return NewValidationError("category must be at most %d characters", maxCategoryLength)
	}
	if req.Color != "" && !colorPattern.MatchString(req.Color) {
		return NewValidationError("color must be a hex value like #ffd166")
	}

	tags := make([]string, 0, len(req.Tags))
	seen := make(map[string]struct{}, len(req.Tags))
	for _, tag := range req.Tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if utf8.RuneCountInString(tag) > maxTagLength {
			return NewValidationError("tags must be at most %d characters each", maxTagLength)
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}
	if len(tags) > maxTags {
		return NewValidationError("at most %d tags are allowed", maxTags)
	}
	req.Tags = tags

	return nil
}
