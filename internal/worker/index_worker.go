package worker

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/kingrain94/notes-saas-api/internal/repository"
	"github.com/kingrain94/notes-saas-api/internal/service/queue"
	"github.com/kingrain94/notes-saas-api/pkg/logger"
)

// IndexHandler keeps the per-tenant OpenSearch note indices in step with Postgres.
type IndexHandler struct {
	search  repository.SearchRepository
	logger  *logger.Logger
	ensured sync.Map // tenant slug -> struct{}
}

func NewIndexHandler(search repository.SearchRepository, log *logger.Logger) *IndexHandler {
	return &IndexHandler{search: search, logger: log}
}

func (h *IndexHandler) Name() string {
	return "index"
}

func (h *IndexHandler) Handle(ctx context.Context, msg queue.Message) error {
	switch msg.Type {
	case queue.MessageTypeIndex:
		if msg.Note == nil || msg.Note.ID == "" {
			return fmt.Errorf("%w: INDEX message without a note", ErrUnprocessable)
		}
		if err := h.ensureIndex(ctx, msg.Note.TenantSlug); err != nil {
			return err
		}
		return h.search.IndexNote(ctx, msg.Note)

	case queue.MessageTypeDelete:
		if msg.NoteID == "" {
			return fmt.Errorf("%w: DELETE message without a note id", ErrUnprocessable)
		}
		return h.search.DeleteNote(ctx, msg.TenantSlug, msg.NoteID)

	case queue.MessageTypeDeleteUser:
		if msg.UserID == "" {
			return fmt.Errorf("%w: DELETE_USER message without a user id", ErrUnprocessable)
		}
		return h.search.DeleteUserNotes(ctx, msg.TenantSlug, msg.UserID)

	default:
		return fmt.Errorf("%w: unknown message type %q", ErrUnprocessable, msg.Type)
	}
}

func (h *IndexHandler) ensureIndex(ctx context.Context, tenantSlug string) error {
	if _, ok := h.ensured.Load(tenantSlug); ok {
		return nil
	}
	if err := h.search.EnsureIndex(ctx, tenantSlug); err != nil {
		return fmt.Errorf("failed to ensure index for tenant %s: %w", tenantSlug, err)
	}
	h.ensured.Store(tenantSlug, struct{}{})
	h.logger.Info("note index ready", zap.String("tenant", tenantSlug))
	return nil
}
