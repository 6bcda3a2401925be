package worker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"

	"github.com/kingrain94/notes-saas-api/internal/domain"
	"github.com/kingrain94/notes-saas-api/internal/repository"
	"github.com/kingrain94/notes-saas-api/internal/service/queue"
	"github.com/kingrain94/notes-saas-api/pkg/logger"
)

// ObjectUploader is the subset of the S3 client the export handler uses.
type ObjectUploader interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type exportDocument struct {
	TenantSlug  string        `json:"tenant_slug"`
	RequestedBy string        `json:"requested_by,omitempty"`
	ExportedAt  time.Time     `json:"exported_at"`
	NoteCount   int           `json:"note_count"`
	Notes       []domain.Note `json:"notes"`
}

// ExportHandler writes every note of a tenant to one JSON object in S3.
type ExportHandler struct {
	notes    repository.NoteRepository
	uploader ObjectUploader
	bucket   string
	pageSize int
	logger   *logger.Logger
	now      func() time.Time
}

func NewExportHandler(notes repository.NoteRepository, uploader ObjectUploader, bucket string, pageSize int, log *logger.Logger) *ExportHandler {
	if pageSize <= 0 {
		pageSize = 500
	}
	return &ExportHandler{
		notes:    notes,
		uploader: uploader,
		bucket:   bucket,
		pageSize: pageSize,
		logger:   log,
		now:      time.Now,
	}
}

func (h *ExportHandler) Name() string {
	return "export"
}

// ExportKey is the object key of a tenant export taken at t.
func ExportKey(tenantSlug string, t time.Time) string {
	return fmt.Sprintf("exports/%s/notes_%s_%s.json", tenantSlug, tenantSlug, t.UTC().Format("2006-01-02_15-04-05"))
}

func (h *ExportHandler) Handle(ctx context.Context, msg queue.Message) error {
	if msg.Type != queue.MessageTypeExport {
		return fmt.Errorf("%w: unknown message type %q", ErrUnprocessable, msg.Type)
	}
	if !domain.IsValidSlug(msg.TenantSlug) {
		return fmt.Errorf("%w: invalid tenant slug %q", ErrUnprocessable, msg.TenantSlug)
	}

	doc := exportDocument{
		TenantSlug:  msg.TenantSlug,
		RequestedBy: msg.RequestedBy,
		ExportedAt:  h.now().UTC(),
		Notes:       []domain.Note{},
	}
	err := h.notes.StreamByTenant(ctx, msg.TenantSlug, h.pageSize, func(batch []domain.Note) error {
		doc.Notes = append(doc.Notes, batch...)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to read notes for tenant %s: %w", msg.TenantSlug, err)
	}
	doc.NoteCount = len(doc.Notes)

	body, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal export: %w", err)
	}

	key := ExportKey(msg.TenantSlug, doc.ExportedAt)
	_, err = h.uploader.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(h.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
		Metadata: map[string]string{
			"tenant-slug":  msg.TenantSlug,
			"requested-by": msg.RequestedBy,
			"note-count":   strconv.Itoa(doc.NoteCount),
			"exported-at":  doc.ExportedAt.Format(time.RFC3339),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to upload export to S3: %w", err)
	}

	h.logger.Info("tenant export uploaded",
		zap.String("tenant", msg.TenantSlug),
		zap.Int("notes", doc.NoteCount),
		zap.String("location", fmt.Sprintf("s3://%s/%s", h.bucket, key)))
	return nil
}
