package worker

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/kingrain94/notes-saas-api/internal/domain"
	"github.com/kingrain94/notes-saas-api/internal/mocks"
	"github.com/kingrain94/notes-saas-api/internal/service/queue"
	"github.com/kingrain94/notes-saas-api/pkg/logger"
)

const testQueueURL = "http://localhost:4566/000000000000/notes-index-queue"

type fakeQueue struct {
	mu       sync.Mutex
	messages []queue.ReceivedMessage
	deleted  []string
}

func (q *fakeQueue) ReceiveMessages(_ context.Context, queueURL string, _ int32, _ int32) ([]queue.ReceivedMessage, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if queueURL != testQueueURL {
		return nil, errors.New("unexpected queue")
	}
	batch := q.messages
	q.messages = nil
	return batch, nil
}

func (q *fakeQueue) DeleteMessage(_ context.Context, _ string, receiptHandle *string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.deleted = append(q.deleted, aws.ToString(receiptHandle))
	return nil
}

func received(handle string, msg queue.Message) queue.ReceivedMessage {
	return queue.ReceivedMessage{Message: msg, ReceiptHandle: aws.String(handle)}
}

type fakeUploader struct {
	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (u *fakeUploader) PutObject(_ context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if u.err != nil {
		return nil, u.err
	}
	u.input = params
	u.body, _ = io.ReadAll(params.Body)
	return &s3.PutObjectOutput{}, nil
}

type WorkerTestSuite struct {
	suite.Suite
	search      *mocks.SearchRepository
	notes       *mocks.NoteRepository
	invitations *mocks.InvitationRepository
	queue       *fakeQueue
	log         *logger.Logger
}

func (s *WorkerTestSuite) SetupTest() {
	s.search = mocks.NewSearchRepository(s.T())
	s.notes = mocks.NewNoteRepository(s.T())
	s.invitations = mocks.NewInvitationRepository(s.T())
	s.queue = &fakeQueue{}
	s.log = logger.NewNop()
}

func TestWorkers(t *testing.T) {
	suite.Run(t, new(WorkerTestSuite))
}

func (s *WorkerTestSuite) indexWorker() *SQSWorker {
	return NewSQSWorker(s.queue, NewIndexHandler(s.search, s.log), SQSWorkerConfig{QueueURL: testQueueURL}, nil, s.log)
}

func (s *WorkerTestSuite) TestIndex_EnsuresIndexOncePerTenant() {
	first := &domain.Note{ID: "n1", TenantSlug: "acme", UserID: "u1", Title: "one"}
	second := &domain.Note{ID: "n2", TenantSlug: "acme", UserID: "u1", Title: "two"}
	s.search.On("EnsureIndex", mock.Anything, "acme").Return(nil).Once()
	s.search.On("IndexNote", mock.Anything, first).Return(nil)
	s.search.On("IndexNote", mock.Anything, second).Return(nil)

	s.queue.messages = []queue.ReceivedMessage{
		received("r1", queue.Message{Type: queue.MessageTypeIndex, TenantSlug: "acme", Note: first}),
		received("r2", queue.Message{Type: queue.MessageTypeIndex, TenantSlug: "acme", Note: second}),
	}

	s.NoError(s.indexWorker().ProcessMessages(context.Background()))
	s.Equal([]string{"r1", "r2"}, s.queue.deleted)
}

func (s *WorkerTestSuite) TestIndex_DeleteAndDeleteUser() {
	s.search.On("DeleteNote", mock.Anything, "acme", "n1").Return(nil)
	s.search.On("DeleteUserNotes", mock.Anything, "acme", "u1").Return(nil)

	s.queue.messages = []queue.ReceivedMessage{
		received("r1", queue.Message{Type: queue.MessageTypeDelete, TenantSlug: "acme", NoteID: "n1"}),
		received("r2", queue.Message{Type: queue.MessageTypeDeleteUser, TenantSlug: "acme", UserID: "u1"}),
	}

	s.NoError(s.indexWorker().ProcessMessages(context.Background()))
	s.Equal([]string{"r1", "r2"}, s.queue.deleted)
}

func (s *WorkerTestSuite) TestIndex_FailureLeavesMessageOnQueue() {
	s.search.On("DeleteNote", mock.Anything, "acme", "n1").Return(errors.New("opensearch unavailable"))

	s.queue.messages = []queue.ReceivedMessage{
		received("r1", queue.Message{Type: queue.MessageTypeDelete, TenantSlug: "acme", NoteID: "n1"}),
	}

	s.NoError(s.indexWorker().ProcessMessages(context.Background()))
	s.Empty(s.queue.deleted)
}

func (s *WorkerTestSuite) TestIndex_UnprocessableMessagesAreDropped() {
	s.queue.messages = []queue.ReceivedMessage{
		received("r1", queue.Message{}),
		received("r2", queue.Message{Type: "ARCHIVE", TenantSlug: "acme"}),
		received("r3", queue.Message{Type: queue.MessageTypeIndex, TenantSlug: "acme"}),
	}

	s.NoError(s.indexWorker().ProcessMessages(context.Background()))
	s.Equal([]string{"r1", "r2", "r3"}, s.queue.deleted)
	s.search.AssertNotCalled(s.T(), "IndexNote", mock.Anything, mock.Anything)
}

func (s *WorkerTestSuite) TestWorker_StartStop() {
	w := NewSQSWorker(s.queue, NewIndexHandler(s.search, s.log),
		SQSWorkerConfig{QueueURL: testQueueURL, WorkerCount: 2, PollInterval: 10 * time.Millisecond}, nil, s.log)

	w.Start()
	time.Sleep(30 * time.Millisecond)
	w.Stop()
}

func (s *WorkerTestSuite) TestExport_UploadsAllNotes() {
	uploader := &fakeUploader{}
	handler := NewExportHandler(s.notes, uploader, "notes-exports", 2, s.log)
	handler.now = func() time.Time { return time.Date(2025, 7, 17, 21, 20, 48, 0, time.UTC) }

	s.notes.On("StreamByTenant", mock.Anything, "acme", 2, mock.Anything).Return(
		func(_ context.Context, _ string, _ int, fn func([]domain.Note) error) error {
			if err := fn([]domain.Note{{ID: "n1", TenantSlug: "acme"}, {ID: "n2", TenantSlug: "acme"}}); err != nil {
				return err
			}
			return fn([]domain.Note{{ID: "n3", TenantSlug: "acme"}})
		})

	err := handler.Handle(context.Background(), queue.Message{Type: queue.MessageTypeExport, TenantSlug: "acme", RequestedBy: "a1"})
	s.Require().NoError(err)

	s.Equal("notes-exports", aws.ToString(uploader.input.Bucket))
	s.Equal("exports/acme/notes_acme_2025-07-17_21-20-48.json", aws.ToString(uploader.input.Key))
	s.Equal("3", uploader.input.Metadata["note-count"])

	var doc exportDocument
	s.Require().NoError(json.Unmarshal(uploader.body, &doc))
	s.Equal("acme", doc.TenantSlug)
	s.Equal("a1", doc.RequestedBy)
	s.Equal(3, doc.NoteCount)
	s.Len(doc.Notes, 3)
}

func (s *WorkerTestSuite) TestExport_EmptyTenant() {
	uploader := &fakeUploader{}
	handler := NewExportHandler(s.notes, uploader, "notes-exports", 0, s.log)
	s.notes.On("StreamByTenant", mock.Anything, "globex", 500, mock.Anything).Return(nil)

	s.Require().NoError(handler.Handle(context.Background(), queue.Message{Type: queue.MessageTypeExport, TenantSlug: "globex"}))

	var doc exportDocument
	s.Require().NoError(json.Unmarshal(uploader.body, &doc))
	s.Equal(0, doc.NoteCount)
	s.NotNil(doc.Notes)
}

func (s *WorkerTestSuite) TestExport_Errors() {
	uploader := &fakeUploader{err: errors.New("access denied")}
	handler := NewExportHandler(s.notes, uploader, "notes-exports", 10, s.log)
	s.notes.On("StreamByTenant", mock.Anything, "acme", 10, mock.Anything).Return(nil)

	err := handler.Handle(context.Background(), queue.Message{Type: queue.MessageTypeExport, TenantSlug: "acme"})
	s.Error(err)
	s.NotErrorIs(err, ErrUnprocessable)

	err = handler.Handle(context.Background(), queue.Message{Type: queue.MessageTypeExport, TenantSlug: "../etc"})
	s.ErrorIs(err, ErrUnprocessable)

	err = handler.Handle(context.Background(), queue.Message{Type: queue.MessageTypeIndex, TenantSlug: "acme"})
	s.ErrorIs(err, ErrUnprocessable)
}

func (s *WorkerTestSuite) TestCleanup_PurgeExpired() {
	now := time.Date(2025, 7, 17, 0, 0, 0, 0, time.UTC)
	w := NewCleanupWorker(s.invitations, time.Hour, nil, s.log)
	w.now = func() time.Time { return now }

	s.invitations.On("DeleteExpired", mock.Anything, now).Return(int64(4), nil).Once()
	s.invitations.On("DeleteExpired", mock.Anything, now).Return(int64(0), errors.New("db down")).Once()

	deleted, err := w.PurgeExpired(context.Background())
	s.NoError(err)
	s.Equal(int64(4), deleted)

	_, err = w.PurgeExpired(context.Background())
	s.Error(err)
}

func (s *WorkerTestSuite) TestCleanup_StartRunsImmediately() {
	done := make(chan struct{})
	s.invitations.On("DeleteExpired", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { close(done) }).
		Return(int64(0), nil).Once()

	w := NewCleanupWorker(s.invitations, time.Hour, nil, s.log)
	w.Start()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		s.Fail("cleanup did not run on start")
	}
	w.Stop()
}
