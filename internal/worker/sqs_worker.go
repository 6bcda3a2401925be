package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kingrain94/notes-saas-api/internal/metrics"
	"github.com/kingrain94/notes-saas-api/internal/service/queue"
	"github.com/kingrain94/notes-saas-api/pkg/logger"
)

// ErrUnprocessable marks a message that will never succeed, such as an unknown type or a
// body that did not decode. Such messages are removed from the queue instead of retried.
var ErrUnprocessable = errors.New("unprocessable message")

// MessageQueue is the subset of the SQS service the consumers need.
type MessageQueue interface {
	ReceiveMessages(ctx context.Context, queueURL string, maxMessages int32, waitTimeSeconds int32) ([]queue.ReceivedMessage, error)
	DeleteMessage(ctx context.Context, queueURL string, receiptHandle *string) error
}

// MessageHandler processes one decoded queue message.
type MessageHandler interface {
	Name() string
	Handle(ctx context.Context, msg queue.Message) error
}

type SQSWorkerConfig struct {
	QueueURL     string
	WorkerCount  int
	PollInterval time.Duration
	MaxMessages  int32
	// WaitTime is the SQS long-polling wait in seconds.
	WaitTime int32
}

// SQSWorker polls one queue with a fixed number of goroutines and hands every message to
// its handler. A message is deleted only after it was handled, or when it is unprocessable.
type SQSWorker struct {
	queue        MessageQueue
	handler      MessageHandler
	config       SQSWorkerConfig
	metrics      *metrics.Metrics
	logger       *logger.Logger
	shutdownChan chan struct{}
	waitGroup    sync.WaitGroup
	cancel       context.CancelFunc
}

func NewSQSWorker(q MessageQueue, handler MessageHandler, config SQSWorkerConfig, m *metrics.Metrics, log *logger.Logger) *SQSWorker {
	if config.WorkerCount <= 0 {
		config.WorkerCount = 1
	}
	if config.PollInterval <= 0 {
		config.PollInterval = 5 * time.Second
	}
	if config.MaxMessages <= 0 || config.MaxMessages > 10 {
		config.MaxMessages = 10
	}
	if config.WaitTime <= 0 {
		config.WaitTime = 20
	}
	return &SQSWorker{
		queue:        q,
		handler:      handler,
		config:       config,
		metrics:      m,
		logger:       log.With(zap.String("worker", handler.Name())),
		shutdownChan: make(chan struct{}),
	}
}

func (w *SQSWorker) Start() {
	w.logger.Info("starting workers", zap.Int("count", w.config.WorkerCount))

	ctx, cancel := context.WithCancel(context.Background())
	w.cancel = cancel
	for i := 0; i < w.config.WorkerCount; i++ {
		w.waitGroup.Add(1)
		go w.runWorker(ctx, i)
	}
}

// Stop interrupts in-flight long polls and waits for every goroutine to return.
func (w *SQSWorker) Stop() {
	w.logger.Info("stopping workers")
	close(w.shutdownChan)
	if w.cancel != nil {
		w.cancel()
	}
	w.waitGroup.Wait()
	w.logger.Info("all workers stopped")
}

func (w *SQSWorker) runWorker(ctx context.Context, workerID int) {
	defer w.waitGroup.Done()

	ticker := time.NewTicker(w.config.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.shutdownChan:
			return
		case <-ticker.C:
			if err := w.ProcessMessages(ctx); err != nil && ctx.Err() == nil {
				w.logger.Error("failed to process messages", err, zap.Int("worker_id", workerID))
			}
		}
	}
}

// ProcessMessages receives one batch and handles it.
func (w *SQSWorker) ProcessMessages(ctx context.Context) error {
	messages, err := w.queue.ReceiveMessages(ctx, w.config.QueueURL, w.config.MaxMessages, w.config.WaitTime)
	if err != nil {
		return fmt.Errorf("failed to receive messages: %w", err)
	}

	for _, msg := range messages {
		w.processMessage(ctx, msg)
	}
	return nil
}

func (w *SQSWorker) processMessage(ctx context.Context, msg queue.ReceivedMessage) {
	msgType := string(msg.Message.Type)
	if msgType == "" {
		msgType = "unknown"
	}
	fields := []zap.Field{zap.String("type", msgType), zap.String("tenant", msg.Message.TenantSlug)}

	err := w.handler.Handle(ctx, msg.Message)
	switch {
	case err == nil:
		w.metrics.WorkerMessage(w.handler.Name(), msgType, "success")
	case errors.Is(err, ErrUnprocessable):
		w.metrics.WorkerMessage(w.handler.Name(), msgType, "dropped")
		w.logger.Warn("dropping unprocessable message", append(fields, zap.Error(err))...)
	default:
		// Left on the queue; SQS redelivers it after the visibility timeout.
		w.metrics.WorkerMessage(w.handler.Name(), msgType, "error")
		w.logger.Error("failed to process message", err, fields...)
		return
	}

	if err := w.queue.DeleteMessage(ctx, w.config.QueueURL, msg.ReceiptHandle); err != nil {
		w.logger.Error("failed to delete message", err, fields...)
	}
}
