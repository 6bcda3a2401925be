package worker

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kingrain94/notes-saas-api/internal/metrics"
	"github.com/kingrain94/notes-saas-api/internal/repository"
	"github.com/kingrain94/notes-saas-api/pkg/logger"
)

// CleanupWorker periodically deletes invitations that can no longer be accepted.
type CleanupWorker struct {
	invitations  repository.InvitationRepository
	pollInterval time.Duration
	metrics      *metrics.Metrics
	logger       *logger.Logger
	now          func() time.Time
	shutdownChan chan struct{}
	waitGroup    sync.WaitGroup
}

func NewCleanupWorker(invitations repository.InvitationRepository, pollInterval time.Duration, m *metrics.Metrics, log *logger.Logger) *CleanupWorker {
	if pollInterval <= 0 {
		pollInterval = time.Hour
	}
	return &CleanupWorker{
		invitations:  invitations,
		pollInterval: pollInterval,
		metrics:      m,
		logger:       log.With(zap.String("worker", "cleanup")),
		now:          time.Now,
		shutdownChan: make(chan struct{}),
	}
}

// Start runs one purge immediately and then one per poll interval.
func (w *CleanupWorker) Start() {
	w.logger.Info("starting cleanup worker", zap.Duration("interval", w.pollInterval))

	w.waitGroup.Add(1)
	go func() {
		defer w.waitGroup.Done()

		ticker := time.NewTicker(w.pollInterval)
		defer ticker.Stop()

		w.runOnce()
		for {
			select {
			case <-w.shutdownChan:
				return
			case <-ticker.C:
				w.runOnce()
			}
		}
	}()
}

func (w *CleanupWorker) Stop() {
	w.logger.Info("stopping cleanup worker")
	close(w.shutdownChan)
	w.waitGroup.Wait()
	w.logger.Info("cleanup worker stopped")
}

func (w *CleanupWorker) runOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if _, err := w.PurgeExpired(ctx); err != nil {
		w.logger.Error("failed to purge expired invitations", err)
	}
}

// PurgeExpired deletes invitations that expired before now and returns how many were removed.
func (w *CleanupWorker) PurgeExpired(ctx context.Context) (int64, error) {
	deleted, err := w.invitations.DeleteExpired(ctx, w.now())
	if err != nil {
		w.metrics.WorkerMessage("cleanup", "PURGE_INVITATIONS", "error")
		return 0, err
	}

	w.metrics.WorkerMessage("cleanup", "PURGE_INVITATIONS", "success")
	if deleted > 0 {
		w.logger.Info("purged expired invitations", zap.Int64("count", deleted))
	}
	return deleted, nil
}
