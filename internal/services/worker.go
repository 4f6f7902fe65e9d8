package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"alfredoptarigan/resume-ranker/internal/logger"
	"alfredoptarigan/resume-ranker/internal/repositories"
)

type Worker interface {
	Start(ctx context.Context)
	Stop()
	EnqueueBatch(batchID uuid.UUID)
}

type worker struct {
	batchRepo      repositories.BatchRepository
	rankingService RankingService
	jobQueue       chan uuid.UUID
	concurrency    int
	pollInterval   time.Duration
	wg             sync.WaitGroup
	stopChan       chan struct{}
	stopOnce       sync.Once
	logger         *zap.Logger
}

func NewWorker(
	batchRepo repositories.BatchRepository,
	rankingService RankingService,
	concurrency int,
	pollInterval time.Duration,
	log *zap.Logger,
) Worker {
	if concurrency <= 0 {
		concurrency = 1
	}
	if pollInterval <= 0 {
		pollInterval = 10 * time.Second
	}
	return &worker{
		batchRepo:      batchRepo,
		rankingService: rankingService,
		jobQueue:       make(chan uuid.UUID, 100),
		concurrency:    concurrency,
		pollInterval:   pollInterval,
		stopChan:       make(chan struct{}),
		logger:         logger.OrNop(log),
	}
}

// Start implements Worker.
func (w *worker) Start(ctx context.Context) {
	w.logger.Info("starting worker", zap.Int("concurrency", w.concurrency))

	for i := 0; i < w.concurrency; i++ {
		w.wg.Add(1)
		go w.processBatches(ctx, i+1)
	}

	w.wg.Add(1)
	go w.pollQueuedBatches(ctx)
}

// Stop implements Worker. It waits for in-flight batches to finish.
func (w *worker) Stop() {
	w.stopOnce.Do(func() {
		w.logger.Info("stopping worker")
		close(w.stopChan)
		w.wg.Wait()
		w.logger.Info("worker stopped")
	})
}

// EnqueueBatch implements Worker.
func (w *worker) EnqueueBatch(batchID uuid.UUID) {
	select {
	case w.jobQueue <- batchID:
		w.logger.Debug("batch enqueued", zap.String("batch_id", batchID.String()))
	case <-w.stopChan:
		w.logger.Warn("worker stopped, cannot enqueue batch", zap.String("batch_id", batchID.String()))
	}
}

func (w *worker) processBatches(ctx context.Context, workerID int) {
	defer w.wg.Done()

	for {
		select {
		case <-w.stopChan:
			return
		case <-ctx.Done():
			return
		case batchID := <-w.jobQueue:
			w.runBatch(ctx, workerID, batchID)
		}
	}
}

func (w *worker) runBatch(ctx context.Context, workerID int, batchID uuid.UUID) {
	log := w.logger.With(zap.Int("worker", workerID), zap.String("batch_id", batchID.String()))

	defer func() {
		if r := recover(); r != nil {
			log.Error("batch panicked", zap.Any("panic", r))
		}
	}()

	outcome, err := w.rankingService.ProcessBatch(ctx, batchID)
	switch {
	case errors.Is(err, ErrBatchNotQueued):
		// Picked up by the poller and the direct enqueue; one of them wins.
		log.Debug("batch already claimed")
	case err != nil:
		log.Error("failed to process batch", zap.Error(err))
	default:
		log.Info("batch done",
			zap.Int("ranked", len(outcome.Result.Ranked)),
			zap.Int("failed", len(outcome.Result.Failures)),
		)
	}
}

func (w *worker) pollQueuedBatches(ctx context.Context) {
	defer w.wg.Done()
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopChan:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			queued, err := w.batchRepo.FindQueued(10)
			if err != nil {
				w.logger.Warn("failed to fetch queued batches", zap.Error(err))
				continue
			}

			if len(queued) > 0 {
				w.logger.Info("found queued batches", zap.Int("count", len(queued)))
			}

			for _, batch := range queued {
				w.EnqueueBatch(batch.ID)
			}
		}
	}
}
