package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/resume-ranker/internal/models"
)

type countingRanking struct {
	repo *fakeBatchRepo
	mu   sync.Mutex
	done map[uuid.UUID]int
}

func (c *countingRanking) ProcessBatch(_ context.Context, batchID uuid.UUID) (*BatchOutcome, error) {
	claimed, err := c.repo.Claim(batchID)
	if err != nil {
		return nil, err
	}
	if !claimed {
		return nil, ErrBatchNotQueued
	}
	return c.ProcessClaimed(context.Background(), batchID)
}

func (c *countingRanking) ProcessClaimed(_ context.Context, batchID uuid.UUID) (*BatchOutcome, error) {
	c.mu.Lock()
	c.done[batchID]++
	c.mu.Unlock()
	_ = c.repo.Complete(batchID, 0, 0)
	return &BatchOutcome{BatchID: batchID}, nil
}

func (c *countingRanking) count(id uuid.UUID) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.done[id]
}

func queueBatch(t *testing.T, repo *fakeBatchRepo) uuid.UUID {
	t.Helper()
	id := uuid.New()
	require.NoError(t, repo.CreateWithDocuments(&models.Batch{
		ID:             id,
		JobDescription: "Go",
		Status:         models.StatusQueued,
	}, nil))
	return id
}

func TestWorker_ProcessesEnqueuedBatch(t *testing.T) {
	repo := newFakeBatchRepo()
	ranking := &countingRanking{repo: repo, done: map[uuid.UUID]int{}}
	w := NewWorker(repo, ranking, 2, time.Hour, nil)

	w.Start(context.Background())
	defer w.Stop()

	id := queueBatch(t, repo)
	w.EnqueueBatch(id)
	w.EnqueueBatch(id)

	assert.Eventually(t, func() bool {
		return repo.status(id) == models.StatusCompleted
	}, 2*time.Second, 10*time.Millisecond)

	// The second enqueue finds the batch already claimed.
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 1, ranking.count(id))
}

func TestWorker_PollerPicksUpQueuedBatches(t *testing.T) {
	repo := newFakeBatchRepo()
	ranking := &countingRanking{repo: repo, done: map[uuid.UUID]int{}}
	id := queueBatch(t, repo)

	w := NewWorker(repo, ranking, 1, 20*time.Millisecond, nil)
	w.Start(context.Background())
	defer w.Stop()

	assert.Eventually(t, func() bool {
		return ranking.count(id) == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestWorker_StopIsIdempotentAndRejectsWork(t *testing.T) {
	repo := newFakeBatchRepo()
	w := NewWorker(repo, &countingRanking{repo: repo, done: map[uuid.UUID]int{}}, 1, time.Hour, nil)

	w.Start(context.Background())
	w.Stop()
	w.Stop()

	finished := make(chan struct{})
	go func() {
		for i := 0; i < 200; i++ {
			w.EnqueueBatch(uuid.New())
		}
		close(finished)
	}()

	select {
	case <-finished:
	case <-time.After(2 * time.Second):
		t.Fatal("EnqueueBatch blocked after Stop")
	}
}
