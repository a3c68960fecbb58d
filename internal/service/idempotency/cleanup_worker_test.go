package idempotency

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/msoohome/storefront/internal/domain"
)

type stubCleanupRepo struct {
	mu            sync.Mutex
	deleteResults []int
	deleteErrors  []error
	callCount     int
}

func (r *stubCleanupRepo) CreateProcessing(key, requestHash string, ttlAt time.Time) (domain.IdempotencyRecord, error) {
	return domain.IdempotencyRecord{}, nil
}

func (r *stubCleanupRepo) Get(key string) (domain.IdempotencyRecord, error) {
	return domain.IdempotencyRecord{}, domain.ErrIdempotencyKeyNotFound
}

func (r *stubCleanupRepo) MarkDone(key string, responseBody []byte, httpStatus int) error {
	return nil
}

func (r *stubCleanupRepo) MarkFailed(key string, responseBody []byte, httpStatus int) error {
	return nil
}

func (r *stubCleanupRepo) DeleteExpired(before time.Time, limit int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.callCount
	r.callCount++

	if idx < len(r.deleteErrors) && r.deleteErrors[idx] != nil {
		return 0, r.deleteErrors[idx]
	}
	if idx < len(r.deleteResults) {
		return r.deleteResults[idx], nil
	}
	return 0, nil
}

func (r *stubCleanupRepo) calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.callCount
}

var _ domain.IdempotencyRepository = (*stubCleanupRepo)(nil)

func TestCleanupWorker_DeleteExpired_Batches(t *testing.T) {
	t.Parallel()

	repo := &stubCleanupRepo{
		deleteResults: []int{2, 2, 1},
	}

	worker := NewCleanupWorker(repo, WithBatchSize(2))

	deleted, err := worker.DeleteExpired(context.Background(), time.Now().UTC())
	if err != nil {
		t.Fatalf("DeleteExpired failed: %v", err)
	}

	if deleted != 5 {
		t.Fatalf("unexpected deleted total: got=%d want=5", deleted)
	}

	if calls := repo.calls(); calls != 3 {
		t.Fatalf("unexpected delete calls: got=%d want=3", calls)
	}
}

func TestCleanupWorker_DeleteExpired_Error(t *testing.T) {
	t.Parallel()

	repo := &stubCleanupRepo{
		deleteErrors: []error{errors.New("boom")},
	}

	worker := NewCleanupWorker(repo, WithBatchSize(10))

	deleted, err := worker.DeleteExpired(context.Background(), time.Now().UTC())
	if err == nil {
		t.Fatal("expected DeleteExpired error")
	}
	if deleted != 0 {
		t.Fatalf("unexpected deleted total: got=%d want=0", deleted)
	}
}

func TestCleanupWorker_Run_StopsOnContextCancel(t *testing.T) {
	t.Parallel()

	repo := &stubCleanupRepo{}
	worker := NewCleanupWorker(repo, WithInterval(10*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		worker.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("cleanup worker did not stop after context cancel")
	}
}
