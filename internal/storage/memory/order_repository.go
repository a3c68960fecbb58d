package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/msoohome/storefront/internal/domain"
)

// orderRepositoryInMemory is a mutex-guarded map implementation of the
// orders collection.
type orderRepositoryInMemory struct {
	mu    sync.RWMutex
	items map[string]domain.Order
}

// NewOrderRepository returns an in-memory OrderRepository.
func NewOrderRepository() domain.OrderRepository {
	return &orderRepositoryInMemory{
		items: make(map[string]domain.Order),
	}
}

func (r *orderRepositoryInMemory) Insert(ctx context.Context, o domain.Order) (domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now().UTC()
	}
	// Store a copy of the lines so the caller's slice cannot mutate the
	// persisted snapshot.
	o.Lines = domain.CloneLines(o.Lines)
	r.items[o.ID] = o
	return o, nil
}

func (r *orderRepositoryInMemory) Get(ctx context.Context, id string) (domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	o, ok := r.items[id]
	if !ok {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	o.Lines = domain.CloneLines(o.Lines)
	return o, nil
}

func (r *orderRepositoryInMemory) List(ctx context.Context) ([]domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.collectLocked(func(domain.Order) bool { return true }, 0), nil
}

func (r *orderRepositoryInMemory) ListByUser(ctx context.Context, userID string, limit int) ([]domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.collectLocked(func(o domain.Order) bool { return o.User.ID == userID }, limit), nil
}

// collectLocked returns matching orders newest first; callers hold the lock.
func (r *orderRepositoryInMemory) collectLocked(match func(domain.Order) bool, limit int) []domain.Order {
	result := make([]domain.Order, 0, len(r.items))
	for _, o := range r.items {
		if !match(o) {
			continue
		}
		o.Lines = domain.CloneLines(o.Lines)
		result = append(result, o)
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID > result[j].ID
	})

	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result
}

func (r *orderRepositoryInMemory) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) error {
	if !status.Valid() {
		return domain.ErrOrderStatusInvalid
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	o, ok := r.items[id]
	if !ok {
		return domain.ErrOrderNotFound
	}
	o.Status = status
	r.items[id] = o
	return nil
}

var _ domain.OrderRepository = (*orderRepositoryInMemory)(nil)
