package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/msoohome/storefront/internal/domain"
)

// productRepositoryInMemory is a mutex-guarded map implementation of the
// products collection, used by tests and local development.
type productRepositoryInMemory struct {
	mu    sync.RWMutex
	items map[string]domain.Product
	// seq remembers insertion order so List is stable without timestamps.
	seq []string
}

// NewProductRepository returns an in-memory ProductRepository.
func NewProductRepository() domain.ProductRepository {
	return &productRepositoryInMemory{
		items: make(map[string]domain.Product),
	}
}

func (r *productRepositoryInMemory) Insert(ctx context.Context, p domain.Product) (domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.insertLocked(p), nil
}

// InsertBatch stores all products under one lock so the seed is atomic with
// respect to concurrent readers of this repository.
func (r *productRepositoryInMemory) InsertBatch(ctx context.Context, ps []domain.Product) ([]domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]domain.Product, 0, len(ps))
	for _, p := range ps {
		out = append(out, r.insertLocked(p))
	}
	return out, nil
}

func (r *productRepositoryInMemory) insertLocked(p domain.Product) domain.Product {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	if _, exists := r.items[p.ID]; !exists {
		r.seq = append(r.seq, p.ID)
	}
	r.items[p.ID] = p
	return p
}

func (r *productRepositoryInMemory) Get(ctx context.Context, id string) (domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.items[id]
	if !ok {
		return domain.Product{}, domain.ErrProductNotFound
	}
	return p, nil
}

func (r *productRepositoryInMemory) List(ctx context.Context) ([]domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	// seq can reference deleted ids; skip them.
	result := make([]domain.Product, 0, len(r.items))
	for _, id := range r.seq {
		if p, ok := r.items[id]; ok {
			result = append(result, p)
		}
	}
	return result, nil
}

func (r *productRepositoryInMemory) Update(ctx context.Context, p domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.items[p.ID]
	if !ok {
		return domain.ErrProductNotFound
	}
	p.CreatedAt = current.CreatedAt
	p.UpdatedAt = time.Now().UTC()
	r.items[p.ID] = p
	return nil
}

func (r *productRepositoryInMemory) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return domain.ErrProductNotFound
	}
	delete(r.items, id)
	return nil
}

var _ domain.ProductRepository = (*productRepositoryInMemory)(nil)
