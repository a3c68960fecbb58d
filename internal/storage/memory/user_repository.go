package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/msoohome/storefront/internal/domain"
)

// userRepositoryInMemory keys user records by their credential-service ID.
type userRepositoryInMemory struct {
	mu    sync.RWMutex
	items map[string]domain.User
}

// NewUserRepository returns an in-memory UserRepository.
func NewUserRepository() domain.UserRepository {
	return &userRepositoryInMemory{
		items: make(map[string]domain.User),
	}
}

func (r *userRepositoryInMemory) Create(ctx context.Context, u domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[u.ID]; exists {
		return domain.ErrUserAlreadyExists
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	r.items[u.ID] = u
	return nil
}

func (r *userRepositoryInMemory) Get(ctx context.Context, id string) (domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.items[id]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound
	}
	return u, nil
}

func (r *userRepositoryInMemory) List(ctx context.Context) ([]domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.User, 0, len(r.items))
	for _, u := range r.items {
		result = append(result, u)
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.Before(result[j].CreatedAt)
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

var _ domain.UserRepository = (*userRepositoryInMemory)(nil)
