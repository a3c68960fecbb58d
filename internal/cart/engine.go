package cart

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/msoohome/storefront/internal/domain"
	"github.com/msoohome/storefront/internal/storage/snapshot"
)

// DefaultSnapshotKey is the storage key prefix carts persist under. The
// web client stores its local copy under the same name.
const DefaultSnapshotKey = "msooCart"

// Engine owns one shopping cart. All mutations run through it, every
// mutation persists the full cart to the snapshot store, and derived values
// are recomputed from the lines on every read. The engine never returns an
// error from a mutation: a product is accepted as given and a persistence
// hiccup is logged, not surfaced, matching the fire-and-forget contract of
// the storage it replaces.
type Engine struct {
	mu     sync.Mutex
	lines  []domain.CartLine
	store  snapshot.Store
	key    string
	logger *log.Entry
}

// snapshotLine is the serialized cart line: product fields flattened next
// to the quantity, matching the shape the web client persists.
type snapshotLine struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	PriceMinor  int64           `json:"price"`
	ImageURL    string          `json:"imageUrl,omitempty"`
	Category    domain.Category `json:"category,omitempty"`
	Quantity    int             `json:"quantity"`
}

// NewEngine builds a cart engine and rehydrates it from the last stored
// snapshot. A missing snapshot starts an empty cart; a corrupt one is
// discarded, deleted and logged; a recoverable condition, never an error.
func NewEngine(ctx context.Context, store snapshot.Store, key string, logger *log.Entry) *Engine {
	if logger == nil {
		logger = log.WithField("component", "cart")
	}
	if key == "" {
		key = DefaultSnapshotKey
	}

	e := &Engine{store: store, key: key, logger: logger}
	e.rehydrate(ctx)
	return e
}

// rehydrate restores stored lines in their stored order. Duplicate entries
// for the same product collapse into the first occurrence with quantities
// summed; entries with quantity <= 0 are dropped. Both rules keep the
// engine's invariants independent of what the blob claims.
func (e *Engine) rehydrate(ctx context.Context) {
	if e.store == nil {
		return
	}

	blob, err := e.store.Load(ctx, e.key)
	if err != nil {
		if !errors.Is(err, snapshot.ErrNotFound) {
			e.logger.WithError(err).Warn("cart snapshot read failed, starting empty")
		}
		return
	}

	var stored []snapshotLine
	if err := json.Unmarshal(blob, &stored); err != nil {
		e.logger.WithError(err).Warn("cart snapshot corrupt, discarding")
		if delErr := e.store.Delete(ctx, e.key); delErr != nil {
			e.logger.WithError(delErr).Warn("failed to delete corrupt cart snapshot")
		}
		return
	}

	index := make(map[string]int, len(stored))
	for _, line := range stored {
		if line.Quantity <= 0 {
			continue
		}
		if at, ok := index[line.ID]; ok {
			e.lines[at].Quantity += line.Quantity
			continue
		}
		index[line.ID] = len(e.lines)
		e.lines = append(e.lines, domain.CartLine{
			Product: domain.Product{
				ID:          line.ID,
				Name:        line.Name,
				Description: line.Description,
				PriceMinor:  line.PriceMinor,
				ImageURL:    line.ImageURL,
				Category:    line.Category,
			},
			Quantity: line.Quantity,
		})
	}
}

// AddItem appends a new line with quantity 1, or increments the existing
// line for the same product ID. Insertion order of first adds is preserved.
func (e *Engine) AddItem(ctx context.Context, p domain.Product) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i := range e.lines {
		if e.lines[i].Product.ID == p.ID {
			e.lines[i].Quantity++
			e.persistLocked(ctx)
			return
		}
	}
	e.lines = append(e.lines, domain.CartLine{Product: p, Quantity: 1})
	e.persistLocked(ctx)
}

// RemoveItem deletes the line for the given product ID; absent IDs are a
// no-op.
func (e *Engine) RemoveItem(ctx context.Context, id string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i := range e.lines {
		if e.lines[i].Product.ID == id {
			e.lines = append(e.lines[:i], e.lines[i+1:]...)
			e.persistLocked(ctx)
			return
		}
	}
}

// SetQuantity sets the line's quantity without reordering; quantity <= 0
// removes the line entirely. Values are not clamped upward.
func (e *Engine) SetQuantity(ctx context.Context, id string, quantity int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i := range e.lines {
		if e.lines[i].Product.ID != id {
			continue
		}
		if quantity <= 0 {
			e.lines = append(e.lines[:i], e.lines[i+1:]...)
		} else {
			e.lines[i].Quantity = quantity
		}
		e.persistLocked(ctx)
		return
	}
}

// Clear empties the cart unconditionally.
func (e *Engine) Clear(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.lines = nil
	e.persistLocked(ctx)
}

// Lines returns a copy of the current cart lines in insertion order.
func (e *Engine) Lines() []domain.CartLine {
	e.mu.Lock()
	defer e.mu.Unlock()
	return domain.CloneLines(e.lines)
}

// Total recomputes price times quantity summed from the current lines.
func (e *Engine) Total() int64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return domain.CartTotal(e.lines)
}

// Count recomputes the quantities summed from the current lines.
func (e *Engine) Count() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return domain.CartCount(e.lines)
}

// persistLocked serializes the whole cart over the previous snapshot.
// Callers hold the mutex.
func (e *Engine) persistLocked(ctx context.Context) {
	if e.store == nil {
		return
	}

	stored := make([]snapshotLine, 0, len(e.lines))
	for _, line := range e.lines {
		stored = append(stored, snapshotLine{
			ID:          line.Product.ID,
			Name:        line.Product.Name,
			Description: line.Product.Description,
			PriceMinor:  line.Product.PriceMinor,
			ImageURL:    line.Product.ImageURL,
			Category:    line.Product.Category,
			Quantity:    line.Quantity,
		})
	}

	blob, err := json.Marshal(stored)
	if err != nil {
		e.logger.WithError(err).Error("cart snapshot marshal failed")
		return
	}
	if err := e.store.Save(ctx, e.key, blob); err != nil {
		e.logger.WithError(err).Warn("cart snapshot write failed")
	}
}
