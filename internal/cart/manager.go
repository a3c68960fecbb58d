package cart

import (
	"context"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/msoohome/storefront/internal/storage/snapshot"
)

// Manager hands out one Engine per session. Engines are created lazily on
// first access, each keyed into the snapshot store under baseKey:sessionID
// so carts survive restarts independently of each other.
type Manager struct {
	mu      sync.Mutex
	engines map[string]*Engine
	store   snapshot.Store
	baseKey string
	logger  *log.Entry
}

func NewManager(store snapshot.Store, baseKey string, logger *log.Entry) *Manager {
	if baseKey == "" {
		baseKey = DefaultSnapshotKey
	}
	if logger == nil {
		logger = log.WithField("component", "cart")
	}
	return &Manager{
		engines: make(map[string]*Engine),
		store:   store,
		baseKey: baseKey,
		logger:  logger,
	}
}

// Engine returns the session's cart, rehydrating it on first access.
func (m *Manager) Engine(ctx context.Context, sessionID string) *Engine {
	m.mu.Lock()
	defer m.mu.Unlock()

	if e, ok := m.engines[sessionID]; ok {
		return e
	}
	e := NewEngine(ctx, m.store, m.baseKey+":"+sessionID, m.logger.WithField("session_id", sessionID))
	m.engines[sessionID] = e
	return e
}

// Drop forgets the in-memory engine for a session and deletes its snapshot.
// Used when a session ends for good.
func (m *Manager) Drop(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	delete(m.engines, sessionID)
	m.mu.Unlock()

	if m.store == nil {
		return nil
	}
	return m.store.Delete(ctx, m.baseKey+":"+sessionID)
}
