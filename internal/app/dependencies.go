package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"github.com/msoohome/storefront/internal/domain"
	"github.com/msoohome/storefront/internal/storage/memory"
	"github.com/msoohome/storefront/internal/storage/postgres"
	"github.com/msoohome/storefront/internal/storage/snapshot"
)

// Dependencies holds the storage layer picked at startup.
type Dependencies struct {
	Products    domain.ProductRepository
	Users       domain.UserRepository
	Orders      domain.OrderRepository
	Timeline    domain.TimelineRepository
	Outbox      domain.OutboxRepository
	Idempotency domain.IdempotencyRepository

	Snapshots snapshot.Store

	pg          *postgres.Store
	redisClient *redis.Client
	Logger      *log.Entry
}

// NewDependencies wires the persistent stores. With a Postgres DSN the
// repositories go through the database (migrations applied on startup);
// otherwise everything stays in memory. Cart snapshots go to redis when
// configured, to the local filesystem otherwise.
func NewDependencies(ctx context.Context, cfg Config, logger *log.Entry) (*Dependencies, error) {
	if logger == nil {
		logger = log.WithField("component", "app")
	}

	deps := &Dependencies{Logger: logger}

	if cfg.PostgresDSN != "" {
		store, err := postgres.Open(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		if err := store.EnsureSchema(ctx); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("apply migrations: %w", err)
		}

		deps.pg = store
		deps.Products = postgres.NewProductRepository(store)
		deps.Users = postgres.NewUserRepository(store)
		deps.Orders = postgres.NewOrderRepository(store)
		deps.Timeline = postgres.NewTimelineRepository(store)
		deps.Outbox = postgres.NewOutboxRepository(store)
		deps.Idempotency = postgres.NewIdempotencyRepository(store)
		logger.Info("postgres storage initialized")
	} else {
		deps.Products = memory.NewProductRepository()
		deps.Users = memory.NewUserRepository()
		deps.Orders = memory.NewOrderRepository()
		deps.Timeline = memory.NewTimelineRepository()
		deps.Outbox = memory.NewOutboxRepository()
		deps.Idempotency = memory.NewIdempotencyRepository()
		logger.Info("in-memory storage initialized")
	}

	store, err := deps.buildSnapshotStore(cfg)
	if err != nil {
		deps.Close()
		return nil, err
	}
	deps.Snapshots = store

	return deps, nil
}

func (d *Dependencies) buildSnapshotStore(cfg Config) (snapshot.Store, error) {
	if strings.EqualFold(cfg.SnapshotBackend, "redis") {
		if cfg.RedisAddr == "" {
			return nil, fmt.Errorf("redis snapshot backend requires STOREFRONT_REDIS_ADDR")
		}
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		d.redisClient = client
		d.Logger.WithField("addr", cfg.RedisAddr).Info("redis snapshot store initialized")
		return snapshot.NewRedisStore(client, 30*24*time.Hour), nil
	}

	store, err := snapshot.NewFileStore(cfg.SnapshotDir)
	if err != nil {
		return nil, fmt.Errorf("create snapshot dir: %w", err)
	}
	d.Logger.WithField("dir", cfg.SnapshotDir).Info("file snapshot store initialized")
	return store, nil
}

// PostgresStore exposes the database handle for health checks; nil when
// running in memory.
func (d *Dependencies) PostgresStore() *postgres.Store {
	return d.pg
}

// RedisClient exposes the redis handle for health checks; nil when carts
// snapshot to the filesystem.
func (d *Dependencies) RedisClient() *redis.Client {
	return d.redisClient
}

// Close releases external connections.
func (d *Dependencies) Close() {
	if d.pg != nil {
		if err := d.pg.Close(); err != nil {
			d.Logger.WithError(err).Warn("close postgres failed")
		}
	}
	if d.redisClient != nil {
		if err := d.redisClient.Close(); err != nil {
			d.Logger.WithError(err).Warn("close redis failed")
		}
	}
}
