package app

import (
	"context"
	"path/filepath"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func TestNewDependencies_InMemory(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PostgresDSN = ""
	cfg.SnapshotDir = filepath.Join(t.TempDir(), "carts")

	deps, err := NewDependencies(context.Background(), cfg, log.NewEntry(log.New()))
	require.NoError(t, err)
	t.Cleanup(deps.Close)

	require.NotNil(t, deps.Products)
	require.NotNil(t, deps.Users)
	require.NotNil(t, deps.Orders)
	require.NotNil(t, deps.Timeline)
	require.NotNil(t, deps.Outbox)
	require.NotNil(t, deps.Idempotency)
	require.NotNil(t, deps.Snapshots)
	require.Nil(t, deps.PostgresStore())
	require.Nil(t, deps.RedisClient())
}

func TestNewDependencies_RedisBackendRequiresAddr(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SnapshotBackend = "redis"
	cfg.RedisAddr = ""

	_, err := NewDependencies(context.Background(), cfg, log.NewEntry(log.New()))
	require.Error(t, err)
}

func TestInitKafkaProducer_EmptyBrokers(t *testing.T) {
	producer, err := initKafkaProducer("", log.NewEntry(log.New()))
	require.NoError(t, err)
	require.Nil(t, producer)
}
