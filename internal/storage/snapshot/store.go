package snapshot

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no snapshot exists under a key.
var ErrNotFound = errors.New("snapshot not found")

// Store is the durable local storage for cart snapshots: one serialized
// blob per key, overwritten wholesale on every save and read once at
// startup. It is the server-side analog of the browser's localStorage.
type Store interface {
	Save(ctx context.Context, key string, blob []byte) error
	Load(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}
