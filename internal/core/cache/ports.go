package cache

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by Get when the key does not exist or has expired.
// Callers distinguish a miss from a transport failure with errors.Is.
var ErrNotFound = errors.New("key not found")

// Cache is the port for the key-value store backing progress snapshots and
// other short-lived state. Implementations decide durability and eviction.
type Cache interface {
	// Get retrieves a value by key. A missing key yields ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value under key with the given TTL. A TTL of 0 means no
	// expiration.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a value by key.
	Delete(ctx context.Context, key string) error

	// Ping checks that the backing store is reachable.
	Ping(ctx context.Context) error

	// Close releases the underlying connection.
	Close() error
}
