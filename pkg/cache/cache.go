// Package cache stores computed layouts so identical requests are answered
// without running the layout engine again.
//
// # Backends
//
//   - [FileCache]: JSON entries under a directory, for the CLI
//   - [RedisCache]: a shared Redis instance, for the HTTP service
//   - [NullCache]: stores nothing, for disabled caching and tests
//
// Keys are produced by a [Keyer] from the hash of the input graph document
// and the layout configuration, so a change to either yields a new key.
package cache

import (
	"context"
	"time"
)

// TTLLayout is how long computed layouts are kept.
const TTLLayout = 7 * 24 * time.Hour

// Cache is a byte-oriented key-value store with expiry.
type Cache interface {
	// Get returns the value for key. A missing or expired entry is a miss,
	// not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero or less never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Clear removes every entry owned by this cache.
	Clear(ctx context.Context) error

	// Close releases the backend's resources.
	Close() error
}
