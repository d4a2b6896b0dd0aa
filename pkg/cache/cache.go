// Package cache provides pluggable byte caches for fontnode.
//
// Three backends implement [Cache]:
//   - [FileCache]: JSON entry files under a directory (CLI default)
//   - [RedisCache]: a shared Redis instance for multi-process node hosts
//   - [NullCache]: caching disabled
//
// Keys are produced by a [Keyer] so that different deployments can scope
// their entries (see [ScopedKeyer]).
package cache

import (
	"context"
	"time"
)

// TTLCatalog is how long a fetched font catalog stays valid in a persistent backend.
const TTLCatalog = 24 * time.Hour

// TTLRender is how long a captured bitmap is reused for identical requests.
const TTLRender = 7 * 24 * time.Hour

// Cache stores opaque byte values with an optional time-to-live.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns the cached value and whether it was found and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of 0 means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}
