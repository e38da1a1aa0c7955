// Package cache stores pipeline results and rendered artifacts.
//
// Three backends implement [Cache]:
//   - [FileCache] for the CLI, one JSON file per entry under the user cache dir
//   - [RedisCache] for the HTTP API, shared between server replicas
//   - [NullCache] when caching is disabled
//
// Keys are produced by a [Keyer] so that every entry point derives the same
// key for the same event and cuts. [ScopedKeyer] adds a namespace prefix.
package cache

import (
	"context"
	"time"
)

// Key types reported to the observability hooks.
const (
	KeyTypeResult   = "result"
	KeyTypeArtifact = "artifact"
)

// Default lifetimes of cache entries.
const (
	// TTLResult is the lifetime of a cached pipeline result.
	TTLResult = 24 * time.Hour

	// TTLArtifact is the lifetime of a rendered graph. Artifacts are derived
	// only from their content hash and never go stale.
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache is a byte-oriented key/value store with expiration.
type Cache interface {
	// Get returns the value for key. A missing or expired key is a miss
	// (false, nil error), not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the backend's resources.
	Close() error
}
