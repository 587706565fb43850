package quota

import (
	"context"
	"time"
)

// Store is the adapter over the external atomic counter store.
//
// Implementations must be safe for concurrent use. All cross-request
// coordination happens through the store's atomic operations; the limiter
// itself holds no locks.
type Store interface {
	// GetInt reads an integer value. The second return is false when the
	// key does not exist (or has expired).
	GetInt(ctx context.Context, key string) (int64, bool, error)

	// Set writes an integer value with the given TTL, replacing any
	// existing value and expiry.
	Set(ctx context.Context, key string, value int64, ttl time.Duration) error

	// SetNX writes the value with the given TTL only if the key does not
	// exist. Returns true if the write took effect.
	SetNX(ctx context.Context, key string, value int64, ttl time.Duration) (bool, error)

	// IncrBy atomically increments a counter and returns the new value.
	// The TTL is applied only on the first write in a window; subsequent
	// increments never extend it, so windows roll over deterministically.
	IncrBy(ctx context.Context, key string, delta int64, ttl time.Duration) (int64, error)

	// TTL returns the remaining lifetime of a key. A non-positive value
	// means the key is missing or has no expiry set.
	TTL(ctx context.Context, key string) (time.Duration, error)

	// Delete removes the given keys.
	Delete(ctx context.Context, keys ...string) error

	// DeleteByPrefix removes every key under the given prefix and returns
	// the number of keys removed. Administrative use only.
	DeleteByPrefix(ctx context.Context, prefix string) (int64, error)

	// Append pushes a value onto the named append-only list.
	Append(ctx context.Context, list, value string) error

	// Ping verifies connectivity to the store.
	Ping(ctx context.Context) error

	// Close releases the store's resources.
	Close() error
}

// Ensure interface compliance at compile time.
var (
	_ Store = (*RedisStore)(nil)
	_ Store = (*MemoryStore)(nil)
)
