package quota

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Nuccino92/food-helper/pkg/config"
)

// RedisStore implements Store backed by a Redis-compatible service.
//
// Concurrency safety is delegated to Redis and the go-redis client; the
// atomic increment-with-expiry primitive is INCRBY followed by EXPIRE NX
// in a transactional pipeline, so a window's TTL is set exactly once.
type RedisStore struct {
	client redis.UniversalClient
}

// NewRedisStore connects to the store described by cfg and verifies
// connectivity. Returns ErrStoreUnavailable when the store cannot be
// reached; callers typically treat that as degrade-to-allow.
func NewRedisStore(cfg *config.RedisConfig) (*RedisStore, error) {
	if cfg == nil || !cfg.IsConfigured() {
		return nil, ErrStoreUnavailable
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	return &RedisStore{client: client}, nil
}

// NewRedisStoreFromClient wraps an existing client. Useful for tests.
func NewRedisStoreFromClient(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client}
}

// GetInt reads an integer value.
func (s *RedisStore) GetInt(ctx context.Context, key string) (int64, bool, error) {
	val, err := s.client.Get(ctx, key).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return val, true, nil
}

// Set writes an integer value with the given TTL.
func (s *RedisStore) Set(ctx context.Context, key string, value int64, ttl time.Duration) error {
	return s.client.Set(ctx, key, value, ttl).Err()
}

// SetNX writes the value only if the key does not exist.
func (s *RedisStore) SetNX(ctx context.Context, key string, value int64, ttl time.Duration) (bool, error) {
	return s.client.SetNX(ctx, key, value, ttl).Result()
}

// IncrBy atomically increments a counter, setting the TTL on first write.
func (s *RedisStore) IncrBy(ctx context.Context, key string, delta int64, ttl time.Duration) (int64, error) {
	pipe := s.client.TxPipeline()
	incr := pipe.IncrBy(ctx, key, delta)
	if ttl > 0 {
		// NX: only set the expiry when the key has none, so increments
		// within a window never push the rollover out.
		pipe.ExpireNX(ctx, key, ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return incr.Val(), nil
}

// TTL returns the remaining lifetime of a key.
func (s *RedisStore) TTL(ctx context.Context, key string) (time.Duration, error) {
	d, err := s.client.TTL(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	// go-redis reports missing key / no expiry as negative sentinels.
	if d < 0 {
		return 0, nil
	}
	return d, nil
}

// Delete removes the given keys.
func (s *RedisStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return s.client.Del(ctx, keys...).Err()
}

// DeleteByPrefix removes every key under the given prefix.
func (s *RedisStore) DeleteByPrefix(ctx context.Context, prefix string) (int64, error) {
	var removed int64

	iter := s.client.Scan(ctx, 0, prefix+"*", 100).Iterator()
	batch := make([]string, 0, 100)
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == cap(batch) {
			if err := s.client.Del(ctx, batch...).Err(); err != nil {
				return removed, err
			}
			removed += int64(len(batch))
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return removed, err
	}
	if len(batch) > 0 {
		if err := s.client.Del(ctx, batch...).Err(); err != nil {
			return removed, err
		}
		removed += int64(len(batch))
	}
	return removed, nil
}

// Append pushes a value onto the named list.
func (s *RedisStore) Append(ctx context.Context, list, value string) error {
	return s.client.LPush(ctx, list, value).Err()
}

// Ping verifies connectivity.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the underlying client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
