package quota

import (
	"context"
	"strings"
	"sync"
	"time"
)

// MemoryStore is an in-process Store implementation.
//
// It exists for tests and single-process development; it enforces the same
// TTL semantics as the Redis adapter but state is local to the process, so
// it cannot provide a shared budget across replicas.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	lists   map[string][]string
	nowFn   func() time.Time
}

type memoryEntry struct {
	value     int64
	expiresAt time.Time // zero means no expiry
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		lists:   make(map[string][]string),
		nowFn:   time.Now,
	}
}

// SetNowFunc overrides the store's clock. Tests use this to simulate
// window rollover without sleeping.
func (s *MemoryStore) SetNowFunc(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nowFn = now
}

// live returns the entry if present and unexpired, pruning it otherwise.
// Caller must hold the mutex.
func (s *MemoryStore) live(key string) (memoryEntry, bool) {
	e, ok := s.entries[key]
	if !ok {
		return memoryEntry{}, false
	}
	if !e.expiresAt.IsZero() && !s.nowFn().Before(e.expiresAt) {
		delete(s.entries, key)
		return memoryEntry{}, false
	}
	return e, true
}

// GetInt reads an integer value.
func (s *MemoryStore) GetInt(ctx context.Context, key string) (int64, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.live(key)
	if !ok {
		return 0, false, nil
	}
	return e.value, true, nil
}

// Set writes an integer value with the given TTL.
func (s *MemoryStore) Set(ctx context.Context, key string, value int64, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := memoryEntry{value: value}
	if ttl > 0 {
		e.expiresAt = s.nowFn().Add(ttl)
	}
	s.entries[key] = e
	return nil
}

// SetNX writes the value only if the key does not exist.
func (s *MemoryStore) SetNX(ctx context.Context, key string, value int64, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.live(key); ok {
		return false, nil
	}
	e := memoryEntry{value: value}
	if ttl > 0 {
		e.expiresAt = s.nowFn().Add(ttl)
	}
	s.entries[key] = e
	return true, nil
}

// IncrBy atomically increments a counter, setting the TTL on first write.
func (s *MemoryStore) IncrBy(ctx context.Context, key string, delta int64, ttl time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.live(key)
	e.value += delta
	if !ok && ttl > 0 {
		e.expiresAt = s.nowFn().Add(ttl)
	}
	s.entries[key] = e
	return e.value, nil
}

// TTL returns the remaining lifetime of a key.
func (s *MemoryStore) TTL(ctx context.Context, key string) (time.Duration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.live(key)
	if !ok || e.expiresAt.IsZero() {
		return 0, nil
	}
	return e.expiresAt.Sub(s.nowFn()), nil
}

// Delete removes the given keys.
func (s *MemoryStore) Delete(ctx context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, key := range keys {
		delete(s.entries, key)
	}
	return nil
}

// DeleteByPrefix removes every key under the given prefix.
func (s *MemoryStore) DeleteByPrefix(ctx context.Context, prefix string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var removed int64
	for key := range s.entries {
		if strings.HasPrefix(key, prefix) {
			delete(s.entries, key)
			removed++
		}
	}
	return removed, nil
}

// Append pushes a value onto the named list.
func (s *MemoryStore) Append(ctx context.Context, list, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lists[list] = append([]string{value}, s.lists[list]...)
	return nil
}

// List returns a copy of the named list, newest first. Test helper.
func (s *MemoryStore) List(list string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]string, len(s.lists[list]))
	copy(out, s.lists[list])
	return out
}

// Ping always succeeds for the in-memory store.
func (s *MemoryStore) Ping(ctx context.Context) error {
	return nil
}

// Close clears the store.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = make(map[string]memoryEntry)
	s.lists = make(map[string][]string)
	return nil
}
