package quota

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Nuccino92/food-helper/pkg/config"
)

// Key namespaces in the counter store.
const (
	burstKeyPrefix = "ratelimit:burst:"
	tokenKeyPrefix = "ratelimit:tokens:"
	lockKeyPrefix  = "abuse:lock:"
	grantKeyPrefix = "feedback:granted:"
	feedbackList   = "feedback:nps"
)

// Limiter is the quota and abuse-control gate.
//
// A nil store (or disabled config) puts the limiter in degrade-to-allow
// mode: every check passes and status reports a full budget. Store errors
// at check time degrade the same way; they are logged, counted, and never
// surfaced to the caller.
type Limiter struct {
	cfg   *config.RateLimitConfig
	store Store
}

// New creates a limiter over the given store. The store may be nil, which
// disables enforcement entirely (useful for local development).
func New(cfg *config.RateLimitConfig, store Store) (*Limiter, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid rate limit config: %w", err)
	}
	return &Limiter{cfg: cfg, store: store}, nil
}

// Enforcing reports whether the limiter is actively enforcing quotas.
func (l *Limiter) Enforcing() bool {
	return l.cfg.IsEnabled() && l.store != nil
}

// Budget returns the configured token budget per window.
func (l *Limiter) Budget() int64 {
	return l.cfg.TokenBudget
}

// Flush removes all quota state: burst counters, token counters, abuse
// locks and grant flags. Administrative use only; the feedback log is
// left intact.
func (l *Limiter) Flush(ctx context.Context) (int64, error) {
	return l.flushPrefixes(ctx, burstKeyPrefix, tokenKeyPrefix, lockKeyPrefix, grantKeyPrefix)
}

// FlushAbuse removes abuse locks only.
func (l *Limiter) FlushAbuse(ctx context.Context) (int64, error) {
	return l.flushPrefixes(ctx, lockKeyPrefix)
}

// FlushRateLimit removes burst and token counters, leaving abuse locks
// and grant flags in place.
func (l *Limiter) FlushRateLimit(ctx context.Context) (int64, error) {
	return l.flushPrefixes(ctx, burstKeyPrefix, tokenKeyPrefix)
}

func (l *Limiter) flushPrefixes(ctx context.Context, prefixes ...string) (int64, error) {
	if l.store == nil {
		return 0, ErrStoreUnavailable
	}

	var total int64
	for _, prefix := range prefixes {
		n, err := l.store.DeleteByPrefix(ctx, prefix)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

func burstKey(identifier string) string { return burstKeyPrefix + identifier }
func tokenKey(identifier string) string { return tokenKeyPrefix + identifier }
func lockKey(identifier string) string  { return lockKeyPrefix + identifier }
func grantKey(identifier string) string { return grantKeyPrefix + identifier }

// degrade records a store failure and falls back to allow.
func (l *Limiter) degrade(op string, err error) {
	storeDegrades.WithLabelValues(op).Inc()
	slog.Warn("Counter store unavailable, degrading to allow", "op", op, "error", err)
}

// resetFromTTL derives the window rollover time from the key's remaining
// TTL, defaulting to one full window ahead when the key has no expiry yet.
func (l *Limiter) resetFromTTL(ctx context.Context, key string, window time.Duration) time.Time {
	now := time.Now()
	ttl, err := l.store.TTL(ctx, key)
	if err != nil || ttl <= 0 {
		return now.Add(window)
	}
	return now.Add(ttl)
}
