package quota

import (
	"context"
	"time"
)

// CheckLock reports whether the caller is under an active abuse lock.
// A live lock overrides every other quota state: gate checks reject and
// status reports a zero remaining budget until the lock's TTL expires.
func (l *Limiter) CheckLock(ctx context.Context, identifier string) LockResult {
	if !l.Enforcing() {
		return LockResult{Locked: false}
	}

	key := lockKey(identifier)
	_, exists, err := l.store.GetInt(ctx, key)
	if err != nil {
		l.degrade("lock", err)
		return LockResult{Locked: false}
	}
	if !exists {
		return LockResult{Locked: false}
	}

	gateDecisions.WithLabelValues("lock", "denied").Inc()
	return LockResult{
		Locked: true,
		Reset:  l.resetFromTTL(ctx, key, l.cfg.LockWindow),
	}
}

// SetLock places an abuse lock on the caller for the configured lock
// window. The lock is written with SetNX, so a second SetLock inside the
// same window is redundant: it neither shortens nor extends the expiry of
// the lock that first took effect. There is no manual unlock; the lock is
// a cooldown that clears on its own TTL.
//
// The trust decision to invoke this lives in the orchestration layer;
// this is mechanism only.
func (l *Limiter) SetLock(ctx context.Context, identifier string) SetLockResult {
	if !l.Enforcing() {
		return SetLockResult{Success: false, Reset: time.Now()}
	}

	key := lockKey(identifier)
	fresh, err := l.store.SetNX(ctx, key, 1, l.cfg.LockWindow)
	if err != nil {
		l.degrade("lock", err)
		return SetLockResult{Success: false, Reset: time.Now()}
	}
	if fresh {
		abuseLocks.Inc()
	}

	return SetLockResult{
		Success: true,
		Reset:   l.resetFromTTL(ctx, key, l.cfg.LockWindow),
	}
}
