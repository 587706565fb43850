package quota

import (
	"context"
	"time"
)

// CheckBurst runs the fixed-window request-count gate: it increments the
// caller's burst counter and compares the post-increment count against the
// configured capacity. This is a cheap pre-check meant to run before any
// other work, including token estimation, so high-frequency abusive
// traffic is rejected without touching the token path.
func (l *Limiter) CheckBurst(ctx context.Context, identifier string) BurstResult {
	if !l.Enforcing() {
		return BurstResult{Allowed: true, Reset: time.Now().Add(l.cfg.BurstWindow)}
	}

	key := burstKey(identifier)
	count, err := l.store.IncrBy(ctx, key, 1, l.cfg.BurstWindow)
	if err != nil {
		l.degrade("burst", err)
		return BurstResult{Allowed: true, Reset: time.Now().Add(l.cfg.BurstWindow)}
	}

	allowed := count <= l.cfg.BurstLimit
	gateDecisions.WithLabelValues("burst", decisionLabel(allowed)).Inc()

	return BurstResult{
		Allowed: allowed,
		Reset:   l.resetFromTTL(ctx, key, l.cfg.BurstWindow),
	}
}
