package quota

import (
	"context"
	"time"
)

// Peek is the non-consuming token budget check. It reads current usage
// without incrementing anything and allows only if the remaining budget
// covers the estimated cost. Used as a pre-flight gate before starting an
// expensive upstream call.
func (l *Limiter) Peek(ctx context.Context, identifier string, estimatedTokens int64) PeekResult {
	budget := l.cfg.TokenBudget
	if !l.Enforcing() {
		return PeekResult{
			Allowed:   true,
			Remaining: budget,
			Limit:     budget,
			Reset:     time.Now().Add(l.cfg.TokenWindow),
		}
	}

	key := tokenKey(identifier)
	used, _, err := l.store.GetInt(ctx, key)
	if err != nil {
		l.degrade("peek", err)
		return PeekResult{
			Allowed:   true,
			Remaining: budget,
			Limit:     budget,
			Reset:     time.Now().Add(l.cfg.TokenWindow),
		}
	}

	remaining := max(0, budget-used)
	allowed := remaining >= estimatedTokens
	gateDecisions.WithLabelValues("tokens", decisionLabel(allowed)).Inc()

	return PeekResult{
		Allowed:   allowed,
		Remaining: remaining,
		Limit:     budget,
		Reset:     l.resetFromTTL(ctx, key, l.cfg.TokenWindow),
	}
}

// Deduct is the consuming operation: it atomically adds actualTokens to
// the caller's usage counter. The first write in a window also starts its
// TTL. Callers invoke this after a request completes, with measured rather
// than estimated cost, typically from a detached goroutine whose failure
// must never fail the user-facing response.
func (l *Limiter) Deduct(ctx context.Context, identifier string, actualTokens int64) DeductResult {
	budget := l.cfg.TokenBudget
	if !l.Enforcing() {
		return DeductResult{Remaining: budget, Reset: time.Now().Add(l.cfg.TokenWindow)}
	}

	key := tokenKey(identifier)
	used, err := l.store.IncrBy(ctx, key, actualTokens, l.cfg.TokenWindow)
	if err != nil {
		l.degrade("deduct", err)
		return DeductResult{Remaining: budget, Reset: time.Now().Add(l.cfg.TokenWindow)}
	}

	return DeductResult{
		Remaining: max(0, budget-used),
		Reset:     l.resetFromTTL(ctx, key, l.cfg.TokenWindow),
	}
}

// Status is the read-only projection of a caller's token budget combined
// with the feedback-grant flag. It never mutates any counter.
func (l *Limiter) Status(ctx context.Context, identifier string) Status {
	budget := l.cfg.TokenBudget
	if !l.Enforcing() {
		// No feedback bonus is offered when the budget is unlimited.
		return Status{
			Remaining:          budget,
			Limit:              budget,
			Reset:              time.Now().Add(l.cfg.TokenWindow),
			CanProvideFeedback: false,
		}
	}

	key := tokenKey(identifier)
	used, _, err := l.store.GetInt(ctx, key)
	if err != nil {
		l.degrade("status", err)
		return Status{
			Remaining:          budget,
			Limit:              budget,
			Reset:              time.Now().Add(l.cfg.TokenWindow),
			CanProvideFeedback: false,
		}
	}

	_, granted, err := l.store.GetInt(ctx, grantKey(identifier))
	if err != nil {
		l.degrade("status", err)
		granted = true // can't tell; don't advertise a bonus we may not honor
	}

	return Status{
		Remaining:          max(0, budget-used),
		Limit:              budget,
		Reset:              l.resetFromTTL(ctx, key, l.cfg.TokenWindow),
		CanProvideFeedback: !granted,
	}
}
