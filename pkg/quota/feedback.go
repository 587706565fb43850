package quota

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// feedbackRecord is the audit log entry appended for each submission.
type feedbackRecord struct {
	Identifier     string `json:"identifier"`
	Score          int    `json:"score"`
	SessionContext string `json:"sessionContext,omitempty"`
	Timestamp      int64  `json:"timestamp"`
}

// StoreFeedback appends an NPS-style satisfaction score (0-10) to the
// append-only feedback log. Storage is best-effort: callers log failures
// but never let them block or fail a bonus grant.
func (l *Limiter) StoreFeedback(ctx context.Context, identifier string, score int, sessionContext string) error {
	if score < 0 || score > 10 {
		return ErrInvalidScore
	}
	if !l.Enforcing() {
		return nil
	}

	record := feedbackRecord{
		Identifier:     identifier,
		Score:          score,
		SessionContext: sessionContext,
		Timestamp:      time.Now().UnixMilli(),
	}
	data, err := json.Marshal(record)
	if err != nil {
		return err
	}
	return l.store.Append(ctx, feedbackList, string(data))
}

// Grant awards the one-time-per-window feedback bonus: it reduces the
// stored usage counter by the bonus amount (floored at zero) and marks the
// grant flag with the same remaining TTL as the counter it modified, so
// both roll over together.
//
// Preconditions: the caller has already verified the abuse lock is not
// active, and feedback content has been durably appended. If a grant was
// already recorded this window the call is a well-defined no-op reporting
// the caller's true current remaining.
//
// The flag and counter writes are two sequential sets, not a transaction.
// A crash between them can duplicate or lose at most one grant per window.
func (l *Limiter) Grant(ctx context.Context, identifier string) GrantResult {
	budget := l.cfg.TokenBudget
	if !l.Enforcing() {
		return GrantResult{
			Success:      false,
			NewRemaining: budget,
			Message:      "Rate limiting is disabled.",
		}
	}

	gKey := grantKey(identifier)
	_, granted, err := l.store.GetInt(ctx, gKey)
	if err != nil {
		l.degrade("grant", err)
		return GrantResult{
			Success:      false,
			NewRemaining: budget,
			Message:      "Bonus tokens are unavailable right now.",
		}
	}
	if granted {
		status := l.Status(ctx, identifier)
		return GrantResult{
			Success:      false,
			NewRemaining: status.Remaining,
			Message:      "You've already received bonus tokens this period.",
		}
	}

	tKey := tokenKey(identifier)
	used, _, err := l.store.GetInt(ctx, tKey)
	if err != nil {
		l.degrade("grant", err)
		return GrantResult{
			Success:      false,
			NewRemaining: budget,
			Message:      "Bonus tokens are unavailable right now.",
		}
	}

	expiresIn, err := l.store.TTL(ctx, tKey)
	if err != nil || expiresIn <= 0 {
		expiresIn = l.cfg.TokenWindow
	}

	newUsage := max(0, used-l.cfg.FeedbackBonus)
	if err := l.store.Set(ctx, tKey, newUsage, expiresIn); err != nil {
		l.degrade("grant", err)
		return GrantResult{
			Success:      false,
			NewRemaining: budget,
			Message:      "Bonus tokens are unavailable right now.",
		}
	}
	if err := l.store.Set(ctx, gKey, 1, expiresIn); err != nil {
		// Counter already credited; the flag write failing means the
		// caller could grant once more this window. Bounded by the TTL.
		l.degrade("grant", err)
	}
	feedbackGrants.Inc()

	return GrantResult{
		Success:      true,
		NewRemaining: budget - newUsage,
		Message:      fmt.Sprintf("You've been granted %d bonus tokens!", l.cfg.FeedbackBonus),
	}
}
