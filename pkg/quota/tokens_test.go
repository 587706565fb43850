package quota

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestPeek_AdmissionBoundary(t *testing.T) {
	limiter, _ := newTestLimiter(t)
	ctx := context.Background()

	limiter.Deduct(ctx, "caller", 4000)

	// remaining = 6000: exactly-affordable passes, one over fails.
	require.True(t, limiter.Peek(ctx, "caller", 6000).Allowed)
	require.False(t, limiter.Peek(ctx, "caller", 6001).Allowed)
}

func TestPeek_DoesNotConsume(t *testing.T) {
	limiter, _ := newTestLimiter(t)
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		limiter.Peek(ctx, "caller", 5000)
	}
	require.Equal(t, limiter.Budget(), limiter.Status(ctx, "caller").Remaining)
}

func TestDeduct_AccumulatesAndFloors(t *testing.T) {
	limiter, _ := newTestLimiter(t)
	ctx := context.Background()

	result := limiter.Deduct(ctx, "caller", 3000)
	require.Equal(t, int64(7000), result.Remaining)

	result = limiter.Deduct(ctx, "caller", 3000)
	require.Equal(t, int64(4000), result.Remaining)

	// Overshoot: remaining floors at zero, never negative.
	result = limiter.Deduct(ctx, "caller", 9000)
	require.Equal(t, int64(0), result.Remaining)
}

func TestStatus_WindowRolloverResetsOnce(t *testing.T) {
	limiter, mr := newTestLimiter(t)
	ctx := context.Background()

	limiter.Deduct(ctx, "caller", 8000)
	require.Equal(t, int64(2000), limiter.Status(ctx, "caller").Remaining)

	// Mid-window the remaining must not creep back up.
	mr.FastForward(30 * time.Minute)
	require.Equal(t, int64(2000), limiter.Status(ctx, "caller").Remaining)

	// After expiry it snaps back to the full budget in a single step.
	mr.FastForward(31 * time.Minute)
	require.Equal(t, limiter.Budget(), limiter.Status(ctx, "caller").Remaining)
}

func TestStatus_FeedbackFlagReflected(t *testing.T) {
	limiter, _ := newTestLimiter(t)
	ctx := context.Background()

	limiter.Deduct(ctx, "caller", 100)
	require.True(t, limiter.Status(ctx, "caller").CanProvideFeedback)

	result := limiter.Grant(ctx, "caller")
	require.True(t, result.Success)
	require.False(t, limiter.Status(ctx, "caller").CanProvideFeedback)
}

func TestTokenBudget_GrantScenario(t *testing.T) {
	limiter, _ := newTestLimiter(t)
	ctx := context.Background()
	id := "fresh"

	// Pre-flight for a large request on a fresh identifier.
	require.True(t, limiter.Peek(ctx, id, 9000).Allowed)

	// The request turns out more expensive than estimated.
	limiter.Deduct(ctx, id, 9500)

	// 500 remaining no longer covers 600.
	peek := limiter.Peek(ctx, id, 600)
	require.False(t, peek.Allowed)
	require.Equal(t, int64(500), peek.Remaining)

	// Feedback bonus floors usage at 9500-5000=4500.
	grant := limiter.Grant(ctx, id)
	require.True(t, grant.Success)
	require.Equal(t, int64(5500), grant.NewRemaining)

	require.True(t, limiter.Peek(ctx, id, 600).Allowed)
}

func TestDeduct_TTLSetOnFirstWriteOnly(t *testing.T) {
	limiter, mr := newTestLimiter(t)
	ctx := context.Background()

	limiter.Deduct(ctx, "caller", 100)
	require.Equal(t, time.Hour, mr.TTL(tokenKey("caller")))

	mr.FastForward(20 * time.Minute)
	limiter.Deduct(ctx, "caller", 100)

	// Still 40 minutes left: the second write did not restart the window.
	require.Equal(t, 40*time.Minute, mr.TTL(tokenKey("caller")))
}
