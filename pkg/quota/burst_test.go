package quota

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCheckBurst_CapacityWithinWindow(t *testing.T) {
	limiter, _ := newTestLimiter(t)
	ctx := context.Background()

	// 20 calls inside the window all succeed.
	for i := 1; i <= 20; i++ {
		result := limiter.CheckBurst(ctx, "caller")
		require.True(t, result.Allowed, "request %d should be allowed", i)
	}

	// The 21st in the same window fails with a reset at most one window out.
	result := limiter.CheckBurst(ctx, "caller")
	require.False(t, result.Allowed)
	require.True(t, result.Reset.After(time.Now()))
	require.LessOrEqual(t, time.Until(result.Reset), time.Minute+time.Second)
}

func TestCheckBurst_WindowRollover(t *testing.T) {
	limiter, mr := newTestLimiter(t)
	ctx := context.Background()

	for i := 0; i < 21; i++ {
		limiter.CheckBurst(ctx, "caller")
	}
	require.False(t, limiter.CheckBurst(ctx, "caller").Allowed)

	// Window expiry clears the counter in one step.
	mr.FastForward(time.Minute + time.Second)
	require.True(t, limiter.CheckBurst(ctx, "caller").Allowed)
}

func TestCheckBurst_WindowTTLSetOnce(t *testing.T) {
	limiter, mr := newTestLimiter(t)
	ctx := context.Background()

	limiter.CheckBurst(ctx, "caller")
	mr.FastForward(30 * time.Second)
	limiter.CheckBurst(ctx, "caller")

	// The second increment must not extend the window started by the first.
	require.Equal(t, 30*time.Second, mr.TTL(burstKey("caller")))
}

func TestCheckBurst_IndependentIdentifiers(t *testing.T) {
	limiter, _ := newTestLimiter(t)
	ctx := context.Background()

	for i := 0; i < 21; i++ {
		limiter.CheckBurst(ctx, "noisy")
	}
	require.False(t, limiter.CheckBurst(ctx, "noisy").Allowed)
	require.True(t, limiter.CheckBurst(ctx, "quiet").Allowed)
}
