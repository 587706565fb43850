package quota

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGate_AllowsFreshCaller(t *testing.T) {
	limiter, _ := newTestLimiter(t)

	limitErr, estimated := limiter.Gate(context.Background(), "caller", "what can I cook with eggs and rice?")
	require.Nil(t, limitErr)
	// Text estimate plus the fixed pre-flight buffer.
	require.Equal(t, limiter.EstimateRequest("what can I cook with eggs and rice?"), estimated)
}

func TestGate_LockShortCircuits(t *testing.T) {
	limiter, _ := newTestLimiter(t)
	ctx := context.Background()

	limiter.SetLock(ctx, "caller")

	limitErr, _ := limiter.Gate(ctx, "caller", "hello")
	require.NotNil(t, limitErr)
	require.Equal(t, "rate_limit", limitErr.Error)
	require.Equal(t, LimitTypeTokens, limitErr.Type)
	require.NotNil(t, limitErr.Remaining)
	require.Equal(t, int64(0), *limitErr.Remaining)

	// The lock check runs before burst: no burst counter was touched.
	require.Equal(t, limiter.Budget(), limiter.Status(ctx, "caller").Remaining)
}

func TestGate_BurstRejection(t *testing.T) {
	limiter, _ := newTestLimiter(t)
	ctx := context.Background()

	for i := 0; i < 20; i++ {
		limitErr, _ := limiter.Gate(ctx, "caller", "hi")
		require.Nil(t, limitErr)
	}

	limitErr, _ := limiter.Gate(ctx, "caller", "hi")
	require.NotNil(t, limitErr)
	require.Equal(t, LimitTypeBurst, limitErr.Type)
	require.Nil(t, limitErr.Remaining)
}

func TestGate_TokenRejectionCarriesBudget(t *testing.T) {
	limiter, _ := newTestLimiter(t)
	ctx := context.Background()

	limiter.Deduct(ctx, "caller", 9900)

	// Even an empty message costs the estimate buffer (2000 > 100 left).
	limitErr, _ := limiter.Gate(ctx, "caller", "")
	require.NotNil(t, limitErr)
	require.Equal(t, LimitTypeTokens, limitErr.Type)
	require.NotNil(t, limitErr.Remaining)
	require.Equal(t, int64(100), *limitErr.Remaining)
	require.NotNil(t, limitErr.Limit)
	require.Equal(t, limiter.Budget(), *limitErr.Limit)
}

func TestGate_OrderLockBurstTokens(t *testing.T) {
	limiter, _ := newTestLimiter(t)
	ctx := context.Background()

	// Exhaust both budgets, then lock. Lock must win.
	limiter.Deduct(ctx, "caller", limiter.Budget())
	for i := 0; i < 25; i++ {
		limiter.CheckBurst(ctx, "caller")
	}
	limiter.SetLock(ctx, "caller")

	limitErr, _ := limiter.Gate(ctx, "caller", strings.Repeat("x", 1000))
	require.NotNil(t, limitErr)
	require.Equal(t, int64(0), *limitErr.Remaining)
	require.Contains(t, limitErr.Message, "paused")
}
