package quota

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/Nuccino92/food-helper/pkg/config"
)

func testConfig() *config.RateLimitConfig {
	cfg := &config.RateLimitConfig{}
	cfg.SetDefaults()
	return cfg
}

// newTestLimiter builds a limiter over a fresh miniredis instance.
func newTestLimiter(t *testing.T) (*Limiter, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewRedisStoreFromClient(client)
	t.Cleanup(func() { _ = store.Close() })

	limiter, err := New(testConfig(), store)
	require.NoError(t, err)
	return limiter, mr
}

func TestNew_NilConfig(t *testing.T) {
	_, err := New(nil, NewMemoryStore())
	require.ErrorIs(t, err, ErrNilConfig)
}

func TestNew_NilStoreDisablesEnforcement(t *testing.T) {
	limiter, err := New(testConfig(), nil)
	require.NoError(t, err)
	require.False(t, limiter.Enforcing())

	ctx := context.Background()
	require.True(t, limiter.CheckBurst(ctx, "anyone").Allowed)
	require.True(t, limiter.Peek(ctx, "anyone", 1<<40).Allowed)
}

func TestLimiter_Disabled(t *testing.T) {
	cfg := testConfig()
	cfg.Enabled = config.BoolPtr(false)
	limiter, err := New(cfg, NewMemoryStore())
	require.NoError(t, err)

	ctx := context.Background()

	// Pile on usage; nothing should ever deny.
	for i := 0; i < 100; i++ {
		require.True(t, limiter.CheckBurst(ctx, "id").Allowed)
	}
	limiter.Deduct(ctx, "id", cfg.TokenBudget*2)

	require.True(t, limiter.Peek(ctx, "id", cfg.TokenBudget).Allowed)

	status := limiter.Status(ctx, "id")
	require.Equal(t, cfg.TokenBudget, status.Remaining)
	require.Equal(t, status.Limit, status.Remaining)
	require.False(t, status.CanProvideFeedback)
}

func TestLimiter_DegradeToAllowOnStoreFailure(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewRedisStoreFromClient(client)
	defer func() { _ = store.Close() }()

	limiter, err := New(testConfig(), store)
	require.NoError(t, err)

	// Kill the store; every gate must degrade to allow, not error.
	mr.Close()

	ctx := context.Background()
	require.True(t, limiter.CheckBurst(ctx, "id").Allowed)

	peek := limiter.Peek(ctx, "id", 9999)
	require.True(t, peek.Allowed)
	require.Equal(t, limiter.Budget(), peek.Remaining)

	require.False(t, limiter.CheckLock(ctx, "id").Locked)

	status := limiter.Status(ctx, "id")
	require.Equal(t, limiter.Budget(), status.Remaining)
}

func TestLimiter_Flush(t *testing.T) {
	limiter, _ := newTestLimiter(t)
	ctx := context.Background()

	limiter.CheckBurst(ctx, "a")
	limiter.Deduct(ctx, "a", 100)
	limiter.SetLock(ctx, "b")

	removed, err := limiter.Flush(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(3), removed)

	require.False(t, limiter.CheckLock(ctx, "b").Locked)
	require.Equal(t, limiter.Budget(), limiter.Status(ctx, "a").Remaining)
}

func TestResetFromTTL_DefaultsToFullWindow(t *testing.T) {
	limiter, _ := newTestLimiter(t)
	ctx := context.Background()

	// No counter yet: reset should sit one full window ahead.
	before := time.Now()
	peek := limiter.Peek(ctx, "fresh", 1)
	require.True(t, peek.Allowed)
	require.WithinDuration(t, before.Add(time.Hour), peek.Reset, 2*time.Second)
}
