package quota

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestGrant_ExactlyOncePerWindow(t *testing.T) {
	limiter, _ := newTestLimiter(t)
	ctx := context.Background()
	id := "caller"

	limiter.Deduct(ctx, id, 7000)

	first := limiter.Grant(ctx, id)
	require.True(t, first.Success)
	require.Equal(t, int64(8000), first.NewRemaining) // usage 7000-5000=2000

	second := limiter.Grant(ctx, id)
	require.False(t, second.Success)
	require.Contains(t, second.Message, "already received")
	// The failed grant still reports the caller's true remaining.
	require.Equal(t, int64(8000), second.NewRemaining)
}

func TestGrant_FlooredAtZeroUsage(t *testing.T) {
	limiter, _ := newTestLimiter(t)
	ctx := context.Background()

	limiter.Deduct(ctx, "light", 1000)

	// Bonus exceeds outstanding usage: it cannot grant past a full budget.
	result := limiter.Grant(ctx, "light")
	require.True(t, result.Success)
	require.Equal(t, limiter.Budget(), result.NewRemaining)
}

func TestGrant_FlagSharesCounterTTL(t *testing.T) {
	limiter, mr := newTestLimiter(t)
	ctx := context.Background()
	id := "caller"

	limiter.Deduct(ctx, id, 6000)
	mr.FastForward(30 * time.Minute)

	result := limiter.Grant(ctx, id)
	require.True(t, result.Success)

	// Both keys expire together, at the counter's original rollover.
	require.Equal(t, 30*time.Minute, mr.TTL(tokenKey(id)))
	require.Equal(t, 30*time.Minute, mr.TTL(grantKey(id)))
}

func TestGrant_AvailableAgainNextWindow(t *testing.T) {
	limiter, mr := newTestLimiter(t)
	ctx := context.Background()
	id := "caller"

	limiter.Deduct(ctx, id, 6000)
	require.True(t, limiter.Grant(ctx, id).Success)
	require.False(t, limiter.Grant(ctx, id).Success)

	mr.FastForward(time.Hour + time.Second)

	limiter.Deduct(ctx, id, 6000)
	require.True(t, limiter.Grant(ctx, id).Success)
}

func TestGrant_Disabled(t *testing.T) {
	limiter, err := New(testConfig(), nil)
	require.NoError(t, err)

	result := limiter.Grant(context.Background(), "caller")
	require.False(t, result.Success)
	require.Equal(t, limiter.Budget(), result.NewRemaining)
	require.Contains(t, result.Message, "disabled")
}

func TestStoreFeedback_ScoreValidation(t *testing.T) {
	limiter, _ := newTestLimiter(t)
	ctx := context.Background()

	require.ErrorIs(t, limiter.StoreFeedback(ctx, "id", -1, ""), ErrInvalidScore)
	require.ErrorIs(t, limiter.StoreFeedback(ctx, "id", 11, ""), ErrInvalidScore)
	require.NoError(t, limiter.StoreFeedback(ctx, "id", 0, ""))
	require.NoError(t, limiter.StoreFeedback(ctx, "id", 10, ""))
}

func TestStoreFeedback_AppendsAuditRecord(t *testing.T) {
	store := NewMemoryStore()
	limiter, err := New(testConfig(), store)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, limiter.StoreFeedback(ctx, "origin:fp", 9, "loved the stir-fry ideas"))

	entries := store.List(feedbackList)
	require.Len(t, entries, 1)

	var record struct {
		Identifier     string `json:"identifier"`
		Score          int    `json:"score"`
		SessionContext string `json:"sessionContext"`
		Timestamp      int64  `json:"timestamp"`
	}
	require.NoError(t, json.Unmarshal([]byte(entries[0]), &record))
	require.Equal(t, "origin:fp", record.Identifier)
	require.Equal(t, 9, record.Score)
	require.Equal(t, "loved the stir-fry ideas", record.SessionContext)
	require.NotZero(t, record.Timestamp)
}
