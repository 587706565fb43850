package quota

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestProjectStatus(t *testing.T) {
	now := time.UnixMilli(1_700_000_000_000)
	reset := now.Add(90 * time.Second)

	status := Status{Remaining: 1234, Limit: 10000, Reset: reset, CanProvideFeedback: true}

	wire := ProjectStatus(status, LockResult{}, now)
	assert.Equal(t, int64(1234), wire.Remaining)
	assert.Equal(t, int64(10000), wire.Limit)
	assert.Equal(t, reset.UnixMilli(), wire.Reset)
	assert.Equal(t, int64(90), wire.ResetIn)
	assert.True(t, wire.CanProvideFeedback)
}

func TestProjectStatus_LockOverrides(t *testing.T) {
	now := time.Now()
	lockReset := now.Add(20 * time.Minute)

	status := Status{Remaining: 9000, Limit: 10000, Reset: now.Add(time.Hour), CanProvideFeedback: true}
	wire := ProjectStatus(status, LockResult{Locked: true, Reset: lockReset}, now)

	assert.Equal(t, int64(0), wire.Remaining)
	assert.False(t, wire.CanProvideFeedback)
	assert.Equal(t, lockReset.UnixMilli(), wire.Reset)
	assert.Equal(t, int64(20*60), wire.ResetIn)
}

func TestResetInSeconds(t *testing.T) {
	now := time.Now()

	// Partial seconds round up, past resets clamp to zero.
	assert.Equal(t, int64(1), resetInSeconds(now.Add(10*time.Millisecond), now))
	assert.Equal(t, int64(2), resetInSeconds(now.Add(1500*time.Millisecond), now))
	assert.Equal(t, int64(0), resetInSeconds(now.Add(-time.Second), now))
	assert.Equal(t, int64(0), resetInSeconds(now, now))
}

func TestLimitErrors(t *testing.T) {
	reset := time.Now().Add(time.Minute)

	burst := NewBurstLimitError(BurstResult{Allowed: false, Reset: reset})
	assert.Equal(t, "rate_limit", burst.Error)
	assert.Equal(t, LimitTypeBurst, burst.Type)
	assert.Equal(t, reset.UnixMilli(), burst.Reset)
	assert.Nil(t, burst.Remaining)

	tokens := NewTokenLimitError(PeekResult{Remaining: 500, Limit: 10000, Reset: reset})
	assert.Equal(t, LimitTypeTokens, tokens.Type)
	assert.Equal(t, int64(500), *tokens.Remaining)
	assert.Equal(t, int64(10000), *tokens.Limit)
}
