package quota

import "time"

// Wire projections. These are pure mappings with no side effects; nothing
// here is ever stored.

// Limit error types.
const (
	LimitTypeBurst  = "burst"
	LimitTypeTokens = "tokens"
)

// StatusResponse is the wire shape of GET /rate-limit/status.
type StatusResponse struct {
	Remaining          int64 `json:"remaining"`
	Limit              int64 `json:"limit"`
	Reset              int64 `json:"reset"`   // epoch milliseconds
	ResetIn            int64 `json:"resetIn"` // whole seconds
	CanProvideFeedback bool  `json:"canProvideFeedback"`
}

// LimitError is the wire shape of a gate rejection, returned with a 429.
type LimitError struct {
	Error     string `json:"error"` // always "rate_limit"
	Type      string `json:"type"`  // "burst" or "tokens"
	Message   string `json:"message"`
	Reset     int64  `json:"reset"` // epoch milliseconds
	Remaining *int64 `json:"remaining,omitempty"`
	Limit     *int64 `json:"limit,omitempty"`
}

// ProjectStatus maps internal status plus lock state onto the wire shape.
// An active lock overrides the budget view: remaining is forced to zero,
// feedback is withheld, and the reset reflects the lock's own expiry.
func ProjectStatus(status Status, lock LockResult, now time.Time) StatusResponse {
	if lock.Locked {
		return StatusResponse{
			Remaining:          0,
			Limit:              status.Limit,
			Reset:              lock.Reset.UnixMilli(),
			ResetIn:            resetInSeconds(lock.Reset, now),
			CanProvideFeedback: false,
		}
	}
	return StatusResponse{
		Remaining:          status.Remaining,
		Limit:              status.Limit,
		Reset:              status.Reset.UnixMilli(),
		ResetIn:            resetInSeconds(status.Reset, now),
		CanProvideFeedback: status.CanProvideFeedback,
	}
}

// NewBurstLimitError maps a burst rejection onto the wire error.
func NewBurstLimitError(result BurstResult) *LimitError {
	return &LimitError{
		Error:   "rate_limit",
		Type:    LimitTypeBurst,
		Message: "Too many requests. Please slow down and try again shortly.",
		Reset:   result.Reset.UnixMilli(),
	}
}

// NewTokenLimitError maps a token budget rejection onto the wire error.
// It carries remaining and limit so clients can update their local mirror
// without another status fetch.
func NewTokenLimitError(result PeekResult) *LimitError {
	remaining := result.Remaining
	limit := result.Limit
	return &LimitError{
		Error:     "rate_limit",
		Type:      LimitTypeTokens,
		Message:   "You've used up your token budget for this period.",
		Reset:     result.Reset.UnixMilli(),
		Remaining: &remaining,
		Limit:     &limit,
	}
}

// NewLockLimitError maps an abuse-lock rejection onto the wire error.
// The lock reuses the tokens type with a zero remaining budget; clients
// already know how to render that as a countdown.
func NewLockLimitError(lock LockResult) *LimitError {
	var zero int64
	return &LimitError{
		Error:     "rate_limit",
		Type:      LimitTypeTokens,
		Message:   "Your access is paused for a while. Please come back later.",
		Reset:     lock.Reset.UnixMilli(),
		Remaining: &zero,
	}
}

// resetInSeconds converts an absolute reset time into the whole seconds
// remaining, computed as max(0, ceil((reset - now) / 1000)).
func resetInSeconds(reset, now time.Time) int64 {
	ms := reset.Sub(now).Milliseconds()
	if ms <= 0 {
		return 0
	}
	return (ms + 999) / 1000
}
