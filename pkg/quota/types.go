package quota

import "time"

// BurstResult is the outcome of a burst limiter check.
type BurstResult struct {
	// Allowed reports whether the request may proceed.
	Allowed bool

	// Reset is when the current burst window rolls over.
	Reset time.Time
}

// PeekResult is the outcome of a non-consuming token budget check.
type PeekResult struct {
	Allowed   bool
	Remaining int64
	Limit     int64
	Reset     time.Time
}

// DeductResult is the outcome of a consuming token deduction.
type DeductResult struct {
	Remaining int64
	Reset     time.Time
}

// Status is the read-only projection of a caller's token budget state.
type Status struct {
	Remaining int64
	Limit     int64
	Reset     time.Time

	// CanProvideFeedback reports whether a feedback bonus is still
	// available this window.
	CanProvideFeedback bool
}

// LockResult is the outcome of an abuse lock check.
type LockResult struct {
	Locked bool
	Reset  time.Time
}

// SetLockResult is the outcome of setting an abuse lock.
type SetLockResult struct {
	// Success is false only when enforcement is disabled and no lock
	// could be applied. A redundant SetLock on an existing lock still
	// reports success; it does not extend the original expiry.
	Success bool
	Reset   time.Time
}

// GrantResult is the outcome of a feedback bonus grant.
type GrantResult struct {
	Success      bool
	NewRemaining int64
	Message      string
}
