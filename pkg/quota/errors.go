package quota

import "errors"

// Common errors.
var (
	// ErrInvalidScore is returned when a feedback score is out of range.
	ErrInvalidScore = errors.New("score must be a number between 0 and 10")

	// ErrStoreUnavailable is returned when the counter store cannot be
	// reached at construction time.
	ErrStoreUnavailable = errors.New("counter store unavailable")

	// ErrNilConfig is returned when a limiter is built without config.
	ErrNilConfig = errors.New("rate limit config is required")
)
