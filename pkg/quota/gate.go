package quota

import "context"

// Gate layers the chat-request checks in order: abuse lock, then burst,
// then the non-consuming token peek. It short-circuits on the first gate
// that rejects and returns the corresponding wire error, or nil when the
// request may proceed. The second return is the pre-flight token estimate
// for the request text, which callers feed back into DeductionCost after
// the response completes.
func (l *Limiter) Gate(ctx context.Context, identifier, text string) (*LimitError, int64) {
	if lock := l.CheckLock(ctx, identifier); lock.Locked {
		return NewLockLimitError(lock), 0
	}

	if burst := l.CheckBurst(ctx, identifier); !burst.Allowed {
		return NewBurstLimitError(burst), 0
	}

	estimated := l.EstimateRequest(text)
	if peek := l.Peek(ctx, identifier, estimated); !peek.Allowed {
		return NewTokenLimitError(peek), estimated
	}

	return nil, estimated
}
