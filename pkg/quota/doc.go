// Package quota implements the quota and abuse-control subsystem for the
// Miso chat server.
//
// It decides, for every inbound chat request, whether a caller may proceed,
// how much of their token budget remains, and whether they have been locked
// out for abusive behavior. All shared state lives in an external atomic
// counter store (Redis-compatible); the handler layer stays stateless.
//
// Features:
//   - Burst limiting (request count per short window, cheap pre-check)
//   - Token budget limiting (estimated tokens per long window) with
//     non-consuming peek, post-hoc deduction, and status reads
//   - Abuse lock: a coarse override that forces rejection regardless of
//     remaining budget, expiring on its own TTL
//   - Feedback bonus: a one-time-per-window token credit granted for an
//     NPS-style satisfaction score
//   - Degrade-to-allow: a missing or unreachable store never denies traffic
//
// # Basic Usage
//
//	store, err := quota.NewRedisStore(&cfg.Redis)
//	limiter, err := quota.New(&cfg.RateLimit, store)
//
//	id := quota.Identifier(clientIP, fingerprint)
//	if limitErr, est := limiter.Gate(ctx, id, userText); limitErr != nil {
//	    // respond 429 with limitErr
//	}
//	// ... stream the response, then, detached:
//	limiter.Deduct(ctx, id, limiter.DeductionCost(est, streamedBytes))
//
// # Key Namespaces
//
// The store holds three counter namespaces plus a grant flag namespace and
// an append-only feedback list:
//
//	ratelimit:burst:<identifier>
//	ratelimit:tokens:<identifier>
//	abuse:lock:<identifier>
//	feedback:granted:<identifier>
//	feedback:nps
//
// Every component derives keys from the same Identifier composition; using
// different compositions would silently fragment quotas.
package quota
