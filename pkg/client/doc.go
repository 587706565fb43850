// Package client provides a quota mirror for callers of the quota API.
//
// The mirror keeps a local copy of the caller's quota state so UIs can
// render remaining tokens and lockout countdowns without a round trip
// per keystroke. It tracks three things: the last fetched status, a
// limited flag, and whether the quota modal should be showing. Typed
// 429 bodies from the chat endpoint feed the mirror directly, so the
// local view converges on the server's without an extra status fetch.
//
// Callers are identified by a fingerprint persisted across runs; the
// mirror attaches it to every request as an x-fingerprint header.
package client
