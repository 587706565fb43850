// Package server provides the HTTP surface for the quota service.
//
// The server exposes a small REST API plus one Server-Sent Events (SSE)
// endpoint, routed with chi:
//
//   - GET  /api/rate-limit/status    - current quota projection for the caller
//   - POST /api/rate-limit/feedback  - submit feedback, receive bonus tokens
//   - POST /api/chat/stream          - gated chat completion streamed over SSE
//   - GET  /health                   - liveness probe
//   - GET  /metrics                  - Prometheus metrics
//
// Callers are identified by client IP, optionally sharpened with an
// x-fingerprint header. Every chat request passes through the quota gates
// before any tokens are spent; rejections surface as a 429 with a typed
// JSON body the client mirror understands.
//
// # Basic Usage
//
//	srv, err := server.New(server.Options{
//		Config:  cfg,
//		Limiter: limiter,
//	})
//	if err != nil {
//		return err
//	}
//	if err := srv.Start(); err != nil {
//		return err
//	}
package server
