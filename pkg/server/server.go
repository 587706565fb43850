package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Nuccino92/food-helper/pkg/config"
	"github.com/Nuccino92/food-helper/pkg/logger"
	"github.com/Nuccino92/food-helper/pkg/quota"
)

const (
	// fingerprintHeader carries the client-generated browser fingerprint.
	fingerprintHeader = "x-fingerprint"

	readHeaderTimeout = 10 * time.Second
)

// Server is the HTTP front end. It owns no quota state of its own; all
// decisions are delegated to the limiter.
type Server struct {
	cfg      *config.Config
	limiter  *quota.Limiter
	streamer Streamer
	detector AbuseDetector

	httpServer *http.Server
}

// Options configures a Server.
type Options struct {
	Config  *config.Config
	Limiter *quota.Limiter

	// Streamer produces the chat completion. Defaults to the built-in
	// mock model when nil.
	Streamer Streamer

	// Detector inspects conversations for abuse before streaming.
	// Optional; nil disables abuse flagging.
	Detector AbuseDetector
}

// New creates a Server from the given options.
func New(opts Options) (*Server, error) {
	if opts.Config == nil {
		return nil, fmt.Errorf("config is required")
	}
	if opts.Limiter == nil {
		return nil, fmt.Errorf("limiter is required")
	}

	streamer := opts.Streamer
	if streamer == nil {
		streamer = NewMockStreamer()
	}

	s := &Server{
		cfg:      opts.Config,
		limiter:  opts.Limiter,
		streamer: streamer,
		detector: opts.Detector,
	}

	s.httpServer = &http.Server{
		Addr:              opts.Config.Server.Address(),
		Handler:           s.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	return s, nil
}

// Handler builds the chi routing tree. Exposed so tests can drive the
// server through httptest without binding a port.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	// Order: real-ip -> recover -> logging -> metrics -> cors
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(loggingMiddleware)
	r.Use(metricsMiddleware)
	r.Use(corsMiddleware(s.cfg.Server.AllowedOrigin))

	r.Route("/api", func(r chi.Router) {
		r.Route("/rate-limit", func(r chi.Router) {
			r.Get("/status", s.handleStatus)
			r.Post("/feedback", s.handleFeedback)
		})
		r.Post("/chat/stream", s.handleChatStream)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"status":       "ok",
			"rateLimiting": s.limiter.Enforcing(),
		})
	})
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	return r
}

// Start begins serving and blocks until the server is shut down.
func (s *Server) Start() error {
	log := logger.GetLogger()
	log.Info("HTTP server listening",
		"addr", s.httpServer.Addr,
		"rate_limiting", s.limiter.Enforcing())

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server failed: %w", err)
	}
	return nil
}

// Stop gracefully shuts the server down, waiting for in-flight streams
// up to the context deadline.
func (s *Server) Stop(ctx context.Context) error {
	logger.GetLogger().Info("Shutting down HTTP server")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	return nil
}

// identify derives the quota identifier for a request from its client IP
// and optional fingerprint header.
func identify(r *http.Request) string {
	ip := r.RemoteAddr
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		ip = host
	}
	if ip == "" {
		ip = "unknown"
	}
	return quota.Identifier(ip, r.Header.Get(fingerprintHeader))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
