package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Nuccino92/food-helper/pkg/logger"
)

// deductTimeout bounds the post-stream deduction write. The stream is
// already finished by then, so the client never waits on it.
const deductTimeout = 10 * time.Second

// Message is a single turn of a chat conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Messages []Message `json:"messages"`
}

// Streamer produces a chat completion as a sequence of text chunks.
// Implementations must close the channel when the completion is done
// and stop producing when the context is cancelled.
type Streamer interface {
	Stream(ctx context.Context, messages []Message) (<-chan string, error)
}

// AbuseDetector inspects a conversation before streaming begins. A
// non-empty reason flags the caller for an abuse lock.
type AbuseDetector func(messages []Message) (reason string, flagged bool)

// handleChatStream gates a chat request and streams the completion over
// SSE. Gate rejections return a 429 with a typed body before any SSE
// headers are written; once streaming starts, errors can only end the
// stream. Token deduction happens after the stream completes, off the
// request path.
func (s *Server) handleChatStream(w http.ResponseWriter, r *http.Request) {
	log := logger.GetLogger()

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.Messages) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Messages are required"})
		return
	}

	identifier := identify(r)
	prompt := latestUserMessage(req.Messages)

	limitErr, estimated := s.limiter.Gate(r.Context(), identifier, prompt)
	if limitErr != nil {
		writeJSON(w, http.StatusTooManyRequests, limitErr)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Streaming unsupported"})
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	if s.detector != nil {
		if reason, flagged := s.detector(req.Messages); flagged {
			s.lockOut(w, flusher, identifier, reason)
			return
		}
	}

	stream, err := s.streamer.Stream(r.Context(), req.Messages)
	if err != nil {
		log.Error("failed to start completion stream", "error", err)
		sendSSE(w, flusher, "end", map[string]string{"reason": "error"})
		return
	}

	var streamedBytes int64
	for chunk := range stream {
		if err := sendSSE(w, flusher, "delta", map[string]string{"text": chunk}); err != nil {
			// Client went away; the partial stream still gets billed.
			break
		}
		streamedBytes += int64(len(chunk))
	}

	_ = sendSSE(w, flusher, "end", map[string]string{"reason": "stop"})

	cost := s.limiter.DeductionCost(estimated, streamedBytes)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), deductTimeout)
		defer cancel()
		s.limiter.Deduct(ctx, identifier, cost)
	}()
}

// lockOut applies an abuse lock and tells the caller about it in-band,
// since SSE headers are already on the wire.
func (s *Server) lockOut(w http.ResponseWriter, flusher http.Flusher, identifier, reason string) {
	logger.GetLogger().Warn("abuse detected, locking caller",
		"identifier", identifier,
		"reason", reason)

	ctx, cancel := context.WithTimeout(context.Background(), deductTimeout)
	defer cancel()
	result := s.limiter.SetLock(ctx, identifier)
	if !result.Success {
		logger.GetLogger().Warn("abuse lock not applied, rate limiting disabled")
	}

	_ = sendSSE(w, flusher, "delta", map[string]string{
		"text": "This conversation has been flagged and your access is paused for a while. Please come back later.",
	})
	_ = sendSSE(w, flusher, "end", map[string]string{"reason": "abuse_lock"})
}

func sendSSE(w http.ResponseWriter, flusher http.Flusher, event string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, payload); err != nil {
		return err
	}
	flusher.Flush()
	return nil
}

// latestUserMessage returns the content of the most recent user turn,
// which is what the pre-flight estimate is based on.
func latestUserMessage(messages []Message) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if strings.EqualFold(messages[i].Role, "user") {
			return messages[i].Content
		}
	}
	return messages[len(messages)-1].Content
}
