package server

import (
	"context"
	"strings"
	"time"
)

const mockResponse = "Of course! Based on your ingredients, here is a great recipe:\n\n" +
	"# Classic Chicken & Pepper Stir-Fry\n\n" +
	"**Ingredients Needed:**\n" +
	"- 1 lb Chicken breast (cubed)\n" +
	"- 2 Bell peppers (sliced)\n" +
	"- Soy sauce & garlic\n\n" +
	"**Instructions:**\n" +
	"1. Heat oil in a pan over medium-high heat.\n" +
	"2. Add the **chicken** and cook until golden brown.\n" +
	"3. Toss in the peppers and stir-fry for 3-4 minutes.\n" +
	"4. Pour in the sauce and serve over rice.\n\n" +
	"Enjoy your meal!"

// MockStreamer emits a canned completion word by word, pacing chunks to
// simulate model latency. It stands in for a real LLM backend in local
// development and tests.
type MockStreamer struct {
	// Response is the full completion text to stream.
	Response string

	// ChunkDelay is the pause between chunks. Zero means no pacing.
	ChunkDelay time.Duration
}

var _ Streamer = (*MockStreamer)(nil)

// NewMockStreamer returns a MockStreamer with the default canned recipe
// and a small per-chunk delay.
func NewMockStreamer() *MockStreamer {
	return &MockStreamer{
		Response:   mockResponse,
		ChunkDelay: 20 * time.Millisecond,
	}
}

// Stream ignores the conversation and yields the canned response split
// on word boundaries, each word keeping its trailing space.
func (m *MockStreamer) Stream(ctx context.Context, messages []Message) (<-chan string, error) {
	words := strings.SplitAfter(m.Response, " ")

	out := make(chan string)
	go func() {
		defer close(out)
		for _, word := range words {
			if word == "" {
				continue
			}
			select {
			case out <- word:
			case <-ctx.Done():
				return
			}
			if m.ChunkDelay > 0 {
				select {
				case <-time.After(m.ChunkDelay):
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}
