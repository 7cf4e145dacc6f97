package testutil

import (
	"context"
	"errors"
	"sync"
)

// ErrScriptExhausted is returned once a scripted mock runs out of replies.
var ErrScriptExhausted = errors.New("scripted provider has no replies left")

// Scripted returns a GenerateFunc that hands out replies in order.
func Scripted(replies ...string) func(ctx context.Context, prompt string, temperature float64) (string, error) {
	var mu sync.Mutex
	next := 0
	return func(ctx context.Context, prompt string, temperature float64) (string, error) {
		mu.Lock()
		defer mu.Unlock()
		if next >= len(replies) {
			return "", ErrScriptExhausted
		}
		r := replies[next]
		next++
		return r, nil
	}
}

// FailOn returns a GenerateFunc that fails the given zero-based calls and
// answers the rest with reply.
func FailOn(reply string, failing ...int) func(ctx context.Context, prompt string, temperature float64) (string, error) {
	var mu sync.Mutex
	n := 0
	return func(ctx context.Context, prompt string, temperature float64) (string, error) {
		mu.Lock()
		call := n
		n++
		mu.Unlock()
		for _, f := range failing {
			if f == call {
				return "", errors.New("mock provider failure")
			}
		}
		return reply, nil
	}
}

// Blocking returns a GenerateFunc that waits for release (or ctx) before
// answering with reply. started receives once per call.
func Blocking(reply string, started chan<- struct{}, release <-chan struct{}) func(ctx context.Context, prompt string, temperature float64) (string, error) {
	return func(ctx context.Context, prompt string, temperature float64) (string, error) {
		if started != nil {
			started <- struct{}{}
		}
		select {
		case <-release:
			return reply, nil
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
}

// CouncilReplies is a full four-agent round with distinct confidences.
func CouncilReplies() []string {
	return []string{
		"Plan: three phases. [[CONFIDENCE: 88]]",
		"Execution: week-by-week tasks. [[CONFIDENCE: 75]]",
		"Risks: budget overrun. [[CONFIDENCE: 62]]",
		"Final: proceed with phase one. [[CONFIDENCE: 91]]",
	}
}
