package provider

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"
)

// RateLimited wraps a Provider so Generate calls never exceed a fixed rate.
// The wait honors ctx: a cancelled run stops queueing.
type RateLimited struct {
	Provider
	limiter *rate.Limiter
}

// NewRateLimited limits p to requestsPerMinute Generate calls with no
// bursting beyond one. Zero or less returns p unchanged.
func NewRateLimited(p Provider, requestsPerMinute int) Provider {
	if requestsPerMinute <= 0 {
		return p
	}
	interval := time.Minute / time.Duration(requestsPerMinute)
	return &RateLimited{
		Provider: p,
		limiter:  rate.NewLimiter(rate.Every(interval), 1),
	}
}

func (r *RateLimited) Generate(ctx context.Context, prompt string, temperature float64) (string, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit wait: %w", err)
	}
	return r.Provider.Generate(ctx, prompt, temperature)
}
