package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

// Retry defaults: four total attempts with a 5s base delay doubling per
// attempt (5s, 10s, 20s between attempts).
const (
	defaultMaxAttempts = 4
	defaultBaseDelay   = 5 * time.Second
)

// RetryingProvider wraps a Provider with exponential backoff on quota
// errors. Any other provider error is surfaced immediately.
type RetryingProvider struct {
	provider    Provider
	maxAttempts int
	baseDelay   time.Duration
}

// RetryOption configures a RetryingProvider.
type RetryOption func(*RetryingProvider)

// WithBaseDelay overrides the initial backoff delay (used by tests).
func WithBaseDelay(d time.Duration) RetryOption {
	return func(r *RetryingProvider) { r.baseDelay = d }
}

// WithMaxAttempts overrides the total attempt count.
func WithMaxAttempts(n int) RetryOption {
	return func(r *RetryingProvider) { r.maxAttempts = n }
}

// NewRetryingProvider wraps the given provider with quota-aware retries.
func NewRetryingProvider(provider Provider, opts ...RetryOption) *RetryingProvider {
	r := &RetryingProvider{
		provider:    provider,
		maxAttempts: defaultMaxAttempts,
		baseDelay:   defaultBaseDelay,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *RetryingProvider) Name() string {
	return r.provider.Name()
}

func (r *RetryingProvider) CountTokens(ctx context.Context, text string) (int, error) {
	return r.provider.CountTokens(ctx, text)
}

func (r *RetryingProvider) Generate(ctx context.Context, prompt string) (string, error) {
	var lastErr error
	for attempt := 0; attempt < r.maxAttempts; attempt++ {
		out, err := r.provider.Generate(ctx, prompt)
		if err == nil {
			return out, nil
		}
		if !IsQuota(err) {
			return "", err
		}
		lastErr = err

		if attempt == r.maxAttempts-1 {
			break
		}

		delay := r.baseDelay << attempt
		log.Warn().
			Dur("delay", delay).
			Int("attempt", attempt+1).
			Int("max_attempts", r.maxAttempts).
			Msg("api quota exceeded, backing off")

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(delay):
		}
	}

	log.Error().Int("attempts", r.maxAttempts).Msg("api quota still exceeded after all retries")
	return "", fmt.Errorf("after %d attempts: %w", r.maxAttempts, lastErr)
}
