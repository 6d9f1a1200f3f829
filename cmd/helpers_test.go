package cmd

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmcampos/techexpert/internal/llm"
)

type fakeProvider struct{}

func (fakeProvider) Generate(context.Context, string) (string, error) { return "", nil }
func (fakeProvider) CountTokens(context.Context, string) (int, error) { return 0, nil }
func (fakeProvider) Name() string                                     { return "fake" }

func TestWrapProviderWithoutRateLimit(t *testing.T) {
	wrapped := wrapProvider(fakeProvider{}, 0)

	_, isRetrying := wrapped.(*llm.RetryingProvider)
	require.True(t, isRetrying)
}

func TestWrapProviderWithRateLimit(t *testing.T) {
	wrapped := wrapProvider(fakeProvider{}, 30)

	limiter, isLimited := wrapped.(*llm.RateLimitedProvider)
	require.True(t, isLimited)
	assert.Equal(t, "fake", limiter.Name())
}
