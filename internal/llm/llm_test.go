package llm

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockProvider is a test provider that records calls and returns scripted
// responses per attempt.
type MockProvider struct {
	mu        sync.Mutex
	Calls     []string
	Responses []string
	Errs      []error
	Tokens    int
	TokensErr error
}

func (m *MockProvider) Name() string { return "mock" }

func (m *MockProvider) Generate(_ context.Context, prompt string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := len(m.Calls)
	m.Calls = append(m.Calls, prompt)
	if i < len(m.Errs) && m.Errs[i] != nil {
		return "", m.Errs[i]
	}
	if i < len(m.Responses) {
		return m.Responses[i], nil
	}
	return "", errors.New("mock: no scripted response")
}

func (m *MockProvider) CountTokens(context.Context, string) (int, error) {
	return m.Tokens, m.TokensErr
}

func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

func quotaErr() error {
	return fmt.Errorf("%w: 429 too many requests", ErrQuota)
}

func TestRetrySucceedsAfterQuotaErrors(t *testing.T) {
	mock := &MockProvider{
		Errs:      []error{quotaErr(), quotaErr(), quotaErr(), nil},
		Responses: []string{"", "", "", "finally"},
	}
	base := 10 * time.Millisecond
	r := NewRetryingProvider(mock, WithBaseDelay(base))

	start := time.Now()
	out, err := r.Generate(context.Background(), "p")
	elapsed := time.Since(start)

	require.NoError(t, err)
	assert.Equal(t, "finally", out)
	assert.Equal(t, 4, mock.CallCount())
	// Backoff doubles: base + 2*base + 4*base between the four attempts.
	assert.GreaterOrEqual(t, elapsed, 7*base)
}

func TestRetryExhaustsAfterMaxAttempts(t *testing.T) {
	mock := &MockProvider{
		Errs: []error{quotaErr(), quotaErr(), quotaErr(), quotaErr()},
	}
	r := NewRetryingProvider(mock, WithBaseDelay(time.Millisecond))

	_, err := r.Generate(context.Background(), "p")

	require.Error(t, err)
	assert.True(t, IsQuota(err), "final error keeps its quota classification")
	assert.Equal(t, 4, mock.CallCount())
}

func TestRetryDoesNotRetryOtherErrors(t *testing.T) {
	mock := &MockProvider{
		Errs: []error{errors.New("invalid API key")},
	}
	r := NewRetryingProvider(mock, WithBaseDelay(time.Millisecond))

	_, err := r.Generate(context.Background(), "p")

	require.Error(t, err)
	assert.False(t, IsQuota(err))
	assert.Equal(t, 1, mock.CallCount())
}

func TestRetryStopsOnContextCancel(t *testing.T) {
	mock := &MockProvider{
		Errs: []error{quotaErr(), quotaErr(), quotaErr(), quotaErr()},
	}
	r := NewRetryingProvider(mock, WithBaseDelay(time.Hour))

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := r.Generate(ctx, "p")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, mock.CallCount())
}

func TestParseResultValidJSON(t *testing.T) {
	raw := `{"solucao":"use OSPF","codigo":"router ospf 1","verificacao":"show ip ospf","fonte_contexto":"Fonte: 'redes.pdf'"}`

	res, parsed := ParseResult(raw)

	assert.True(t, parsed)
	assert.Equal(t, "use OSPF", res.Solucao)
	assert.Equal(t, "router ospf 1", res.Codigo)
	assert.Equal(t, "show ip ospf", res.Verificacao)
	assert.Equal(t, "Fonte: 'redes.pdf'", res.FonteContexto)
}

func TestParseResultStripsCodeFences(t *testing.T) {
	raw := "```json\n{\"solucao\":\"ok\",\"codigo\":\"\",\"verificacao\":\"\",\"fonte_contexto\":\"\"}\n```"

	res, parsed := ParseResult(raw)

	assert.True(t, parsed)
	assert.Equal(t, "ok", res.Solucao)
}

func TestParseResultFallbackOnPlainText(t *testing.T) {
	res, parsed := ParseResult("Just use iptables.")

	assert.False(t, parsed)
	assert.Equal(t, "Just use iptables.", res.Solucao)
	assert.Empty(t, res.Codigo)
	assert.Empty(t, res.Verificacao)
	assert.Empty(t, res.FonteContexto)
}

func TestFactoryRejectsUnknownProvider(t *testing.T) {
	_, err := NewProvider(context.Background(), "cohere", "m", "key")
	require.Error(t, err)
}

func TestFactoryRequiresAPIKey(t *testing.T) {
	_, err := NewProvider(context.Background(), "openai", "gpt-4o", "")
	require.Error(t, err)
}

func TestRateLimiterPassesThrough(t *testing.T) {
	mock := &MockProvider{Responses: []string{"hello"}}
	limited := NewRateLimitedProvider(mock, 60)

	out, err := limited.Generate(context.Background(), "p")
	require.NoError(t, err)
	assert.Equal(t, "hello", out)
	assert.Equal(t, "mock", limited.Name())
}
