// Package budget keeps assembled prompts under the provider's token ceiling
// by deterministically truncating retrieved context and, as a last resort,
// conversation history.
package budget

import (
	"context"
	"math"

	"github.com/rs/zerolog/log"

	"github.com/jmcampos/techexpert/internal/prompt"
)

// DefaultMaxTokens sits safely below the provider's real context limit
// (1,048,575 for the models this targets), leaving headroom for the reply.
const DefaultMaxTokens = 1_000_000

// TokenCounter provides exact token counts for arbitrary text. It is
// typically backed by the generation provider's counting endpoint.
type TokenCounter interface {
	CountTokens(ctx context.Context, text string) (int, error)
}

// Truncator shrinks a payload by roughly the given token overflow. The
// character heuristic below is the default; a tokenizer-driven binary
// search can be substituted without touching callers.
type Truncator interface {
	Truncate(p prompt.Payload, overflowTokens int) prompt.Payload
}

// Manager enforces the token budget on assembled prompts.
type Manager struct {
	counter   TokenCounter
	truncator Truncator
	maxTokens int
}

// Option configures a Manager.
type Option func(*Manager)

// WithMaxTokens overrides the default token ceiling.
func WithMaxTokens(n int) Option {
	return func(m *Manager) { m.maxTokens = n }
}

// WithTruncator replaces the default character-heuristic truncator.
func WithTruncator(t Truncator) Option {
	return func(m *Manager) { m.truncator = t }
}

// NewManager creates a budget manager using the given token counter.
func NewManager(counter TokenCounter, opts ...Option) *Manager {
	m := &Manager{
		counter:   counter,
		truncator: CharHeuristic{},
		maxTokens: DefaultMaxTokens,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Enforce returns a payload whose assembled prompt fits the token budget
// whenever feasible. The input payload is never modified. A failing token
// counter skips enforcement entirely: an oversized request to the provider
// beats a dropped one.
func (m *Manager) Enforce(ctx context.Context, p prompt.Payload) prompt.Payload {
	total, err := m.counter.CountTokens(ctx, prompt.Assemble(p))
	if err != nil {
		log.Warn().Err(err).Msg("token count failed, sending payload unverified")
		return p
	}
	log.Debug().Int("tokens", total).Msg("initial token count")

	if total <= m.maxTokens {
		return p
	}

	overflow := total - m.maxTokens
	log.Warn().
		Int("tokens", total).
		Int("limit", m.maxTokens).
		Int("overflow", overflow).
		Msg("prompt over token budget, truncating")

	truncated := m.truncator.Truncate(p, overflow)

	// Recount once for verification. Still being over budget is degraded
	// mode, not a failure: the provider gets the best we could do.
	final, err := m.counter.CountTokens(ctx, prompt.Assemble(truncated))
	if err != nil {
		log.Warn().Err(err).Msg("token recount failed after truncation")
		return truncated
	}
	if final > m.maxTokens {
		log.Error().
			Int("tokens", final).
			Int("limit", m.maxTokens).
			Msg("truncation insufficient, prompt still over budget")
	} else {
		log.Debug().Int("tokens", final).Msg("token count after truncation")
	}
	return truncated
}

// CharHeuristic converts token overflow into a character budget at four
// characters per token plus a 10% safety margin, then removes characters
// from the tail of the knowledge context first and the head of the history
// second. Context is the least critical part of the prompt; trimming
// history from the head keeps the most recent exchanges.
type CharHeuristic struct{}

// charsPerToken is the assumed expansion factor from tokens to characters.
const charsPerToken = 4

// safetyMargin pads the character budget so one truncation pass usually
// suffices.
const safetyMargin = 1.1

func (CharHeuristic) Truncate(p prompt.Payload, overflowTokens int) prompt.Payload {
	remaining := int(math.Ceil(float64(overflowTokens) * charsPerToken * safetyMargin))

	if remaining > 0 && p.KnowledgeContext != "" {
		runes := []rune(p.KnowledgeContext)
		n := min(remaining, len(runes))
		p.KnowledgeContext = string(runes[:len(runes)-n])
		remaining -= n
		log.Info().Int("chars", n).Msg("truncated knowledge context tail")
	}

	if remaining > 0 && p.History != "" {
		runes := []rune(p.History)
		n := min(remaining, len(runes))
		p.History = string(runes[n:])
		log.Info().Int("chars", n).Msg("truncated history head")
	}

	return p
}
