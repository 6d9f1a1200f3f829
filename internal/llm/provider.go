package llm

import "context"

// Provider defines the interface for generation backends.
type Provider interface {
	// Generate sends the assembled prompt and returns the model's raw text.
	Generate(ctx context.Context, prompt string) (string, error)
	// CountTokens returns the exact token count of the given text.
	CountTokens(ctx context.Context, text string) (int, error)
	// Name returns the name of this provider.
	Name() string
}
