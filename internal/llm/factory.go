package llm

import (
	"context"
	"fmt"
)

// NewProvider creates a generation provider for the given provider type.
// Supported types: "gemini", "openai".
func NewProvider(ctx context.Context, providerType, model, apiKey string) (Provider, error) {
	switch providerType {
	case "gemini":
		return NewGeminiProvider(ctx, apiKey, model)
	case "openai":
		return NewOpenAIProvider(apiKey, model)
	default:
		return nil, fmt.Errorf("unsupported provider type: %s", providerType)
	}
}
