package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pkoukk/tiktoken-go"
	openai "github.com/sashabaranov/go-openai"
)

// OpenAIProvider implements Provider using the OpenAI chat API. It exists as
// an alternative backend; budget counting runs locally through tiktoken
// since the API has no counting endpoint.
type OpenAIProvider struct {
	client  *openai.Client
	model   string
	timeout time.Duration
}

// NewOpenAIProvider creates a new OpenAI provider.
func NewOpenAIProvider(apiKey, model string) (*OpenAIProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai API key is required")
	}
	return &OpenAIProvider{
		client:  openai.NewClient(apiKey),
		model:   model,
		timeout: defaultRequestTimeout,
	}, nil
}

func (p *OpenAIProvider) Name() string {
	return "openai"
}

func (p *OpenAIProvider) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) && apiErr.HTTPStatusCode == 429 {
			return "", fmt.Errorf("%w: %v", ErrQuota, err)
		}
		return "", fmt.Errorf("openai request: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("empty response from openai")
	}
	return resp.Choices[0].Message.Content, nil
}

func (p *OpenAIProvider) CountTokens(_ context.Context, text string) (int, error) {
	enc, err := tiktoken.EncodingForModel(p.model)
	if err != nil {
		// Unknown models fall back to the common chat encoding.
		enc, err = tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			return 0, fmt.Errorf("loading tokenizer: %w", err)
		}
	}
	return len(enc.Encode(text, nil, nil)), nil
}
