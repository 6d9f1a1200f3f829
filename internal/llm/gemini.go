package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// defaultRequestTimeout bounds a single provider call so a hung request
// cannot pin its worker indefinitely.
const defaultRequestTimeout = 90 * time.Second

// GeminiProvider implements Provider using the official Gemini SDK.
type GeminiProvider struct {
	client  *genai.Client
	model   string
	timeout time.Duration
}

// NewGeminiProvider creates a Gemini provider with the given API key and
// model name.
func NewGeminiProvider(ctx context.Context, apiKey, model string) (*GeminiProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}
	return &GeminiProvider{
		client:  client,
		model:   model,
		timeout: defaultRequestTimeout,
	}, nil
}

func (p *GeminiProvider) Name() string {
	return "gemini"
}

// Close releases the underlying API client.
func (p *GeminiProvider) Close() error {
	return p.client.Close()
}

// generativeModel builds the model handle with safety filtering relaxed to
// block nothing. The assistant must answer every technical question in its
// domain; refusals are handled by the prompt contract, not the filter.
func (p *GeminiProvider) generativeModel() *genai.GenerativeModel {
	model := p.client.GenerativeModel(p.model)
	model.SafetySettings = []*genai.SafetySetting{
		{Category: genai.HarmCategoryDangerousContent, Threshold: genai.HarmBlockNone},
		{Category: genai.HarmCategoryHarassment, Threshold: genai.HarmBlockNone},
		{Category: genai.HarmCategoryHateSpeech, Threshold: genai.HarmBlockNone},
	}
	return model
}

func (p *GeminiProvider) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	resp, err := p.generativeModel().GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", wrapGeminiError(err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("empty response from gemini")
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	return b.String(), nil
}

func (p *GeminiProvider) CountTokens(ctx context.Context, text string) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	resp, err := p.generativeModel().CountTokens(ctx, genai.Text(text))
	if err != nil {
		return 0, wrapGeminiError(err)
	}
	return int(resp.TotalTokens), nil
}

// wrapGeminiError tags quota errors so the retry layer can recognize them.
func wrapGeminiError(err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) && apiErr.Code == 429 {
		return fmt.Errorf("%w: %v", ErrQuota, err)
	}
	// The SDK sometimes surfaces quota failures as flattened strings.
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "429") && strings.Contains(msg, "quota") {
		return fmt.Errorf("%w: %v", ErrQuota, err)
	}
	return fmt.Errorf("gemini request: %w", err)
}
