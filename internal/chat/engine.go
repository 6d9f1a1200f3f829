// Package chat runs the full question pipeline: knowledge retrieval, prompt
// assembly, token budget enforcement, and generation.
package chat

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/jmcampos/techexpert/internal/budget"
	"github.com/jmcampos/techexpert/internal/llm"
	"github.com/jmcampos/techexpert/internal/prompt"
)

// defaultUserName is used when a request does not name the user.
const defaultUserName = "Utilizador"

// Request is one incoming chat question from the UI.
type Request struct {
	Prompt   string `json:"prompt"`
	History  string `json:"history"`
	UserName string `json:"user_name"`
	Profile  string `json:"profile"`
}

// MetricsRecorder receives one usage record per answered request.
type MetricsRecorder interface {
	LogMetric(ctx context.Context, responseTime time.Duration, usedKnowledgeBase bool, profile string) error
}

// Retriever provides knowledge-base context for a query.
type Retriever interface {
	Retrieve(ctx context.Context, query string) (string, error)
}

// Engine wires the pipeline stages together. Each request flows through a
// fresh payload; the engine itself holds no per-request state and is safe
// for concurrent use.
type Engine struct {
	retriever      Retriever
	budget         *budget.Manager
	provider       llm.Provider
	metrics        MetricsRecorder
	defaultUser    string
	defaultProfile string
}

// Option configures an Engine.
type Option func(*Engine)

// WithDefaultUserName sets the user name used when a request omits one.
func WithDefaultUserName(name string) Option {
	return func(e *Engine) {
		if name != "" {
			e.defaultUser = name
		}
	}
}

// WithDefaultProfile sets the expert profile used when a request omits one
// or names an unknown profile. Unknown names are ignored.
func WithDefaultProfile(name string) Option {
	return func(e *Engine) {
		if prompt.IsKnownProfile(name) {
			e.defaultProfile = name
		}
	}
}

// NewEngine creates a chat engine.
func NewEngine(ret Retriever, budgetMgr *budget.Manager, provider llm.Provider, metrics MetricsRecorder, opts ...Option) *Engine {
	e := &Engine{
		retriever:      ret,
		budget:         budgetMgr,
		provider:       provider,
		metrics:        metrics,
		defaultUser:    defaultUserName,
		defaultProfile: prompt.ProfileNames[0],
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Respond answers one question. Retrieval and budget failures degrade
// rather than fail; only generation errors are returned, classified so the
// caller can present quota exhaustion distinctly.
func (e *Engine) Respond(ctx context.Context, req Request) (llm.Result, error) {
	if req.Prompt == "" {
		return llm.Result{}, fmt.Errorf("prompt is required")
	}

	start := time.Now()

	userName := req.UserName
	if userName == "" {
		userName = e.defaultUser
	}
	profileName := req.Profile
	if !prompt.IsKnownProfile(profileName) {
		profileName = e.defaultProfile
	}

	knowledgeContext, err := e.retriever.Retrieve(ctx, req.Prompt)
	if err != nil {
		// Log-and-degrade: an unsearchable knowledge base still leaves
		// the model's general knowledge.
		log.Error().Err(err).Msg("knowledge base retrieval failed, continuing without context")
		knowledgeContext = ""
	}

	payload := prompt.Payload{
		ProfileInstruction: prompt.Instruction(profileName),
		UserName:           userName,
		History:            req.History,
		KnowledgeContext:   knowledgeContext,
		Prompt:             req.Prompt,
	}
	payload = e.budget.Enforce(ctx, payload)

	raw, err := e.provider.Generate(ctx, prompt.Assemble(payload))
	if err != nil {
		return llm.Result{}, err
	}

	result, parsed := llm.ParseResult(raw)
	if !parsed {
		log.Warn().Str("provider", e.provider.Name()).Msg("using degraded plain-text result")
	}

	e.recordMetric(ctx, time.Since(start), knowledgeContext != "", profileName)
	return result, nil
}

func (e *Engine) recordMetric(ctx context.Context, elapsed time.Duration, usedKB bool, profileName string) {
	if e.metrics == nil {
		return
	}
	if err := e.metrics.LogMetric(ctx, elapsed, usedKB, profileName); err != nil {
		log.Error().Err(err).Msg("failed to record usage metric")
	}
}

// ErrorMessage converts a pipeline error into the user-facing message the
// UI renders inline in the chat.
func ErrorMessage(err error) string {
	if llm.IsQuota(err) {
		return "Limite de requisições à API atingido. Tente novamente num minuto."
	}
	return fmt.Sprintf("Erro na API de geração: %v", err)
}
