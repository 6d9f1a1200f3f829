package cmd

import (
	"context"
	"fmt"

	"github.com/jmcampos/techexpert/internal/apikey"
	"github.com/jmcampos/techexpert/internal/config"
	"github.com/jmcampos/techexpert/internal/llm"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `techexpert init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// createProviderFromConfig resolves the API key and builds the generation
// provider, wrapped with quota-aware retry and, when rpm is set, a rate
// limiter.
func createProviderFromConfig(ctx context.Context, cfg *config.Config) (llm.Provider, error) {
	key, err := apikey.Get(string(cfg.Provider))
	if err != nil {
		return nil, err
	}

	provider, err := llm.NewProvider(ctx, string(cfg.Provider), cfg.Model, key)
	if err != nil {
		return nil, err
	}
	return wrapProvider(provider, cfg.RPM), nil
}

// wrapProvider layers the resilience decorators over a raw provider. The
// rate limiter sits outermost so request bursts are smoothed before the
// retry loop ever sees a quota error.
func wrapProvider(provider llm.Provider, rpm int) llm.Provider {
	wrapped := llm.Provider(llm.NewRetryingProvider(provider))
	if rpm > 0 {
		wrapped = llm.NewRateLimitedProvider(wrapped, rpm)
	}
	return wrapped
}
