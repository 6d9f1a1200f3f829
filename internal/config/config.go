// Package config loads, validates and persists the .techexpert.yml
// configuration file.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"

	"github.com/jmcampos/techexpert/internal/prompt"
)

// DefaultPath is the config file looked up in the working directory.
const DefaultPath = ".techexpert.yml"

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (TECHEXPERT_*).
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Start from defaults.
	cfg := DefaultConfig()

	// Load YAML file if it exists.
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	// Overlay environment variables: TECHEXPERT_PROVIDER -> provider, etc.
	if err := k.Load(env.Provider("TECHEXPERT_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "TECHEXPERT_"))
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// validProviders is the set of recognized provider values.
var validProviders = map[ProviderType]bool{
	ProviderGemini: true,
	ProviderOpenAI: true,
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.Provider == "" {
		return fmt.Errorf("provider is required")
	}
	if !validProviders[c.Provider] {
		return fmt.Errorf("invalid provider %q: must be one of gemini, openai", c.Provider)
	}

	if c.Model == "" {
		return fmt.Errorf("model is required")
	}

	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535")
	}

	if c.DataDir == "" {
		return fmt.Errorf("data_dir is required")
	}

	if c.DefaultProfile != "" && !prompt.IsKnownProfile(c.DefaultProfile) {
		return fmt.Errorf("invalid default_profile %q: must be one of %s",
			c.DefaultProfile, strings.Join(prompt.ProfileNames, ", "))
	}

	if c.MaxTokens < 0 {
		return fmt.Errorf("max_tokens must be non-negative")
	}

	if c.RPM < 0 {
		return fmt.Errorf("rpm must be non-negative")
	}

	return nil
}

// EnsureDataDir creates the data directory if it does not exist.
func (c *Config) EnsureDataDir() error {
	if err := os.MkdirAll(c.DataDir, 0755); err != nil {
		return fmt.Errorf("creating data dir %s: %w", c.DataDir, err)
	}
	return nil
}
