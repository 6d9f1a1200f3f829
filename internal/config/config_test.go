package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	require.NoError(t, err)
	assert.Equal(t, ProviderGemini, cfg.Provider)
	assert.Equal(t, "gemini-1.5-flash", cfg.Model)
	assert.Equal(t, 5000, cfg.Port)
}

func TestLoadFromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".techexpert.yml")
	yaml := `provider: openai
model: gpt-4o
port: 9000
rpm: 30
user_name: Marta
default_profile: "SysAdmin Linux"
ingest:
  include:
    - "docs/**"
  exclude:
    - "*.draft.txt"
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ProviderOpenAI, cfg.Provider)
	assert.Equal(t, "gpt-4o", cfg.Model)
	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, 30, cfg.RPM)
	assert.Equal(t, "Marta", cfg.UserName)
	assert.Equal(t, "SysAdmin Linux", cfg.DefaultProfile)
	assert.Equal(t, []string{"docs/**"}, cfg.Ingest.Include)
	assert.Equal(t, []string{"*.draft.txt"}, cfg.Ingest.Exclude)
	require.NoError(t, cfg.Validate())
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".techexpert.yml")
	require.NoError(t, os.WriteFile(path, []byte("model: gemini-1.5-pro\n"), 0o644))
	t.Setenv("TECHEXPERT_MODEL", "gemini-2.0-flash")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "gemini-2.0-flash", cfg.Model)
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown provider", func(c *Config) { c.Provider = "mistral" }},
		{"empty model", func(c *Config) { c.Model = "" }},
		{"bad port", func(c *Config) { c.Port = 70000 }},
		{"empty data dir", func(c *Config) { c.DataDir = "" }},
		{"unknown profile", func(c *Config) { c.DefaultProfile = "Astronauta" }},
		{"negative max tokens", func(c *Config) { c.MaxTokens = -1 }},
		{"negative rpm", func(c *Config) { c.RPM = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestSaveLoadRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".techexpert.yml")

	cfg := DefaultConfig()
	cfg.Provider = ProviderOpenAI
	cfg.Model = "gpt-4o-mini"
	cfg.UserName = "Nuno"
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.Provider, loaded.Provider)
	assert.Equal(t, cfg.Model, loaded.Model)
	assert.Equal(t, cfg.UserName, loaded.UserName)
}

func TestDataPaths(t *testing.T) {
	cfg := &Config{DataDir: "/tmp/te"}
	assert.Equal(t, filepath.Join("/tmp/te", "knowledge_base.db"), cfg.DatabasePath())
	assert.Equal(t, filepath.Join("/tmp/te", "chat_history.json"), cfg.HistoryPath())
}
