package config

import (
	"os"
	"path/filepath"

	"github.com/jmcampos/techexpert/internal/prompt"
)

// defaultModels maps each provider to its default model.
var defaultModels = map[ProviderType]string{
	ProviderGemini: "gemini-1.5-flash",
	ProviderOpenAI: "gpt-4o-mini",
}

// DefaultDataDir resolves the per-user data directory. Falls back to a
// relative directory when the home directory cannot be determined.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".techexpert"
	}
	return filepath.Join(home, ".techexpert")
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Provider:       ProviderGemini,
		Model:          defaultModels[ProviderGemini],
		Port:           5000,
		DataDir:        DefaultDataDir(),
		UserName:       "Utilizador",
		DefaultProfile: prompt.ProfileNames[0],
		MaxTokens:      0, // 0 means the built-in limit
	}
}

// DefaultModel returns the default model for a provider.
func DefaultModel(provider ProviderType) string {
	if m, ok := defaultModels[provider]; ok {
		return m
	}
	return defaultModels[ProviderGemini]
}

// DatabasePath returns the SQLite file inside the data directory.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.DataDir, "knowledge_base.db")
}

// HistoryPath returns the chat history file inside the data directory.
func (c *Config) HistoryPath() string {
	return filepath.Join(c.DataDir, "chat_history.json")
}
