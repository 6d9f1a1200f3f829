package config

// ProviderType identifies a generation provider.
type ProviderType string

const (
	ProviderGemini ProviderType = "gemini"
	ProviderOpenAI ProviderType = "openai"
)

// Config is the top-level techexpert configuration, corresponding to
// .techexpert.yml.
type Config struct {
	Provider       ProviderType `yaml:"provider" koanf:"provider"`
	Model          string       `yaml:"model" koanf:"model"`
	Port           int          `yaml:"port" koanf:"port"`
	DataDir        string       `yaml:"data_dir" koanf:"data_dir"`
	UserName       string       `yaml:"user_name" koanf:"user_name"`
	DefaultProfile string       `yaml:"default_profile" koanf:"default_profile"`
	MaxTokens      int          `yaml:"max_tokens" koanf:"max_tokens"`
	RPM            int          `yaml:"rpm" koanf:"rpm"`
	AllowAll       bool         `yaml:"allow_all_origins" koanf:"allow_all_origins"`
	Ingest         IngestConfig `yaml:"ingest" koanf:"ingest"`
}

// IngestConfig holds batch ingestion settings.
type IngestConfig struct {
	Include []string `yaml:"include" koanf:"include"`
	Exclude []string `yaml:"exclude" koanf:"exclude"`
}
