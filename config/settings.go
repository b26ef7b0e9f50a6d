// Package config provides application settings loaded from the environment.
//
// Settings are created via Load() which handles:
// - .env.local and .env loading
// - Environment variable parsing with defaults
// - Placeholder credential detection

package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/richinex/nexus/llm"
)

// EnvFiles are loaded in order; earlier files win because godotenv never
// overrides a variable that is already set.
var EnvFiles = []string{".env.local", ".env"}

// Settings holds all application configuration. It is a value: pass it
// down, never mutate it after Load.
type Settings struct {
	// Completion service
	CompletionProvider string `envconfig:"COMPLETION_PROVIDER" default:"openrouter"`
	OpenRouterAPIKey   string `envconfig:"OPENROUTER_API_KEY"`
	OpenRouterBaseURL  string `envconfig:"OPENROUTER_BASE_URL" default:"https://openrouter.ai/api/v1"`
	AnthropicAPIKey    string `envconfig:"ANTHROPIC_API_KEY"`
	GeminiAPIKey       string `envconfig:"GEMINI_API_KEY"`
	MaxTokens          uint32 `envconfig:"LLM_MAX_TOKENS" default:"8192"`
	DefaultModel       string `envconfig:"DEFAULT_MODEL" default:"anthropic/claude-sonnet-4.6"`
	AppURL             string `envconfig:"APP_URL" default:"http://localhost:3000"`
	AppTitle           string `envconfig:"APP_TITLE" default:"Nexus Content Engine"`

	// Nil leaves the sampling temperature to the service.
	Temperature *float32 `envconfig:"LLM_TEMPERATURE"`

	// Retrieval tools
	FirecrawlAPIKey  string `envconfig:"FIRECRAWL_API_KEY"`
	FirecrawlBaseURL string `envconfig:"FIRECRAWL_BASE_URL" default:"https://api.firecrawl.dev"`
	ToolTimeoutSecs  uint64 `envconfig:"TOOL_TIMEOUT_SECS" default:"60"`

	// Storage
	DataDir      string `envconfig:"DATA_DIR" default:"data"`
	StoreDriver  string `envconfig:"STORE_DRIVER" default:"filesystem"`
	SqlitePath   string `envconfig:"SQLITE_PATH" default:"data/nexus.db"`
	FeaturesFile string `envconfig:"FEATURES_FILE"`

	// Server
	ServerAddr       string `envconfig:"SERVER_ADDR" default:":8080"`
	SSEHeartbeatSecs int    `envconfig:"SSE_HEARTBEAT_SECS" default:"0"`

	// Observability
	LogLevel       string `envconfig:"LOG_LEVEL" default:"info"`
	LogPretty      bool   `envconfig:"LOG_PRETTY" default:"false"`
	MetricsEnabled bool   `envconfig:"METRICS_ENABLED" default:"true"`
}

// Load reads .env files if present, then the environment.
func Load() (Settings, error) {
	for _, file := range EnvFiles {
		// Missing files are fine.
		_ = godotenv.Load(file)
	}
	return LoadFromEnv()
}

// LoadFromEnv reads settings from the environment only.
func LoadFromEnv() (Settings, error) {
	var s Settings
	if err := envconfig.Process("", &s); err != nil {
		return Settings{}, fmt.Errorf("failed to load config: %w", err)
	}
	if _, err := s.Provider(); err != nil {
		return Settings{}, fmt.Errorf("invalid COMPLETION_PROVIDER: %w", err)
	}
	if s.MaxTokens == 0 {
		s.MaxTokens = llm.DefaultMaxTokens
	}
	return s, nil
}

// Provider returns the configured completion service.
func (s Settings) Provider() (llm.ProviderType, error) {
	return llm.ParseProviderType(s.CompletionProvider)
}

// CompletionCredential returns the API key of the configured completion
// service and the variable it comes from. The key is empty when the
// variable is unset or still holds a placeholder.
func (s Settings) CompletionCredential() (key, envVar string) {
	provider, err := s.Provider()
	if err != nil {
		provider = llm.ProviderOpenRouter
	}

	switch provider {
	case llm.ProviderAnthropic:
		key = s.AnthropicAPIKey
	case llm.ProviderGemini:
		key = s.GeminiAPIKey
	default:
		key = s.OpenRouterAPIKey
	}
	return Credential(key), provider.EnvVar()
}

// FirecrawlCredential returns the Firecrawl key, empty when unusable.
func (s Settings) FirecrawlCredential() string {
	return Credential(s.FirecrawlAPIKey)
}

// ToolTimeout returns the per-call tool timeout.
func (s Settings) ToolTimeout() time.Duration {
	if s.ToolTimeoutSecs == 0 {
		return 60 * time.Second
	}
	return time.Duration(s.ToolTimeoutSecs) * time.Second
}

// SSEHeartbeat returns the idle heartbeat interval, zero when disabled.
func (s Settings) SSEHeartbeat() time.Duration {
	if s.SSEHeartbeatSecs <= 0 {
		return 0
	}
	return time.Duration(s.SSEHeartbeatSecs) * time.Second
}

// Credential returns value trimmed, or "" when it is blank or a template
// placeholder such as "your-api-key-here".
func Credential(value string) string {
	value = strings.TrimSpace(value)
	if IsPlaceholder(value) {
		return ""
	}
	return value
}

// IsPlaceholder reports whether a credential was copied unchanged from
// an example env file.
func IsPlaceholder(value string) bool {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return true
	}
	if strings.HasPrefix(v, "your-") || strings.HasPrefix(v, "your_") {
		return true
	}
	return strings.HasPrefix(v, "<") && strings.HasSuffix(v, ">")
}
