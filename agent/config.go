// Orchestrator configuration.
//
// Information Hiding:
// - Provider construction from credentials hidden behind ProviderFactory
// - Default values hidden

package agent

import (
	"strings"

	"github.com/richinex/nexus/config"
	"github.com/richinex/nexus/llm"
)

// MaxIterations bounds the completion round-trips of one session.
const MaxIterations = 15

// eventBuffer is the capacity of the session event channel.
const eventBuffer = 16

// Config is the immutable completion-service configuration shared by
// every session.
type Config struct {
	Provider     llm.ProviderType
	APIKey       string
	BaseURL      string
	MaxTokens    uint32
	Temperature  *float32
	DefaultModel string
	AppURL       string
	AppTitle     string
}

// ConfigFromSettings derives the orchestrator configuration.
func ConfigFromSettings(s config.Settings) (Config, error) {
	provider, err := s.Provider()
	if err != nil {
		return Config{}, err
	}
	key, _ := s.CompletionCredential()
	cfg := Config{
		Provider:     provider,
		APIKey:       key,
		MaxTokens:    s.MaxTokens,
		Temperature:  s.Temperature,
		DefaultModel: s.DefaultModel,
		AppURL:       s.AppURL,
		AppTitle:     s.AppTitle,
	}
	if provider == llm.ProviderOpenRouter {
		cfg.BaseURL = s.OpenRouterBaseURL
	}
	return cfg, nil
}

// HasCredential reports whether a usable API key is configured.
func (c Config) HasCredential() bool {
	return !config.IsPlaceholder(c.APIKey)
}

// ModelFor resolves the model for a request.
func (c Config) ModelFor(requested string) string {
	if m := strings.TrimSpace(requested); m != "" {
		return m
	}
	if c.DefaultModel != "" {
		return c.DefaultModel
	}
	return llm.DefaultModelID
}

// ProviderFactory creates the completion provider for one session.
type ProviderFactory func(model string) (llm.Provider, error)

// NewProviderFactory builds providers from the configuration.
func NewProviderFactory(cfg Config) ProviderFactory {
	return func(model string) (llm.Provider, error) {
		builder := llm.NewProviderBuilder(cfg.Provider).
			Model(model).
			MaxTokens(cfg.MaxTokens).
			Attribution(cfg.AppURL, cfg.AppTitle)
		if cfg.BaseURL != "" {
			builder = builder.BaseURL(cfg.BaseURL)
		}
		if cfg.Temperature != nil {
			builder = builder.Temperature(*cfg.Temperature)
		}
		return builder.APIKey(cfg.APIKey)
	}
}
