// LLM Provider Factory - builder API for creating LLM providers.
//
// Quick Start:
//
//	// Routed model through OpenRouter
//	provider, err := llm.ProviderOpenRouter.
//	    Model("anthropic/claude-sonnet-4.6").
//	    MaxTokens(8192).
//	    Attribution("https://example.com", "Nexus").
//	    APIKey(key)
//
//	// Direct Anthropic access, routed prefix is stripped
//	claude, err := llm.ProviderAnthropic.Model("anthropic/claude-sonnet-4-5").APIKey(key)

package llm

import (
	"fmt"
	"net/http"
	"strings"
)

// ProviderType represents supported completion services.
type ProviderType int

const (
	// ProviderOpenRouter routes every catalog model through OpenRouter.
	ProviderOpenRouter ProviderType = iota
	// ProviderAnthropic is the Anthropic provider (Claude models).
	ProviderAnthropic
	// ProviderGemini is the Google Gemini provider.
	ProviderGemini
)

// DefaultMaxTokens is the response-size cap sent with every completion.
const DefaultMaxTokens = 8192

// String returns the string representation of the provider type.
func (p ProviderType) String() string {
	switch p {
	case ProviderOpenRouter:
		return "openrouter"
	case ProviderAnthropic:
		return "anthropic"
	case ProviderGemini:
		return "gemini"
	default:
		return "unknown"
	}
}

// EnvVar returns the environment variable name for this provider's API key.
func (p ProviderType) EnvVar() string {
	switch p {
	case ProviderOpenRouter:
		return "OPENROUTER_API_KEY"
	case ProviderAnthropic:
		return "ANTHROPIC_API_KEY"
	case ProviderGemini:
		return "GEMINI_API_KEY"
	default:
		return ""
	}
}

// ParseProviderType parses a provider from string (case-insensitive).
func ParseProviderType(s string) (ProviderType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "openrouter":
		return ProviderOpenRouter, nil
	case "anthropic", "claude":
		return ProviderAnthropic, nil
	case "gemini", "google":
		return ProviderGemini, nil
	default:
		return 0, fmt.Errorf("unknown provider: %s", s)
	}
}

// Model starts configuring this provider with a specific model.
func (p ProviderType) Model(model string) *ProviderBuilder {
	return NewProviderBuilder(p).Model(model)
}

// ProviderBuilder is a builder for configuring LLM providers.
type ProviderBuilder struct {
	providerType ProviderType
	model        string
	maxTokens    uint32
	temperature  *float32
	baseURL      string
	referer      string
	title        string
	httpClient   *http.Client
}

// NewProviderBuilder creates a new builder for the given provider.
func NewProviderBuilder(providerType ProviderType) *ProviderBuilder {
	return &ProviderBuilder{
		providerType: providerType,
	}
}

// Model sets the model to use.
func (b *ProviderBuilder) Model(model string) *ProviderBuilder {
	b.model = model
	return b
}

// MaxTokens sets maximum tokens for responses.
func (b *ProviderBuilder) MaxTokens(tokens uint32) *ProviderBuilder {
	b.maxTokens = tokens
	return b
}

// Temperature sets temperature. Unset means the service default.
func (b *ProviderBuilder) Temperature(temp float32) *ProviderBuilder {
	b.temperature = &temp
	return b
}

// BaseURL overrides the service endpoint (OpenRouter only).
func (b *ProviderBuilder) BaseURL(url string) *ProviderBuilder {
	b.baseURL = url
	return b
}

// Attribution sets the HTTP-Referer and X-Title headers (OpenRouter only).
func (b *ProviderBuilder) Attribution(referer, title string) *ProviderBuilder {
	b.referer = referer
	b.title = title
	return b
}

// HTTPClient sets the client used for requests (OpenRouter only).
func (b *ProviderBuilder) HTTPClient(client *http.Client) *ProviderBuilder {
	b.httpClient = client
	return b
}

// APIKey builds the provider with an explicit API key.
func (b *ProviderBuilder) APIKey(key string) (Provider, error) {
	return b.build(key)
}

func (b *ProviderBuilder) build(apiKey string) (Provider, error) {
	model := b.model
	if model == "" {
		model = DefaultModelID
	}

	maxTokens := b.maxTokens
	if maxTokens == 0 {
		maxTokens = DefaultMaxTokens
	}

	switch b.providerType {
	case ProviderOpenRouter:
		var temperature float32
		if b.temperature != nil {
			temperature = *b.temperature
		}
		return NewOpenRouterProvider(apiKey, model, maxTokens, temperature, OpenRouterOptions{
			BaseURL:    b.baseURL,
			Referer:    b.referer,
			Title:      b.title,
			HTTPClient: b.httpClient,
		}), nil
	case ProviderAnthropic:
		return NewAnthropicProvider(apiKey, model, maxTokens, b.temperature), nil
	case ProviderGemini:
		return NewGeminiProvider(apiKey, model, maxTokens, b.temperature), nil
	default:
		return nil, fmt.Errorf("unknown provider type: %v", b.providerType)
	}
}
