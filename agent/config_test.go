package agent

import (
	"context"
	"net/http"
	"testing"

	"github.com/richinex/nexus/config"
	"github.com/richinex/nexus/llm"
)

func TestConfigFromSettings(t *testing.T) {
	temp := float32(0.3)
	cfg, err := ConfigFromSettings(config.Settings{
		CompletionProvider: "openrouter",
		OpenRouterAPIKey:   "sk-or-real",
		OpenRouterBaseURL:  "https://openrouter.test/api/v1",
		MaxTokens:          4096,
		Temperature:        &temp,
		DefaultModel:       "openai/gpt-4.1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Provider != llm.ProviderOpenRouter {
		t.Errorf("expected openrouter, got %v", cfg.Provider)
	}
	if cfg.BaseURL != "https://openrouter.test/api/v1" {
		t.Errorf("unexpected base URL %q", cfg.BaseURL)
	}
	if cfg.Temperature == nil || *cfg.Temperature != 0.3 {
		t.Errorf("expected temperature 0.3, got %v", cfg.Temperature)
	}
	if !cfg.HasCredential() {
		t.Error("expected a usable credential")
	}
	if got := cfg.ModelFor(" "); got != "openai/gpt-4.1" {
		t.Errorf("expected configured default model, got %q", got)
	}
}

func TestProviderFactoryTemperature(t *testing.T) {
	t.Cleanup(http.DefaultTransport.(*http.Transport).CloseIdleConnections)

	tests := []struct {
		name        string
		temperature *float32
		want        interface{}
	}{
		{"unset", nil, nil},
		{"configured", func() *float32 { v := float32(0.3); return &v }(), 0.3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			completions := &completionServer{bodies: []string{`{
				"choices": [{"message": {"role": "assistant", "content": "ok"}, "finish_reason": "stop"}]
			}`}}
			srv := completions.start(t)

			factory := NewProviderFactory(Config{
				Provider:    llm.ProviderOpenRouter,
				APIKey:      "sk-or-test",
				BaseURL:     srv.URL + "/api/v1",
				Temperature: tt.temperature,
			})
			provider, err := factory("openai/gpt-4.1")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if _, err := provider.ChatWithTools(context.Background(), []llm.ChatMessage{llm.UserMessage("hi")}, nil); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			http.DefaultTransport.(*http.Transport).CloseIdleConnections()

			if got := completions.requests[0]["temperature"]; got != tt.want {
				t.Errorf("expected temperature %v, got %v", tt.want, got)
			}
		})
	}
}
