package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/richinex/nexus/llm"
)

// clearEnv unsets the variables a test depends on and restores them after.
func clearEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, key := range keys {
		original, had := os.LookupEnv(key)
		os.Unsetenv(key)
		t.Cleanup(func() {
			if had {
				os.Setenv(key, original)
			} else {
				os.Unsetenv(key)
			}
		})
	}
}

var settingKeys = []string{
	"COMPLETION_PROVIDER", "OPENROUTER_API_KEY", "ANTHROPIC_API_KEY", "GEMINI_API_KEY",
	"LLM_MAX_TOKENS", "LLM_TEMPERATURE", "DEFAULT_MODEL", "FIRECRAWL_API_KEY", "TOOL_TIMEOUT_SECS",
	"STORE_DRIVER", "SSE_HEARTBEAT_SECS", "LOG_LEVEL",
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t, settingKeys...)

	s, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.CompletionProvider != "openrouter" {
		t.Errorf("expected provider 'openrouter', got %q", s.CompletionProvider)
	}
	if s.MaxTokens != 8192 {
		t.Errorf("expected 8192 max tokens, got %d", s.MaxTokens)
	}
	if s.DefaultModel != llm.DefaultModelID {
		t.Errorf("expected default model %q, got %q", llm.DefaultModelID, s.DefaultModel)
	}
	if s.StoreDriver != "filesystem" {
		t.Errorf("expected filesystem store, got %q", s.StoreDriver)
	}
	if s.ToolTimeout() != 60*time.Second {
		t.Errorf("expected 60s tool timeout, got %v", s.ToolTimeout())
	}
	if s.SSEHeartbeat() != 0 {
		t.Errorf("expected heartbeat disabled, got %v", s.SSEHeartbeat())
	}
	if s.Temperature != nil {
		t.Errorf("expected no temperature, got %v", *s.Temperature)
	}
}

func TestLoadTemperature(t *testing.T) {
	clearEnv(t, settingKeys...)
	os.Setenv("LLM_TEMPERATURE", "0.3")

	s, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Temperature == nil || *s.Temperature != 0.3 {
		t.Errorf("expected temperature 0.3, got %v", s.Temperature)
	}

	os.Setenv("LLM_TEMPERATURE", "warm")
	if _, err := LoadFromEnv(); err == nil {
		t.Error("expected error for invalid LLM_TEMPERATURE")
	}
}

func TestLoadInvalidValues(t *testing.T) {
	clearEnv(t, settingKeys...)

	os.Setenv("LLM_MAX_TOKENS", "lots")
	if _, err := LoadFromEnv(); err == nil {
		t.Error("expected error for invalid LLM_MAX_TOKENS")
	}
	os.Unsetenv("LLM_MAX_TOKENS")

	os.Setenv("COMPLETION_PROVIDER", "mystery")
	if _, err := LoadFromEnv(); err == nil {
		t.Error("expected error for unknown provider")
	}
}

func TestCompletionCredential(t *testing.T) {
	tests := []struct {
		name     string
		settings Settings
		wantKey  string
		wantVar  string
	}{
		{"openrouter", Settings{CompletionProvider: "openrouter", OpenRouterAPIKey: "sk-or-123"}, "sk-or-123", "OPENROUTER_API_KEY"},
		{"default provider", Settings{OpenRouterAPIKey: " sk-or-456 "}, "sk-or-456", "OPENROUTER_API_KEY"},
		{"missing", Settings{CompletionProvider: "openrouter"}, "", "OPENROUTER_API_KEY"},
		{"placeholder", Settings{OpenRouterAPIKey: "your-openrouter-api-key-here"}, "", "OPENROUTER_API_KEY"},
		{"anthropic", Settings{CompletionProvider: "anthropic", AnthropicAPIKey: "sk-ant", OpenRouterAPIKey: "sk-or"}, "sk-ant", "ANTHROPIC_API_KEY"},
		{"gemini alias", Settings{CompletionProvider: "google", GeminiAPIKey: "g-key"}, "g-key", "GEMINI_API_KEY"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, envVar := tt.settings.CompletionCredential()
			if key != tt.wantKey {
				t.Errorf("expected key %q, got %q", tt.wantKey, key)
			}
			if envVar != tt.wantVar {
				t.Errorf("expected var %q, got %q", tt.wantVar, envVar)
			}
		})
	}
}

func TestIsPlaceholder(t *testing.T) {
	tests := map[string]bool{
		"":                            true,
		"   ":                         true,
		"your-firecrawl-api-key-here": true,
		"YOUR_API_KEY":                true,
		"<api-key>":                   true,
		"fc-abc123":                   false,
		"sk-or-v1-xyz":                false,
	}
	for value, want := range tests {
		if got := IsPlaceholder(value); got != want {
			t.Errorf("IsPlaceholder(%q) = %v, want %v", value, got, want)
		}
	}
}

func TestLoadReadsEnvFiles(t *testing.T) {
	clearEnv(t, settingKeys...)

	dir := t.TempDir()
	local := filepath.Join(dir, ".env.local")
	shared := filepath.Join(dir, ".env")
	if err := os.WriteFile(local, []byte("OPENROUTER_API_KEY=from-local\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(shared, []byte("OPENROUTER_API_KEY=from-shared\nDEFAULT_MODEL=openai/gpt-4.1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	clearEnv(t, "DEFAULT_MODEL")

	saved := EnvFiles
	EnvFiles = []string{local, shared}
	t.Cleanup(func() { EnvFiles = saved })

	s, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	key, _ := s.CompletionCredential()
	if key != "from-local" {
		t.Errorf("expected .env.local to win, got %q", key)
	}
	if s.DefaultModel != "openai/gpt-4.1" {
		t.Errorf("expected model from .env, got %q", s.DefaultModel)
	}
}
