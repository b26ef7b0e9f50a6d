package llm

import "testing"

func TestCatalogContainsDefault(t *testing.T) {
	m, ok := LookupModel(DefaultModelID)
	if !ok {
		t.Fatalf("default model %q missing from catalog", DefaultModelID)
	}
	if m.Provider != "Anthropic" {
		t.Errorf("unexpected provider %q", m.Provider)
	}
}

func TestCatalogIDsUnique(t *testing.T) {
	seen := make(map[string]bool)
	for _, m := range Models() {
		if seen[m.ID] {
			t.Errorf("duplicate model id %q", m.ID)
		}
		seen[m.ID] = true
	}
	if len(seen) != 14 {
		t.Errorf("expected 14 models, got %d", len(seen))
	}
}

func TestModelsByProvider(t *testing.T) {
	grouped := ModelsByProvider()
	for _, provider := range []string{"Anthropic", "OpenAI", "Google", "Meta", "DeepSeek", "Mistral"} {
		if len(grouped[provider]) == 0 {
			t.Errorf("expected models for %s", provider)
		}
	}
}

func TestModelsReturnsCopy(t *testing.T) {
	models := Models()
	models[0].ID = "changed"
	if _, ok := LookupModel("changed"); ok {
		t.Error("Models must not expose the backing slice")
	}
}
