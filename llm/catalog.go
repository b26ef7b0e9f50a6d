package llm

// Tier ranks catalog models by cost and capability.
type Tier string

const (
	TierFast        Tier = "fast"
	TierRecommended Tier = "recommended"
	TierPremium     Tier = "premium"
)

// ModelOption is a selectable model in the catalog.
type ModelOption struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Provider    string `json:"provider"`
	Tier        Tier   `json:"tier"`
	Description string `json:"description"`
}

// DefaultModelID is used when a request names no model.
const DefaultModelID = "anthropic/claude-sonnet-4.6"

var catalog = []ModelOption{
	{ID: "anthropic/claude-sonnet-4.6", Name: "Claude Sonnet 4.6", Provider: "Anthropic", Tier: TierPremium, Description: "Anthropic's latest and most capable Sonnet-class model"},
	{ID: "anthropic/claude-sonnet-4", Name: "Claude Sonnet 4", Provider: "Anthropic", Tier: TierRecommended, Description: "Great balance of speed, quality, and cost for content writing"},
	{ID: "anthropic/claude-haiku-4.5", Name: "Claude Haiku 4.5", Provider: "Anthropic", Tier: TierFast, Description: "Fastest Anthropic model for quick drafts and iteration"},
	{ID: "openai/gpt-5.2", Name: "GPT-5.2", Provider: "OpenAI", Tier: TierPremium, Description: "OpenAI's latest frontier model with enhanced reasoning"},
	{ID: "openai/gpt-4.1", Name: "GPT-4.1", Provider: "OpenAI", Tier: TierRecommended, Description: "Strong all-rounder for content generation tasks"},
	{ID: "openai/gpt-4o-mini", Name: "GPT-4o Mini", Provider: "OpenAI", Tier: TierFast, Description: "Compact and fast OpenAI model for lightweight tasks"},
	{ID: "google/gemini-3-pro-preview", Name: "Gemini 3 Pro", Provider: "Google", Tier: TierPremium, Description: "Google's flagship model for high-precision reasoning"},
	{ID: "google/gemini-3.1-pro-preview", Name: "Gemini 3.1 Pro Preview", Provider: "Google", Tier: TierRecommended, Description: "Latest Gemini with enhanced reasoning for longform content"},
	{ID: "google/gemini-3-flash-preview", Name: "Gemini 3 Flash", Provider: "Google", Tier: TierFast, Description: "High-speed Google model for agentic workflows"},
	{ID: "meta-llama/llama-4-maverick", Name: "Llama 4 Maverick", Provider: "Meta", Tier: TierRecommended, Description: "Meta's strong open-weight model for creative content"},
	{ID: "meta-llama/llama-4-scout", Name: "Llama 4 Scout", Provider: "Meta", Tier: TierFast, Description: "Fast and capable open model for drafting"},
	{ID: "deepseek/deepseek-r1", Name: "DeepSeek R1", Provider: "DeepSeek", Tier: TierRecommended, Description: "Strong reasoning model for analytical content"},
	{ID: "deepseek/deepseek-chat", Name: "DeepSeek V3", Provider: "DeepSeek", Tier: TierFast, Description: "Fast and cost-effective general-purpose model"},
	{ID: "mistralai/mistral-large-2512", Name: "Mistral Large 3", Provider: "Mistral", Tier: TierRecommended, Description: "Mistral's flagship for multilingual content generation"},
}

// Models returns a copy of the model catalog in display order.
func Models() []ModelOption {
	out := make([]ModelOption, len(catalog))
	copy(out, catalog)
	return out
}

// LookupModel returns the catalog entry for id.
func LookupModel(id string) (ModelOption, bool) {
	for _, m := range catalog {
		if m.ID == id {
			return m, true
		}
	}
	return ModelOption{}, false
}

// ModelsByProvider groups the catalog by provider, preserving order.
func ModelsByProvider() map[string][]ModelOption {
	grouped := make(map[string][]ModelOption)
	for _, m := range catalog {
		grouped[m.Provider] = append(grouped[m.Provider], m)
	}
	return grouped
}
