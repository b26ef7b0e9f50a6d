// Package llm provides LLM provider abstractions.
//
// LLM Provider interface - the abstract interface for LLM providers.
// Each provider implementation hides:
// - API client initialization and authentication
// - Request/response format conversion
// - Provider-specific error handling

package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Provider defines the normalized chat-completion contract.
// Implementations hide provider-specific details while exposing
// a consistent interface for tool-calling completions.
type Provider interface {
	// Name returns the provider name (for logging/debugging).
	Name() string

	// Model returns the current model being used.
	Model() string

	// ChatWithTools sends a chat completion request with tool definitions.
	// The LLM may respond with tool calls in LLMResponse.ToolCalls.
	// An empty tool list is omitted from the request.
	ChatWithTools(ctx context.Context, messages []ChatMessage, tools []ToolDefinition) (LLMResponse, error)
}

// ErrNoChoices is returned when the upstream response carries no candidate.
var ErrNoChoices = errors.New("no response from model")

// StatusError reports a non-success status from the completion service.
type StatusError struct {
	Provider   string
	StatusCode int
	Body       string
	Err        error
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s API error (%d): %s", e.Provider, e.StatusCode, e.Body)
}

func (e *StatusError) Unwrap() error {
	return e.Err
}

// nativeModel strips the "vendor/" prefix used by routed model identifiers
// so that direct providers receive their own model names.
func nativeModel(model string) string {
	if i := strings.Index(model, "/"); i >= 0 {
		return model[i+1:]
	}
	return model
}
