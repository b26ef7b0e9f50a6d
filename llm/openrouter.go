// OpenRouter Provider implementation using go-openai library.
//
// Information Hiding:
// - Uses the OpenAI-compatible API with the OpenRouter base URL
// - Attribution headers injected by an http.RoundTripper
// - Upstream status errors normalized to StatusError
// - Error objects sent with a success status surfaced as StatusError

package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	openai "github.com/sashabaranov/go-openai"
)

// DefaultOpenRouterBaseURL is the OpenRouter chat completions endpoint root.
const DefaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"

// OpenRouterOptions carries the optional connection settings.
type OpenRouterOptions struct {
	BaseURL    string
	Referer    string // Sent as HTTP-Referer
	Title      string // Sent as X-Title
	HTTPClient *http.Client
}

// OpenRouterProvider implements the Provider interface for OpenRouter.
type OpenRouterProvider struct {
	client      *openai.Client
	model       string
	maxTokens   int
	temperature float32
}

// NewOpenRouterProvider creates a new OpenRouter provider.
func NewOpenRouterProvider(apiKey, model string, maxTokens uint32, temperature float32, opts OpenRouterOptions) *OpenRouterProvider {
	config := openai.DefaultConfig(apiKey)
	config.BaseURL = DefaultOpenRouterBaseURL
	if opts.BaseURL != "" {
		config.BaseURL = opts.BaseURL
	}

	base := opts.HTTPClient
	if base == nil {
		base = &http.Client{}
	}
	transport := base.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}
	config.HTTPClient = &http.Client{
		Timeout: base.Timeout,
		Transport: &headerTransport{
			base: transport,
			headers: map[string]string{
				"HTTP-Referer": opts.Referer,
				"X-Title":      opts.Title,
			},
		},
	}

	return &OpenRouterProvider{
		client:      openai.NewClientWithConfig(config),
		model:       model,
		maxTokens:   int(maxTokens),
		temperature: temperature,
	}
}

// Name returns the provider name.
func (p *OpenRouterProvider) Name() string {
	return "openrouter"
}

// Model returns the current model.
func (p *OpenRouterProvider) Model() string {
	return p.model
}

// ChatWithTools sends a chat completion request with tool definitions.
func (p *OpenRouterProvider) ChatWithTools(ctx context.Context, messages []ChatMessage, tools []ToolDefinition) (LLMResponse, error) {
	req := openai.ChatCompletionRequest{
		Model:       p.model,
		Messages:    convertToOpenAIMessages(messages),
		MaxTokens:   p.maxTokens,
		Temperature: p.temperature,
	}
	if len(tools) > 0 {
		req.Tools = convertToOpenAITools(tools)
	}

	resp, err := p.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return LLMResponse{}, p.wrapError(err)
	}

	if len(resp.Choices) == 0 {
		return LLMResponse{}, ErrNoChoices
	}
	choice := resp.Choices[0]

	var toolCalls []ToolCall
	for _, tc := range choice.Message.ToolCalls {
		toolCalls = append(toolCalls, ToolCall{
			ID:        tc.ID,
			Name:      tc.Function.Name,
			Arguments: []byte(tc.Function.Arguments),
		})
	}

	usage := &TokenUsage{
		PromptTokens:     uint32(resp.Usage.PromptTokens),
		CompletionTokens: uint32(resp.Usage.CompletionTokens),
		TotalTokens:      uint32(resp.Usage.TotalTokens),
	}

	return LLMResponse{
		Content:      choice.Message.Content,
		ToolCalls:    toolCalls,
		FinishReason: string(choice.FinishReason),
		Finished:     choice.FinishReason == openai.FinishReasonStop,
		Usage:        usage,
	}, nil
}

// wrapError maps go-openai errors onto StatusError where a status is known.
func (p *OpenRouterProvider) wrapError(err error) error {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &StatusError{
			Provider:   "OpenRouter",
			StatusCode: apiErr.HTTPStatusCode,
			Body:       apiErr.Message,
			Err:        err,
		}
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		body := reqErr.HTTPStatus
		if reqErr.Err != nil {
			body = reqErr.Err.Error()
		}
		return &StatusError{
			Provider:   "OpenRouter",
			StatusCode: reqErr.HTTPStatusCode,
			Body:       body,
			Err:        err,
		}
	}

	return fmt.Errorf("OpenRouter request failed: %w", err)
}

// convertToOpenAIMessages handles tool calls and tool responses.
func convertToOpenAIMessages(messages []ChatMessage) []openai.ChatCompletionMessage {
	result := make([]openai.ChatCompletionMessage, len(messages))
	for i, msg := range messages {
		oaiMsg := openai.ChatCompletionMessage{
			Role:       msg.Role,
			Content:    msg.Content,
			ToolCallID: msg.ToolCallID,
		}

		for _, tc := range msg.ToolCalls {
			oaiMsg.ToolCalls = append(oaiMsg.ToolCalls, openai.ToolCall{
				ID:   tc.ID,
				Type: openai.ToolTypeFunction,
				Function: openai.FunctionCall{
					Name:      tc.Name,
					Arguments: string(tc.Arguments),
				},
			})
		}

		result[i] = oaiMsg
	}
	return result
}

// convertToOpenAITools converts tool definitions to OpenAI format.
func convertToOpenAITools(tools []ToolDefinition) []openai.Tool {
	result := make([]openai.Tool, len(tools))
	for i, t := range tools {
		result[i] = openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        t.Name,
				Description: t.Description,
				Parameters:  t.Parameters,
			},
		}
	}
	return result
}

// headerTransport adds fixed headers to every outgoing request.
type headerTransport struct {
	base    http.RoundTripper
	headers map[string]string
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	for k, v := range t.headers {
		if v != "" {
			req.Header.Set(k, v)
		}
	}

	resp, err := t.base.RoundTrip(req)
	if err != nil || resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp, err
	}
	return embeddedError(resp)
}

// upstreamError is the error object OpenRouter may return in place of a
// completion, sometimes with a 200 status.
type upstreamError struct {
	Message string          `json:"message"`
	Code    json.RawMessage `json:"code"`
}

// embeddedError turns a success response whose body carries a top-level
// error object into a StatusError. Other responses pass through unchanged.
func embeddedError(resp *http.Response) (*http.Response, error) {
	raw, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	resp.Body = io.NopCloser(bytes.NewReader(raw))

	var envelope struct {
		Error *upstreamError `json:"error"`
	}
	if json.Unmarshal(raw, &envelope) != nil || envelope.Error == nil {
		return resp, nil
	}

	status := resp.StatusCode
	var code int
	if json.Unmarshal(envelope.Error.Code, &code) == nil && code > 0 {
		status = code
	}
	msg := envelope.Error.Message
	if msg == "" {
		msg = string(bytes.TrimSpace(raw))
	}
	return nil, &StatusError{Provider: "OpenRouter", StatusCode: status, Body: msg}
}

// Verify OpenRouterProvider implements Provider
var _ Provider = (*OpenRouterProvider)(nil)
