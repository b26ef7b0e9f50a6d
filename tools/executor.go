// Tool Executor.
//
// Information Hiding:
// - Name-based dispatch over the static registry
// - Per-call timeout
// - Normalization of every failure into a JSON payload

package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/richinex/nexus/internal/observability"
	"github.com/richinex/nexus/llm"
)

// Executor dispatches tool calls by name. Execute never fails: unknown
// tools and execution errors come back as JSON error payloads so callers
// can feed every outcome to the model the same way.
type Executor struct {
	registry *Registry
	config   ToolConfig
	logger   zerolog.Logger
}

// NewExecutor creates a new tool executor over the given registry.
func NewExecutor(registry *Registry, config ToolConfig) *Executor {
	return &Executor{
		registry: registry,
		config:   config,
		logger:   zerolog.Nop(),
	}
}

// WithLogger sets the logger used for tool call diagnostics.
func (e *Executor) WithLogger(logger zerolog.Logger) *Executor {
	e.logger = logger
	return e
}

// Definitions returns the definitions for the named tools.
func (e *Executor) Definitions(names []string) []llm.ToolDefinition {
	return e.registry.Definitions(names)
}

// Execute runs the named tool once and returns its result text.
func (e *Executor) Execute(ctx context.Context, name string, args map[string]interface{}) string {
	tool, ok := e.registry.Get(name)
	if !ok {
		observability.RecordToolCall(name, "unknown", 0)
		e.logger.Warn().Str("tool", name).Msg("model requested unknown tool")
		return errorPayload(map[string]interface{}{"error": "Unknown tool: " + name})
	}

	if args == nil {
		args = map[string]interface{}{}
	}
	raw, err := json.Marshal(args)
	if err != nil {
		return executionFailed(name, err)
	}

	ctx, cancel := context.WithTimeout(ctx, e.config.Timeout())
	defer cancel()

	start := time.Now()
	result, err := ExecuteOnce(ctx, tool, raw)
	elapsed := time.Since(start)

	if err == nil && result.Error != nil {
		err = result.Error
	}
	if err != nil {
		observability.RecordToolCall(name, "error", elapsed)
		e.logger.Warn().Err(err).Str("tool", name).Dur("elapsed", elapsed).Msg("tool execution failed")
		return executionFailed(name, err)
	}

	observability.RecordToolCall(name, "ok", elapsed)
	e.logger.Debug().Str("tool", name).Dur("elapsed", elapsed).Int("bytes", len(result.Output)).Msg("tool executed")
	return result.Output
}

// ExecuteOnce validates and runs a tool without retries.
func ExecuteOnce(ctx context.Context, tool Tool, args json.RawMessage) (ToolResult, error) {
	if err := tool.Validate(args); err != nil {
		return FailureResult(fmt.Errorf("validation failed: %w", err)), nil
	}

	return tool.Execute(ctx, args)
}

func executionFailed(name string, err error) string {
	return errorPayload(map[string]interface{}{
		"error": "Tool execution failed: " + err.Error(),
		"tool":  name,
	})
}

func errorPayload(v map[string]interface{}) string {
	data, err := json.Marshal(v)
	if err != nil {
		return `{"error":"Tool execution failed"}`
	}
	return string(data)
}
