// Orchestration loop implementation.
//
// All sessions go through Orchestrator.Run.
//
// Information Hiding:
// - Thread construction and tool-call bookkeeping hidden
// - Upstream error translation hidden
// - Producer goroutine and channel lifecycle hidden

package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/richinex/nexus/internal/observability"
	"github.com/richinex/nexus/llm"
	"github.com/richinex/nexus/storage"
	"github.com/richinex/nexus/stream"
)

// Orchestrator drives sessions between the completion service and the
// tools. It holds no per-session state and is safe for concurrent use.
type Orchestrator struct {
	config      Config
	clients     ClientSource
	features    FeatureSource
	tools       ToolExecutor
	newProvider ProviderFactory
	logger      zerolog.Logger
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets the logger used for session diagnostics.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *Orchestrator) { o.logger = logger }
}

// WithProviderFactory replaces how session providers are created.
func WithProviderFactory(factory ProviderFactory) Option {
	return func(o *Orchestrator) { o.newProvider = factory }
}

// New creates an orchestrator over its collaborators.
func New(config Config, clients ClientSource, features FeatureSource, tools ToolExecutor, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		config:   config,
		clients:  clients,
		features: features,
		tools:    tools,
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.newProvider == nil {
		o.newProvider = NewProviderFactory(config)
	}
	return o
}

// ModelFor returns the model a request with this model ID runs on.
func (o *Orchestrator) ModelFor(requested string) string {
	return o.config.ModelFor(requested)
}

// Run starts a session and returns its events. The channel closes after
// the done event, or without one when ctx is cancelled.
func (o *Orchestrator) Run(ctx context.Context, req Request) <-chan stream.Event {
	events := make(chan stream.Event, eventBuffer)
	s := newSession(ctx, events, o.logger, req)

	go func() {
		defer close(events)
		o.run(s, req)
	}()

	return events
}

func (o *Orchestrator) run(s *session, req Request) {
	observability.SessionStarted()
	start := time.Now()
	defer func() {
		outcome := s.outcome()
		observability.SessionFinished(outcome, s.iterations)
		s.logger.Info().
			Str("outcome", outcome).
			Int("iterations", s.iterations).
			Dur("elapsed", time.Since(start)).
			Msg("session finished")
	}()
	defer s.emit(stream.Done())

	plan, ok := o.prepare(s, req)
	if !ok {
		return
	}
	o.loop(s, plan)
}

// plan is everything a session needs once its entry checks pass.
type plan struct {
	provider llm.Provider
	tools    []llm.ToolDefinition
}

func (o *Orchestrator) prepare(s *session, req Request) (plan, bool) {
	ctx := s.ctx

	client, err := o.clients.GetClient(ctx, req.ClientID)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.logger.Error().Err(err).Msg("client lookup failed")
		}
		s.fail("Client not found")
		return plan{}, false
	}

	feature, ok := o.features.Get(req.FeatureID)
	if !ok {
		s.fail("Feature not found")
		return plan{}, false
	}

	if !o.config.HasCredential() {
		s.fail(fmt.Sprintf("%s is not configured. Please set it in .env.local", o.config.Provider.EnvVar()))
		return plan{}, false
	}

	docs, err := o.clients.DocumentContents(ctx, client.ID)
	if err != nil {
		s.logger.Warn().Err(err).Msg("brand documents unavailable")
		docs = ""
	}

	userMessage, err := feature.BuildUserMessage(req.Inputs)
	if err != nil {
		s.fail(err.Error())
		return plan{}, false
	}

	modelID := o.config.ModelFor(req.ModelID)
	provider, err := o.newProvider(modelID)
	if err != nil {
		s.fail(fmt.Sprintf("Failed to initialize model %s: %v", modelID, err))
		return plan{}, false
	}
	s.logger = s.logger.With().Str("model", modelID).Logger()

	if !s.emit(stream.Status(fmt.Sprintf("Running feature: %s for client: %s (model: %s)", feature.Name, client.Name, modelID))) {
		return plan{}, false
	}

	s.append(llm.SystemMessage(feature.BuildSystemPrompt(client, docs)))
	s.append(llm.UserMessage(userMessage))

	return plan{provider: provider, tools: o.tools.Definitions(feature.Tools)}, true
}

// loop runs completion round-trips until the model finishes, an error
// ends the session or the iteration budget is spent.
func (o *Orchestrator) loop(s *session, p plan) {
	ctx := s.ctx

	for s.iterations < MaxIterations {
		if ctx.Err() != nil {
			return
		}
		s.iterations++

		start := time.Now()
		resp, err := p.provider.ChatWithTools(ctx, s.thread, p.tools)
		elapsed := time.Since(start)
		observability.RecordUpstreamRequest(p.provider.Name(), err == nil, elapsed)

		if err != nil {
			if ctx.Err() != nil {
				return
			}
			s.logger.Warn().Err(err).Int("iteration", s.iterations).Msg("completion request failed")
			s.fail(describeUpstreamError(err))
			return
		}

		s.logger.Debug().
			Int("iteration", s.iterations).
			Int("tool_calls", len(resp.ToolCalls)).
			Str("finish_reason", resp.FinishReason).
			Dur("elapsed", elapsed).
			Msg("completion received")

		if resp.Content != "" {
			if !s.emit(stream.Text(resp.Content)) {
				return
			}
		}

		if len(resp.ToolCalls) == 0 {
			return
		}

		s.append(llm.AssistantMessage(resp.Content, resp.ToolCalls))
		for _, call := range resp.ToolCalls {
			if !o.runTool(s, call) {
				return
			}
		}

		if resp.Finished {
			return
		}
	}

	s.fail(fmt.Sprintf("Reached the maximum of %d iterations before the model finished", MaxIterations))
}

// runTool executes one call and records its result. It returns false
// when the session was cancelled.
func (o *Orchestrator) runTool(s *session, call llm.ToolCall) bool {
	args := parseArguments(call.Arguments)
	if !s.emit(stream.ToolUse(call.Name, args)) {
		return false
	}

	result := o.tools.Execute(s.ctx, call.Name, args)
	if s.ctx.Err() != nil {
		return false
	}

	if !s.emit(stream.ToolResult(call.Name, result)) {
		return false
	}
	s.append(llm.ToolMessage(call.ID, result))
	return true
}

// parseArguments decodes a tool-call payload. Anything that is not a JSON
// object becomes an empty object.
func parseArguments(raw json.RawMessage) map[string]interface{} {
	args := map[string]interface{}{}
	if len(raw) == 0 {
		return args
	}
	var decoded map[string]interface{}
	if err := json.Unmarshal(raw, &decoded); err != nil || decoded == nil {
		return args
	}
	return decoded
}

func describeUpstreamError(err error) string {
	if errors.Is(err, llm.ErrNoChoices) {
		return "No response from model"
	}
	return err.Error()
}
