package agent

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/richinex/nexus/features"
	"github.com/richinex/nexus/llm"
	"github.com/richinex/nexus/model"
	"github.com/richinex/nexus/storage"
	"github.com/richinex/nexus/stream"
)

const testClientID = "client-1"

// fakeClients is an in-memory ClientSource.
type fakeClients struct {
	clients map[string]model.Client
	docs    map[string]string
	docErr  error
}

func newFakeClients() *fakeClients {
	return &fakeClients{
		clients: map[string]model.Client{
			testClientID: {ID: testClientID, Name: "Acme", Documents: []string{}},
		},
		docs: map[string]string{},
	}
}

func (f *fakeClients) GetClient(ctx context.Context, id string) (model.Client, error) {
	c, ok := f.clients[id]
	if !ok {
		return model.Client{}, storage.ErrNotFound
	}
	return c, nil
}

func (f *fakeClients) DocumentContents(ctx context.Context, clientID string) (string, error) {
	if f.docErr != nil {
		return "", f.docErr
	}
	return f.docs[clientID], nil
}

type toolInvocation struct {
	name string
	args map[string]interface{}
}

// fakeTools answers every call with a canned result.
type fakeTools struct {
	mu      sync.Mutex
	results map[string]string
	calls   []toolInvocation
}

func (f *fakeTools) Definitions(names []string) []llm.ToolDefinition {
	defs := make([]llm.ToolDefinition, 0, len(names))
	for _, name := range names {
		defs = append(defs, llm.ToolDefinition{Name: name, Parameters: map[string]interface{}{"type": "object"}})
	}
	return defs
}

func (f *fakeTools) Execute(ctx context.Context, name string, args map[string]interface{}) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, toolInvocation{name: name, args: args})
	if result, ok := f.results[name]; ok {
		return result
	}
	return `{"success":true}`
}

func (f *fakeTools) invocations() []toolInvocation {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]toolInvocation(nil), f.calls...)
}

type step struct {
	resp llm.LLMResponse
	err  error
}

// scriptedProvider replays responses in order, then repeats the last one.
type scriptedProvider struct {
	mu      sync.Mutex
	steps   []step
	block   bool
	calls   int
	threads [][]llm.ChatMessage
	tools   [][]llm.ToolDefinition
}

func (p *scriptedProvider) Name() string  { return "scripted" }
func (p *scriptedProvider) Model() string { return "test/model" }

func (p *scriptedProvider) ChatWithTools(ctx context.Context, messages []llm.ChatMessage, tools []llm.ToolDefinition) (llm.LLMResponse, error) {
	p.mu.Lock()
	p.threads = append(p.threads, append([]llm.ChatMessage(nil), messages...))
	p.tools = append(p.tools, tools)
	idx := p.calls
	p.calls++
	block := p.block
	p.mu.Unlock()

	if block {
		<-ctx.Done()
		return llm.LLMResponse{}, ctx.Err()
	}
	if len(p.steps) == 0 {
		return llm.LLMResponse{}, llm.ErrNoChoices
	}
	if idx >= len(p.steps) {
		idx = len(p.steps) - 1
	}
	return p.steps[idx].resp, p.steps[idx].err
}

func (p *scriptedProvider) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

func (p *scriptedProvider) thread(i int) []llm.ChatMessage {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.threads[i]
}

func textResponse(text string) step {
	return step{resp: llm.LLMResponse{Content: text, FinishReason: "stop", Finished: true}}
}

func toolResponse(content string, calls ...llm.ToolCall) step {
	return step{resp: llm.LLMResponse{Content: content, ToolCalls: calls, FinishReason: "tool_calls"}}
}

func toolCall(id, name, args string) llm.ToolCall {
	return llm.ToolCall{ID: id, Name: name, Arguments: json.RawMessage(args)}
}

func testConfig() Config {
	return Config{
		Provider:     llm.ProviderOpenRouter,
		APIKey:       "sk-or-test",
		MaxTokens:    llm.DefaultMaxTokens,
		DefaultModel: llm.DefaultModelID,
	}
}

func newTestOrchestrator(cfg Config, clients *fakeClients, tools ToolExecutor, provider llm.Provider) *Orchestrator {
	return New(cfg, clients, features.Builtin(), tools,
		WithProviderFactory(func(model string) (llm.Provider, error) { return provider, nil }))
}

func blogRequest() Request {
	return Request{
		ClientID:  testClientID,
		FeatureID: "blog-post",
		Inputs:    map[string]string{"topic": "Go concurrency", "primaryKeyword": "goroutines"},
	}
}

// collect reads every event until the channel closes.
func collect(t *testing.T, events <-chan stream.Event) []stream.Event {
	t.Helper()
	var out []stream.Event
	timeout := time.After(5 * time.Second)
	for {
		select {
		case e, ok := <-events:
			if !ok {
				return out
			}
			out = append(out, e)
		case <-timeout:
			t.Fatalf("timed out waiting for events, got %d so far", len(out))
			return nil
		}
	}
}

func eventTypes(events []stream.Event) []stream.Type {
	types := make([]stream.Type, len(events))
	for i, e := range events {
		types[i] = e.Type
	}
	return types
}

func assertTypes(t *testing.T, events []stream.Event, want ...stream.Type) {
	t.Helper()
	got := eventTypes(events)
	if len(got) != len(want) {
		t.Fatalf("expected events %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected events %v, got %v", want, got)
		}
	}
}

// assertWellFormed checks the invariants every session must satisfy.
func assertWellFormed(t *testing.T, events []stream.Event) {
	t.Helper()
	if len(events) == 0 {
		t.Fatal("expected at least one event")
	}
	dones := 0
	for _, e := range events {
		if e.Type == stream.TypeDone {
			dones++
		}
	}
	if dones != 1 || events[len(events)-1].Type != stream.TypeDone {
		t.Fatalf("expected exactly one trailing done, got %v", eventTypes(events))
	}

	var pending []string
	for _, e := range events {
		switch e.Type {
		case stream.TypeToolUse:
			pending = append(pending, e.ToolName)
		case stream.TypeToolResult:
			if len(pending) == 0 || pending[0] != e.ToolName {
				t.Fatalf("tool_result %q without matching tool_use in %v", e.ToolName, eventTypes(events))
			}
			pending = pending[1:]
		}
	}
	if len(pending) != 0 {
		t.Fatalf("tool_use without result: %v", pending)
	}
}
