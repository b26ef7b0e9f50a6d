// Package tools provides tool management and registration.
//
// Information Hiding:
// - Tool storage and lookup implementation hidden
// - Registration and discovery mechanisms abstracted

package tools

import (
	"fmt"
	"sort"

	"github.com/richinex/nexus/llm"
)

// Registry maps tool names to handlers. It is populated once at startup
// and only read afterwards.
type Registry struct {
	tools map[string]Tool
}

// NewRegistry creates a new empty tool registry.
func NewRegistry() *Registry {
	return &Registry{
		tools: make(map[string]Tool),
	}
}

// Register adds a new tool to the registry.
// Returns error if a tool with the same name already exists.
func (r *Registry) Register(tool Tool) error {
	name := tool.Metadata().Name
	if _, exists := r.tools[name]; exists {
		return fmt.Errorf("tool '%s' already registered", name)
	}
	r.tools[name] = tool
	return nil
}

// Get returns a tool by name.
func (r *Registry) Get(name string) (Tool, bool) {
	tool, exists := r.tools[name]
	return tool, exists
}

// Names returns all registered tool names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// List returns metadata for all registered tools in name order.
func (r *Registry) List() []ToolMetadata {
	names := r.Names()
	metadata := make([]ToolMetadata, 0, len(names))
	for _, name := range names {
		metadata = append(metadata, r.tools[name].Metadata())
	}
	return metadata
}

// Definitions renders the named tools as definitions for the completion
// request, in the order given. Unregistered names are skipped.
func (r *Registry) Definitions(names []string) []llm.ToolDefinition {
	var defs []llm.ToolDefinition
	for _, name := range names {
		tool, ok := r.tools[name]
		if !ok {
			continue
		}
		meta := tool.Metadata()
		defs = append(defs, llm.ToolDefinition{
			Name:        meta.Name,
			Description: meta.Description,
			Parameters:  meta.Schema(),
		})
	}
	return defs
}

// NewFirecrawlRegistry creates the static registry of retrieval tools.
// A nil or unconfigured client still registers both tools; they answer
// with a configuration-error payload.
func NewFirecrawlRegistry(client *FirecrawlClient) (*Registry, error) {
	registry := NewRegistry()

	tools := []Tool{
		NewScrapeTool(client),
		NewSearchTool(client),
	}

	for _, t := range tools {
		if err := registry.Register(t); err != nil {
			return nil, fmt.Errorf("failed to register retrieval tools: %w", err)
		}
	}

	return registry, nil
}
