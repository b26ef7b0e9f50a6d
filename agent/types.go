// Package agent provides the orchestration loop.
//
// Contains the request type and the collaborator contracts.
package agent

import (
	"context"

	"github.com/richinex/nexus/features"
	"github.com/richinex/nexus/llm"
	"github.com/richinex/nexus/model"
)

// Request starts one orchestration session.
type Request struct {
	ClientID  string            `json:"clientId"`
	FeatureID string            `json:"featureId"`
	Inputs    map[string]string `json:"inputs"`
	ModelID   string            `json:"modelId,omitempty"`
}

// ClientSource resolves clients and their brand documents.
// storage.ClientStore satisfies it.
type ClientSource interface {
	GetClient(ctx context.Context, id string) (model.Client, error)
	DocumentContents(ctx context.Context, clientID string) (string, error)
}

// FeatureSource resolves features by ID. *features.Catalog satisfies it.
type FeatureSource interface {
	Get(id string) (features.Feature, bool)
}

// ToolExecutor runs tool calls. Execute never fails; every outcome is a
// result string for the model. *tools.Executor satisfies it.
type ToolExecutor interface {
	Definitions(names []string) []llm.ToolDefinition
	Execute(ctx context.Context, name string, args map[string]interface{}) string
}
