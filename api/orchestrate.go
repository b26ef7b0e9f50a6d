package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/richinex/nexus/agent"
	"github.com/richinex/nexus/model"
	"github.com/richinex/nexus/stream"
)

// orchestrateRequest accepts inputs of any JSON scalar type.
type orchestrateRequest struct {
	ClientID  string                 `json:"clientId"`
	FeatureID string                 `json:"featureId"`
	Inputs    map[string]interface{} `json:"inputs"`
	ModelID   string                 `json:"modelId"`
	Save      bool                   `json:"save"`
}

func (r orchestrateRequest) toAgent() agent.Request {
	inputs := make(map[string]string, len(r.Inputs))
	for k, v := range r.Inputs {
		switch val := v.(type) {
		case nil:
		case string:
			inputs[k] = val
		default:
			inputs[k] = fmt.Sprint(val)
		}
	}
	return agent.Request{
		ClientID:  r.ClientID,
		FeatureID: r.FeatureID,
		Inputs:    inputs,
		ModelID:   r.ModelID,
	}
}

func (s *Server) handleOrchestrate(w http.ResponseWriter, r *http.Request) {
	var body orchestrateRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if body.ClientID == "" || body.FeatureID == "" {
		writeError(w, http.StatusBadRequest, "clientId and featureId are required")
		return
	}
	req := body.toAgent()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	events, recorded := record(ctx, s.orchestrator.Run(ctx, req))

	out := stream.NewWriter(w)
	out.SetHeartbeat(s.config.Heartbeat)
	if err := out.Drain(ctx, events); err != nil && ctx.Err() == nil {
		s.logger.Warn().Err(err).Msg("orchestration stream interrupted")
	}
	cancel()

	transcript := <-recorded
	if body.Save && r.Context().Err() == nil {
		s.saveTranscript(r.Context(), req, transcript)
	}
}

// transcript is what a finished stream produced.
type transcript struct {
	text     string
	failed   bool
	complete bool
}

// record forwards events while keeping the text and error state. The
// result is delivered once the source closes or ctx ends.
func record(ctx context.Context, in <-chan stream.Event) (<-chan stream.Event, <-chan transcript) {
	out := make(chan stream.Event)
	result := make(chan transcript, 1)

	go func() {
		defer close(out)
		var seen []stream.Event
		defer func() {
			_, failed := stream.FirstError(seen)
			complete := len(seen) > 0 && seen[len(seen)-1].Type == stream.TypeDone
			result <- transcript{text: stream.Transcript(seen), failed: failed, complete: complete}
		}()

		for e := range in {
			seen = append(seen, e)
			select {
			case out <- e:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, result
}

func (s *Server) saveTranscript(ctx context.Context, req agent.Request, t transcript) {
	if t.failed || !t.complete || t.text == "" {
		return
	}

	featureName := req.FeatureID
	if f, ok := s.catalog.Get(req.FeatureID); ok {
		featureName = f.Name
	}

	saved, err := s.store.SaveOutput(ctx, model.SavedOutput{
		ClientID:    req.ClientID,
		FeatureID:   req.FeatureID,
		FeatureName: featureName,
		ModelID:     agent.Config{DefaultModel: s.config.DefaultModel}.ModelFor(req.ModelID),
		Inputs:      req.Inputs,
		Output:      t.text,
	})
	if err != nil {
		s.logger.Error().Err(err).Str("client_id", req.ClientID).Msg("failed to save output")
		return
	}
	s.logger.Info().Str("output_id", saved.ID).Str("client_id", req.ClientID).Msg("output saved")
}
