// Command execution for CLI commands.
//
// Information Hiding:
// - Input parsing and validation hidden
// - Event rendering for terminals hidden
// - Output formatting hidden

package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/richinex/nexus/agent"
	"github.com/richinex/nexus/features"
	"github.com/richinex/nexus/llm"
	"github.com/richinex/nexus/model"
	"github.com/richinex/nexus/storage"
	"github.com/richinex/nexus/stream"
)

// ErrSessionFailed is returned by Run when the session ended with an error event.
var ErrSessionFailed = errors.New("orchestration failed")

// RunOptions selects what Run executes.
type RunOptions struct {
	ClientID  string
	FeatureID string
	Inputs    []string // key=value pairs
	ModelID   string
	Save      bool
	Raw       bool // write SSE frames instead of rendered output
}

// ParseInputs turns key=value pairs into a map. Later keys win.
func ParseInputs(pairs []string) (map[string]string, error) {
	inputs := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid input %q: expected key=value", pair)
		}
		inputs[key] = value
	}
	return inputs, nil
}

// Run executes one orchestration and writes its progress to out.
func Run(ctx context.Context, app *App, opts RunOptions, out io.Writer) error {
	inputs, err := ParseInputs(opts.Inputs)
	if err != nil {
		return err
	}

	feature, ok := app.Catalog.Get(opts.FeatureID)
	if !ok {
		return fmt.Errorf("unknown feature %q (see `nexus features`)", opts.FeatureID)
	}
	if missing := feature.MissingRequired(inputs); len(missing) > 0 {
		return fmt.Errorf("missing required inputs: %s", strings.Join(missing, ", "))
	}

	req := agent.Request{
		ClientID:  opts.ClientID,
		FeatureID: opts.FeatureID,
		Inputs:    inputs,
		ModelID:   opts.ModelID,
	}

	// Stops the session if rendering returns early.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var events []stream.Event
	if opts.Raw {
		w := stream.NewPlainWriter(out)
		for e := range app.Orchestrator.Run(ctx, req) {
			events = append(events, e)
			if err := w.Send(e); err != nil {
				return err
			}
		}
	} else {
		for e := range app.Orchestrator.Run(ctx, req) {
			events = append(events, e)
			renderEvent(out, e)
		}
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	if msg, failed := stream.FirstError(events); failed {
		return fmt.Errorf("%w: %s", ErrSessionFailed, msg)
	}

	if opts.Save {
		saved, err := app.Store.SaveOutput(ctx, model.SavedOutput{
			ClientID:    req.ClientID,
			FeatureID:   feature.ID,
			FeatureName: feature.Name,
			ModelID:     app.Orchestrator.ModelFor(req.ModelID),
			Inputs:      inputs,
			Output:      stream.Transcript(events),
		})
		if err != nil {
			return fmt.Errorf("failed to save output: %w", err)
		}
		if !opts.Raw {
			fmt.Fprintf(out, "\nSaved output %s\n", saved.ID)
		}
	}
	return nil
}

func renderEvent(out io.Writer, e stream.Event) {
	switch e.Type {
	case stream.TypeStatus:
		fmt.Fprintf(out, "» %s\n\n", e.Content)
	case stream.TypeText:
		fmt.Fprint(out, e.Content)
	case stream.TypeToolUse:
		args, _ := json.Marshal(e.ToolInput)
		fmt.Fprintf(out, "\n→ %s %s\n", e.ToolName, args)
	case stream.TypeToolResult:
		fmt.Fprintf(out, "← %s (%d bytes)\n\n", e.ToolName, len(e.Content))
	case stream.TypeError:
		fmt.Fprintf(out, "\nError: %s\n", e.Content)
	case stream.TypeDone:
		fmt.Fprintln(out)
	}
}

// PrintFeatures lists the catalog grouped by category.
func PrintFeatures(out io.Writer, catalog *features.Catalog) {
	grouped := catalog.ByCategory()
	for _, category := range catalog.Categories() {
		fmt.Fprintf(out, "%s\n", category)
		for _, f := range grouped[category] {
			fmt.Fprintf(out, "  %-18s %s\n", f.ID, f.Description)
			for _, field := range f.Fields {
				marker := ""
				if field.Required {
					marker = " (required)"
				}
				fmt.Fprintf(out, "      %s%s\n", field.Name, marker)
			}
		}
		fmt.Fprintln(out)
	}
}

// PrintModels lists the model catalog grouped by provider.
func PrintModels(out io.Writer, defaultModel string) {
	grouped := llm.ModelsByProvider()
	providers := make([]string, 0, len(grouped))
	for p := range grouped {
		providers = append(providers, p)
	}
	sort.Strings(providers)

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, p := range providers {
		for _, m := range grouped[p] {
			marker := ""
			if m.ID == defaultModel {
				marker = "*"
			}
			fmt.Fprintf(tw, "%s%s\t%s\t%s\n", m.ID, marker, m.Tier, m.Name)
		}
	}
	tw.Flush()
}

// PrintClients lists clients newest first.
func PrintClients(ctx context.Context, out io.Writer, store storage.ClientStore) error {
	clients, err := store.ListClients(ctx)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, c := range clients {
		fmt.Fprintf(tw, "%s\t%s\t%d docs\n", c.ID, c.Name, len(c.Documents))
	}
	return tw.Flush()
}

// CreateClient adds a client and prints its ID.
func CreateClient(ctx context.Context, out io.Writer, store storage.ClientStore, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.New("name is required")
	}
	client, err := store.CreateClient(ctx, name)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, client.ID)
	return nil
}
