// Package features provides the catalog of content-generation features.
//
// Information Hiding:
// - Prompt text and user-message templates hidden behind Feature methods
// - Template compilation and default filling internal
// - Catalog ordering and override merging internal

package features

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/richinex/nexus/model"
)

// Field types understood by the input forms.
const (
	FieldText     = "text"
	FieldTextarea = "textarea"
	FieldSelect   = "select"
	FieldNumber   = "number"
)

// Option is one choice of a select field.
type Option struct {
	Value string `json:"value" yaml:"value"`
	Label string `json:"label" yaml:"label"`
}

// Field describes one user input of a feature.
type Field struct {
	Name         string   `json:"name" yaml:"name"`
	Label        string   `json:"label" yaml:"label"`
	Type         string   `json:"type" yaml:"type"`
	Placeholder  string   `json:"placeholder,omitempty" yaml:"placeholder"`
	Options      []Option `json:"options,omitempty" yaml:"options"`
	Required     bool     `json:"required,omitempty" yaml:"required"`
	DefaultValue string   `json:"defaultValue,omitempty" yaml:"defaultValue"`
}

// Feature is a content task: instructions for the model, the inputs it
// takes and the tools it may call.
type Feature struct {
	ID          string   `json:"id" yaml:"id"`
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description" yaml:"description"`
	Icon        string   `json:"icon" yaml:"icon"`
	Category    string   `json:"category" yaml:"category"`
	Fields      []Field  `json:"fields" yaml:"fields"`
	Tools       []string `json:"tools" yaml:"tools"`

	// Instructions follow the client context in the system prompt.
	Instructions string `json:"-" yaml:"instructions"`
	// Message is a text/template over the inputs that renders the user turn.
	Message string `json:"-" yaml:"message"`

	message *template.Template
}

func (f *Feature) compile() error {
	if f.ID == "" {
		return fmt.Errorf("feature without id")
	}
	if strings.TrimSpace(f.Message) == "" {
		return fmt.Errorf("feature %q: message template is empty", f.ID)
	}
	tmpl, err := template.New(f.ID).Option("missingkey=zero").Parse(f.Message)
	if err != nil {
		return fmt.Errorf("feature %q: invalid message template: %w", f.ID, err)
	}
	f.message = tmpl
	if f.Tools == nil {
		f.Tools = []string{}
	}
	return nil
}

// Values returns the inputs with field defaults filled in for blank entries.
func (f Feature) Values(inputs map[string]string) map[string]string {
	values := make(map[string]string, len(inputs)+len(f.Fields))
	for k, v := range inputs {
		values[k] = strings.TrimSpace(v)
	}
	for _, field := range f.Fields {
		if values[field.Name] == "" && field.DefaultValue != "" {
			values[field.Name] = field.DefaultValue
		}
	}
	return values
}

// MissingRequired lists required fields that have no value and no default.
func (f Feature) MissingRequired(inputs map[string]string) []string {
	values := f.Values(inputs)
	var missing []string
	for _, field := range f.Fields {
		if field.Required && values[field.Name] == "" {
			missing = append(missing, field.Name)
		}
	}
	return missing
}

// BuildUserMessage renders the user turn from the inputs.
func (f Feature) BuildUserMessage(inputs map[string]string) (string, error) {
	if f.message == nil {
		if err := f.compile(); err != nil {
			return "", err
		}
	}
	var b strings.Builder
	if err := f.message.Execute(&b, f.Values(inputs)); err != nil {
		return "", fmt.Errorf("feature %q: failed to render message: %w", f.ID, err)
	}
	return strings.TrimSpace(b.String()), nil
}

// BuildSystemPrompt prefixes the instructions with the client context.
func (f Feature) BuildSystemPrompt(client model.Client, docContent string) string {
	return ClientContext(client, docContent) + f.Instructions
}

// ClientContext renders the block that tailors every prompt to a client.
func ClientContext(client model.Client, docContent string) string {
	var b strings.Builder
	b.WriteString("CLIENT CONTEXT:\n")
	b.WriteString("- Company: " + client.Name + "\n")
	if len(client.Documents) > 0 {
		b.WriteString("- Uploaded Documents: " + strings.Join(client.Documents, ", ") + "\n")
	}

	if strings.TrimSpace(docContent) != "" {
		b.WriteString("\nCLIENT DOCUMENTS (use these to tailor tone, style, audience, and brand details):\n\n")
		b.WriteString(docContent)
		b.WriteString("\n")
	}

	b.WriteString("\nUse this client context and any provided documents to tailor all output to the client's brand, voice, and audience.\n\n---\n\n")
	return b.String()
}

// Catalog is an immutable, ordered set of features.
type Catalog struct {
	order []string
	byID  map[string]Feature
}

// NewCatalog compiles the features. IDs must be unique.
func NewCatalog(features []Feature) (*Catalog, error) {
	c := &Catalog{byID: make(map[string]Feature, len(features))}
	for _, f := range features {
		if _, exists := c.byID[f.ID]; exists {
			return nil, fmt.Errorf("feature %q defined twice", f.ID)
		}
		if err := f.compile(); err != nil {
			return nil, err
		}
		c.order = append(c.order, f.ID)
		c.byID[f.ID] = f
	}
	return c, nil
}

// Get returns a feature by ID.
func (c *Catalog) Get(id string) (Feature, bool) {
	f, ok := c.byID[id]
	return f, ok
}

// List returns the features in catalog order.
func (c *Catalog) List() []Feature {
	out := make([]Feature, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.byID[id])
	}
	return out
}

// Categories returns category names in first-seen order.
func (c *Catalog) Categories() []string {
	seen := make(map[string]bool)
	var out []string
	for _, id := range c.order {
		cat := c.byID[id].Category
		if !seen[cat] {
			seen[cat] = true
			out = append(out, cat)
		}
	}
	return out
}

// ByCategory groups the features by category.
func (c *Catalog) ByCategory() map[string][]Feature {
	grouped := make(map[string][]Feature)
	for _, f := range c.List() {
		grouped[f.Category] = append(grouped[f.Category], f)
	}
	return grouped
}

// Merge returns a new catalog where overrides replace features with the
// same ID in place and new IDs are appended in order.
func (c *Catalog) Merge(overrides []Feature) (*Catalog, error) {
	replaced := make(map[string]Feature, len(overrides))
	var added []Feature
	for _, f := range overrides {
		if _, exists := c.byID[f.ID]; exists {
			replaced[f.ID] = f
		} else {
			added = append(added, f)
		}
	}

	merged := make([]Feature, 0, len(c.order)+len(added))
	for _, id := range c.order {
		if f, ok := replaced[id]; ok {
			merged = append(merged, f)
			continue
		}
		merged = append(merged, c.byID[id])
	}
	merged = append(merged, added...)
	return NewCatalog(merged)
}
