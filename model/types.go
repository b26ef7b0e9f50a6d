// Package model provides domain records shared across packages.
package model

import "time"

// DocumentKind is the folder a client document lives in.
type DocumentKind string

const (
	KindBrandDoc DocumentKind = "brand-doc"
	KindAsset    DocumentKind = "asset"
)

// ParseDocumentKind maps a request value to a kind. Empty means brand-doc.
func ParseDocumentKind(s string) (DocumentKind, bool) {
	switch s {
	case "", "brand-doc", "brand-docs":
		return KindBrandDoc, true
	case "asset", "assets":
		return KindAsset, true
	default:
		return "", false
	}
}

// Client is a customer whose brand context is injected into every prompt.
type Client struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Documents []string  `json:"documents"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Document is one uploaded file.
type Document struct {
	Name       string       `json:"name"`
	Size       int64        `json:"size"`
	Type       DocumentKind `json:"type"`
	ModifiedAt time.Time    `json:"modifiedAt"`
}

// SavedOutput is generated content kept for a client.
type SavedOutput struct {
	ID          string            `json:"id"`
	ClientID    string            `json:"clientId"`
	FeatureID   string            `json:"featureId"`
	FeatureName string            `json:"featureName"`
	ModelID     string            `json:"modelId,omitempty"`
	Inputs      map[string]string `json:"inputs"`
	Output      string            `json:"output"`
	CreatedAt   time.Time         `json:"createdAt"`
}
