// Package storage provides client records, documents and saved outputs.
//
// Information Hiding:
// - Backing medium (filesystem tree or SQLite) hidden behind ClientStore
// - File name sanitization and text-document selection internal
// - ID generation internal

package storage

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/richinex/nexus/model"
)

// ErrNotFound is returned when a client, document or output does not exist.
var ErrNotFound = errors.New("not found")

// ClientStore persists clients and their artifacts.
// Implementations are safe for concurrent use.
type ClientStore interface {
	ListClients(ctx context.Context) ([]model.Client, error)
	GetClient(ctx context.Context, id string) (model.Client, error)
	CreateClient(ctx context.Context, name string) (model.Client, error)
	UpdateClient(ctx context.Context, id, name string) (model.Client, error)
	DeleteClient(ctx context.Context, id string) error

	SaveDocument(ctx context.Context, clientID string, kind model.DocumentKind, name string, data []byte) (model.Document, error)
	ListDocuments(ctx context.Context, clientID string) ([]model.Document, error)
	DeleteDocument(ctx context.Context, clientID string, kind model.DocumentKind, name string) error
	// DocumentContents concatenates the client's text brand documents.
	DocumentContents(ctx context.Context, clientID string) (string, error)

	SaveOutput(ctx context.Context, output model.SavedOutput) (model.SavedOutput, error)
	ListOutputs(ctx context.Context, clientID string) ([]model.SavedOutput, error)

	Close() error
}

// Driver names accepted by Open.
const (
	DriverFilesystem = "filesystem"
	DriverSqlite     = "sqlite"
)

// Open creates the store selected by driver.
func Open(driver, dataDir, sqlitePath string) (ClientStore, error) {
	switch strings.ToLower(driver) {
	case "", DriverFilesystem:
		return NewFileStore(dataDir)
	case DriverSqlite:
		return OpenSqlite(sqlitePath)
	default:
		return nil, fmt.Errorf("unknown store driver: %q", driver)
	}
}

var textExtensions = map[string]bool{
	".txt":  true,
	".md":   true,
	".csv":  true,
	".json": true,
	".html": true,
	".xml":  true,
	".yml":  true,
	".yaml": true,
}

// IsTextDocument reports whether a file is inlined into prompts.
func IsTextDocument(name string) bool {
	return textExtensions[strings.ToLower(filepath.Ext(name))]
}

// SanitizeFileName strips directory components and rejects names that
// cannot be stored safely.
func SanitizeFileName(name string) (string, error) {
	name = strings.ReplaceAll(name, "\\", "/")
	name = filepath.Base(strings.TrimSpace(name))
	if name == "" || name == "." || name == ".." || name == "/" {
		return "", fmt.Errorf("invalid file name")
	}
	if strings.ContainsRune(name, 0) {
		return "", fmt.Errorf("invalid file name")
	}
	return name, nil
}

type namedText struct {
	name    string
	content string
}

func joinDocuments(docs []namedText) string {
	parts := make([]string, 0, len(docs))
	for _, d := range docs {
		parts = append(parts, "--- "+d.name+" ---\n"+d.content)
	}
	return strings.Join(parts, "\n\n")
}

func validID(id string) bool {
	return uuid.Validate(id) == nil
}

func newID() string {
	return uuid.NewString()
}

func cloneInputs(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
