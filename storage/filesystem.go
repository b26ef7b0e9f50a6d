package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/richinex/nexus/model"
)

const (
	metaFile     = "meta.json"
	brandDocsDir = "brand-docs"
	assetsDir    = "assets"
	outputsDir   = "outputs"
)

// FileStore keeps one directory per client under <root>/clients.
//
//	<root>/clients/<id>/meta.json
//	<root>/clients/<id>/brand-docs/
//	<root>/clients/<id>/assets/
//	<root>/clients/<id>/outputs/<uuid>.json
type FileStore struct {
	root string
	mu   sync.RWMutex
}

// NewFileStore creates the clients directory under dataDir if needed.
func NewFileStore(dataDir string) (*FileStore, error) {
	if dataDir == "" {
		dataDir = "data"
	}
	root := filepath.Join(dataDir, "clients")
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &FileStore{root: root}, nil
}

// Close is a no-op.
func (s *FileStore) Close() error { return nil }

func (s *FileStore) clientDir(id string) string {
	return filepath.Join(s.root, id)
}

func kindDir(kind model.DocumentKind) string {
	if kind == model.KindAsset {
		return assetsDir
	}
	return brandDocsDir
}

func (s *FileStore) readMeta(id string) (model.Client, error) {
	if !validID(id) {
		return model.Client{}, ErrNotFound
	}
	data, err := os.ReadFile(filepath.Join(s.clientDir(id), metaFile))
	if errors.Is(err, fs.ErrNotExist) {
		return model.Client{}, ErrNotFound
	}
	if err != nil {
		return model.Client{}, fmt.Errorf("failed to read client metadata: %w", err)
	}
	var client model.Client
	if err := json.Unmarshal(data, &client); err != nil {
		return model.Client{}, fmt.Errorf("failed to decode client metadata: %w", err)
	}
	if client.Documents == nil {
		client.Documents = []string{}
	}
	return client, nil
}

func (s *FileStore) writeMeta(client model.Client) error {
	data, err := json.MarshalIndent(client, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode client metadata: %w", err)
	}
	if err := os.WriteFile(filepath.Join(s.clientDir(client.ID), metaFile), data, 0o644); err != nil {
		return fmt.Errorf("failed to write client metadata: %w", err)
	}
	return nil
}

// ListClients returns all clients, newest first.
func (s *FileStore) ListClients(ctx context.Context) ([]model.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}

	clients := []model.Client{}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		client, err := s.readMeta(entry.Name())
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		clients = append(clients, client)
	}

	sort.SliceStable(clients, func(i, j int) bool {
		return clients[i].CreatedAt.After(clients[j].CreatedAt)
	})
	return clients, nil
}

// GetClient returns a client by ID.
func (s *FileStore) GetClient(ctx context.Context, id string) (model.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.readMeta(id)
}

// CreateClient creates a client with its folder layout.
func (s *FileStore) CreateClient(ctx context.Context, name string) (model.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	client := model.Client{
		ID:        newID(),
		Name:      name,
		Documents: []string{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	dir := s.clientDir(client.ID)
	for _, sub := range []string{brandDocsDir, assetsDir, outputsDir} {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0o755); err != nil {
			return model.Client{}, fmt.Errorf("failed to create client directory: %w", err)
		}
	}
	if err := s.writeMeta(client); err != nil {
		return model.Client{}, err
	}
	return client, nil
}

// UpdateClient renames a client.
func (s *FileStore) UpdateClient(ctx context.Context, id, name string) (model.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	client, err := s.readMeta(id)
	if err != nil {
		return model.Client{}, err
	}
	if name != "" {
		client.Name = name
	}
	client.UpdatedAt = time.Now().UTC()
	if err := s.writeMeta(client); err != nil {
		return model.Client{}, err
	}
	return client, nil
}

// DeleteClient removes a client and everything stored for it.
func (s *FileStore) DeleteClient(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.readMeta(id); err != nil {
		return err
	}
	if err := os.RemoveAll(s.clientDir(id)); err != nil {
		return fmt.Errorf("failed to delete client: %w", err)
	}
	return nil
}

// SaveDocument writes a document, replacing one with the same name.
func (s *FileStore) SaveDocument(ctx context.Context, clientID string, kind model.DocumentKind, name string, data []byte) (model.Document, error) {
	name, err := SanitizeFileName(name)
	if err != nil {
		return model.Document{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.readMeta(clientID); err != nil {
		return model.Document{}, err
	}

	dir := filepath.Join(s.clientDir(clientID), kindDir(kind))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return model.Document{}, fmt.Errorf("failed to create document directory: %w", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return model.Document{}, fmt.Errorf("failed to write document: %w", err)
	}
	if err := s.syncDocuments(clientID); err != nil {
		return model.Document{}, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return model.Document{}, fmt.Errorf("failed to stat document: %w", err)
	}
	return model.Document{Name: name, Size: info.Size(), Type: kind, ModifiedAt: info.ModTime().UTC()}, nil
}

// ListDocuments returns brand documents followed by assets, each by name.
func (s *FileStore) ListDocuments(ctx context.Context, clientID string) ([]model.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, err := s.readMeta(clientID); err != nil {
		return nil, err
	}

	docs := []model.Document{}
	for _, kind := range []model.DocumentKind{model.KindBrandDoc, model.KindAsset} {
		entries, err := s.readDocDir(clientID, kind)
		if err != nil {
			return nil, err
		}
		for _, entry := range entries {
			info, err := entry.Info()
			if err != nil {
				return nil, fmt.Errorf("failed to stat document: %w", err)
			}
			docs = append(docs, model.Document{
				Name:       entry.Name(),
				Size:       info.Size(),
				Type:       kind,
				ModifiedAt: info.ModTime().UTC(),
			})
		}
	}
	return docs, nil
}

// DeleteDocument removes one document.
func (s *FileStore) DeleteDocument(ctx context.Context, clientID string, kind model.DocumentKind, name string) error {
	name, err := SanitizeFileName(name)
	if err != nil {
		return ErrNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.readMeta(clientID); err != nil {
		return err
	}

	err = os.Remove(filepath.Join(s.clientDir(clientID), kindDir(kind), name))
	if errors.Is(err, fs.ErrNotExist) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	return s.syncDocuments(clientID)
}

// DocumentContents returns the text brand documents as one block.
// Unreadable files are skipped.
func (s *FileStore) DocumentContents(ctx context.Context, clientID string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, err := s.readMeta(clientID); err != nil {
		return "", err
	}

	entries, err := s.readDocDir(clientID, model.KindBrandDoc)
	if err != nil {
		return "", err
	}

	var docs []namedText
	for _, entry := range entries {
		if !IsTextDocument(entry.Name()) {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.clientDir(clientID), brandDocsDir, entry.Name()))
		if err != nil {
			continue
		}
		docs = append(docs, namedText{name: entry.Name(), content: string(data)})
	}
	return joinDocuments(docs), nil
}

// SaveOutput stores generated content under a new ID.
func (s *FileStore) SaveOutput(ctx context.Context, output model.SavedOutput) (model.SavedOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.readMeta(output.ClientID); err != nil {
		return model.SavedOutput{}, err
	}

	output.ID = newID()
	output.CreatedAt = time.Now().UTC()
	output.Inputs = cloneInputs(output.Inputs)

	dir := filepath.Join(s.clientDir(output.ClientID), outputsDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return model.SavedOutput{}, fmt.Errorf("failed to create outputs directory: %w", err)
	}
	data, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return model.SavedOutput{}, fmt.Errorf("failed to encode output: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, output.ID+".json"), data, 0o644); err != nil {
		return model.SavedOutput{}, fmt.Errorf("failed to write output: %w", err)
	}
	return output, nil
}

// ListOutputs returns a client's saved outputs, newest first.
func (s *FileStore) ListOutputs(ctx context.Context, clientID string) ([]model.SavedOutput, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, err := s.readMeta(clientID); err != nil {
		return nil, err
	}

	dir := filepath.Join(s.clientDir(clientID), outputsDir)
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return []model.SavedOutput{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list outputs: %w", err)
	}

	outputs := []model.SavedOutput{}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read output: %w", err)
		}
		var out model.SavedOutput
		if err := json.Unmarshal(data, &out); err != nil {
			return nil, fmt.Errorf("failed to decode output %s: %w", entry.Name(), err)
		}
		outputs = append(outputs, out)
	}

	sort.SliceStable(outputs, func(i, j int) bool {
		return outputs[i].CreatedAt.After(outputs[j].CreatedAt)
	})
	return outputs, nil
}

func (s *FileStore) readDocDir(clientID string, kind model.DocumentKind) ([]os.DirEntry, error) {
	entries, err := os.ReadDir(filepath.Join(s.clientDir(clientID), kindDir(kind)))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	files := entries[:0]
	for _, entry := range entries {
		if !entry.IsDir() {
			files = append(files, entry)
		}
	}
	return files, nil
}

// syncDocuments refreshes the brand-document list in meta.json.
// Callers hold the write lock.
func (s *FileStore) syncDocuments(clientID string) error {
	client, err := s.readMeta(clientID)
	if err != nil {
		return err
	}
	entries, err := s.readDocDir(clientID, model.KindBrandDoc)
	if err != nil {
		return err
	}
	client.Documents = make([]string, 0, len(entries))
	for _, entry := range entries {
		client.Documents = append(client.Documents, entry.Name())
	}
	client.UpdatedAt = time.Now().UTC()
	return s.writeMeta(client)
}
