package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/richinex/nexus/model"
)

// SqliteStore implements ClientStore in a single SQLite database.
// Thread-safe: sql.DB handles connection pooling and concurrent access.
type SqliteStore struct {
	db *sql.DB
}

// OpenSqlite opens or creates a SQLite database at the given path.
// Creates parent directories if they don't exist.
func OpenSqlite(path string) (*SqliteStore, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	store := &SqliteStore{db: db}
	if err := store.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// NewSqliteInMemory creates an in-memory database (useful for testing).
func NewSqliteInMemory() (*SqliteStore, error) {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory SQLite: %w", err)
	}
	// Each connection to :memory: is a separate database.
	db.SetMaxOpenConns(1)

	store := &SqliteStore{db: db}
	if err := store.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *SqliteStore) Close() error {
	return s.db.Close()
}

func (s *SqliteStore) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS clients (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS documents (
			client_id TEXT NOT NULL,
			kind TEXT NOT NULL,
			name TEXT NOT NULL,
			content BLOB NOT NULL,
			size INTEGER NOT NULL,
			modified_at TEXT NOT NULL,
			PRIMARY KEY (client_id, kind, name)
		);

		CREATE TABLE IF NOT EXISTS outputs (
			id TEXT PRIMARY KEY,
			client_id TEXT NOT NULL,
			feature_id TEXT NOT NULL,
			feature_name TEXT NOT NULL,
			model_id TEXT NOT NULL DEFAULT '',
			inputs TEXT NOT NULL,
			output TEXT NOT NULL,
			created_at TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_outputs_client
		ON outputs(client_id, created_at DESC);
	`

	_, err := s.db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// timeLayout is fixed width so text ordering matches time ordering.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func (s *SqliteStore) documentNames(ctx context.Context, clientID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT name FROM documents WHERE client_id = ? AND kind = ? ORDER BY name ASC",
		clientID, string(model.KindBrandDoc))
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}
	defer rows.Close()

	names := []string{} // Start with empty slice, not nil
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating documents: %w", err)
	}
	return names, nil
}

func (s *SqliteStore) clientExists(ctx context.Context, id string) error {
	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM clients WHERE id = ?", id).Scan(&count)
	if err != nil {
		return fmt.Errorf("failed to check client existence: %w", err)
	}
	if count == 0 {
		return ErrNotFound
	}
	return nil
}

// ListClients returns all clients, newest first.
func (s *SqliteStore) ListClients(ctx context.Context) ([]model.Client, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, created_at, updated_at FROM clients ORDER BY created_at DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to query clients: %w", err)
	}

	clients := []model.Client{}
	for rows.Next() {
		var c model.Client
		var created, updated string
		if err := rows.Scan(&c.ID, &c.Name, &created, &updated); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan client: %w", err)
		}
		c.CreatedAt, c.UpdatedAt = parseTime(created), parseTime(updated)
		clients = append(clients, c)
	}
	err = rows.Err()
	rows.Close()
	if err != nil {
		return nil, fmt.Errorf("error iterating clients: %w", err)
	}

	for i := range clients {
		names, err := s.documentNames(ctx, clients[i].ID)
		if err != nil {
			return nil, err
		}
		clients[i].Documents = names
	}
	return clients, nil
}

// GetClient returns a client by ID.
func (s *SqliteStore) GetClient(ctx context.Context, id string) (model.Client, error) {
	var c model.Client
	var created, updated string
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, created_at, updated_at FROM clients WHERE id = ?", id).
		Scan(&c.ID, &c.Name, &created, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Client{}, ErrNotFound
	}
	if err != nil {
		return model.Client{}, fmt.Errorf("failed to load client: %w", err)
	}
	c.CreatedAt, c.UpdatedAt = parseTime(created), parseTime(updated)

	c.Documents, err = s.documentNames(ctx, id)
	if err != nil {
		return model.Client{}, err
	}
	return c, nil
}

// CreateClient inserts a new client.
func (s *SqliteStore) CreateClient(ctx context.Context, name string) (model.Client, error) {
	now := time.Now().UTC()
	c := model.Client{ID: newID(), Name: name, Documents: []string{}, CreatedAt: now, UpdatedAt: now}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO clients (id, name, created_at, updated_at) VALUES (?, ?, ?, ?)",
		c.ID, c.Name, formatTime(now), formatTime(now))
	if err != nil {
		return model.Client{}, fmt.Errorf("failed to create client: %w", err)
	}
	return c, nil
}

// UpdateClient renames a client.
func (s *SqliteStore) UpdateClient(ctx context.Context, id, name string) (model.Client, error) {
	var res sql.Result
	var err error
	now := formatTime(time.Now())
	if name != "" {
		res, err = s.db.ExecContext(ctx,
			"UPDATE clients SET name = ?, updated_at = ? WHERE id = ?", name, now, id)
	} else {
		res, err = s.db.ExecContext(ctx,
			"UPDATE clients SET updated_at = ? WHERE id = ?", now, id)
	}
	if err != nil {
		return model.Client{}, fmt.Errorf("failed to update client: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.Client{}, ErrNotFound
	}
	return s.GetClient(ctx, id)
}

// DeleteClient removes a client with its documents and outputs.
func (s *SqliteStore) DeleteClient(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	// defer tx.Rollback() is safe even after Commit() - it becomes a no-op
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, "DELETE FROM clients WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete client: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM documents WHERE client_id = ?", id); err != nil {
		return fmt.Errorf("failed to delete documents: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM outputs WHERE client_id = ?", id); err != nil {
		return fmt.Errorf("failed to delete outputs: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// SaveDocument stores a document, replacing one with the same name.
func (s *SqliteStore) SaveDocument(ctx context.Context, clientID string, kind model.DocumentKind, name string, data []byte) (model.Document, error) {
	name, err := SanitizeFileName(name)
	if err != nil {
		return model.Document{}, err
	}
	if err := s.clientExists(ctx, clientID); err != nil {
		return model.Document{}, err
	}

	now := time.Now().UTC()
	if data == nil {
		data = []byte{}
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO documents (client_id, kind, name, content, size, modified_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		clientID, string(kind), name, data, len(data), formatTime(now))
	if err != nil {
		return model.Document{}, fmt.Errorf("failed to store document: %w", err)
	}
	if err := s.touch(ctx, clientID); err != nil {
		return model.Document{}, err
	}
	return model.Document{Name: name, Size: int64(len(data)), Type: kind, ModifiedAt: now}, nil
}

// ListDocuments returns brand documents followed by assets, each by name.
func (s *SqliteStore) ListDocuments(ctx context.Context, clientID string) ([]model.Document, error) {
	if err := s.clientExists(ctx, clientID); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT name, kind, size, modified_at FROM documents
		WHERE client_id = ?
		ORDER BY CASE kind WHEN 'brand-doc' THEN 0 ELSE 1 END, name ASC`,
		clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}
	defer rows.Close()

	docs := []model.Document{}
	for rows.Next() {
		var d model.Document
		var kind, modified string
		if err := rows.Scan(&d.Name, &kind, &d.Size, &modified); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		d.Type = model.DocumentKind(kind)
		d.ModifiedAt = parseTime(modified)
		docs = append(docs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating documents: %w", err)
	}
	return docs, nil
}

// DeleteDocument removes one document.
func (s *SqliteStore) DeleteDocument(ctx context.Context, clientID string, kind model.DocumentKind, name string) error {
	if err := s.clientExists(ctx, clientID); err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM documents WHERE client_id = ? AND kind = ? AND name = ?",
		clientID, string(kind), name)
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return s.touch(ctx, clientID)
}

// DocumentContents returns the text brand documents as one block.
func (s *SqliteStore) DocumentContents(ctx context.Context, clientID string) (string, error) {
	if err := s.clientExists(ctx, clientID); err != nil {
		return "", err
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT name, content FROM documents WHERE client_id = ? AND kind = ? ORDER BY name ASC",
		clientID, string(model.KindBrandDoc))
	if err != nil {
		return "", fmt.Errorf("failed to query documents: %w", err)
	}
	defer rows.Close()

	var docs []namedText
	for rows.Next() {
		var name string
		var content []byte
		if err := rows.Scan(&name, &content); err != nil {
			return "", fmt.Errorf("failed to scan document: %w", err)
		}
		if IsTextDocument(name) {
			docs = append(docs, namedText{name: name, content: string(content)})
		}
	}
	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("error iterating documents: %w", err)
	}
	return joinDocuments(docs), nil
}

// SaveOutput stores generated content under a new ID.
func (s *SqliteStore) SaveOutput(ctx context.Context, output model.SavedOutput) (model.SavedOutput, error) {
	if err := s.clientExists(ctx, output.ClientID); err != nil {
		return model.SavedOutput{}, err
	}

	output.ID = newID()
	output.CreatedAt = time.Now().UTC()
	output.Inputs = cloneInputs(output.Inputs)

	inputs, err := json.Marshal(output.Inputs)
	if err != nil {
		return model.SavedOutput{}, fmt.Errorf("failed to encode inputs: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO outputs (id, client_id, feature_id, feature_name, model_id, inputs, output, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		output.ID, output.ClientID, output.FeatureID, output.FeatureName,
		output.ModelID, string(inputs), output.Output, formatTime(output.CreatedAt))
	if err != nil {
		return model.SavedOutput{}, fmt.Errorf("failed to store output: %w", err)
	}
	return output, nil
}

// ListOutputs returns a client's saved outputs, newest first.
func (s *SqliteStore) ListOutputs(ctx context.Context, clientID string) ([]model.SavedOutput, error) {
	if err := s.clientExists(ctx, clientID); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, client_id, feature_id, feature_name, model_id, inputs, output, created_at
		FROM outputs WHERE client_id = ?
		ORDER BY created_at DESC`,
		clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to query outputs: %w", err)
	}
	defer rows.Close()

	outputs := []model.SavedOutput{}
	for rows.Next() {
		var out model.SavedOutput
		var inputs, created string
		if err := rows.Scan(&out.ID, &out.ClientID, &out.FeatureID, &out.FeatureName,
			&out.ModelID, &inputs, &out.Output, &created); err != nil {
			return nil, fmt.Errorf("failed to scan output: %w", err)
		}
		if err := json.Unmarshal([]byte(inputs), &out.Inputs); err != nil {
			return nil, fmt.Errorf("failed to decode inputs: %w", err)
		}
		out.CreatedAt = parseTime(created)
		outputs = append(outputs, out)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating outputs: %w", err)
	}
	return outputs, nil
}

func (s *SqliteStore) touch(ctx context.Context, clientID string) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE clients SET updated_at = ? WHERE id = ?", formatTime(time.Now()), clientID)
	if err != nil {
		return fmt.Errorf("failed to update client timestamp: %w", err)
	}
	return nil
}
