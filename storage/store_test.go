package storage

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/richinex/nexus/model"
)

type storeFactory struct {
	name string
	open func(t *testing.T) ClientStore
}

func factories() []storeFactory {
	return []storeFactory{
		{"filesystem", func(t *testing.T) ClientStore {
			store, err := NewFileStore(t.TempDir())
			if err != nil {
				t.Fatalf("Failed to create store: %v", err)
			}
			return store
		}},
		{"sqlite", func(t *testing.T) ClientStore {
			store, err := NewSqliteInMemory()
			if err != nil {
				t.Fatalf("Failed to create store: %v", err)
			}
			return store
		}},
	}
}

// forEachStore runs fn against every ClientStore implementation.
func forEachStore(t *testing.T, fn func(t *testing.T, store ClientStore)) {
	for _, f := range factories() {
		t.Run(f.name, func(t *testing.T) {
			store := f.open(t)
			defer store.Close()
			fn(t, store)
		})
	}
}

func TestClientLifecycle(t *testing.T) {
	forEachStore(t, func(t *testing.T, store ClientStore) {
		ctx := context.Background()

		created, err := store.CreateClient(ctx, "Acme")
		if err != nil {
			t.Fatalf("CreateClient failed: %v", err)
		}
		if created.ID == "" || created.Name != "Acme" {
			t.Fatalf("unexpected client %+v", created)
		}
		if created.Documents == nil || len(created.Documents) != 0 {
			t.Errorf("expected empty documents, got %v", created.Documents)
		}

		got, err := store.GetClient(ctx, created.ID)
		if err != nil {
			t.Fatalf("GetClient failed: %v", err)
		}
		if got.Name != "Acme" {
			t.Errorf("expected 'Acme', got %q", got.Name)
		}

		updated, err := store.UpdateClient(ctx, created.ID, "Acme Corp")
		if err != nil {
			t.Fatalf("UpdateClient failed: %v", err)
		}
		if updated.Name != "Acme Corp" {
			t.Errorf("expected 'Acme Corp', got %q", updated.Name)
		}
		if updated.UpdatedAt.Before(created.UpdatedAt) {
			t.Error("expected updatedAt to move forward")
		}

		if err := store.DeleteClient(ctx, created.ID); err != nil {
			t.Fatalf("DeleteClient failed: %v", err)
		}
		if _, err := store.GetClient(ctx, created.ID); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound after delete, got %v", err)
		}
	})
}

func TestMissingClient(t *testing.T) {
	forEachStore(t, func(t *testing.T, store ClientStore) {
		ctx := context.Background()
		for _, id := range []string{"00000000-0000-0000-0000-000000000000", "../etc", ""} {
			if _, err := store.GetClient(ctx, id); !errors.Is(err, ErrNotFound) {
				t.Errorf("GetClient(%q): expected ErrNotFound, got %v", id, err)
			}
		}
		if _, err := store.UpdateClient(ctx, "00000000-0000-0000-0000-000000000000", "x"); !errors.Is(err, ErrNotFound) {
			t.Errorf("UpdateClient: expected ErrNotFound, got %v", err)
		}
		if err := store.DeleteClient(ctx, "00000000-0000-0000-0000-000000000000"); !errors.Is(err, ErrNotFound) {
			t.Errorf("DeleteClient: expected ErrNotFound, got %v", err)
		}
		if _, err := store.ListOutputs(ctx, "00000000-0000-0000-0000-000000000000"); !errors.Is(err, ErrNotFound) {
			t.Errorf("ListOutputs: expected ErrNotFound, got %v", err)
		}
	})
}

func TestListClientsNewestFirst(t *testing.T) {
	forEachStore(t, func(t *testing.T, store ClientStore) {
		ctx := context.Background()

		first, _ := store.CreateClient(ctx, "first")
		time.Sleep(2 * time.Millisecond)
		second, _ := store.CreateClient(ctx, "second")

		clients, err := store.ListClients(ctx)
		if err != nil {
			t.Fatalf("ListClients failed: %v", err)
		}
		if len(clients) != 2 {
			t.Fatalf("expected 2 clients, got %d", len(clients))
		}
		if clients[0].ID != second.ID || clients[1].ID != first.ID {
			t.Errorf("expected newest first, got %q then %q", clients[0].Name, clients[1].Name)
		}
	})
}

func TestDocuments(t *testing.T) {
	forEachStore(t, func(t *testing.T, store ClientStore) {
		ctx := context.Background()
		client, _ := store.CreateClient(ctx, "Acme")

		uploads := []struct {
			kind model.DocumentKind
			name string
			data string
		}{
			{model.KindBrandDoc, "voice.md", "Be bold."},
			{model.KindBrandDoc, "audience.txt", "Founders."},
			{model.KindBrandDoc, "logo.png", "\x89PNG"},
			{model.KindAsset, "banner.jpg", "jpeg"},
		}
		for _, u := range uploads {
			if _, err := store.SaveDocument(ctx, client.ID, u.kind, u.name, []byte(u.data)); err != nil {
				t.Fatalf("SaveDocument(%s) failed: %v", u.name, err)
			}
		}

		docs, err := store.ListDocuments(ctx, client.ID)
		if err != nil {
			t.Fatalf("ListDocuments failed: %v", err)
		}
		if len(docs) != 4 {
			t.Fatalf("expected 4 documents, got %d", len(docs))
		}
		if docs[len(docs)-1].Type != model.KindAsset {
			t.Errorf("expected assets listed last, got %+v", docs[len(docs)-1])
		}

		got, _ := store.GetClient(ctx, client.ID)
		want := []string{"audience.txt", "logo.png", "voice.md"}
		if strings.Join(got.Documents, ",") != strings.Join(want, ",") {
			t.Errorf("expected documents %v, got %v", want, got.Documents)
		}

		contents, err := store.DocumentContents(ctx, client.ID)
		if err != nil {
			t.Fatalf("DocumentContents failed: %v", err)
		}
		wantContents := "--- audience.txt ---\nFounders.\n\n--- voice.md ---\nBe bold."
		if contents != wantContents {
			t.Errorf("unexpected contents:\n%q\nwant:\n%q", contents, wantContents)
		}

		if err := store.DeleteDocument(ctx, client.ID, model.KindBrandDoc, "voice.md"); err != nil {
			t.Fatalf("DeleteDocument failed: %v", err)
		}
		if err := store.DeleteDocument(ctx, client.ID, model.KindBrandDoc, "voice.md"); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound on second delete, got %v", err)
		}
		got, _ = store.GetClient(ctx, client.ID)
		if len(got.Documents) != 2 {
			t.Errorf("expected 2 brand documents after delete, got %v", got.Documents)
		}
	})
}

func TestSaveDocumentSanitizesName(t *testing.T) {
	forEachStore(t, func(t *testing.T, store ClientStore) {
		ctx := context.Background()
		client, _ := store.CreateClient(ctx, "Acme")

		doc, err := store.SaveDocument(ctx, client.ID, model.KindBrandDoc, "../../escape.md", []byte("x"))
		if err != nil {
			t.Fatalf("SaveDocument failed: %v", err)
		}
		if doc.Name != "escape.md" {
			t.Errorf("expected sanitized name 'escape.md', got %q", doc.Name)
		}

		if _, err := store.SaveDocument(ctx, client.ID, model.KindBrandDoc, "..", []byte("x")); err == nil {
			t.Error("expected error for invalid name")
		}
	})
}

func TestOutputs(t *testing.T) {
	forEachStore(t, func(t *testing.T, store ClientStore) {
		ctx := context.Background()
		client, _ := store.CreateClient(ctx, "Acme")

		inputs := map[string]string{"topic": "Go"}
		first, err := store.SaveOutput(ctx, model.SavedOutput{
			ClientID:    client.ID,
			FeatureID:   "blog-post",
			FeatureName: "Blog Post Writer",
			ModelID:     "anthropic/claude-sonnet-4.6",
			Inputs:      inputs,
			Output:      "# Go",
		})
		if err != nil {
			t.Fatalf("SaveOutput failed: %v", err)
		}
		if first.ID == "" || first.CreatedAt.IsZero() {
			t.Errorf("expected id and timestamp, got %+v", first)
		}
		inputs["topic"] = "mutated"

		time.Sleep(2 * time.Millisecond)
		second, _ := store.SaveOutput(ctx, model.SavedOutput{ClientID: client.ID, FeatureID: "ad-copy", FeatureName: "Ad Copy Generator", Output: "Buy now"})

		outputs, err := store.ListOutputs(ctx, client.ID)
		if err != nil {
			t.Fatalf("ListOutputs failed: %v", err)
		}
		if len(outputs) != 2 {
			t.Fatalf("expected 2 outputs, got %d", len(outputs))
		}
		if outputs[0].ID != second.ID {
			t.Errorf("expected newest output first")
		}
		if outputs[1].Inputs["topic"] != "Go" || outputs[1].Output != "# Go" {
			t.Errorf("unexpected stored output %+v", outputs[1])
		}

		if _, err := store.SaveOutput(ctx, model.SavedOutput{ClientID: "00000000-0000-0000-0000-000000000000"}); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound for unknown client, got %v", err)
		}
	})
}

func TestOpenSqliteFile(t *testing.T) {
	path := t.TempDir() + "/nested/nexus.db"

	store, err := OpenSqlite(path)
	if err != nil {
		t.Fatalf("OpenSqlite failed: %v", err)
	}
	client, err := store.CreateClient(context.Background(), "Acme")
	if err != nil {
		t.Fatalf("CreateClient failed: %v", err)
	}
	store.Close()

	reopened, err := OpenSqlite(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer reopened.Close()

	if _, err := reopened.GetClient(context.Background(), client.ID); err != nil {
		t.Errorf("expected client to persist, got %v", err)
	}
}

func TestOpenDriver(t *testing.T) {
	dir := t.TempDir()

	store, err := Open("", dir, "")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if _, ok := store.(*FileStore); !ok {
		t.Errorf("expected FileStore for empty driver, got %T", store)
	}

	if _, err := Open("postgres", dir, ""); err == nil {
		t.Error("expected error for unknown driver")
	}
}

func TestIsTextDocument(t *testing.T) {
	tests := map[string]bool{
		"notes.md":  true,
		"DATA.CSV":  true,
		"site.html": true,
		"conf.yaml": true,
		"logo.png":  false,
		"brief.pdf": false,
		"noext":     false,
	}
	for name, want := range tests {
		if got := IsTextDocument(name); got != want {
			t.Errorf("IsTextDocument(%q) = %v, want %v", name, got, want)
		}
	}
}
