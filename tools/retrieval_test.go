package tools

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

// fakeFirecrawl records requests and answers with a canned status and body.
type fakeFirecrawl struct {
	status   int
	body     string
	path     string
	auth     string
	requests []map[string]interface{}
}

func (f *fakeFirecrawl) start(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.path = r.URL.Path
		f.auth = r.Header.Get("Authorization")
		raw, _ := io.ReadAll(r.Body)
		var req map[string]interface{}
		_ = json.Unmarshal(raw, &req)
		f.requests = append(f.requests, req)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(f.status)
		_, _ = io.WriteString(w, f.body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newRetrievalExecutor(t *testing.T, apiKey, baseURL string) *Executor {
	t.Helper()
	registry, err := NewFirecrawlRegistry(NewFirecrawlClient(apiKey, baseURL))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return NewExecutor(registry, ToolConfig{TimeoutSecs: 5})
}

func TestScrapeSuccess(t *testing.T) {
	fake := &fakeFirecrawl{status: http.StatusOK, body: `{
		"success": true,
		"data": {"markdown": "# Hello", "metadata": {"title": "Hello", "statusCode": 200}}
	}`}
	srv := fake.start(t)
	executor := newRetrievalExecutor(t, "fc-key", srv.URL)

	out := executor.Execute(context.Background(), ScrapeToolName, map[string]interface{}{"url": "https://go.dev"})

	payload := decodePayload(t, out)
	if payload["success"] != true || payload["url"] != "https://go.dev" || payload["markdown"] != "# Hello" {
		t.Errorf("unexpected payload %v", payload)
	}
	meta, _ := payload["metadata"].(map[string]interface{})
	if meta["title"] != "Hello" {
		t.Errorf("expected metadata to pass through, got %v", payload["metadata"])
	}

	if fake.path != "/v1/scrape" {
		t.Errorf("unexpected path %q", fake.path)
	}
	if fake.auth != "Bearer fc-key" {
		t.Errorf("unexpected Authorization %q", fake.auth)
	}
	req := fake.requests[0]
	if req["onlyMainContent"] != true {
		t.Errorf("onlyMainContent should default to true, got %v", req["onlyMainContent"])
	}
	formats, _ := req["formats"].([]interface{})
	if len(formats) != 1 || formats[0] != "markdown" {
		t.Errorf("unexpected formats %v", req["formats"])
	}
}

func TestScrapeHonorsContentFilter(t *testing.T) {
	fake := &fakeFirecrawl{status: http.StatusOK, body: `{"success": true, "data": {"markdown": "x"}}`}
	srv := fake.start(t)
	executor := newRetrievalExecutor(t, "fc-key", srv.URL)

	executor.Execute(context.Background(), ScrapeToolName, map[string]interface{}{
		"url":             "https://go.dev",
		"onlyMainContent": false,
	})

	if fake.requests[0]["onlyMainContent"] != false {
		t.Errorf("expected onlyMainContent false, got %v", fake.requests[0]["onlyMainContent"])
	}
}

func TestScrapeRemoteFailure(t *testing.T) {
	fake := &fakeFirecrawl{status: http.StatusPaymentRequired, body: `{"success": false, "error": "Insufficient credits"}`}
	srv := fake.start(t)
	executor := newRetrievalExecutor(t, "fc-key", srv.URL)

	out := executor.Execute(context.Background(), ScrapeToolName, map[string]interface{}{"url": "https://go.dev"})

	payload := decodePayload(t, out)
	if payload["success"] != false || payload["url"] != "https://go.dev" {
		t.Errorf("unexpected payload %v", payload)
	}
	if payload["error"] != "firecrawl error (402): Insufficient credits" {
		t.Errorf("unexpected error %v", payload["error"])
	}
}

func TestRetrievalNotConfigured(t *testing.T) {
	executor := newRetrievalExecutor(t, "", "")

	tests := []struct {
		tool string
		args map[string]interface{}
	}{
		{ScrapeToolName, map[string]interface{}{"url": "https://go.dev"}},
		{SearchToolName, map[string]interface{}{"query": "golang"}},
		{ScrapeToolName, map[string]interface{}{}},
		{SearchToolName, map[string]interface{}{}},
	}

	for _, tt := range tests {
		t.Run(tt.tool, func(t *testing.T) {
			payload := decodePayload(t, executor.Execute(context.Background(), tt.tool, tt.args))
			if payload["error"] != "FIRECRAWL_API_KEY is not configured" {
				t.Errorf("unexpected payload %v", payload)
			}
			if _, ok := payload["message"]; !ok {
				t.Error("expected a message field")
			}
		})
	}
}

func TestSearchSuccess(t *testing.T) {
	fake := &fakeFirecrawl{status: http.StatusOK, body: `{
		"success": true,
		"data": [
			{"title": "Go", "url": "https://go.dev", "description": "The Go language", "markdown": "# Go"},
			{"title": "Tour", "url": "https://go.dev/tour", "description": "A tour", "markdown": "# Tour"}
		]
	}`}
	srv := fake.start(t)
	executor := newRetrievalExecutor(t, "fc-key", srv.URL)

	out := executor.Execute(context.Background(), SearchToolName, map[string]interface{}{"query": "golang"})

	var payload struct {
		Success     bool   `json:"success"`
		Query       string `json:"query"`
		ResultCount int    `json:"resultCount"`
		Results     []struct {
			Title   string `json:"title"`
			URL     string `json:"url"`
			Snippet string `json:"snippet"`
			Content string `json:"content"`
		} `json:"results"`
	}
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !payload.Success || payload.Query != "golang" || payload.ResultCount != 2 {
		t.Errorf("unexpected payload %+v", payload)
	}
	if payload.Results[0].Snippet != "The Go language" || payload.Results[1].Content != "# Tour" {
		t.Errorf("unexpected results %+v", payload.Results)
	}

	if fake.path != "/v1/search" {
		t.Errorf("unexpected path %q", fake.path)
	}
	if fake.requests[0]["limit"] != float64(DefaultSearchLimit) {
		t.Errorf("expected default limit, got %v", fake.requests[0]["limit"])
	}
}

func TestSearchLimitClamped(t *testing.T) {
	fake := &fakeFirecrawl{status: http.StatusOK, body: `{"success": true, "data": []}`}
	srv := fake.start(t)
	executor := newRetrievalExecutor(t, "fc-key", srv.URL)

	out := executor.Execute(context.Background(), SearchToolName, map[string]interface{}{"query": "golang", "limit": 50})

	if fake.requests[0]["limit"] != float64(MaxSearchLimit) {
		t.Errorf("expected limit clamped to %d, got %v", MaxSearchLimit, fake.requests[0]["limit"])
	}
	payload := decodePayload(t, out)
	if payload["resultCount"] != float64(0) {
		t.Errorf("unexpected result count %v", payload["resultCount"])
	}
}

func TestClampSearchLimit(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{-3, DefaultSearchLimit},
		{0, DefaultSearchLimit},
		{1, 1},
		{7, 7},
		{10, 10},
		{11, 10},
		{1000, 10},
	}
	for _, tt := range tests {
		if got := ClampSearchLimit(tt.in); got != tt.want {
			t.Errorf("ClampSearchLimit(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
