// Firecrawl API client.
//
// Information Hiding:
// - Endpoint paths and request bodies for /v1/scrape and /v1/search
// - Bearer authentication
// - Error extraction from non-success responses

package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// DefaultFirecrawlBaseURL is the hosted Firecrawl API.
const DefaultFirecrawlBaseURL = "https://api.firecrawl.dev"

// FirecrawlClient calls the Firecrawl retrieval service.
type FirecrawlClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewFirecrawlClient creates a client. An empty apiKey yields a client
// that reports itself as unconfigured.
func NewFirecrawlClient(apiKey, baseURL string) *FirecrawlClient {
	if baseURL == "" {
		baseURL = DefaultFirecrawlBaseURL
	}
	return &FirecrawlClient{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func (c *FirecrawlClient) WithHTTPClient(client *http.Client) *FirecrawlClient {
	c.httpClient = client
	return c
}

// Configured reports whether an API key is available.
func (c *FirecrawlClient) Configured() bool {
	return c != nil && c.apiKey != ""
}

// ScrapedPage is the readable content of one page.
type ScrapedPage struct {
	Markdown string                 `json:"markdown"`
	Metadata map[string]interface{} `json:"metadata"`
}

// SearchHit is one web search result with its scraped content.
type SearchHit struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description"`
	Markdown    string `json:"markdown"`
}

type scrapeRequest struct {
	URL             string   `json:"url"`
	Formats         []string `json:"formats"`
	OnlyMainContent bool     `json:"onlyMainContent"`
}

type searchRequest struct {
	Query         string        `json:"query"`
	Limit         int           `json:"limit"`
	ScrapeOptions scrapeOptions `json:"scrapeOptions"`
}

type scrapeOptions struct {
	Formats []string `json:"formats"`
}

type firecrawlResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

// Scrape fetches a page as markdown.
func (c *FirecrawlClient) Scrape(ctx context.Context, url string, onlyMainContent bool) (ScrapedPage, error) {
	var page ScrapedPage
	err := c.post(ctx, "/v1/scrape", scrapeRequest{
		URL:             url,
		Formats:         []string{"markdown"},
		OnlyMainContent: onlyMainContent,
	}, &page)
	return page, err
}

// Search runs a web search and scrapes each hit as markdown.
func (c *FirecrawlClient) Search(ctx context.Context, query string, limit int) ([]SearchHit, error) {
	var hits []SearchHit
	err := c.post(ctx, "/v1/search", searchRequest{
		Query:         query,
		Limit:         limit,
		ScrapeOptions: scrapeOptions{Formats: []string{"markdown"}},
	}, &hits)
	return hits, err
}

func (c *FirecrawlClient) post(ctx context.Context, path string, body interface{}, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	var envelope firecrawlResponse
	decodeErr := json.Unmarshal(raw, &envelope)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if decodeErr == nil && envelope.Error != "" {
			return fmt.Errorf("firecrawl error (%d): %s", resp.StatusCode, envelope.Error)
		}
		return fmt.Errorf("firecrawl error (%d): %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	if decodeErr != nil {
		return fmt.Errorf("failed to decode response: %w", decodeErr)
	}
	if !envelope.Success {
		if envelope.Error == "" {
			envelope.Error = "request was not successful"
		}
		return fmt.Errorf("firecrawl error: %s", envelope.Error)
	}

	if len(envelope.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return fmt.Errorf("failed to decode response data: %w", err)
	}
	return nil
}
