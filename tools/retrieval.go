// Retrieval tools backed by Firecrawl.
//
// Information Hiding:
// - Argument decoding and defaults
// - Result limit clamping
// - Result payload shapes returned to the model

package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// Tool names exposed to the model.
const (
	ScrapeToolName = "firecrawl_scrape"
	SearchToolName = "firecrawl_search"
)

// Search result limits.
const (
	DefaultSearchLimit = 5
	MaxSearchLimit     = 10
)

// notConfigured is returned instead of calling Firecrawl without a key.
var notConfigured = map[string]string{
	"error":   "FIRECRAWL_API_KEY is not configured",
	"message": "Set FIRECRAWL_API_KEY in .env.local to enable web scraping and search.",
}

// ScrapeTool fetches a single page as readable markdown.
type ScrapeTool struct {
	client *FirecrawlClient
}

// NewScrapeTool creates the page-fetch tool.
func NewScrapeTool(client *FirecrawlClient) *ScrapeTool {
	return &ScrapeTool{client: client}
}

// Metadata returns the tool metadata.
func (t *ScrapeTool) Metadata() ToolMetadata {
	return ToolMetadata{
		Name:        ScrapeToolName,
		Description: "Scrape a web page and return its content as clean markdown. Use this to read articles, competitor pages, landing pages, or any URL for research.",
		Parameters: []ToolParameter{
			{Name: "url", ParamType: "string", Description: "The full URL to scrape", Required: true},
			{Name: "onlyMainContent", ParamType: "boolean", Description: "If true, extract only the main content (no nav, footer, sidebars). Default true.", Required: false},
		},
	}
}

type scrapeArgs struct {
	URL             string `json:"url"`
	OnlyMainContent *bool  `json:"onlyMainContent"`
}

// Validate validates the arguments. An unconfigured client skips
// validation so Execute can report the missing key.
func (t *ScrapeTool) Validate(args json.RawMessage) error {
	if !t.client.Configured() {
		return nil
	}
	var a scrapeArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	if strings.TrimSpace(a.URL) == "" {
		return fmt.Errorf("url cannot be empty")
	}
	return nil
}

// Execute scrapes the page.
func (t *ScrapeTool) Execute(ctx context.Context, args json.RawMessage) (ToolResult, error) {
	if !t.client.Configured() {
		return JSONResult(notConfigured), nil
	}

	var a scrapeArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return FailureResult(fmt.Errorf("invalid arguments: %w", err)), nil
	}
	onlyMain := a.OnlyMainContent == nil || *a.OnlyMainContent

	page, err := t.client.Scrape(ctx, a.URL, onlyMain)
	if err != nil {
		return JSONResult(map[string]interface{}{
			"success": false,
			"url":     a.URL,
			"error":   err.Error(),
		}), nil
	}

	metadata := page.Metadata
	if metadata == nil {
		metadata = map[string]interface{}{}
	}
	return JSONResult(map[string]interface{}{
		"success":  true,
		"url":      a.URL,
		"markdown": page.Markdown,
		"metadata": metadata,
	}), nil
}

// SearchTool runs a web search and returns scraped hits.
type SearchTool struct {
	client *FirecrawlClient
}

// NewSearchTool creates the web-search tool.
func NewSearchTool(client *FirecrawlClient) *SearchTool {
	return &SearchTool{client: client}
}

// Metadata returns the tool metadata.
func (t *SearchTool) Metadata() ToolMetadata {
	return ToolMetadata{
		Name:        SearchToolName,
		Description: "Search the web and return results with their page content. Use this for SERP research, competitor discovery, and finding sources.",
		Parameters: []ToolParameter{
			{Name: "query", ParamType: "string", Description: "The search query", Required: true},
			{Name: "limit", ParamType: "number", Description: "Maximum number of results to return (default 5, max 10)", Required: false},
		},
	}
}

type searchArgs struct {
	Query string   `json:"query"`
	Limit *float64 `json:"limit"`
}

// Validate validates the arguments.
func (t *SearchTool) Validate(args json.RawMessage) error {
	if !t.client.Configured() {
		return nil
	}
	var a searchArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	if strings.TrimSpace(a.Query) == "" {
		return fmt.Errorf("query cannot be empty")
	}
	return nil
}

// Execute runs the search.
func (t *SearchTool) Execute(ctx context.Context, args json.RawMessage) (ToolResult, error) {
	if !t.client.Configured() {
		return JSONResult(notConfigured), nil
	}

	var a searchArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return FailureResult(fmt.Errorf("invalid arguments: %w", err)), nil
	}

	limit := DefaultSearchLimit
	if a.Limit != nil {
		limit = int(*a.Limit)
	}
	limit = ClampSearchLimit(limit)

	hits, err := t.client.Search(ctx, a.Query, limit)
	if err != nil {
		return JSONResult(map[string]interface{}{
			"success": false,
			"query":   a.Query,
			"error":   err.Error(),
		}), nil
	}

	type result struct {
		Title   string `json:"title"`
		URL     string `json:"url"`
		Snippet string `json:"snippet"`
		Content string `json:"content"`
	}
	results := make([]result, 0, len(hits))
	for _, h := range hits {
		results = append(results, result{
			Title:   h.Title,
			URL:     h.URL,
			Snippet: h.Description,
			Content: h.Markdown,
		})
	}

	return JSONResult(map[string]interface{}{
		"success":     true,
		"query":       a.Query,
		"results":     results,
		"resultCount": len(results),
	}), nil
}

// ClampSearchLimit bounds a requested limit to [1, MaxSearchLimit].
// Non-positive values fall back to DefaultSearchLimit.
func ClampSearchLimit(limit int) int {
	if limit <= 0 {
		return DefaultSearchLimit
	}
	if limit > MaxSearchLimit {
		return MaxSearchLimit
	}
	return limit
}
