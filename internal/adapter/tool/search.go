package tool

import (
	"context"
	"fmt"
	"strings"

	"crew-agent/internal/application/port/output"
	"crew-agent/internal/domain/entity"
)

const (
	webSearchMaxResults   = 5
	multiSearchMaxResults = 3
)

var (
	_ output.ToolPort = (*WebSearchTool)(nil)
	_ output.ToolPort = (*MultiWebSearchTool)(nil)
)

type WebSearchTool struct {
	search output.SearchPort
}

func NewWebSearchTool(search output.SearchPort) *WebSearchTool {
	return &WebSearchTool{search: search}
}

func (t *WebSearchTool) Name() entity.ToolName { return entity.ToolWebSearch }
func (t *WebSearchTool) Description() string {
	return "Searches the web and returns the top results with title, snippet and URL. Input: the search query."
}
func (t *WebSearchTool) Parameters() map[string]interface{} {
	return schema([]string{"query"}, prop{"query", "string", "Search query"})
}

func (t *WebSearchTool) Execute(ctx context.Context, args string) (string, error) {
	query, err := singleField(t.Name(), args, "query")
	if err != nil {
		return "", err
	}
	if err := required(t.Name(), "query", query); err != nil {
		return "", err
	}

	results, err := t.search.Run(ctx, query, entity.SearchOptions{Pages: 1, MaxResults: webSearchMaxResults})
	if err != nil {
		return "", fmt.Errorf("search failed: %w", err)
	}
	if len(results) == 0 {
		return "No search results found.", nil
	}

	var sb strings.Builder
	writeResults(&sb, results)
	return strings.TrimSpace(sb.String()), nil
}

type MultiWebSearchTool struct {
	search output.SearchPort
}

func NewMultiWebSearchTool(search output.SearchPort) *MultiWebSearchTool {
	return &MultiWebSearchTool{search: search}
}

type multiSearchInput struct {
	Queries []string `json:"queries"`
}

func (t *MultiWebSearchTool) Name() entity.ToolName { return entity.ToolMultiWebSearch }
func (t *MultiWebSearchTool) Description() string {
	return `Searches the web for several queries at the same time and returns the results per query. Input: {"queries": ["What is LangChain?", "Latest AI news"]}`
}
func (t *MultiWebSearchTool) Parameters() map[string]interface{} {
	return schema([]string{"queries"}, prop{"queries", "array", "Search queries to run in parallel"})
}

func (t *MultiWebSearchTool) Execute(ctx context.Context, args string) (string, error) {
	var in multiSearchInput
	if err := decodeArgs(t.Name(), args, &in); err != nil {
		return "", err
	}
	if len(in.Queries) == 0 {
		return "", entity.NewInvalidInput(t.Name(), `"queries" must list at least one query`)
	}

	var sb strings.Builder
	for _, qr := range t.search.RunMany(ctx, in.Queries, entity.SearchOptions{Pages: 1, MaxResults: multiSearchMaxResults}) {
		fmt.Fprintf(&sb, "--- Results for query: '%s' ---\n\n", qr.Query)
		switch {
		case qr.Err != nil:
			fmt.Fprintf(&sb, "An error occurred during this search: %v\n\n", qr.Err)
		case len(qr.Results) == 0:
			sb.WriteString("No search results found for this query.\n\n")
		default:
			writeResults(&sb, qr.Results)
		}
	}
	return strings.TrimSpace(sb.String()), nil
}

func writeResults(sb *strings.Builder, results []entity.SearchResult) {
	for _, r := range results {
		title := r.Title
		if title == "" {
			title = "No Title"
		}
		snippet := r.Snippet
		if snippet == "" {
			snippet = "No snippet available."
		}
		url := r.URL
		if url == "" {
			url = "#"
		}
		fmt.Fprintf(sb, "Title: %s\nSnippet: %s\nURL: %s\n\n", title, snippet, url)
	}
}
