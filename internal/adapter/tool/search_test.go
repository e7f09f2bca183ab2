package tool

import (
	"context"
	"errors"
	"testing"

	"crew-agent/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWebSearchFormatsResults(t *testing.T) {
	search := &fakeSearch{results: map[string][]entity.SearchResult{
		"usd eur": {
			{Title: "Exchange rates", Snippet: "1 USD = 0.92 EUR", URL: "https://rates.example/usd"},
			{URL: "https://bare.example"},
		},
	}}

	out, err := NewWebSearchTool(search).Execute(context.Background(), `{"query": "usd eur"}`)
	require.NoError(t, err)

	assert.Equal(t,
		"Title: Exchange rates\nSnippet: 1 USD = 0.92 EUR\nURL: https://rates.example/usd\n\n"+
			"Title: No Title\nSnippet: No snippet available.\nURL: https://bare.example", out)
	require.Len(t, search.opts, 1)
	assert.Equal(t, 1, search.opts[0].Pages)
	assert.Equal(t, 5, search.opts[0].MaxResults)
}

func TestWebSearchNoResults(t *testing.T) {
	out, err := NewWebSearchTool(&fakeSearch{}).Execute(context.Background(), "nothing here")
	require.NoError(t, err)
	assert.Equal(t, "No search results found.", out)
}

func TestWebSearchRequiresQuery(t *testing.T) {
	_, err := NewWebSearchTool(&fakeSearch{}).Execute(context.Background(), `{"query": " "}`)
	var invalid *entity.InvalidInputError
	assert.True(t, errors.As(err, &invalid))
}

func TestMultiWebSearchIsolatesFailures(t *testing.T) {
	search := &fakeSearch{
		results: map[string][]entity.SearchResult{
			"go": {{Title: "Go", Snippet: "The Go language", URL: "https://go.dev"}},
		},
		errs: map[string]error{"broken": errors.New("searxng returned 502")},
	}

	out, err := NewMultiWebSearchTool(search).Execute(context.Background(), `{"queries": ["go", "broken", "empty"]}`)
	require.NoError(t, err)

	assert.Equal(t,
		"--- Results for query: 'go' ---\n\n"+
			"Title: Go\nSnippet: The Go language\nURL: https://go.dev\n\n"+
			"--- Results for query: 'broken' ---\n\n"+
			"An error occurred during this search: searxng returned 502\n\n"+
			"--- Results for query: 'empty' ---\n\n"+
			"No search results found for this query.", out)
	for _, opts := range search.opts {
		assert.Equal(t, 3, opts.MaxResults)
	}
}

func TestMultiWebSearchRejectsEmptyList(t *testing.T) {
	_, err := NewMultiWebSearchTool(&fakeSearch{}).Execute(context.Background(), `{"queries": []}`)
	assert.Error(t, err)

	_, err = NewMultiWebSearchTool(&fakeSearch{}).Execute(context.Background(), "go, rust")
	assert.Error(t, err)
}
