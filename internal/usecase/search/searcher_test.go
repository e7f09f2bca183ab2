package search

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"crew-agent/internal/domain/entity"
	"crew-agent/internal/infrastructure/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	mu    sync.Mutex
	pages map[string]map[int][]entity.SearchResult
	fail  map[string]error
	calls []int
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Search(_ context.Context, query string, page int, _ entity.SearchOptions) ([]entity.SearchResult, error) {
	f.mu.Lock()
	f.calls = append(f.calls, page)
	f.mu.Unlock()

	if err := f.fail[query]; err != nil {
		return nil, err
	}
	return f.pages[query][page], nil
}

func TestSearcher_Run(t *testing.T) {
	p := &fakeProvider{pages: map[string]map[int][]entity.SearchResult{
		"go generics": {
			1: {
				{Title: "Intro", Snippet: "a tutorial", URL: "https://a.com/x?utm_source=1"},
				{Title: "Go generics explained", Snippet: "generics in go", URL: "https://b.com"},
			},
			2: {
				{Title: "Duplicate", Snippet: "go generics", URL: "https://A.com/x"},
				{Title: "Generics", Snippet: "", URL: "https://c.com"},
			},
		},
	}}
	s := New(p, logger.NewNop())

	res, err := s.Run(context.Background(), "go generics", entity.SearchOptions{Pages: 2, MaxResults: 2})
	require.NoError(t, err)

	require.Len(t, res, 2)
	assert.Equal(t, "Go generics explained", res[0].Title)
	assert.Equal(t, "Generics", res[1].Title)
	assert.ElementsMatch(t, []int{1, 2}, p.calls)
}

func TestSearcher_RunPageFailure(t *testing.T) {
	p := &fakeProvider{fail: map[string]error{"q": errors.New("timeout")}}
	s := New(p, logger.NewNop())

	_, err := s.Run(context.Background(), "q", entity.SearchOptions{Pages: 1})
	assert.ErrorContains(t, err, "timeout")
}

func TestSearcher_RunManyIsolatesFailures(t *testing.T) {
	p := &fakeProvider{
		pages: map[string]map[int][]entity.SearchResult{
			"ok": {1: {{Title: "ok result", URL: "https://ok.com"}}},
		},
		fail: map[string]error{"bad": fmt.Errorf("provider timeout")},
	}
	s := New(p, logger.NewNop())

	out := s.RunMany(context.Background(), []string{"ok", "bad"}, entity.SearchOptions{Pages: 1, MaxResults: 3})

	require.Len(t, out, 2)
	assert.Equal(t, "ok", out[0].Query)
	assert.NoError(t, out[0].Err)
	assert.Len(t, out[0].Results, 1)
	assert.Equal(t, "bad", out[1].Query)
	assert.ErrorContains(t, out[1].Err, "provider timeout")
}
