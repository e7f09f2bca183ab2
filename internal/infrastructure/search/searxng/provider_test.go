package searxng

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"crew-agent/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProvider_Search(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "usd eur", q.Get("q"))
		assert.Equal(t, "json", q.Get("format"))
		assert.Equal(t, "2", q.Get("pageno"))
		assert.Equal(t, "news", q.Get("categories"))
		assert.Equal(t, "week", q.Get("time_range"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"results":[
			{"title":"Rates","url":"https://x.com","content":"USD to EUR","engine":"bing"},
			{"title":"Other","url":"https://y.com","snippet":"fallback snippet"}
		]}`))
	}))
	defer server.Close()

	p := New(DefaultConfig(server.URL + "/"))

	res, err := p.Search(context.Background(), "usd eur", 2, entity.SearchOptions{Categories: "news", TimeRange: "week"})
	require.NoError(t, err)
	require.Len(t, res, 2)

	assert.Equal(t, entity.SearchResult{Title: "Rates", URL: "https://x.com", Snippet: "USD to EUR", Source: "bing"}, res[0])
	assert.Equal(t, "fallback snippet", res[1].Snippet)
	assert.Equal(t, "searxng", res[1].Source)
}

func TestProvider_SearchNoTimeRange(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, present := r.URL.Query()["time_range"]
		assert.False(t, present)
		w.Write([]byte(`{"results":[]}`))
	}))
	defer server.Close()

	res, err := New(DefaultConfig(server.URL)).Search(context.Background(), "q", 1, entity.SearchOptions{})
	require.NoError(t, err)
	assert.Empty(t, res)
}

func TestProvider_SearchHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	_, err := New(DefaultConfig(server.URL)).Search(context.Background(), "q", 1, entity.SearchOptions{})
	assert.ErrorContains(t, err, "status 502")
}
