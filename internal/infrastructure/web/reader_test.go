package web

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func articlePage() string {
	var sb strings.Builder
	sb.WriteString(`<html><head><title>Rates</title></head><body><nav>Home</nav><article><h1>Exchange rates</h1>`)
	for i := 0; i < 40; i++ {
		sb.WriteString(`<p>Filler paragraph about unrelated weather and sports results that pads the article body.</p>`)
	}
	sb.WriteString(`<p>The euro to dollar exchange rate closed at 1.09 dollar per euro on Friday &amp; markets were calm.</p>`)
	for i := 0; i < 40; i++ {
		sb.WriteString(`<p>More filler text about gardens, recipes and travel plans for the holidays ahead.</p>`)
	}
	sb.WriteString(`</article><footer>Copyright</footer></body></html>`)
	return sb.String()
}

func TestReader_FetchText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.Header.Get("User-Agent"), "Mozilla")
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(articlePage()))
	}))
	defer server.Close()

	text, err := NewReader(DefaultConfig()).FetchText(context.Background(), server.URL)
	require.NoError(t, err)

	assert.Contains(t, text, "1.09 dollar per euro on Friday & markets")
	assert.NotContains(t, text, "<p>")
}

func TestReader_RelevantChunks(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(articlePage()))
	}))
	defer server.Close()

	reader := NewReader(DefaultConfig())

	chunks, err := reader.RelevantChunks(context.Background(), server.URL, "euro dollar exchange rate", 2)
	require.NoError(t, err)
	require.Len(t, chunks, 2)
	assert.Contains(t, chunks[0], "exchange rate closed at 1.09")
	for _, c := range chunks {
		assert.LessOrEqual(t, len([]rune(c)), chunkSize)
	}
}

func TestReader_FetchTextErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/empty" {
			w.Write([]byte(`<html><body><script>var x;</script></body></html>`))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	reader := NewReader(DefaultConfig())

	_, err := reader.FetchText(context.Background(), server.URL+"/missing")
	assert.ErrorContains(t, err, "status code 404")

	_, err = reader.FetchText(context.Background(), server.URL+"/empty")
	assert.ErrorIs(t, err, ErrEmptyContent)
}
