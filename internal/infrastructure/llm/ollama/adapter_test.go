package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdapter_Complete(t *testing.T) {
	var model string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.True(t, strings.HasPrefix(r.URL.Path, "/api/"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		model, _ = body["model"].(string)

		w.Header().Set("Content-Type", "application/x-ndjson")
		w.Write([]byte(`{"model":"llama3","created_at":"2024-01-01T00:00:00Z","message":{"role":"assistant","content":"Final Answer: hi"},"response":"Final Answer: hi","done":true}` + "\n"))
	}))
	defer server.Close()

	adapter, err := NewAdapter(Config{ServerURL: server.URL, Model: "llama3"})
	require.NoError(t, err)

	reply, err := adapter.Complete(context.Background(), "say hi")
	require.NoError(t, err)

	assert.Equal(t, "Final Answer: hi", reply)
	assert.Equal(t, "llama3", model)
}

func TestAdapter_CompleteServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"model not loaded"}`))
	}))
	defer server.Close()

	adapter, err := NewAdapter(Config{ServerURL: server.URL, Model: "llama3"})
	require.NoError(t, err)

	_, err = adapter.Complete(context.Background(), "say hi")
	assert.ErrorContains(t, err, "ollama completion failed")
}
