package openaicompat

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"crew-agent/internal/infrastructure/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type chatRequest struct {
	Model       string  `json:"model"`
	Temperature float32 `json:"temperature"`
	Messages    []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func TestAdapter_Complete(t *testing.T) {
	var got chatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"Final Answer: 42"},"finish_reason":"stop"}],"usage":{"total_tokens":7}}`))
	}))
	defer server.Close()

	cfg := DefaultConfig(server.URL+"/", "secret", "meta/llama3")
	cfg.Logger = logger.NewNop()

	reply, err := NewAdapter(cfg).Complete(context.Background(), "What is the answer?")
	require.NoError(t, err)

	assert.Equal(t, "Final Answer: 42", reply)
	assert.Equal(t, "meta/llama3", got.Model)
	assert.InDelta(t, 0.1, got.Temperature, 1e-6)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "user", got.Messages[0].Role)
	assert.Equal(t, "What is the answer?", got.Messages[0].Content)
}

func TestAdapter_CompleteErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "Bearer empty" {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"id":"1","object":"chat.completion","choices":[]}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"bad key","type":"invalid_request_error"}}`))
	}))
	defer server.Close()

	_, err := NewAdapter(DefaultConfig(server.URL, "wrong", "m")).Complete(context.Background(), "hi")
	assert.ErrorContains(t, err, "chat completion failed")

	_, err = NewAdapter(DefaultConfig(server.URL, "empty", "m")).Complete(context.Background(), "hi")
	assert.ErrorIs(t, err, ErrEmptyResponse)
}
