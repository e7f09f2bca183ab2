// Package openaicompat talks to any backend that exposes the OpenAI chat
// completions API (NVIDIA, Google AI Studio, OpenRouter).
package openaicompat

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"crew-agent/internal/application/port/output"

	"github.com/sashabaranov/go-openai"
)

const (
	NvidiaBaseURL     = "https://integrate.api.nvidia.com/v1"
	AIStudioBaseURL   = "https://generativelanguage.googleapis.com/v1beta/openai"
	OpenRouterBaseURL = "https://openrouter.ai/api/v1"

	defaultTemperature = 0.1
)

var ErrEmptyResponse = errors.New("no choices in response")

var _ output.LLMPort = (*Adapter)(nil)

type Adapter struct {
	client      *openai.Client
	model       string
	temperature float32
	logger      output.LoggerPort
}

type Config struct {
	APIKey      string
	Model       string
	BaseURL     string
	Temperature float32
	Logger      output.LoggerPort
}

func DefaultConfig(baseURL, apiKey, model string) Config {
	return Config{
		APIKey:      apiKey,
		Model:       model,
		BaseURL:     baseURL,
		Temperature: defaultTemperature,
	}
}

type loggingTransport struct {
	base   http.RoundTripper
	logger output.LoggerPort
}

func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	var bodyBytes []byte
	if req.Body != nil {
		bodyBytes, _ = io.ReadAll(req.Body)
		req.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))
	}

	var requestData struct {
		Model    string `json:"model"`
		Messages []struct {
			Content string `json:"content"`
		} `json:"messages"`
	}
	promptChars := 0
	if len(bodyBytes) > 0 && json.Unmarshal(bodyBytes, &requestData) == nil {
		for _, m := range requestData.Messages {
			promptChars += len(m.Content)
		}
	}

	t.logger.Debug("HTTP Request",
		"method", req.Method,
		"url", req.URL.String(),
		"model", requestData.Model,
		"promptChars", promptChars,
	)

	resp, err := t.base.RoundTrip(req)

	if resp != nil {
		t.logger.Debug("HTTP Response",
			"status", resp.Status,
			"statusCode", resp.StatusCode,
		)
	}

	return resp, err
}

func NewAdapter(cfg Config) *Adapter {
	config := openai.DefaultConfig(cfg.APIKey)
	config.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	if cfg.Logger != nil {
		config.HTTPClient = &http.Client{
			Transport: &loggingTransport{
				base:   http.DefaultTransport,
				logger: cfg.Logger,
			},
		}
	}

	return &Adapter{
		client:      openai.NewClientWithConfig(config),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		logger:      cfg.Logger,
	}
}

// Complete sends prompt as a single user message and returns the text of the
// first choice.
func (a *Adapter) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: a.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: a.temperature,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}

	if a.logger != nil {
		a.logger.Debug("Chat completion received",
			"model", a.model,
			"finishReason", resp.Choices[0].FinishReason,
			"totalTokens", resp.Usage.TotalTokens)
	}

	return resp.Choices[0].Message.Content, nil
}
