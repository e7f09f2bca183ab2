package ollama

import (
	"context"
	"fmt"

	"crew-agent/internal/application/port/output"

	"github.com/tmc/langchaingo/llms"
	lcollama "github.com/tmc/langchaingo/llms/ollama"
)

const DefaultServerURL = "http://127.0.0.1:11434"

var _ output.LLMPort = (*Adapter)(nil)

type Adapter struct {
	llm    llms.Model
	model  string
	logger output.LoggerPort
}

type Config struct {
	ServerURL string
	Model     string
	Logger    output.LoggerPort
}

func NewAdapter(cfg Config) (*Adapter, error) {
	if cfg.ServerURL == "" {
		cfg.ServerURL = DefaultServerURL
	}

	llm, err := lcollama.New(
		lcollama.WithModel(cfg.Model),
		lcollama.WithServerURL(cfg.ServerURL),
	)
	if err != nil {
		return nil, fmt.Errorf("create ollama client: %w", err)
	}

	return &Adapter{llm: llm, model: cfg.Model, logger: cfg.Logger}, nil
}

func (a *Adapter) Complete(ctx context.Context, prompt string) (string, error) {
	if a.logger != nil {
		a.logger.Debug("Ollama completion", "model", a.model, "promptChars", len(prompt))
	}

	reply, err := llms.GenerateFromSinglePrompt(ctx, a.llm, prompt)
	if err != nil {
		return "", fmt.Errorf("ollama completion failed: %w", err)
	}
	return reply, nil
}
