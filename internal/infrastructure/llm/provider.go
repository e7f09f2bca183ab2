// Package llm selects the model client for a goal's backend.
package llm

import (
	"fmt"
	"strings"

	"crew-agent/internal/application/port/output"
	"crew-agent/internal/domain/entity"
	"crew-agent/internal/infrastructure/llm/ollama"
	"crew-agent/internal/infrastructure/llm/openaicompat"
)

var _ output.ModelProvider = (*Provider)(nil)

type Config struct {
	OllamaURL    string
	DefaultModel string

	NvidiaBaseURL     string
	AIStudioBaseURL   string
	OpenRouterBaseURL string

	// Fallback keys used when a request carries none.
	APIKeys map[entity.Backend]string

	Logger output.LoggerPort
}

func DefaultConfig() Config {
	return Config{
		OllamaURL:         ollama.DefaultServerURL,
		NvidiaBaseURL:     openaicompat.NvidiaBaseURL,
		AIStudioBaseURL:   openaicompat.AIStudioBaseURL,
		OpenRouterBaseURL: openaicompat.OpenRouterBaseURL,
		APIKeys:           map[entity.Backend]string{},
	}
}

type Provider struct {
	cfg Config
}

func NewProvider(cfg Config) *Provider {
	if cfg.APIKeys == nil {
		cfg.APIKeys = map[entity.Backend]string{}
	}
	return &Provider{cfg: cfg}
}

func (p *Provider) ForGoal(goal entity.Goal) (output.LLMPort, error) {
	model := strings.TrimSpace(goal.ModelName)
	if model == "" {
		model = p.cfg.DefaultModel
	}

	switch goal.Backend {
	case entity.BackendOllama, "":
		if model == "" {
			return nil, fmt.Errorf("%w: a model name is required for Ollama", entity.ErrConfiguration)
		}
		return ollama.NewAdapter(ollama.Config{
			ServerURL: p.cfg.OllamaURL,
			Model:     model,
			Logger:    p.cfg.Logger,
		})
	case entity.BackendAIStudio:
		return p.openAICompatible(goal, model, p.cfg.AIStudioBaseURL, "Google AI Studio")
	case entity.BackendNvidia:
		return p.openAICompatible(goal, model, p.cfg.NvidiaBaseURL, "NVIDIA")
	case entity.BackendOpenRouter:
		return p.openAICompatible(goal, model, p.cfg.OpenRouterBaseURL, "OpenRouter")
	default:
		return nil, fmt.Errorf("%w: unknown backend %q", entity.ErrConfiguration, goal.Backend)
	}
}

func (p *Provider) openAICompatible(goal entity.Goal, model, baseURL, label string) (output.LLMPort, error) {
	apiKey := strings.TrimSpace(goal.APIKey)
	if apiKey == "" {
		apiKey = p.cfg.APIKeys[goal.Backend]
	}
	if apiKey == "" {
		return nil, fmt.Errorf("%w: API key is required for %s", entity.ErrConfiguration, label)
	}
	if model == "" {
		return nil, fmt.Errorf("%w: a model name is required for %s", entity.ErrConfiguration, label)
	}

	cfg := openaicompat.DefaultConfig(baseURL, apiKey, model)
	cfg.Logger = p.cfg.Logger
	return openaicompat.NewAdapter(cfg), nil
}
