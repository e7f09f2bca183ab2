package llm

import (
	"testing"

	"crew-agent/internal/domain/entity"
	"crew-agent/internal/infrastructure/llm/ollama"
	"crew-agent/internal/infrastructure/llm/openaicompat"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProvider_ForGoal(t *testing.T) {
	cfg := DefaultConfig()
	cfg.APIKeys[entity.BackendOpenRouter] = "env-key"
	p := NewProvider(cfg)

	tests := []struct {
		name    string
		goal    entity.Goal
		want    any
		wantErr string
	}{
		{
			name: "ollama",
			goal: entity.Goal{Backend: entity.BackendOllama, ModelName: "llama3"},
			want: &ollama.Adapter{},
		},
		{
			name: "nvidia with key",
			goal: entity.Goal{Backend: entity.BackendNvidia, ModelName: "meta/llama3", APIKey: "k"},
			want: &openaicompat.Adapter{},
		},
		{
			name:    "nvidia without key",
			goal:    entity.Goal{Backend: entity.BackendNvidia, ModelName: "meta/llama3"},
			wantErr: "API key is required for NVIDIA",
		},
		{
			name:    "aistudio without key",
			goal:    entity.Goal{Backend: entity.BackendAIStudio, ModelName: "gemini-1.5-flash"},
			wantErr: "API key is required for Google AI Studio",
		},
		{
			name: "openrouter falls back to env key",
			goal: entity.Goal{Backend: entity.BackendOpenRouter, ModelName: "x/y"},
			want: &openaicompat.Adapter{},
		},
		{
			name:    "unknown backend",
			goal:    entity.Goal{Backend: "mystery", ModelName: "m"},
			wantErr: `unknown backend "mystery"`,
		},
		{
			name:    "ollama without model",
			goal:    entity.Goal{Backend: entity.BackendOllama},
			wantErr: "model name is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.ForGoal(tt.goal)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.ErrorIs(t, err, entity.ErrConfiguration)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.want, got)
		})
	}
}
