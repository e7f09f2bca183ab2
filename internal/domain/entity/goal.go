package entity

import "strings"

type Mode string

const (
	ModeSingle    Mode = "agent"
	ModeMultiStep Mode = "crew"
)

// ParseMode maps the request mode onto a Mode. Anything that is not a
// multi-step alias runs as a single agent.
func ParseMode(s string) Mode {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "crew", "multi-step", "multistep", "multi_step":
		return ModeMultiStep
	default:
		return ModeSingle
	}
}

type Backend string

const (
	BackendOllama     Backend = "ollama"
	BackendAIStudio   Backend = "aistudio"
	BackendNvidia     Backend = "nvidia"
	BackendOpenRouter Backend = "openrouter"
)

type Goal struct {
	Prompt       string   `json:"prompt"`
	Backend      Backend  `json:"backend"`
	ModelName    string   `json:"model_name,omitempty"`
	APIKey       string   `json:"api_key,omitempty"`
	EnabledTools []string `json:"enabled_tools"`
	Mode         Mode     `json:"mode"`
}
