package di

import (
	"time"

	"crew-agent/internal/application/port/output"
	"crew-agent/internal/domain/entity"
	"crew-agent/internal/infrastructure/browserrpc"
	"crew-agent/internal/infrastructure/llm/ollama"
	"crew-agent/internal/infrastructure/llm/openaicompat"
	"crew-agent/internal/usecase/orchestrator"
)

type Config struct {
	HTTPAddr  string
	AccessLog bool

	WorkerAddr    string
	WorkerTimeout time.Duration
	// BrowserTools registers the browser tools. The worker must be started
	// separately.
	BrowserTools    bool
	BrowserHeadless bool
	BrowserBin      string

	WorkspaceDir string
	MemoryPath   string
	SearxngURL   string

	OllamaURL         string
	DefaultModel      string
	NvidiaBaseURL     string
	AIStudioBaseURL   string
	OpenRouterBaseURL string
	APIKeys           map[entity.Backend]string
	AIStudioDelay     time.Duration

	LogLevel string
	LogDir   string
}

// LoadConfig reads the process configuration from the environment.
func LoadConfig(env output.ConfigPort) Config {
	return Config{
		HTTPAddr:  env.GetWithDefault("HTTP_ADDR", "127.0.0.1:8000"),
		AccessLog: env.GetBool("ACCESS_LOG", true),

		WorkerAddr:      env.GetWithDefault("BROWSER_WORKER_ADDR", browserrpc.DefaultAddr),
		WorkerTimeout:   env.GetDuration("BROWSER_WORKER_TIMEOUT", 90*time.Second),
		BrowserTools:    env.GetBool("BROWSER_TOOLS", true),
		BrowserHeadless: env.GetBool("BROWSER_HEADLESS", false),
		BrowserBin:      env.Get("BROWSER_BIN"),

		WorkspaceDir: env.GetWithDefault("WORKSPACE_DIR", "agent_workspace"),
		MemoryPath:   env.GetWithDefault("MEMORY_DB", "agent_memory/memory.db"),
		SearxngURL:   env.GetWithDefault("SEARXNG_URL", "http://localhost:8080"),

		OllamaURL:         env.GetWithDefault("OLLAMA_URL", ollama.DefaultServerURL),
		DefaultModel:      env.Get("DEFAULT_MODEL"),
		NvidiaBaseURL:     env.GetWithDefault("NVIDIA_BASE_URL", openaicompat.NvidiaBaseURL),
		AIStudioBaseURL:   env.GetWithDefault("AISTUDIO_BASE_URL", openaicompat.AIStudioBaseURL),
		OpenRouterBaseURL: env.GetWithDefault("OPENROUTER_BASE_URL", openaicompat.OpenRouterBaseURL),
		APIKeys: map[entity.Backend]string{
			entity.BackendNvidia:     env.Get("NVIDIA_API_KEY"),
			entity.BackendAIStudio:   env.Get("GOOGLE_API_KEY"),
			entity.BackendOpenRouter: env.Get("OPENROUTER_API_KEY"),
		},
		AIStudioDelay: env.GetDuration("AISTUDIO_DELAY", orchestrator.AIStudioDelay),

		LogLevel: env.GetWithDefault("LOG_LEVEL", "info"),
		LogDir:   env.Get("LOG_DIR"),
	}
}
