package di

import (
	"context"
	"fmt"

	"crew-agent/internal/adapter/httpapi"
	"crew-agent/internal/adapter/tool"
	"crew-agent/internal/application/port/output"
	"crew-agent/internal/application/service"
	"crew-agent/internal/domain/entity"
	"crew-agent/internal/infrastructure/browser/rod"
	"crew-agent/internal/infrastructure/browserrpc"
	"crew-agent/internal/infrastructure/codeexec"
	"crew-agent/internal/infrastructure/llm"
	"crew-agent/internal/infrastructure/logger"
	"crew-agent/internal/infrastructure/memory/sqlite"
	"crew-agent/internal/infrastructure/metrics"
	"crew-agent/internal/infrastructure/search/searxng"
	"crew-agent/internal/infrastructure/web"
	"crew-agent/internal/infrastructure/workspace"
	"crew-agent/internal/usecase/orchestrator"
	"crew-agent/internal/usecase/search"
)

type Container struct {
	Logger       output.LoggerPort
	Metrics      *metrics.Collector
	Tools        output.ToolRegistry
	Search       *search.Searcher
	Reader       *web.Reader
	Workspace    *workspace.Workspace
	Memory       output.MemoryStore
	Orchestrator *orchestrator.UseCase
	HTTP         *httpapi.Server
}

// NewContainer wires the agent process. The browser worker is a separate
// process and is only addressed here.
func NewContainer(cfg Config) (*Container, error) {
	log, err := logger.NewLoggerAdapter(logger.Config{Level: cfg.LogLevel, Dir: cfg.LogDir, Name: "agent"})
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	ws, err := workspace.New(cfg.WorkspaceDir)
	if err != nil {
		log.Close()
		return nil, fmt.Errorf("failed to create workspace: %w", err)
	}

	memory, err := sqlite.New(cfg.MemoryPath)
	if err != nil {
		log.Close()
		return nil, fmt.Errorf("failed to open memory store: %w", err)
	}

	collector := metrics.NewCollector("")

	searxCfg := searxng.DefaultConfig(cfg.SearxngURL)
	searxCfg.Logger = log
	searcher := search.New(searxng.New(searxCfg), log)
	reader := web.NewReader(web.DefaultConfig())
	session := codeexec.NewSession()

	deps := tool.Dependencies{
		Workspace: ws,
		Search:    searcher,
		Reader:    reader,
		Session:   session,
		Memory:    memory,
	}
	if cfg.BrowserTools {
		deps.Browser = browserrpc.NewClient(cfg.WorkerAddr, cfg.WorkerTimeout)
	}
	tools := service.NewToolRegistry()
	tool.RegisterAll(tools, deps)

	models := llm.NewProvider(llm.Config{
		OllamaURL:         cfg.OllamaURL,
		DefaultModel:      cfg.DefaultModel,
		NvidiaBaseURL:     cfg.NvidiaBaseURL,
		AIStudioBaseURL:   cfg.AIStudioBaseURL,
		OpenRouterBaseURL: cfg.OpenRouterBaseURL,
		APIKeys:           cfg.APIKeys,
		Logger:            log,
	})

	ocfg := orchestrator.DefaultConfig()
	ocfg.Delays[entity.BackendAIStudio] = cfg.AIStudioDelay
	uc := orchestrator.New(models, tools, log, collector, ocfg)

	server := httpapi.NewServer(httpapi.Dependencies{
		Runner:    uc,
		Search:    searcher,
		Reader:    reader,
		Workspace: ws,
		Session:   session,
		Metrics:   collector.Handler(),
		Logger:    log,
		AccessLog: cfg.AccessLog,
	})

	log.Info("Container ready", "tools", len(tools.All()), "workspace", ws.Root())

	return &Container{
		Logger:       log,
		Metrics:      collector,
		Tools:        tools,
		Search:       searcher,
		Reader:       reader,
		Workspace:    ws,
		Memory:       memory,
		Orchestrator: uc,
		HTTP:         server,
	}, nil
}

func (c *Container) Close() {
	if c.Memory != nil {
		if err := c.Memory.Close(); err != nil {
			c.Logger.Warn("Failed to close memory store", "error", err)
		}
	}
	if c.Logger != nil {
		c.Logger.Close()
	}
}

// BrowserWorker owns the browser and the command server in front of it.
type BrowserWorker struct {
	Browser output.BrowserPort
	Server  *browserrpc.Server
	Logger  output.LoggerPort
}

func NewBrowserWorker(ctx context.Context, cfg Config) (*BrowserWorker, error) {
	log, err := logger.NewLoggerAdapter(logger.Config{Level: cfg.LogLevel, Dir: cfg.LogDir, Name: "browser-worker"})
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	browserCfg := rod.DefaultConfig()
	browserCfg.Headless = cfg.BrowserHeadless
	browserCfg.Bin = cfg.BrowserBin
	browser, err := rod.NewBrowserAdapter(ctx, browserCfg)
	if err != nil {
		log.Close()
		return nil, fmt.Errorf("failed to create browser: %w", err)
	}

	return &BrowserWorker{
		Browser: browser,
		Server:  browserrpc.NewServer(browser, log),
		Logger:  log,
	}, nil
}

func (w *BrowserWorker) Close() {
	if w.Browser != nil {
		w.Browser.Close()
	}
	if w.Logger != nil {
		w.Logger.Close()
	}
}
