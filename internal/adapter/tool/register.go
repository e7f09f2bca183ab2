package tool

import (
	"time"

	"crew-agent/internal/application/port/output"
	"crew-agent/internal/infrastructure/codeexec"
	"crew-agent/internal/infrastructure/workspace"
)

// Dependencies lists the collaborators of the tool set. Tools whose
// collaborator is nil are not registered.
type Dependencies struct {
	Workspace *workspace.Workspace
	Browser   output.BrowserWorkerPort
	Search    output.SearchPort
	Reader    output.PageReader
	Session   *codeexec.Session
	Memory    output.MemoryStore
	Now       func() time.Time
}

func RegisterAll(registry output.ToolRegistry, deps Dependencies) {
	registry.Register(NewCurrentTimeTool(deps.Now))

	if deps.Search != nil {
		registry.Register(NewWebSearchTool(deps.Search))
		registry.Register(NewMultiWebSearchTool(deps.Search))
	}
	if deps.Reader != nil {
		registry.Register(NewIntelligentWebReaderTool(deps.Reader))
		registry.Register(NewSummarizeURLsTool(deps.Reader))
	}
	if deps.Workspace != nil {
		registry.Register(NewListFilesTool(deps.Workspace))
		registry.Register(NewReadFileTool(deps.Workspace))
		registry.Register(NewWriteFileTool(deps.Workspace))
	}
	if deps.Session != nil {
		registry.Register(NewPythonExecutorTool(deps.Session))
	}
	if deps.Memory != nil {
		registry.Register(NewRememberTool(deps.Memory))
		registry.Register(NewRecallTool(deps.Memory))
	}
	if deps.Browser != nil {
		registry.Register(NewOpenURLTool(deps.Browser))
		registry.Register(NewClickElementTool(deps.Browser))
		registry.Register(NewTypeTextTool(deps.Browser))
		registry.Register(NewReadPageContentTool(deps.Browser))
		registry.Register(NewListInteractiveElementsTool(deps.Browser))
		registry.Register(NewCloseBrowserTool(deps.Browser))
		if deps.Workspace != nil {
			registry.Register(NewTakeScreenshotTool(deps.Browser, deps.Workspace))
		}
	}
}
