package entity

type ToolName string

const (
	ToolGetCurrentTime       ToolName = "get_current_time"
	ToolWebSearch            ToolName = "web_search"
	ToolMultiWebSearch       ToolName = "multi_web_search"
	ToolIntelligentWebReader ToolName = "intelligent_web_reader"
	ToolSummarizeURLs        ToolName = "summarize_urls"

	ToolListFiles ToolName = "list_files"
	ToolReadFile  ToolName = "read_file"
	ToolWriteFile ToolName = "write_file"

	ToolPythonExecutor ToolName = "python_executor"

	ToolRememberThis ToolName = "remember_this"
	ToolRecallMemory ToolName = "recall_memory"

	ToolOpenURL                 ToolName = "open_url"
	ToolListInteractiveElements ToolName = "list_interactive_elements"
	ToolClickElement            ToolName = "click_element"
	ToolTypeText                ToolName = "type_text"
	ToolReadPageContent         ToolName = "read_page_content"
	ToolTakeScreenshot          ToolName = "take_screenshot"
	ToolCloseBrowser            ToolName = "close_browser"
)

func (t ToolName) String() string {
	return string(t)
}

type ToolDefinition struct {
	Name        ToolName
	Description string
	Parameters  map[string]interface{}
}
