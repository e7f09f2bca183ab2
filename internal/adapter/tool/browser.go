package tool

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"crew-agent/internal/application/port/output"
	"crew-agent/internal/domain/entity"
	"crew-agent/internal/infrastructure/browserrpc"
	"crew-agent/internal/infrastructure/workspace"
)

var (
	_ output.ToolPort = (*OpenURLTool)(nil)
	_ output.ToolPort = (*ClickElementTool)(nil)
	_ output.ToolPort = (*TypeTextTool)(nil)
	_ output.ToolPort = (*ReadPageContentTool)(nil)
	_ output.ToolPort = (*ListInteractiveElementsTool)(nil)
	_ output.ToolPort = (*TakeScreenshotTool)(nil)
	_ output.ToolPort = (*CloseBrowserTool)(nil)
)

// browserError turns client failures into the text the model sees. A
// worker that is down reads differently from a command that failed.
func browserError(err error) error {
	var cmdErr *browserrpc.CommandError
	switch {
	case errors.Is(err, browserrpc.ErrWorkerUnreachable):
		return fail(err, "Failed to connect to the browser server. Is it running? Error: %v", err)
	case errors.As(err, &cmdErr):
		return fail(err, "Browser server error: %s", cmdErr.Message)
	default:
		return err
	}
}

type OpenURLTool struct {
	worker output.BrowserWorkerPort
}

func NewOpenURLTool(worker output.BrowserWorkerPort) *OpenURLTool {
	return &OpenURLTool{worker: worker}
}

func (t *OpenURLTool) Name() entity.ToolName { return entity.ToolOpenURL }
func (t *OpenURLTool) Description() string {
	return "Opens a URL in the shared browser and waits for the page to load. Must be used before other browser actions."
}
func (t *OpenURLTool) Parameters() map[string]interface{} {
	return schema([]string{"url"}, prop{"url", "string", "Full URL including https://"})
}

func (t *OpenURLTool) Execute(ctx context.Context, args string) (string, error) {
	url, err := singleField(t.Name(), args, "url")
	if err != nil {
		return "", err
	}
	if err := required(t.Name(), "url", url); err != nil {
		return "", err
	}

	res, err := t.worker.OpenURL(ctx, url)
	if err != nil {
		return "", browserError(err)
	}
	return res, nil
}

type ClickElementTool struct {
	worker output.BrowserWorkerPort
}

func NewClickElementTool(worker output.BrowserWorkerPort) *ClickElementTool {
	return &ClickElementTool{worker: worker}
}

func (t *ClickElementTool) Name() entity.ToolName { return entity.ToolClickElement }
func (t *ClickElementTool) Description() string {
	return "Clicks on an element specified by a CSS selector (or an XPath starting with /)."
}
func (t *ClickElementTool) Parameters() map[string]interface{} {
	return schema([]string{"selector"}, prop{"selector", "string", "CSS selector or XPath of the element"})
}

func (t *ClickElementTool) Execute(ctx context.Context, args string) (string, error) {
	selector, err := singleField(t.Name(), args, "selector")
	if err != nil {
		return "", err
	}
	if err := required(t.Name(), "selector", selector); err != nil {
		return "", err
	}

	res, err := t.worker.ClickElement(ctx, selector)
	if err != nil {
		return "", browserError(err)
	}
	return res, nil
}

type TypeTextTool struct {
	worker output.BrowserWorkerPort
}

func NewTypeTextTool(worker output.BrowserWorkerPort) *TypeTextTool {
	return &TypeTextTool{worker: worker}
}

type typeTextInput struct {
	Selector string `json:"selector"`
	Text     string `json:"text"`
}

func (t *TypeTextTool) Name() entity.ToolName { return entity.ToolTypeText }
func (t *TypeTextTool) Description() string {
	return `Types text into an input field. Input: {"selector": "#search", "text": "golang"}. The form "selector=#search, text=golang" is also accepted.`
}
func (t *TypeTextTool) Parameters() map[string]interface{} {
	return schema([]string{"selector", "text"},
		prop{"selector", "string", "CSS selector of the input field"},
		prop{"text", "string", "Text to type"},
	)
}

func (t *TypeTextTool) Execute(ctx context.Context, args string) (string, error) {
	in, err := t.parse(args)
	if err != nil {
		return "", err
	}

	res, err := t.worker.TypeText(ctx, in.Selector, in.Text)
	if err != nil {
		return "", browserError(err)
	}
	return res, nil
}

func (t *TypeTextTool) parse(args string) (typeTextInput, error) {
	var in typeTextInput
	args = strings.TrimSpace(args)

	if strings.HasPrefix(args, "{") {
		if err := decodeArgs(t.Name(), args, &in); err != nil {
			return in, err
		}
	} else {
		selectorPart, text, ok := strings.Cut(unquote(args), ", text=")
		if !ok {
			return in, entity.NewInvalidInput(t.Name(), "input must contain ', text='")
		}
		if !strings.HasPrefix(selectorPart, "selector=") {
			return in, entity.NewInvalidInput(t.Name(), "input must start with 'selector='")
		}
		in.Selector = strings.TrimPrefix(selectorPart, "selector=")
		in.Text = text
	}

	return in, required(t.Name(), "selector", in.Selector)
}

type ReadPageContentTool struct {
	worker output.BrowserWorkerPort
}

func NewReadPageContentTool(worker output.BrowserWorkerPort) *ReadPageContentTool {
	return &ReadPageContentTool{worker: worker}
}

func (t *ReadPageContentTool) Name() entity.ToolName { return entity.ToolReadPageContent }
func (t *ReadPageContentTool) Description() string {
	return "Reads the cleaned text content of the current page. Input is ignored."
}
func (t *ReadPageContentTool) Parameters() map[string]interface{} { return schema(nil) }

func (t *ReadPageContentTool) Execute(ctx context.Context, args string) (string, error) {
	res, err := t.worker.ReadPageContent(ctx)
	if err != nil {
		return "", browserError(err)
	}
	return res, nil
}

type ListInteractiveElementsTool struct {
	worker output.BrowserWorkerPort
}

func NewListInteractiveElementsTool(worker output.BrowserWorkerPort) *ListInteractiveElementsTool {
	return &ListInteractiveElementsTool{worker: worker}
}

func (t *ListInteractiveElementsTool) Name() entity.ToolName {
	return entity.ToolListInteractiveElements
}
func (t *ListInteractiveElementsTool) Description() string {
	return "Lists the interactive elements (links, buttons, inputs) on the current page. Use it to find selectors before clicking or typing. Input is ignored."
}
func (t *ListInteractiveElementsTool) Parameters() map[string]interface{} { return schema(nil) }

func (t *ListInteractiveElementsTool) Execute(ctx context.Context, args string) (string, error) {
	elements, err := t.worker.ListInteractiveElements(ctx)
	if err != nil {
		return "", browserError(err)
	}
	if len(elements) == 0 {
		return "No interactive elements found on the page.", nil
	}

	data, err := json.MarshalIndent(elements, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

type TakeScreenshotTool struct {
	worker output.BrowserWorkerPort
	ws     *workspace.Workspace
}

func NewTakeScreenshotTool(worker output.BrowserWorkerPort, ws *workspace.Workspace) *TakeScreenshotTool {
	return &TakeScreenshotTool{worker: worker, ws: ws}
}

func (t *TakeScreenshotTool) Name() entity.ToolName { return entity.ToolTakeScreenshot }
func (t *TakeScreenshotTool) Description() string {
	return `Saves a JPEG screenshot of the current page into the workspace. Input: {"filename": "page.jpg"}; defaults to screenshot.jpg.`
}
func (t *TakeScreenshotTool) Parameters() map[string]interface{} {
	return schema(nil, prop{"filename", "string", "Target file relative to the workspace"})
}

func (t *TakeScreenshotTool) Execute(ctx context.Context, args string) (string, error) {
	filename := "screenshot.jpg"
	if strings.TrimSpace(args) != "" {
		v, err := singleField(t.Name(), args, "filename")
		if err != nil {
			return "", err
		}
		if strings.TrimSpace(v) != "" {
			filename = v
		}
	}

	path, err := t.ws.Resolve(filename)
	if err != nil {
		return "", fail(err, "Access denied. You can only write files within the workspace.")
	}

	data, err := t.worker.TakeScreenshot(ctx)
	if err != nil {
		return "", browserError(err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create directories for %s: %w", filename, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("save screenshot: %w", err)
	}
	return fmt.Sprintf("Screenshot saved to '%s' (%d bytes).", filename, len(data)), nil
}

type CloseBrowserTool struct {
	worker output.BrowserWorkerPort
}

func NewCloseBrowserTool(worker output.BrowserWorkerPort) *CloseBrowserTool {
	return &CloseBrowserTool{worker: worker}
}

func (t *CloseBrowserTool) Name() entity.ToolName { return entity.ToolCloseBrowser }
func (t *CloseBrowserTool) Description() string {
	return "Closes the browser and stops the browser worker. Use it only at the very end of a session. Input is ignored."
}
func (t *CloseBrowserTool) Parameters() map[string]interface{} { return schema(nil) }

func (t *CloseBrowserTool) Execute(ctx context.Context, args string) (string, error) {
	res, err := t.worker.CloseBrowser(ctx)
	if err != nil {
		return "", browserError(err)
	}
	return res, nil
}
