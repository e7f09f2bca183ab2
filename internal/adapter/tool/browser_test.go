package tool

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"crew-agent/internal/domain/entity"
	"crew-agent/internal/infrastructure/browserrpc"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypeTextInputForms(t *testing.T) {
	tests := []struct {
		name         string
		args         string
		wantSelector string
		wantText     string
	}{
		{name: "json", args: `{"selector": "#q", "text": "golang"}`, wantSelector: "#q", wantText: "golang"},
		{name: "legacy", args: "selector=#q, text=golang, generics", wantSelector: "#q", wantText: "golang, generics"},
		{name: "quoted legacy", args: `"selector=input[name=q], text=hi"`, wantSelector: "input[name=q]", wantText: "hi"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			worker := &fakeWorker{}
			_, err := NewTypeTextTool(worker).Execute(context.Background(), tt.args)
			require.NoError(t, err)
			require.Len(t, worker.typed, 1)
			assert.Equal(t, tt.wantSelector, worker.typed[0][0])
			assert.Equal(t, tt.wantText, worker.typed[0][1])
		})
	}
}

func TestTypeTextRejectsMalformedLegacyInput(t *testing.T) {
	_, err := NewTypeTextTool(&fakeWorker{}).Execute(context.Background(), "#q golang")
	assert.Error(t, err)
}

func TestBrowserErrorTexts(t *testing.T) {
	down := &fakeWorker{err: browserrpc.ErrWorkerUnreachable}
	_, err := NewOpenURLTool(down).Execute(context.Background(), "https://example.com")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Failed to connect to the browser server. Is it running?")
	assert.ErrorIs(t, err, browserrpc.ErrWorkerUnreachable)

	broken := &fakeWorker{err: &browserrpc.CommandError{Command: "click_element", Message: "element not found"}}
	_, err = NewClickElementTool(broken).Execute(context.Background(), "#missing")
	require.Error(t, err)
	assert.Equal(t, "Browser server error: element not found", err.Error())
}

func TestListInteractiveElements(t *testing.T) {
	worker := &fakeWorker{}
	tool := NewListInteractiveElementsTool(worker)

	out, err := tool.Execute(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "No interactive elements found on the page.", out)

	worker.elements = []entity.InteractiveElement{{Tag: "button", ID: "go", Text: "Go"}}
	out, err = tool.Execute(context.Background(), "")
	require.NoError(t, err)
	assert.Contains(t, out, `"id": "go"`)
}

func TestTakeScreenshotSavesIntoWorkspace(t *testing.T) {
	ws := newWorkspace(t)
	worker := &fakeWorker{screenshot: []byte{0xFF, 0xD8, 0xFF}}
	tool := NewTakeScreenshotTool(worker, ws)

	out, err := tool.Execute(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "Screenshot saved to 'screenshot.jpg' (3 bytes).", out)

	data, err := os.ReadFile(filepath.Join(ws.Root(), "screenshot.jpg"))
	require.NoError(t, err)
	assert.Equal(t, worker.screenshot, data)

	_, err = tool.Execute(context.Background(), `{"filename": "../x.jpg"}`)
	assert.ErrorIs(t, err, entity.ErrAccessDenied)
}
