package tool

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"crew-agent/internal/application/port/output"
	"crew-agent/internal/domain/entity"
	"crew-agent/internal/infrastructure/workspace"
)

var (
	_ output.ToolPort = (*ListFilesTool)(nil)
	_ output.ToolPort = (*ReadFileTool)(nil)
	_ output.ToolPort = (*WriteFileTool)(nil)
)

type ListFilesTool struct {
	ws *workspace.Workspace
}

func NewListFilesTool(ws *workspace.Workspace) *ListFilesTool {
	return &ListFilesTool{ws: ws}
}

func (t *ListFilesTool) Name() entity.ToolName { return entity.ToolListFiles }
func (t *ListFilesTool) Description() string {
	return `Lists all files and directories in a directory within the workspace. Input: {"directory": "."} or a bare directory path; defaults to the workspace root.`
}
func (t *ListFilesTool) Parameters() map[string]interface{} {
	return schema(nil, prop{"directory", "string", "Directory relative to the workspace. Defaults to \".\""})
}

func (t *ListFilesTool) Execute(ctx context.Context, args string) (string, error) {
	dir := "."
	if strings.TrimSpace(args) != "" {
		v, err := singleField(t.Name(), args, "directory")
		if err != nil {
			return "", err
		}
		if strings.TrimSpace(v) != "" {
			dir = v
		}
	}

	path, err := t.ws.Resolve(dir)
	if err != nil {
		return "", fail(err, "Access denied.")
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return "", fmt.Errorf("list %s: %w", dir, err)
	}
	if len(entries) == 0 {
		return "Directory is empty.", nil
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return strings.Join(names, "\n"), nil
}

type ReadFileTool struct {
	ws *workspace.Workspace
}

func NewReadFileTool(ws *workspace.Workspace) *ReadFileTool {
	return &ReadFileTool{ws: ws}
}

func (t *ReadFileTool) Name() entity.ToolName { return entity.ToolReadFile }
func (t *ReadFileTool) Description() string {
	return `Reads the content of a file from the workspace. Input: {"filename": "my_notes.txt"}`
}
func (t *ReadFileTool) Parameters() map[string]interface{} {
	return schema([]string{"filename"}, prop{"filename", "string", "Path of the file, relative to the workspace"})
}

func (t *ReadFileTool) Execute(ctx context.Context, args string) (string, error) {
	filename, err := singleField(t.Name(), args, "filename")
	if err != nil {
		return "", err
	}
	if err := required(t.Name(), "filename", filename); err != nil {
		return "", err
	}

	path, err := t.ws.Resolve(filename)
	if err != nil {
		return "", fail(err, "Access denied.")
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", fail(err, "File '%s' not found.", filename)
	}
	if err != nil {
		return "", fmt.Errorf("read %s: %w", filename, err)
	}
	return string(data), nil
}

type WriteFileTool struct {
	ws *workspace.Workspace
}

func NewWriteFileTool(ws *workspace.Workspace) *WriteFileTool {
	return &WriteFileTool{ws: ws}
}

type writeFileInput struct {
	Filename string `json:"filename"`
	Content  string `json:"content"`
}

func (t *WriteFileTool) Name() entity.ToolName { return entity.ToolWriteFile }
func (t *WriteFileTool) Description() string {
	return `Writes content to a file in the workspace, creating parent directories. Input: {"filename": "my_notes.txt", "content": "This is my note."}`
}
func (t *WriteFileTool) Parameters() map[string]interface{} {
	return schema([]string{"filename", "content"},
		prop{"filename", "string", "Path of the file, relative to the workspace"},
		prop{"content", "string", "Content to write"},
	)
}

func (t *WriteFileTool) Execute(ctx context.Context, args string) (string, error) {
	var in writeFileInput
	if err := decodeArgs(t.Name(), args, &in); err != nil {
		return "", err
	}
	if err := required(t.Name(), "filename", in.Filename); err != nil {
		return "", err
	}

	path, err := t.ws.Resolve(in.Filename)
	if err != nil {
		return "", fail(err, "Access denied. You can only write files within the workspace.")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create directories for %s: %w", in.Filename, err)
	}
	if err := os.WriteFile(path, []byte(in.Content), 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", in.Filename, err)
	}
	return fmt.Sprintf("Successfully wrote content to '%s'.", in.Filename), nil
}
