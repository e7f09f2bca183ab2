package tool

import (
	"context"
	"fmt"
	"strings"

	"crew-agent/internal/application/port/output"
	"crew-agent/internal/domain/entity"
	"crew-agent/internal/infrastructure/codeexec"
)

var _ output.ToolPort = (*PythonExecutorTool)(nil)

// PythonExecutorTool runs Python-like Starlark snippets in the shared
// process-wide session, so names defined by one request stay visible to
// every later request.
type PythonExecutorTool struct {
	session *codeexec.Session
}

func NewPythonExecutorTool(session *codeexec.Session) *PythonExecutorTool {
	return &PythonExecutorTool{session: session}
}

func (t *PythonExecutorTool) Name() entity.ToolName { return entity.ToolPythonExecutor }
func (t *PythonExecutorTool) Description() string {
	return "Executes Python-style code (Starlark dialect: no imports or classes) in a persistent environment and returns what it printed. " +
		"Markdown code fences are removed. Variables and functions are remembered across calls."
}
func (t *PythonExecutorTool) Parameters() map[string]interface{} {
	return schema([]string{"code"}, prop{"code", "string", "Code to execute; use print() to produce output"})
}

func (t *PythonExecutorTool) Execute(ctx context.Context, args string) (string, error) {
	code, err := singleField(t.Name(), args, "code")
	if err != nil {
		return "", err
	}
	if err := required(t.Name(), "code", codeexec.CleanCode(code)); err != nil {
		return "", err
	}

	out, err := t.session.Exec(ctx, code)
	if err != nil {
		return "", fail(err, "Error executing Python code: %v", err)
	}
	if strings.TrimSpace(out) == "" {
		return "Code executed successfully with no direct output.", nil
	}
	return fmt.Sprintf("Output:\n%s", out), nil
}
