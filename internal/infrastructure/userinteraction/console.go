// Package userinteraction renders run progress on a terminal.
package userinteraction

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"crew-agent/internal/application/port/output"
	"crew-agent/internal/domain/entity"

	"github.com/fatih/color"
)

var _ output.EventSink = (*ConsoleRenderer)(nil)

// ConsoleRenderer prints each event as it arrives. It never fails, so a run
// is never aborted because of the terminal.
type ConsoleRenderer struct {
	mu  sync.Mutex
	out io.Writer
}

func NewConsoleRenderer(out io.Writer) *ConsoleRenderer {
	if out == nil {
		out = os.Stdout
	}
	return &ConsoleRenderer{out: out}
}

var (
	headerColor = color.New(color.FgCyan, color.Bold)
	toolColor   = color.New(color.FgYellow, color.Bold)
	thinkColor  = color.New(color.FgBlue)
	dimColor    = color.New(color.Faint)
	okColor     = color.New(color.FgGreen)
	errColor    = color.New(color.FgRed)
	answerColor = color.New(color.FgGreen, color.Bold)
)

func (c *ConsoleRenderer) Emit(_ context.Context, ev entity.Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	indent := ""
	if strings.HasPrefix(ev.Name, entity.CrewTaskPrefix+"_") {
		indent = "   "
	}

	switch d := ev.Data.(type) {
	case entity.CrewPlanData:
		headerColor.Fprintf(c.out, "\n━━━ Plan: %d steps ━━━\n", len(d.Plan))
		for i, s := range d.Plan {
			dimColor.Fprintf(c.out, "  %d. %s\n", i+1, s.Step)
		}

	case entity.CrewStepStartData:
		headerColor.Fprintf(c.out, "\n━━━ Step %d: %s ━━━\n", d.Index+1, d.Step)

	case entity.CrewStepEndData:
		if d.Status == entity.StepStatusFailed {
			errColor.Fprintf(c.out, "✗ Step %d failed: %s\n", d.Index+1, truncate(d.Result, 300))
			return nil
		}
		okColor.Fprintf(c.out, "✓ Step %d done: %s\n", d.Index+1, truncate(d.Result, 300))

	case entity.TaskStartData:
		if d.Thought != "" {
			thinkColor.Fprintf(c.out, "\n%s💭 ", indent)
			dimColor.Fprintln(c.out, truncate(d.Thought, 500))
		}
		icon := toolIcon(d.Tool)
		toolColor.Fprintf(c.out, "%s%s %s\n", indent, icon, d.Tool)
		if summary := formatToolInput(d.Input); summary != "" {
			dimColor.Fprintf(c.out, "%s   %s\n", indent, summary)
		}

	case entity.TaskEndData:
		okColor.Fprintf(c.out, "%s✓ %s\n", indent, truncate(firstLine(d.Output), 150))

	case entity.TaskErrorData:
		errColor.Fprintf(c.out, "%s❌ ", indent)
		dimColor.Fprintln(c.out, truncate(d.Error, 300))

	case entity.FinalAnswerData:
		answerColor.Fprintln(c.out, "\nFINAL ANSWER:")
		fmt.Fprintln(c.out, d.Reply)

	case entity.ErrorData:
		errColor.Fprintf(c.out, "\nERROR: %s\n", d.Message)

	default:
		dimColor.Fprintf(c.out, "%s%s\n", indent, ev.Name)
	}
	return nil
}

func toolIcon(name string) string {
	switch entity.ToolName(name) {
	case entity.ToolWebSearch, entity.ToolMultiWebSearch:
		return "🔎"
	case entity.ToolIntelligentWebReader, entity.ToolSummarizeURLs, entity.ToolReadPageContent:
		return "📖"
	case entity.ToolOpenURL:
		return "🌐"
	case entity.ToolClickElement:
		return "🖱️"
	case entity.ToolTypeText:
		return "✏️"
	case entity.ToolTakeScreenshot:
		return "📸"
	case entity.ToolListFiles, entity.ToolReadFile, entity.ToolWriteFile:
		return "📁"
	case entity.ToolPythonExecutor:
		return "🐍"
	case entity.ToolRememberThis, entity.ToolRecallMemory:
		return "🧠"
	case entity.ToolGetCurrentTime:
		return "🕒"
	}
	return "🔧"
}

// formatToolInput shows the interesting fields of a JSON input, or the raw
// input when it is a bare value.
func formatToolInput(input string) string {
	input = strings.TrimSpace(input)
	if input == "" {
		return ""
	}

	var args map[string]interface{}
	if err := json.Unmarshal([]byte(input), &args); err != nil {
		return truncate(input, 100)
	}

	for _, key := range []string{"url", "query", "filename", "selector", "directory", "fact"} {
		if v, ok := args[key].(string); ok && v != "" {
			return fmt.Sprintf("%s: %s", key, truncate(v, 80))
		}
	}
	if urls, ok := args["urls"].([]interface{}); ok {
		return fmt.Sprintf("urls: %d", len(urls))
	}
	if queries, ok := args["queries"].([]interface{}); ok {
		return fmt.Sprintf("queries: %d", len(queries))
	}
	return truncate(input, 100)
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(s), "\n")
	return line
}

func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen]) + "..."
}
