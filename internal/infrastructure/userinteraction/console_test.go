package userinteraction

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"crew-agent/internal/domain/entity"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, events ...entity.Event) string {
	t.Helper()
	color.NoColor = true

	var buf bytes.Buffer
	r := NewConsoleRenderer(&buf)
	for _, ev := range events {
		require.NoError(t, r.Emit(context.Background(), ev))
	}
	return buf.String()
}

func TestRenderCrewRun(t *testing.T) {
	out := render(t,
		entity.CrewPlan(entity.Plan{{Step: "Find rate", Task: "search"}, {Step: "Convert", Task: "compute"}}),
		entity.CrewStepStart(0, "Find rate"),
		entity.TaskStart(1, "I should search", "web_search", `{"query": "usd eur"}`).WithPrefix(entity.CrewTaskPrefix),
		entity.TaskEnd(1, "Title: rates\nSnippet: ...").WithPrefix(entity.CrewTaskPrefix),
		entity.CrewStepEnd(0, "1 USD = 0.92 EUR", entity.StepStatusOK),
		entity.CrewStepEnd(1, "Step 2 failed.", entity.StepStatusFailed),
		entity.FinalAnswer("It is 0.92."),
	)

	assert.Contains(t, out, "Plan: 2 steps")
	assert.Contains(t, out, "  1. Find rate\n  2. Convert\n")
	assert.Contains(t, out, "Step 1: Find rate")
	assert.Contains(t, out, "   🔎 web_search\n")
	assert.Contains(t, out, "query: usd eur")
	assert.Contains(t, out, "   ✓ Title: rates\n")
	assert.Contains(t, out, "✓ Step 1 done: 1 USD = 0.92 EUR")
	assert.Contains(t, out, "✗ Step 2 failed")
	assert.True(t, strings.HasSuffix(out, "FINAL ANSWER:\nIt is 0.92.\n"))
}

func TestRenderErrors(t *testing.T) {
	out := render(t,
		entity.TaskError(2, "Error: tool not found"),
		entity.ErrorEvent("An agent error occurred: boom"),
	)

	assert.Contains(t, out, "❌ Error: tool not found")
	assert.Contains(t, out, "ERROR: An agent error occurred: boom")
}

func TestFormatToolInput(t *testing.T) {
	assert.Equal(t, "", formatToolInput(" "))
	assert.Equal(t, "golang", formatToolInput("golang"))
	assert.Equal(t, "url: https://go.dev", formatToolInput(`{"url": "https://go.dev", "question": "q"}`))
	assert.Equal(t, "urls: 2", formatToolInput(`{"urls": ["a", "b"], "question": "q"}`))
}
