package prompts

import (
	"context"
	"strings"
	"testing"

	"crew-agent/internal/application/service"
	"crew-agent/internal/domain/entity"
)

type mockTool struct {
	name        entity.ToolName
	description string
	params      map[string]interface{}
}

func (m *mockTool) Name() entity.ToolName              { return m.name }
func (m *mockTool) Description() string                { return m.description }
func (m *mockTool) Parameters() map[string]interface{} { return m.params }
func (m *mockTool) Execute(ctx context.Context, arguments string) (string, error) {
	return "", nil
}

func newRegistry() *service.ToolRegistryImpl {
	registry := service.NewToolRegistry()
	registry.Register(&mockTool{
		name:        entity.ToolWebSearch,
		description: "Search the web",
		params: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"query": map[string]interface{}{"type": "string"},
			},
		},
	})
	registry.Register(&mockTool{
		name:        entity.ToolGetCurrentTime,
		description: "Current local time",
	})
	return registry
}

func TestToolCatalog(t *testing.T) {
	infos, names := ToolCatalog(newRegistry())

	if names != "web_search, get_current_time" {
		t.Errorf("unexpected tool names %q", names)
	}
	if len(infos) != 2 {
		t.Fatalf("expected 2 tools, got %d", len(infos))
	}
	if infos[0].Input != `{"query":"string"}` {
		t.Errorf("unexpected input hint %q", infos[0].Input)
	}
	if infos[1].Input != "" {
		t.Errorf("tool without schema should have no hint, got %q", infos[1].Input)
	}
}

func TestGeneratePlannerPrompt(t *testing.T) {
	result, err := GeneratePlannerPrompt(PlannerPrompt, PlannerPromptData{
		Input:     "Find the EUR/USD rate",
		ToolNames: "web_search, write_file",
	})
	if err != nil {
		t.Fatalf("GeneratePlannerPrompt failed: %v", err)
	}

	if !strings.Contains(result, "executor agent can use: web_search, write_file") {
		t.Error("Result should list the tool names")
	}
	if !strings.Contains(result, "User Request: Find the EUR/USD rate\nYour JSON Plan:") {
		t.Error("Result should end with the user request")
	}
}

func TestGenerateAgentPrompt(t *testing.T) {
	tools, names := ToolCatalog(newRegistry())

	react, err := GenerateAgentPrompt(ReactPrompt, AgentPromptData{
		Input:      "What time is it?",
		Tools:      tools,
		ToolNames:  names,
		Scratchpad: " I should check the clock.",
	})
	if err != nil {
		t.Fatalf("GenerateAgentPrompt failed: %v", err)
	}

	if !strings.Contains(react, `web_search: Search the web Input: {"query":"string"}`) {
		t.Error("Result should contain the tool catalog")
	}
	if !strings.Contains(react, "one of [web_search, get_current_time]") {
		t.Error("Result should contain the tool names")
	}
	if !strings.HasSuffix(strings.TrimSpace(react), "Question: What time is it?\nThought: I should check the clock.") {
		t.Errorf("Result should end with question and scratchpad:\n%s", react)
	}

	executor, err := GenerateAgentPrompt(ExecutorPrompt, AgentPromptData{
		Input:     "Convert 100 EUR",
		Context:   "Step 1 (Rate):\n1.09\n\n",
		Tools:     tools,
		ToolNames: names,
	})
	if err != nil {
		t.Fatalf("GenerateAgentPrompt failed: %v", err)
	}

	if !strings.Contains(executor, "Previous Steps' Results:\nStep 1 (Rate):\n1.09") {
		t.Error("Executor prompt should carry the context")
	}
	if !strings.Contains(executor, "Your Assigned Task:\nConvert 100 EUR") {
		t.Error("Executor prompt should carry the task")
	}
}

func TestGenerateSynthesizerPrompt(t *testing.T) {
	result, err := GenerateSynthesizerPrompt(SynthesizerPrompt, SynthesizerPromptData{Context: "Step 1 (A):\nx\n\n"})
	if err != nil {
		t.Fatalf("GenerateSynthesizerPrompt failed: %v", err)
	}

	if !strings.Contains(result, "Results from all steps:\nStep 1 (A):\nx") {
		t.Error("Result should contain the context")
	}
}

func TestGeneratePromptInvalidTemplate(t *testing.T) {
	_, err := GeneratePlannerPrompt(`Test {{.InvalidField}}`, PlannerPromptData{})
	if err == nil {
		t.Error("Expected error for invalid template, got nil")
	}

	_, err = GenerateSynthesizerPrompt(`Test {{.Context`, SynthesizerPromptData{})
	if err == nil {
		t.Error("Expected error for unterminated action, got nil")
	}
}
