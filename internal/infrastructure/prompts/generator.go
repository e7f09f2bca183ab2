package prompts

import (
	"bytes"
	"encoding/json"
	"strings"
	"text/template"

	"crew-agent/internal/application/port/output"
)

type ToolInfo struct {
	Name        string
	Description string
	// Input is a compact {"field":"type"} hint built from the tool schema.
	Input string
}

type PlannerPromptData struct {
	Input     string
	ToolNames string
}

// AgentPromptData feeds both the ReAct and the executor templates. Context is
// only rendered by the executor template.
type AgentPromptData struct {
	Input      string
	Context    string
	Tools      []ToolInfo
	ToolNames  string
	Scratchpad string
}

type SynthesizerPromptData struct {
	Context string
}

func ToolCatalog(registry output.ToolRegistry) ([]ToolInfo, string) {
	tools := registry.All()
	infos := make([]ToolInfo, 0, len(tools))
	names := make([]string, 0, len(tools))

	for _, tool := range tools {
		infos = append(infos, ToolInfo{
			Name:        tool.Name().String(),
			Description: tool.Description(),
			Input:       inputHint(tool.Parameters()),
		})
		names = append(names, tool.Name().String())
	}

	return infos, strings.Join(names, ", ")
}

func inputHint(params map[string]interface{}) string {
	props, ok := params["properties"].(map[string]interface{})
	if !ok || len(props) == 0 {
		return ""
	}

	hint := make(map[string]string, len(props))
	for name, raw := range props {
		typ := "string"
		if prop, ok := raw.(map[string]interface{}); ok {
			if t, ok := prop["type"].(string); ok {
				typ = t
			}
		}
		hint[name] = typ
	}

	b, err := json.Marshal(hint)
	if err != nil {
		return ""
	}
	return string(b)
}

func GeneratePlannerPrompt(baseTemplate string, data PlannerPromptData) (string, error) {
	return generate("planner", baseTemplate, data)
}

func GenerateAgentPrompt(baseTemplate string, data AgentPromptData) (string, error) {
	return generate("agent", baseTemplate, data)
}

func GenerateSynthesizerPrompt(baseTemplate string, data SynthesizerPromptData) (string, error) {
	return generate("synthesizer", baseTemplate, data)
}

func generate(name, baseTemplate string, data any) (string, error) {
	tmpl, err := template.New(name).Parse(baseTemplate)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}
