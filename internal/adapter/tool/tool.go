// Package tool implements the capabilities the agent can call. Every tool
// takes a JSON object as input; tools with a single field also accept the
// bare value.
package tool

import (
	"encoding/json"
	"fmt"
	"strings"

	"crew-agent/internal/domain/entity"
)

// failure is a tool error whose text is shown to the model as is while still
// matching its cause with errors.Is.
type failure struct {
	msg   string
	cause error
}

func (f *failure) Error() string { return f.msg }
func (f *failure) Unwrap() error { return f.cause }

func fail(cause error, format string, args ...any) error {
	return &failure{msg: fmt.Sprintf(format, args...), cause: cause}
}

// decodeArgs unmarshals a JSON object into dst.
func decodeArgs(tool entity.ToolName, args string, dst any) error {
	args = strings.TrimSpace(args)
	if !strings.HasPrefix(args, "{") {
		return entity.NewInvalidInput(tool, "expected a JSON object, got %q", clip(args, 80))
	}
	if err := json.Unmarshal([]byte(args), dst); err != nil {
		return entity.NewInvalidInput(tool, "%v", err)
	}
	return nil
}

// singleField returns field from a JSON object, or the whole input when it
// is a bare value.
func singleField(tool entity.ToolName, args, field string) (string, error) {
	args = strings.TrimSpace(args)
	if !strings.HasPrefix(args, "{") {
		return unquote(args), nil
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal([]byte(args), &obj); err != nil {
		return "", entity.NewInvalidInput(tool, "%v", err)
	}
	raw, ok := obj[field]
	if !ok {
		return "", entity.NewInvalidInput(tool, "missing %q", field)
	}

	var value string
	if err := json.Unmarshal(raw, &value); err != nil {
		return "", entity.NewInvalidInput(tool, "%q must be a string", field)
	}
	return value, nil
}

func required(tool entity.ToolName, field, value string) error {
	if strings.TrimSpace(value) == "" {
		return entity.NewInvalidInput(tool, "%q is required", field)
	}
	return nil
}

func unquote(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && (s[0] == '"' && s[len(s)-1] == '"' || s[0] == '\'' && s[len(s)-1] == '\'') {
		return s[1 : len(s)-1]
	}
	return s
}

func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}

type prop struct {
	name        string
	typ         string
	description string
}

func schema(required []string, props ...prop) map[string]interface{} {
	properties := make(map[string]interface{}, len(props))
	for _, p := range props {
		def := map[string]interface{}{
			"type":        p.typ,
			"description": p.description,
		}
		if p.typ == "array" {
			def["items"] = map[string]interface{}{"type": "string"}
		}
		properties[p.name] = def
	}
	if required == nil {
		required = []string{}
	}
	return map[string]interface{}{
		"type":       "object",
		"properties": properties,
		"required":   required,
	}
}
