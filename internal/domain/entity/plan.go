package entity

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

type PlanStep struct {
	Step string `json:"step"`
	Task string `json:"task"`
}

// UnmarshalJSON accepts numbers and booleans where strings are expected, as
// in {"step": 1, "task": "..."}. null decodes to the empty string.
func (s *PlanStep) UnmarshalJSON(data []byte) error {
	var raw struct {
		Step json.RawMessage `json:"step"`
		Task json.RawMessage `json:"task"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	step, err := scalarString(raw.Step)
	if err != nil {
		return fmt.Errorf("step: %w", err)
	}
	task, err := scalarString(raw.Task)
	if err != nil {
		return fmt.Errorf("task: %w", err)
	}

	s.Step, s.Task = step, task
	return nil
}

func scalarString(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", nil
	}

	switch raw[0] {
	case '"':
		var s string
		err := json.Unmarshal(raw, &s)
		return s, err
	case '{', '[':
		return "", fmt.Errorf("expected a scalar, got %s", raw)
	default:
		// Numbers and booleans keep their literal text.
		return string(raw), nil
	}
}

type Plan []PlanStep

type StepStatus string

const (
	StepStatusOK     StepStatus = "ok"
	StepStatusFailed StepStatus = "failed"
)

type StepResult struct {
	Index  int
	Title  string
	Output string
	Status StepStatus
}

// Context is the append-only log of step results handed to every later step
// and to the synthesizer.
type Context struct {
	results []StepResult
}

func (c *Context) Append(r StepResult) {
	c.results = append(c.results, r)
}

func (c *Context) Len() int {
	return len(c.results)
}

// Results returns a copy so callers cannot rewrite history.
func (c *Context) Results() []StepResult {
	out := make([]StepResult, len(c.results))
	copy(out, c.results)
	return out
}

func (c *Context) String() string {
	var sb strings.Builder
	for i, r := range c.results {
		fmt.Fprintf(&sb, "Step %d (%s):\n%s\n\n", i+1, r.Title, r.Output)
	}
	return sb.String()
}
