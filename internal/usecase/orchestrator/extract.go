package orchestrator

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"crew-agent/internal/domain/entity"
)

var (
	ErrNoJSON        = errors.New("no JSON value found")
	ErrAmbiguousJSON = errors.New("more than one top-level JSON value")
)

var fencePattern = regexp.MustCompile("(?s)```(?:json|JSON)?\\s*(.*?)\\s*```")

// ExtractJSON finds the JSON value embedded in model output. A fenced
// ```json block wins; otherwise the first bracketed value is taken by
// matching brackets outside of strings. Mismatched brackets, invalid JSON
// and a second top-level value all fail instead of guessing.
func ExtractJSON(text string) (json.RawMessage, error) {
	for _, m := range fencePattern.FindAllStringSubmatch(text, -1) {
		candidate := strings.TrimSpace(m[1])
		if json.Valid([]byte(candidate)) {
			return json.RawMessage(candidate), nil
		}
	}

	start := strings.IndexAny(text, "[{")
	if start < 0 {
		return nil, ErrNoJSON
	}

	end, err := matchBrackets(text, start)
	if err != nil {
		return nil, err
	}

	candidate := text[start : end+1]
	if !json.Valid([]byte(candidate)) {
		return nil, fmt.Errorf("%w: invalid JSON between brackets", ErrNoJSON)
	}

	if hasSecondValue(text[end+1:]) {
		return nil, ErrAmbiguousJSON
	}

	return json.RawMessage(candidate), nil
}

// matchBrackets returns the index of the bracket closing the one at start.
func matchBrackets(text string, start int) (int, error) {
	var stack []byte
	inString := false
	escaped := false

	for i := start; i < len(text); i++ {
		c := text[i]

		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '[', '{':
			stack = append(stack, c)
		case ']', '}':
			if len(stack) == 0 {
				return 0, fmt.Errorf("%w: unbalanced %q at %d", ErrNoJSON, c, i)
			}
			open := stack[len(stack)-1]
			if (open == '[' && c != ']') || (open == '{' && c != '}') {
				return 0, fmt.Errorf("%w: mismatched %q at %d", ErrNoJSON, c, i)
			}
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				return i, nil
			}
		}
	}

	return 0, fmt.Errorf("%w: unterminated value", ErrNoJSON)
}

func hasSecondValue(rest string) bool {
	for {
		i := strings.IndexAny(rest, "[{")
		if i < 0 {
			return false
		}
		end, err := matchBrackets(rest, i)
		if err != nil {
			return false
		}
		if json.Valid([]byte(rest[i : end+1])) {
			return true
		}
		rest = rest[end+1:]
	}
}

// ParsePlan decodes the planner output into a non-empty Plan. Every error
// wraps entity.ErrPlanning.
func ParsePlan(text string) (entity.Plan, error) {
	raw, err := ExtractJSON(text)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", entity.ErrPlanning, err)
	}

	var plan entity.Plan
	if err := json.Unmarshal(raw, &plan); err != nil {
		return nil, fmt.Errorf("%w: plan is not an array of steps: %w", entity.ErrPlanning, err)
	}
	if len(plan) == 0 {
		return nil, fmt.Errorf("%w: plan is empty", entity.ErrPlanning)
	}

	for i := range plan {
		plan[i].Step = strings.TrimSpace(plan[i].Step)
		plan[i].Task = strings.TrimSpace(plan[i].Task)
		if plan[i].Task == "" {
			return nil, fmt.Errorf("%w: step %d has no task", entity.ErrPlanning, i+1)
		}
		if plan[i].Step == "" {
			plan[i].Step = fmt.Sprintf("Step %d", i+1)
		}
	}

	return plan, nil
}
