package executor

import (
	"fmt"
	"regexp"
	"strings"

	"crew-agent/internal/domain/entity"
)

const (
	finalAnswerMarker = "Final Answer:"
	observationMarker = "\nObservation:"
)

var actionPattern = regexp.MustCompile(`(?s)Action\s*\d*\s*:[\s]*(.*?)[\s]*Action\s*\d*\s*Input\s*\d*\s*:[\s]*(.*)`)

// step is one parsed model turn: either an action or a final answer.
type step struct {
	Log     string
	Thought string
	Tool    string
	Input   string
	Final   string
	IsFinal bool
}

// cutObservation drops any observation the model invented after its action.
func cutObservation(text string) string {
	if i := strings.Index(text, observationMarker); i >= 0 {
		return text[:i]
	}
	return text
}

func parseStep(text string) (step, error) {
	text = cutObservation(text)
	s := step{Log: text, Thought: extractThought(text)}

	hasFinal := strings.Contains(text, finalAnswerMarker)
	match := actionPattern.FindStringSubmatch(text)

	switch {
	case match != nil && hasFinal:
		return s, fmt.Errorf("%w: found both a final answer and an action", entity.ErrParse)
	case match != nil:
		s.Tool = strings.TrimSpace(match[1])
		s.Input = strings.Trim(strings.TrimSpace(match[2]), `"`)
		if s.Tool == "" {
			return s, fmt.Errorf("%w: missing tool name after 'Action:'", entity.ErrParse)
		}
		return s, nil
	case hasFinal:
		parts := strings.Split(text, finalAnswerMarker)
		s.Final = strings.TrimSpace(parts[len(parts)-1])
		s.IsFinal = true
		return s, nil
	case !strings.Contains(text, "Action:"):
		return s, fmt.Errorf("%w: missing 'Action:' after 'Thought:'", entity.ErrParse)
	default:
		return s, fmt.Errorf("%w: missing 'Action Input:' after 'Action:'", entity.ErrParse)
	}
}

func extractThought(text string) string {
	parts := strings.Split(text, "Thought:")
	thought := parts[len(parts)-1]
	if i := strings.Index(thought, "Action:"); i >= 0 {
		thought = thought[:i]
	}
	if i := strings.Index(thought, finalAnswerMarker); i >= 0 {
		thought = thought[:i]
	}
	return strings.TrimSpace(thought)
}
