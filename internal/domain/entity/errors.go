package entity

import (
	"errors"
	"fmt"
)

var (
	ErrPlanning      = errors.New("planner failed to generate a valid JSON plan")
	ErrUnknownTool   = errors.New("tool not found")
	ErrConfiguration = errors.New("configuration error")
	ErrAccessDenied  = errors.New("access denied")
	ErrParse         = errors.New("could not parse model output")
)

type InvalidInputError struct {
	Tool   ToolName
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input for %s: %s", e.Tool, e.Reason)
}

func NewInvalidInput(tool ToolName, format string, args ...any) *InvalidInputError {
	return &InvalidInputError{Tool: tool, Reason: fmt.Sprintf(format, args...)}
}
