package input

import (
	"context"

	"crew-agent/internal/application/port/output"
)

type AgentRequest struct {
	// Input is the question in single mode or the step task in crew mode.
	Input   string
	Context string
}

type AgentResult struct {
	Output    string
	Completed bool
	Turns     int
}

type AgentExecutor interface {
	Run(ctx context.Context, req AgentRequest, sink output.EventSink) (*AgentResult, error)
}
