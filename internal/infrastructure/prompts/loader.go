package prompts

import (
	_ "embed"
)

//go:embed planner.txt
var PlannerPrompt string

//go:embed executor.txt
var ExecutorPrompt string

//go:embed react.txt
var ReactPrompt string

//go:embed synthesizer.txt
var SynthesizerPrompt string
