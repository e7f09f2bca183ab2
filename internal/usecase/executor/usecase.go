package executor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"crew-agent/internal/application/port/input"
	"crew-agent/internal/application/port/output"
	"crew-agent/internal/domain/entity"
	"crew-agent/internal/infrastructure/prompts"
)

var _ input.AgentExecutor = (*UseCase)(nil)

const (
	SingleAgentMaxTurns = 15
	StepMaxTurns        = 10

	maxObservationLen = 20000

	// FormatCorrection is fed back as the observation when a turn cannot be parsed.
	FormatCorrection = "Check your output and make sure it conforms to the format!"
	// IncompleteMarker opens the forced answer returned when the turn cap is hit.
	IncompleteMarker = "Could not complete the task"
)

type Config struct {
	Template    string
	MaxTurns    int
	EventPrefix string
}

func SingleAgentConfig() Config {
	return Config{Template: prompts.ReactPrompt, MaxTurns: SingleAgentMaxTurns}
}

func StepConfig() Config {
	return Config{
		Template:    prompts.ExecutorPrompt,
		MaxTurns:    StepMaxTurns,
		EventPrefix: entity.CrewTaskPrefix,
	}
}

// UseCase runs one ReAct loop: prompt, parse, act, observe, until a final
// answer or the turn cap.
type UseCase struct {
	llm     output.LLMPort
	tools   output.ToolRegistry
	logger  output.LoggerPort
	metrics output.MetricsPort
	cfg     Config
}

func New(
	llm output.LLMPort,
	tools output.ToolRegistry,
	logger output.LoggerPort,
	metrics output.MetricsPort,
	cfg Config,
) *UseCase {
	if cfg.MaxTurns <= 0 {
		cfg.MaxTurns = SingleAgentMaxTurns
	}
	if cfg.Template == "" {
		cfg.Template = prompts.ReactPrompt
	}
	return &UseCase{
		llm:     llm,
		tools:   tools,
		logger:  logger,
		metrics: metrics,
		cfg:     cfg,
	}
}

type run struct {
	sink       output.EventSink
	taskID     int
	scratchpad strings.Builder
	lastLog    string
	lastObs    string
}

func (uc *UseCase) Run(ctx context.Context, req input.AgentRequest, sink output.EventSink) (*input.AgentResult, error) {
	toolInfos, toolNames := prompts.ToolCatalog(uc.tools)
	r := &run{sink: sink}

	for turn := 1; turn <= uc.cfg.MaxTurns; turn++ {
		uc.logger.Debug("Starting turn", "turn", turn, "maxTurns", uc.cfg.MaxTurns)

		prompt, err := prompts.GenerateAgentPrompt(uc.cfg.Template, prompts.AgentPromptData{
			Input:      req.Input,
			Context:    req.Context,
			Tools:      toolInfos,
			ToolNames:  toolNames,
			Scratchpad: r.scratchpad.String(),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to render agent prompt: %w", err)
		}

		text, err := uc.llm.Complete(ctx, prompt)
		if err != nil {
			return nil, fmt.Errorf("llm request failed: %w", err)
		}

		s, err := parseStep(text)
		if err != nil {
			uc.logger.Warn("Unparseable model output", "turn", turn, "error", err)
			r.record(s.Log, FormatCorrection)
			continue
		}

		if s.IsFinal {
			uc.logger.Info("Agent finished", "turns", turn)
			return &input.AgentResult{Output: s.Final, Completed: true, Turns: turn}, nil
		}

		observation, err := uc.act(ctx, r, s, toolNames)
		if err != nil {
			return nil, err
		}
		r.record(s.Log, observation)
	}

	uc.logger.Warn("Turn cap reached", "maxTurns", uc.cfg.MaxTurns)
	return &input.AgentResult{
		Output:    uc.forcedAnswer(r),
		Completed: false,
		Turns:     uc.cfg.MaxTurns,
	}, nil
}

func (r *run) record(log, observation string) {
	r.scratchpad.WriteString(log)
	r.scratchpad.WriteString("\nObservation: ")
	r.scratchpad.WriteString(observation)
	r.scratchpad.WriteString("\nThought: ")
	r.lastLog = log
	r.lastObs = observation
}

// act emits the task events around one tool call and returns the
// observation. Only a failed emit is returned as an error.
func (uc *UseCase) act(ctx context.Context, r *run, s step, toolNames string) (string, error) {
	r.taskID++
	id := r.taskID

	if err := uc.emit(ctx, r, entity.TaskStart(id, s.Thought, s.Tool, s.Input)); err != nil {
		return "", err
	}

	observation, toolErr := uc.executeTool(ctx, s.Tool, s.Input, toolNames)
	if toolErr != nil {
		if err := uc.emit(ctx, r, entity.TaskError(id, toolErr.Error())); err != nil {
			return "", err
		}
		return observation, nil
	}

	if err := uc.emit(ctx, r, entity.TaskEnd(id, observation)); err != nil {
		return "", err
	}
	return observation, nil
}

func (uc *UseCase) emit(ctx context.Context, r *run, ev entity.Event) error {
	if err := r.sink.Emit(ctx, ev.WithPrefix(uc.cfg.EventPrefix)); err != nil {
		return fmt.Errorf("emit %s: %w", ev.Type, err)
	}
	return nil
}

func (uc *UseCase) executeTool(ctx context.Context, name, arguments, toolNames string) (string, error) {
	tool, ok := uc.tools.Get(entity.ToolName(name))
	if !ok {
		uc.logger.Warn("Unknown tool called", "name", name)
		err := fmt.Errorf("%w: %q", entity.ErrUnknownTool, name)
		return fmt.Sprintf("Error: %v. Try one of [%s].", err, toolNames), err
	}

	uc.logger.Info("Executing tool", "name", name, "args", arguments)

	start := time.Now()
	result, err := tool.Execute(ctx, arguments)
	if err != nil {
		uc.metrics.ToolCalled(name, "error", time.Since(start))
		uc.logger.Error("Tool execution failed", "name", name, "error", err)

		var invalid *entity.InvalidInputError
		if errors.As(err, &invalid) {
			return "Error: " + invalid.Error(), err
		}
		return "Error: " + err.Error(), err
	}
	uc.metrics.ToolCalled(name, "ok", time.Since(start))

	result = truncate(result, maxObservationLen)

	uc.logger.Debug("Tool completed", "name", name, "resultLen", len(result))
	return result, nil
}

func (uc *UseCase) forcedAnswer(r *run) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s within %d turns.", IncompleteMarker, uc.cfg.MaxTurns)
	if thought := extractThought(r.lastLog); thought != "" {
		sb.WriteString("\nLast thought: ")
		sb.WriteString(thought)
	}
	if r.lastObs != "" && r.lastObs != FormatCorrection {
		sb.WriteString("\nLast observation: ")
		sb.WriteString(truncate(r.lastObs, 2000))
	}
	return sb.String()
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "\n... (truncated)"
}
