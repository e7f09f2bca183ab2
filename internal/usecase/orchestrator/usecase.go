package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"crew-agent/internal/application/port/input"
	"crew-agent/internal/application/port/output"
	"crew-agent/internal/domain/entity"
	"crew-agent/internal/infrastructure/prompts"
	"crew-agent/internal/usecase/executor"

	"go.opentelemetry.io/otel/attribute"
)

const (
	agentErrorPrefix = "An agent error occurred: "
	crewErrorPrefix  = "A crew error occurred: "
	planErrorPrefix  = "Planner failed to generate a valid JSON plan. Raw response: "
	noReply          = "Could not process."

	AIStudioDelay = 15 * time.Second
)

var _ input.TaskExecutor = (*UseCase)(nil)

type Config struct {
	// Delays holds the pause applied before every model call, per backend.
	Delays map[entity.Backend]time.Duration
}

func DefaultConfig() Config {
	return Config{
		Delays: map[entity.Backend]time.Duration{
			entity.BackendAIStudio: AIStudioDelay,
		},
	}
}

type UseCase struct {
	models  output.ModelProvider
	tools   output.ToolRegistry
	logger  output.LoggerPort
	metrics output.MetricsPort
	cfg     Config
	sleep   func(ctx context.Context, d time.Duration) error
}

func New(
	models output.ModelProvider,
	tools output.ToolRegistry,
	logger output.LoggerPort,
	metrics output.MetricsPort,
	cfg Config,
) *UseCase {
	return &UseCase{
		models:  models,
		tools:   tools,
		logger:  logger,
		metrics: metrics,
		cfg:     cfg,
		sleep:   sleepContext,
	}
}

// Validate reports configuration problems before any event is produced.
func (uc *UseCase) Validate(goal entity.Goal) error {
	_, err := uc.models.ForGoal(goal)
	return err
}

// Execute runs goal in its mode and reports progress on sink. Failures are
// emitted as a single error event and also returned.
func (uc *UseCase) Execute(ctx context.Context, goal entity.Goal, sink output.EventSink) (err error) {
	start := time.Now()
	log := uc.logger.WithFields(map[string]any{
		"mode":    string(goal.Mode),
		"backend": string(goal.Backend),
	})

	ctx, span := startRunSpan(ctx, goal)
	defer func() {
		status := "ok"
		if err != nil {
			status = "error"
		}
		uc.metrics.RunFinished(string(goal.Mode), status, time.Since(start))
		endSpan(span, err)
	}()

	errPrefix := agentErrorPrefix
	if goal.Mode == entity.ModeMultiStep {
		errPrefix = crewErrorPrefix
	}

	model, err := uc.models.ForGoal(goal)
	if err != nil {
		log.Error("Model configuration rejected", "error", err)
		return uc.fail(ctx, sink, errPrefix+err.Error(), err)
	}
	model = uc.wrapModel(model, goal.Backend)

	tools := uc.tools.Subset(goal.EnabledTools)
	log.Info("Run started", "tools", len(tools.All()))

	if goal.Mode == entity.ModeMultiStep {
		return uc.runCrew(ctx, goal, model, tools, log, sink)
	}
	return uc.runAgent(ctx, goal, model, tools, log, sink)
}

func (uc *UseCase) wrapModel(model output.LLMPort, backend entity.Backend) output.LLMPort {
	model = &instrumentedModel{inner: model, metrics: uc.metrics}
	if delay := uc.cfg.Delays[backend]; delay > 0 {
		model = &pacedModel{inner: model, delay: delay, sleep: uc.sleep}
	}
	return model
}

func (uc *UseCase) runAgent(
	ctx context.Context,
	goal entity.Goal,
	model output.LLMPort,
	tools output.ToolRegistry,
	log output.LoggerPort,
	sink output.EventSink,
) error {
	loop := executor.New(model, tools, log, uc.metrics, executor.SingleAgentConfig())

	res, err := loop.Run(ctx, input.AgentRequest{Input: goal.Prompt}, sink)
	if err != nil {
		log.Error("Agent run failed", "error", err)
		return uc.fail(ctx, sink, agentErrorPrefix+err.Error(), err)
	}

	reply := res.Output
	if strings.TrimSpace(reply) == "" {
		reply = noReply
	}

	log.Info("Agent run finished", "turns", res.Turns, "completed", res.Completed)
	return sink.Emit(ctx, entity.FinalAnswer(reply))
}

func (uc *UseCase) runCrew(
	ctx context.Context,
	goal entity.Goal,
	model output.LLMPort,
	tools output.ToolRegistry,
	log output.LoggerPort,
	sink output.EventSink,
) error {
	plan, err := uc.plan(ctx, goal, model, tools, log, sink)
	if err != nil {
		return err
	}

	if err := sink.Emit(ctx, entity.CrewPlan(plan)); err != nil {
		return err
	}

	var crewCtx entity.Context
	for i, st := range plan {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := uc.runStep(ctx, i, st, model, tools, log, sink, &crewCtx); err != nil {
			return err
		}
	}

	return uc.synthesize(ctx, model, log, sink, &crewCtx)
}

func (uc *UseCase) plan(
	ctx context.Context,
	goal entity.Goal,
	model output.LLMPort,
	tools output.ToolRegistry,
	log output.LoggerPort,
	sink output.EventSink,
) (plan entity.Plan, err error) {
	ctx, span := startPhaseSpan(ctx, "plan")
	defer func() { endSpan(span, err) }()

	_, toolNames := prompts.ToolCatalog(tools)
	prompt, err := prompts.GeneratePlannerPrompt(prompts.PlannerPrompt, prompts.PlannerPromptData{
		Input:     goal.Prompt,
		ToolNames: toolNames,
	})
	if err != nil {
		return nil, uc.fail(ctx, sink, crewErrorPrefix+err.Error(), err)
	}

	raw, err := model.Complete(ctx, prompt)
	if err != nil {
		log.Error("Planner call failed", "error", err)
		return nil, uc.fail(ctx, sink, crewErrorPrefix+err.Error(), err)
	}

	plan, err = ParsePlan(raw)
	if err != nil {
		log.Warn("Planner returned no usable plan", "error", err)
		return nil, uc.fail(ctx, sink, planErrorPrefix+raw, err)
	}

	log.Info("Plan created", "steps", len(plan))
	span.SetAttributes(attribute.Int("plan.steps", len(plan)))
	return plan, nil
}

func (uc *UseCase) runStep(
	ctx context.Context,
	index int,
	st entity.PlanStep,
	model output.LLMPort,
	tools output.ToolRegistry,
	log output.LoggerPort,
	sink output.EventSink,
	crewCtx *entity.Context,
) (err error) {
	ctx, span := startPhaseSpan(ctx, "step",
		attribute.Int("step.index", index),
		attribute.String("step.title", st.Step),
	)
	defer func() { endSpan(span, err) }()

	if err := sink.Emit(ctx, entity.CrewStepStart(index, st.Step)); err != nil {
		return err
	}

	stepLog := log.WithField("step", index+1)
	loop := executor.New(model, tools, stepLog, uc.metrics, executor.StepConfig())

	res, err := loop.Run(ctx, input.AgentRequest{Input: st.Task, Context: crewCtx.String()}, sink)
	if err != nil {
		stepLog.Error("Step aborted", "error", err)
		return uc.fail(ctx, sink, crewErrorPrefix+err.Error(), err)
	}

	out := res.Output
	status := entity.StepStatusOK
	if !res.Completed {
		status = entity.StepStatusFailed
	}
	if strings.TrimSpace(out) == "" {
		out = fmt.Sprintf("Step %d failed.", index+1)
		status = entity.StepStatusFailed
	}

	crewCtx.Append(entity.StepResult{Index: index, Title: st.Step, Output: out, Status: status})
	uc.metrics.StepFinished(string(status))
	stepLog.Info("Step finished", "status", status, "turns", res.Turns)

	return sink.Emit(ctx, entity.CrewStepEnd(index, out, status))
}

func (uc *UseCase) synthesize(
	ctx context.Context,
	model output.LLMPort,
	log output.LoggerPort,
	sink output.EventSink,
	crewCtx *entity.Context,
) (err error) {
	ctx, span := startPhaseSpan(ctx, "synthesize", attribute.Int("context.steps", crewCtx.Len()))
	defer func() { endSpan(span, err) }()

	prompt, err := prompts.GenerateSynthesizerPrompt(prompts.SynthesizerPrompt, prompts.SynthesizerPromptData{
		Context: crewCtx.String(),
	})
	if err != nil {
		return uc.fail(ctx, sink, crewErrorPrefix+err.Error(), err)
	}

	reply, err := model.Complete(ctx, prompt)
	if err != nil {
		log.Error("Synthesizer call failed", "error", err)
		return uc.fail(ctx, sink, crewErrorPrefix+err.Error(), err)
	}
	if strings.TrimSpace(reply) == "" {
		reply = noReply
	}

	log.Info("Crew run finished", "steps", crewCtx.Len())
	return sink.Emit(ctx, entity.FinalAnswer(reply))
}

// fail emits the terminal error event unless the consumer is already gone,
// then returns cause.
func (uc *UseCase) fail(ctx context.Context, sink output.EventSink, message string, cause error) error {
	if errors.Is(cause, context.Canceled) || errors.Is(cause, context.DeadlineExceeded) {
		return cause
	}
	if err := sink.Emit(ctx, entity.ErrorEvent(message)); err != nil {
		uc.logger.Warn("Could not deliver error event", "error", err)
	}
	return cause
}
