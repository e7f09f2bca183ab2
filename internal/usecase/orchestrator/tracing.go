package orchestrator

import (
	"context"

	"crew-agent/internal/domain/entity"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "crew-agent/orchestrator"

func startRunSpan(ctx context.Context, goal entity.Goal) (context.Context, trace.Span) {
	return otel.Tracer(instrumentationName).Start(ctx, "run."+string(goal.Mode),
		trace.WithAttributes(
			attribute.String("goal.backend", string(goal.Backend)),
			attribute.String("goal.model", goal.ModelName),
			attribute.StringSlice("goal.tools", goal.EnabledTools),
		),
	)
}

func startPhaseSpan(ctx context.Context, phase string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return otel.Tracer(instrumentationName).Start(ctx, "phase."+phase, trace.WithAttributes(attrs...))
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
