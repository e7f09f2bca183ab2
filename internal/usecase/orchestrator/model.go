package orchestrator

import (
	"context"
	"time"

	"crew-agent/internal/application/port/output"
)

// pacedModel waits a fixed delay before every completion. Some hosted
// backends reject bursts of calls.
type pacedModel struct {
	inner output.LLMPort
	delay time.Duration
	sleep func(ctx context.Context, d time.Duration) error
}

func (m *pacedModel) Complete(ctx context.Context, prompt string) (string, error) {
	if m.delay > 0 {
		if err := m.sleep(ctx, m.delay); err != nil {
			return "", err
		}
	}
	return m.inner.Complete(ctx, prompt)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

type instrumentedModel struct {
	inner   output.LLMPort
	metrics output.MetricsPort
}

func (m *instrumentedModel) Complete(ctx context.Context, prompt string) (string, error) {
	start := time.Now()
	reply, err := m.inner.Complete(ctx, prompt)

	status := "ok"
	if err != nil {
		status = "error"
	}
	m.metrics.ModelCalled(status, time.Since(start))

	return reply, err
}
