package output

import (
	"context"

	"crew-agent/internal/domain/entity"
)

type LLMPort interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// ModelProvider builds the model client for a goal. Missing credentials or
// an unknown backend surface as entity.ErrConfiguration.
type ModelProvider interface {
	ForGoal(goal entity.Goal) (LLMPort, error)
}
