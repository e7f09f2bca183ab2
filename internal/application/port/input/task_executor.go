package input

import (
	"context"

	"crew-agent/internal/application/port/output"
	"crew-agent/internal/domain/entity"
)

// TaskExecutor runs a goal to completion, reporting progress on sink. The
// caller owns the sink and closes it once Execute returns.
type TaskExecutor interface {
	Execute(ctx context.Context, goal entity.Goal, sink output.EventSink) error
}
