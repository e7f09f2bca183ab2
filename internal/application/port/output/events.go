package output

import (
	"context"

	"crew-agent/internal/domain/entity"
)

// EventSink receives progress events in production order. Emit returns an
// error once the consumer is gone; producers stop on that error.
type EventSink interface {
	Emit(ctx context.Context, ev entity.Event) error
}
