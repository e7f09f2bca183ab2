package tool

import (
	"context"
	"fmt"
	"time"

	"crew-agent/internal/application/port/output"
	"crew-agent/internal/domain/entity"
)

var _ output.ToolPort = (*CurrentTimeTool)(nil)

type CurrentTimeTool struct {
	now func() time.Time
}

func NewCurrentTimeTool(now func() time.Time) *CurrentTimeTool {
	if now == nil {
		now = time.Now
	}
	return &CurrentTimeTool{now: now}
}

func (t *CurrentTimeTool) Name() entity.ToolName { return entity.ToolGetCurrentTime }
func (t *CurrentTimeTool) Description() string {
	return "Returns the current date and time as a string. Input is ignored."
}
func (t *CurrentTimeTool) Parameters() map[string]interface{} { return schema(nil) }

func (t *CurrentTimeTool) Execute(ctx context.Context, args string) (string, error) {
	return fmt.Sprintf("The current date and time is %s.", t.now().Format("2006-01-02 15:04:05")), nil
}
