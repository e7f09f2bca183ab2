package tool

import (
	"context"
	"fmt"
	"strings"

	"crew-agent/internal/application/port/output"
	"crew-agent/internal/domain/entity"
)

const recallLimit = 3

var (
	_ output.ToolPort = (*RememberTool)(nil)
	_ output.ToolPort = (*RecallTool)(nil)
)

type RememberTool struct {
	store output.MemoryStore
}

func NewRememberTool(store output.MemoryStore) *RememberTool {
	return &RememberTool{store: store}
}

func (t *RememberTool) Name() entity.ToolName { return entity.ToolRememberThis }
func (t *RememberTool) Description() string {
	return "Saves a fact to long-term memory. Use it for user preferences, key facts and important details worth keeping across conversations."
}
func (t *RememberTool) Parameters() map[string]interface{} {
	return schema([]string{"fact"}, prop{"fact", "string", "The fact to remember"})
}

func (t *RememberTool) Execute(ctx context.Context, args string) (string, error) {
	fact, err := singleField(t.Name(), args, "fact")
	if err != nil {
		return "", err
	}
	if err := required(t.Name(), "fact", fact); err != nil {
		return "", err
	}

	if err := t.store.Remember(ctx, fact); err != nil {
		return "", fail(err, "Error while trying to remember: %v", err)
	}
	return fmt.Sprintf("Successfully remembered: '%s'", fact), nil
}

type RecallTool struct {
	store output.MemoryStore
}

func NewRecallTool(store output.MemoryStore) *RecallTool {
	return &RecallTool{store: store}
}

func (t *RecallTool) Name() entity.ToolName { return entity.ToolRecallMemory }
func (t *RecallTool) Description() string {
	return "Searches long-term memory for facts relevant to a query. Use it before complex tasks to see if something useful is already known."
}
func (t *RecallTool) Parameters() map[string]interface{} {
	return schema([]string{"query"}, prop{"query", "string", "What to look for"})
}

func (t *RecallTool) Execute(ctx context.Context, args string) (string, error) {
	query, err := singleField(t.Name(), args, "query")
	if err != nil {
		return "", err
	}
	if err := required(t.Name(), "query", query); err != nil {
		return "", err
	}

	memories, err := t.store.Recall(ctx, query, recallLimit)
	if err != nil {
		return "", fail(err, "Error while trying to recall memories: %v", err)
	}
	if len(memories) == 0 {
		return "I don't have any relevant memories for that query.", nil
	}
	return "Here are my relevant memories:\n- " + strings.Join(memories, "\n- "), nil
}
