package service

import (
	"context"
	"testing"

	"crew-agent/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubTool struct {
	name entity.ToolName
}

func (s stubTool) Name() entity.ToolName                           { return s.name }
func (s stubTool) Description() string                             { return "stub " + string(s.name) }
func (s stubTool) Parameters() map[string]interface{}              { return nil }
func (s stubTool) Execute(context.Context, string) (string, error) { return "ok", nil }

func TestToolRegistry_KeepsRegistrationOrder(t *testing.T) {
	r := NewToolRegistry()
	r.Register(stubTool{name: "b"})
	r.Register(stubTool{name: "a"})
	r.Register(stubTool{name: "c"})
	r.Register(stubTool{name: "a"})

	defs := r.Definitions()
	require.Len(t, defs, 3)
	assert.Equal(t, entity.ToolName("b"), defs[0].Name)
	assert.Equal(t, entity.ToolName("a"), defs[1].Name)
	assert.Equal(t, entity.ToolName("c"), defs[2].Name)
}

func TestToolRegistry_Subset(t *testing.T) {
	r := NewToolRegistry()
	r.Register(stubTool{name: "web_search"})
	r.Register(stubTool{name: "read_file"})
	r.Register(stubTool{name: "write_file"})

	sub := r.Subset([]string{"write_file", "missing", "web_search"})

	all := sub.All()
	require.Len(t, all, 2)
	assert.Equal(t, entity.ToolName("write_file"), all[0].Name())
	assert.Equal(t, entity.ToolName("web_search"), all[1].Name())

	_, ok := sub.Get("read_file")
	assert.False(t, ok)
}
