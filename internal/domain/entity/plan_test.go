package entity

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContext_StringConcatenatesInOrder(t *testing.T) {
	var c Context
	c.Append(StepResult{Index: 0, Title: "Find rate", Output: "1 USD = 0.92 EUR", Status: StepStatusOK})
	c.Append(StepResult{Index: 1, Title: "Convert", Output: "92 EUR", Status: StepStatusOK})

	assert.Equal(t, "Step 1 (Find rate):\n1 USD = 0.92 EUR\n\nStep 2 (Convert):\n92 EUR\n\n", c.String())
	assert.Equal(t, 2, c.Len())
}

func TestContext_ResultsIsACopy(t *testing.T) {
	var c Context
	c.Append(StepResult{Title: "a", Output: "x"})

	got := c.Results()
	got[0].Output = "changed"

	assert.Equal(t, "x", c.Results()[0].Output)
}

func TestContext_Empty(t *testing.T) {
	var c Context
	assert.Empty(t, c.String())
	assert.Zero(t, c.Len())
}

func TestParseMode(t *testing.T) {
	assert.Equal(t, ModeMultiStep, ParseMode("crew"))
	assert.Equal(t, ModeMultiStep, ParseMode("Multi-Step"))
	assert.Equal(t, ModeSingle, ParseMode("agent"))
	assert.Equal(t, ModeSingle, ParseMode(""))
}

func TestPlanStep_UnmarshalScalars(t *testing.T) {
	var plan Plan
	err := json.Unmarshal([]byte(`[
		{"step": 1, "task": "search the rate"},
		{"step": true, "task": 42},
		{"step": null, "task": "save it"},
		{"task": "no title"}
	]`), &plan)
	require.NoError(t, err)

	assert.Equal(t, Plan{
		{Step: "1", Task: "search the rate"},
		{Step: "true", Task: "42"},
		{Step: "", Task: "save it"},
		{Step: "", Task: "no title"},
	}, plan)
}

func TestPlanStep_UnmarshalRejectsNestedValues(t *testing.T) {
	var plan Plan
	err := json.Unmarshal([]byte(`[{"step": {"title": "x"}, "task": "t"}]`), &plan)
	assert.Error(t, err)
}
