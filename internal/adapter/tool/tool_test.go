package tool

import (
	"errors"
	"testing"

	"crew-agent/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSingleField(t *testing.T) {
	tests := []struct {
		name    string
		args    string
		want    string
		wantErr bool
	}{
		{name: "json object", args: `{"query": "golang"}`, want: "golang"},
		{name: "bare value", args: "golang generics", want: "golang generics"},
		{name: "quoted value", args: `"golang"`, want: "golang"},
		{name: "single quoted", args: `'golang'`, want: "golang"},
		{name: "missing field", args: `{"q": "golang"}`, wantErr: true},
		{name: "wrong type", args: `{"query": 3}`, wantErr: true},
		{name: "broken json", args: `{"query": `, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := singleField(entity.ToolWebSearch, tt.args, "query")
			if tt.wantErr {
				var invalid *entity.InvalidInputError
				assert.True(t, errors.As(err, &invalid))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeArgsRejectsNonObject(t *testing.T) {
	var dst struct{ URL string }
	err := decodeArgs(entity.ToolIntelligentWebReader, "https://example.com", &dst)

	var invalid *entity.InvalidInputError
	require.True(t, errors.As(err, &invalid))
	assert.Contains(t, err.Error(), "expected a JSON object")
}

func TestFailureKeepsCause(t *testing.T) {
	err := fail(entity.ErrAccessDenied, "Access denied.")

	assert.Equal(t, "Access denied.", err.Error())
	assert.ErrorIs(t, err, entity.ErrAccessDenied)
}

func TestSchemaArrayItems(t *testing.T) {
	s := schema([]string{"urls"}, prop{"urls", "array", "Pages"})

	props := s["properties"].(map[string]interface{})
	urls := props["urls"].(map[string]interface{})
	assert.Equal(t, map[string]interface{}{"type": "string"}, urls["items"])
	assert.Equal(t, []string{"urls"}, s["required"])
	assert.Equal(t, []string{}, schema(nil)["required"])
}
