package tool

import (
	"context"
	"errors"
	"testing"

	"crew-agent/internal/infrastructure/web"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntelligentWebReader(t *testing.T) {
	reader := &fakeReader{chunks: map[string][]string{
		"https://a.example": {"first", "second", "third", "fourth", "fifth"},
	}}

	out, err := NewIntelligentWebReaderTool(reader).Execute(context.Background(),
		`{"url": "https://a.example", "question": "what?"}`)
	require.NoError(t, err)

	assert.Equal(t, "Based on the content from https://a.example, here are the most relevant sections for 'what?':\n\n"+
		"first\n\n---\n\nsecond\n\n---\n\nthird\n\n---\n\nfourth", out)
	assert.Equal(t, []int{4}, reader.ks)
}

func TestIntelligentWebReaderFailures(t *testing.T) {
	reader := &fakeReader{errs: map[string]error{
		"https://empty.example": web.ErrEmptyContent,
		"https://down.example":  errors.New("connection refused"),
	}}
	tool := NewIntelligentWebReaderTool(reader)

	_, err := tool.Execute(context.Background(), `{"url": "https://empty.example", "question": "q"}`)
	require.Error(t, err)
	assert.Equal(t, "The content was empty after cleaning.", err.Error())

	_, err = tool.Execute(context.Background(), `{"url": "https://down.example", "question": "q"}`)
	require.Error(t, err)
	assert.Equal(t, "Could not retrieve or read content from the URL: https://down.example", err.Error())

	_, err = tool.Execute(context.Background(), `{"url": "https://down.example"}`)
	assert.Error(t, err)
}

func TestSummarizeURLsKeepsOrderAndIsolatesFailures(t *testing.T) {
	reader := &fakeReader{
		chunks: map[string][]string{
			"https://a.example": {"a1", "a2", "a3"},
			"https://c.example": {"c1"},
		},
		errs: map[string]error{
			"https://b.example": errors.New("timeout"),
			"https://d.example": web.ErrEmptyContent,
		},
	}

	out, err := NewSummarizeURLsTool(reader).Execute(context.Background(),
		`{"urls": ["https://a.example", "https://b.example", "https://c.example", "https://d.example"], "question": "q"}`)
	require.NoError(t, err)

	assert.Equal(t, "Combined summary for the question 'q':\n\n"+
		"Summary from https://a.example:\na1\n\na2\n"+
		"\n---\n"+
		"Could not retrieve content from https://b.example."+
		"\n---\n"+
		"Summary from https://c.example:\nc1\n"+
		"\n---\n"+
		"Content from https://d.example was empty after cleaning.", out)
}

func TestSummarizeURLsLimits(t *testing.T) {
	tool := NewSummarizeURLsTool(&fakeReader{})

	_, err := tool.Execute(context.Background(), `{"urls": [], "question": "q"}`)
	assert.Error(t, err)

	_, err = tool.Execute(context.Background(),
		`{"urls": ["1","2","3","4","5","6","7","8","9"], "question": "q"}`)
	assert.Error(t, err)
}
