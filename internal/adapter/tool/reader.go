package tool

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"crew-agent/internal/application/port/output"
	"crew-agent/internal/domain/entity"
	"crew-agent/internal/infrastructure/web"

	"golang.org/x/sync/errgroup"
)

const (
	readerChunks    = 4
	summaryChunks   = 2
	maxSummaryURLs  = 8
	summaryParallel = 4
)

var (
	_ output.ToolPort = (*IntelligentWebReaderTool)(nil)
	_ output.ToolPort = (*SummarizeURLsTool)(nil)
)

type IntelligentWebReaderTool struct {
	reader output.PageReader
}

func NewIntelligentWebReaderTool(reader output.PageReader) *IntelligentWebReaderTool {
	return &IntelligentWebReaderTool{reader: reader}
}

type webReaderInput struct {
	URL      string `json:"url"`
	Question string `json:"question"`
}

func (t *IntelligentWebReaderTool) Name() entity.ToolName { return entity.ToolIntelligentWebReader }
func (t *IntelligentWebReaderTool) Description() string {
	return `Reads a web page and returns only the sections most relevant to a question. Input: {"url": "https://...", "question": "..."}`
}
func (t *IntelligentWebReaderTool) Parameters() map[string]interface{} {
	return schema([]string{"url", "question"},
		prop{"url", "string", "Page to read"},
		prop{"question", "string", "What to look for on the page"},
	)
}

func (t *IntelligentWebReaderTool) Execute(ctx context.Context, args string) (string, error) {
	var in webReaderInput
	if err := decodeArgs(t.Name(), args, &in); err != nil {
		return "", err
	}
	if err := required(t.Name(), "url", in.URL); err != nil {
		return "", err
	}
	if err := required(t.Name(), "question", in.Question); err != nil {
		return "", err
	}

	chunks, err := t.reader.RelevantChunks(ctx, in.URL, in.Question, readerChunks)
	if errors.Is(err, web.ErrEmptyContent) {
		return "", fail(err, "The content was empty after cleaning.")
	}
	if err != nil {
		return "", fail(err, "Could not retrieve or read content from the URL: %s", in.URL)
	}

	return fmt.Sprintf("Based on the content from %s, here are the most relevant sections for '%s':\n\n%s",
		in.URL, in.Question, strings.Join(chunks, "\n\n---\n\n")), nil
}

type SummarizeURLsTool struct {
	reader output.PageReader
}

func NewSummarizeURLsTool(reader output.PageReader) *SummarizeURLsTool {
	return &SummarizeURLsTool{reader: reader}
}

type summarizeURLsInput struct {
	URLs     []string `json:"urls"`
	Question string   `json:"question"`
}

func (t *SummarizeURLsTool) Name() entity.ToolName { return entity.ToolSummarizeURLs }
func (t *SummarizeURLsTool) Description() string {
	return `Reads several web pages concurrently and returns the passages of each that answer a question. Input: {"urls": ["https://...", "https://..."], "question": "..."}`
}
func (t *SummarizeURLsTool) Parameters() map[string]interface{} {
	return schema([]string{"urls", "question"},
		prop{"urls", "array", "Pages to read"},
		prop{"question", "string", "What to look for on the pages"},
	)
}

// Execute reads every URL concurrently. A page that fails only affects its
// own block.
func (t *SummarizeURLsTool) Execute(ctx context.Context, args string) (string, error) {
	var in summarizeURLsInput
	if err := decodeArgs(t.Name(), args, &in); err != nil {
		return "", err
	}
	if len(in.URLs) == 0 {
		return "", entity.NewInvalidInput(t.Name(), `"urls" must list at least one URL`)
	}
	if len(in.URLs) > maxSummaryURLs {
		return "", entity.NewInvalidInput(t.Name(), "at most %d URLs per call", maxSummaryURLs)
	}
	if err := required(t.Name(), "question", in.Question); err != nil {
		return "", err
	}

	blocks := make([]string, len(in.URLs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(summaryParallel)

	for i, url := range in.URLs {
		i, url := i, url
		g.Go(func() error {
			blocks[i] = t.summarizeOne(gctx, url, in.Question)
			return nil
		})
	}
	_ = g.Wait()

	return fmt.Sprintf("Combined summary for the question '%s':\n\n%s", in.Question, strings.Join(blocks, "\n---\n")), nil
}

func (t *SummarizeURLsTool) summarizeOne(ctx context.Context, url, question string) string {
	chunks, err := t.reader.RelevantChunks(ctx, url, question, summaryChunks)
	switch {
	case errors.Is(err, web.ErrEmptyContent):
		return fmt.Sprintf("Content from %s was empty after cleaning.", url)
	case err != nil:
		return fmt.Sprintf("Could not retrieve content from %s.", url)
	}
	return fmt.Sprintf("Summary from %s:\n%s\n", url, strings.Join(chunks, "\n\n"))
}
