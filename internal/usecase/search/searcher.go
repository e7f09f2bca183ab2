package search

import (
	"context"
	"fmt"

	"crew-agent/internal/application/port/output"
	"crew-agent/internal/domain/entity"

	"golang.org/x/sync/errgroup"
)

const (
	defaultPages      = 2
	defaultMaxResults = 20
	defaultCategories = "general"
	defaultLanguage   = "en"
)

var _ output.SearchPort = (*Searcher)(nil)

type Searcher struct {
	provider output.SearchProvider
	logger   output.LoggerPort
}

func New(provider output.SearchProvider, logger output.LoggerPort) *Searcher {
	return &Searcher{provider: provider, logger: logger}
}

func withDefaults(opts entity.SearchOptions) entity.SearchOptions {
	if opts.Pages <= 0 {
		opts.Pages = defaultPages
	}
	if opts.MaxResults <= 0 {
		opts.MaxResults = defaultMaxResults
	}
	if opts.Categories == "" {
		opts.Categories = defaultCategories
	}
	if opts.Language == "" {
		opts.Language = defaultLanguage
	}
	return opts
}

// Run queries every page concurrently, then dedupes, reranks and truncates.
// Any page failure fails the whole query.
func (s *Searcher) Run(ctx context.Context, query string, opts entity.SearchOptions) ([]entity.SearchResult, error) {
	opts = withDefaults(opts)

	pages := make([][]entity.SearchResult, opts.Pages)
	g, gctx := errgroup.WithContext(ctx)

	for i := 0; i < opts.Pages; i++ {
		i := i
		g.Go(func() error {
			res, err := s.provider.Search(gctx, query, i+1, opts)
			if err != nil {
				return fmt.Errorf("%s page %d: %w", s.provider.Name(), i+1, err)
			}
			pages[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		s.logger.Warn("Search failed", "query", query, "error", err)
		return nil, err
	}

	var flat []entity.SearchResult
	for _, p := range pages {
		flat = append(flat, p...)
	}

	ranked := Rerank(query, Dedupe(flat))
	if len(ranked) > opts.MaxResults {
		ranked = ranked[:opts.MaxResults]
	}

	s.logger.Debug("Search completed", "query", query, "raw", len(flat), "returned", len(ranked))
	return ranked, nil
}

// RunMany runs one pipeline per query. A failing query only marks its own
// entry.
func (s *Searcher) RunMany(ctx context.Context, queries []string, opts entity.SearchOptions) []entity.QueryResult {
	out := make([]entity.QueryResult, len(queries))

	var g errgroup.Group
	for i, q := range queries {
		i, q := i, q
		g.Go(func() error {
			res, err := s.Run(ctx, q, opts)
			out[i] = entity.QueryResult{Query: q, Results: res, Err: err}
			return nil
		})
	}
	_ = g.Wait()

	return out
}
