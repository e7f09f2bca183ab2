package output

import (
	"context"

	"crew-agent/internal/domain/entity"
)

type SearchProvider interface {
	Name() string
	Search(ctx context.Context, query string, page int, opts entity.SearchOptions) ([]entity.SearchResult, error)
}

type SearchPort interface {
	Run(ctx context.Context, query string, opts entity.SearchOptions) ([]entity.SearchResult, error)
	RunMany(ctx context.Context, queries []string, opts entity.SearchOptions) []entity.QueryResult
}
