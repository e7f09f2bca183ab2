package output

import "context"

type MemoryStore interface {
	Remember(ctx context.Context, fact string) error
	Recall(ctx context.Context, query string, k int) ([]string, error)
	Close() error
}
