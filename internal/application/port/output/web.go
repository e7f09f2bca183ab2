package output

import "context"

type PageReader interface {
	FetchText(ctx context.Context, url string) (string, error)
	// RelevantChunks splits the page into overlapping chunks and returns the
	// k chunks closest to question, best first.
	RelevantChunks(ctx context.Context, url, question string, k int) ([]string, error)
}
