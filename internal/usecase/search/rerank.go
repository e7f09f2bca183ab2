package search

import (
	"sort"

	"crew-agent/internal/domain/entity"
	"crew-agent/internal/domain/relevance"
)

// Rerank scores every result against query and sorts them best first. Ties
// keep their incoming order.
func Rerank(query string, results []entity.SearchResult) []entity.SearchResult {
	out := make([]entity.SearchResult, len(results))
	copy(out, results)

	for i := range out {
		out[i].Score = relevance.Score(query, out[i].Title+" "+out[i].Snippet)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})

	return out
}
