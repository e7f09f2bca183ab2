// Package relevance holds the lexical overlap score shared by search
// reranking, memory recall and page chunk selection.
package relevance

import (
	"math"
	"regexp"
	"sort"
	"strings"
)

var wordPattern = regexp.MustCompile(`[\p{L}\p{N}_]+`)

func Tokenize(s string) []string {
	return wordPattern.FindAllString(strings.ToLower(s), -1)
}

// Score is a length-normalized term overlap: the number of text tokens that
// are query terms, divided by the square root of the text token count.
func Score(query, text string) float64 {
	terms := make(map[string]struct{})
	for _, t := range Tokenize(query) {
		terms[t] = struct{}{}
	}

	words := Tokenize(text)
	if len(words) == 0 {
		return 0
	}

	matches := 0
	for _, w := range words {
		if _, ok := terms[w]; ok {
			matches++
		}
	}

	return float64(matches) / math.Sqrt(float64(len(words)))
}

// TopK returns the indexes of the k texts scoring highest against query,
// best first. Ties keep input order.
func TopK(query string, texts []string, k int) []int {
	idx := make([]int, len(texts))
	scores := make([]float64, len(texts))
	for i, t := range texts {
		idx[i] = i
		scores[i] = Score(query, t)
	}

	sort.SliceStable(idx, func(a, b int) bool {
		return scores[idx[a]] > scores[idx[b]]
	})

	if k >= 0 && len(idx) > k {
		idx = idx[:k]
	}
	return idx
}
