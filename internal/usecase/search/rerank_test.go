package search

import (
	"testing"

	"crew-agent/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestRerank_SortsDescendingAndStable(t *testing.T) {
	in := []entity.SearchResult{
		{Title: "unrelated", Snippet: "nothing here"},
		{Title: "tie one", Snippet: "also nothing"},
		{Title: "golang tips", Snippet: "golang"},
	}

	out := Rerank("golang", in)

	require.Len(t, out, 3)
	assert.Equal(t, "golang tips", out[0].Title)
	assert.Equal(t, "unrelated", out[1].Title)
	assert.Equal(t, "tie one", out[2].Title)
	assert.Zero(t, in[2].Score, "input must not be mutated")
}

func TestRerank_Deterministic(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(0, 12).Draw(t, "n")
		in := make([]entity.SearchResult, n)
		for i := range in {
			in[i] = entity.SearchResult{
				Title:   rapid.StringMatching(`(go|rust|news|today| ){0,6}`).Draw(t, "title"),
				Snippet: rapid.StringMatching(`(go|rust|news|today| ){0,6}`).Draw(t, "snippet"),
			}
		}

		a := Rerank("go news", in)
		b := Rerank("go news", in)
		if len(a) != len(b) {
			t.Fatalf("length differs")
		}
		for i := range a {
			if a[i] != b[i] {
				t.Fatalf("rerank not deterministic at %d", i)
			}
			if i > 0 && a[i-1].Score < a[i].Score {
				t.Fatalf("not sorted at %d", i)
			}
		}
	})
}
