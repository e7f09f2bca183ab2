package search

import (
	"context"
	"fmt"
	"strings"

	"crew-agent/internal/application/port/output"
	"crew-agent/internal/domain/entity"

	"golang.org/x/sync/errgroup"
)

const (
	DefaultDigestDocs = 5
	digestDocChars    = 6000
	digestBulletChars = 220
)

type Digest struct {
	Summary string   `json:"summary"`
	Sources []string `json:"sources"`
}

type digestDoc struct {
	title string
	url   string
	text  string
}

// Summarize reads the first maxDocs hits and builds one bullet per readable
// document, each citing its normalized URL. A page that cannot be fetched
// falls back to the hit's snippet.
func Summarize(ctx context.Context, reader output.PageReader, hits []entity.SearchResult, maxDocs int) Digest {
	if maxDocs <= 0 {
		maxDocs = DefaultDigestDocs
	}
	if len(hits) > maxDocs {
		hits = hits[:maxDocs]
	}

	docs := make([]digestDoc, len(hits))
	var g errgroup.Group
	for i, h := range hits {
		i, h := i, h
		g.Go(func() error {
			text, err := reader.FetchText(ctx, h.URL)
			if err != nil || strings.TrimSpace(text) == "" {
				text = h.Snippet
			}
			docs[i] = digestDoc{title: h.Title, url: h.URL, text: clipRunes(text, digestDocChars)}
			return nil
		})
	}
	_ = g.Wait()

	bullets := make([]string, 0, len(docs))
	sources := make([]string, 0, len(docs))
	for _, d := range docs {
		sources = append(sources, d.url)
		if strings.TrimSpace(d.text) == "" {
			continue
		}
		first, _, _ := strings.Cut(clipRunes(d.text, digestBulletChars), "\n")
		bullets = append(bullets, fmt.Sprintf("• %s … %s", first, citation(d.url, d.title)))
	}

	return Digest{Summary: strings.Join(bullets, "\n"), Sources: sources}
}

func citation(url, title string) string {
	if title == "" {
		title = url
	}
	return fmt.Sprintf("[%s](%s)", title, NormalizeURL(url))
}

func clipRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
