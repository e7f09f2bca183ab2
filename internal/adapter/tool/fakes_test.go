package tool

import (
	"context"
	"errors"
	"sync"

	"crew-agent/internal/domain/entity"
)

type fakeWorker struct {
	opened     []string
	typed      [][2]string
	clicked    []string
	elements   []entity.InteractiveElement
	page       string
	screenshot []byte
	err        error
}

func (w *fakeWorker) OpenURL(_ context.Context, url string) (string, error) {
	if w.err != nil {
		return "", w.err
	}
	w.opened = append(w.opened, url)
	return "Successfully opened " + url, nil
}

func (w *fakeWorker) ListInteractiveElements(context.Context) ([]entity.InteractiveElement, error) {
	return w.elements, w.err
}

func (w *fakeWorker) ClickElement(_ context.Context, selector string) (string, error) {
	if w.err != nil {
		return "", w.err
	}
	w.clicked = append(w.clicked, selector)
	return "Clicked " + selector, nil
}

func (w *fakeWorker) TypeText(_ context.Context, selector, text string) (string, error) {
	if w.err != nil {
		return "", w.err
	}
	w.typed = append(w.typed, [2]string{selector, text})
	return "Typed into " + selector, nil
}

func (w *fakeWorker) ReadPageContent(context.Context) (string, error) {
	return w.page, w.err
}

func (w *fakeWorker) TakeScreenshot(context.Context) ([]byte, error) {
	return w.screenshot, w.err
}

func (w *fakeWorker) CloseBrowser(context.Context) (string, error) {
	return "Browser closed.", w.err
}

type fakeSearch struct {
	results map[string][]entity.SearchResult
	errs    map[string]error
	opts    []entity.SearchOptions
}

func (s *fakeSearch) Run(_ context.Context, query string, opts entity.SearchOptions) ([]entity.SearchResult, error) {
	s.opts = append(s.opts, opts)
	if err := s.errs[query]; err != nil {
		return nil, err
	}
	return s.results[query], nil
}

func (s *fakeSearch) RunMany(ctx context.Context, queries []string, opts entity.SearchOptions) []entity.QueryResult {
	out := make([]entity.QueryResult, len(queries))
	for i, q := range queries {
		res, err := s.Run(ctx, q, opts)
		out[i] = entity.QueryResult{Query: q, Results: res, Err: err}
	}
	return out
}

type fakeReader struct {
	mu     sync.Mutex
	chunks map[string][]string
	errs   map[string]error
	ks     []int
}

func (r *fakeReader) FetchText(_ context.Context, url string) (string, error) {
	if err := r.errs[url]; err != nil {
		return "", err
	}
	chunks, ok := r.chunks[url]
	if !ok {
		return "", errors.New("unexpected url " + url)
	}
	var text string
	for _, c := range chunks {
		text += c + "\n"
	}
	return text, nil
}

func (r *fakeReader) RelevantChunks(_ context.Context, url, _ string, k int) ([]string, error) {
	r.mu.Lock()
	r.ks = append(r.ks, k)
	r.mu.Unlock()
	if err := r.errs[url]; err != nil {
		return nil, err
	}
	chunks, ok := r.chunks[url]
	if !ok {
		return nil, errors.New("unexpected url " + url)
	}
	if len(chunks) > k {
		chunks = chunks[:k]
	}
	return chunks, nil
}
