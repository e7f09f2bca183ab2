package web

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"crew-agent/internal/application/port/output"
	"crew-agent/internal/domain/relevance"
	"crew-agent/internal/infrastructure/browser/htmltext"

	readability "github.com/go-shiori/go-readability"
	"github.com/microcosm-cc/bluemonday"
	"github.com/tmc/langchaingo/textsplitter"
)

const (
	defaultTimeout   = 20 * time.Second
	defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"
	maxBodyBytes     = 5 << 20
	chunkSize        = 1000
	chunkOverlap     = 150
)

var ErrEmptyContent = errors.New("page has no readable content")

var _ output.PageReader = (*Reader)(nil)

type Reader struct {
	client    *http.Client
	userAgent string
	policy    *bluemonday.Policy
	splitter  textsplitter.RecursiveCharacter
}

type Config struct {
	Timeout   time.Duration
	UserAgent string
}

func DefaultConfig() Config {
	return Config{Timeout: defaultTimeout, UserAgent: defaultUserAgent}
}

func NewReader(cfg Config) *Reader {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}
	return &Reader{
		client:    &http.Client{Timeout: cfg.Timeout},
		userAgent: cfg.UserAgent,
		policy:    bluemonday.StrictPolicy(),
		splitter: textsplitter.NewRecursiveCharacter(
			textsplitter.WithChunkSize(chunkSize),
			textsplitter.WithChunkOverlap(chunkOverlap),
		),
	}
}

// FetchText downloads rawURL and returns its main text. Readability picks the
// article body; pages it cannot handle fall back to full-page text.
func (r *Reader) FetchText(ctx context.Context, rawURL string) (string, error) {
	pageURL, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parse url: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", r.userAgent)

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch %s: status code %d", rawURL, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", fmt.Errorf("read %s: %w", rawURL, err)
	}

	text := ""
	if article, err := readability.FromReader(bytes.NewReader(body), pageURL); err == nil {
		text = normalizeLines(html.UnescapeString(r.policy.Sanitize(article.TextContent)))
	}
	if text == "" {
		text = htmltext.ExtractText(string(body), nil)
	}
	if text == "" {
		return "", ErrEmptyContent
	}
	return text, nil
}

func (r *Reader) Chunks(text string) ([]string, error) {
	chunks, err := r.splitter.SplitText(text)
	if err != nil {
		return nil, fmt.Errorf("split text: %w", err)
	}
	return chunks, nil
}

func (r *Reader) RelevantChunks(ctx context.Context, rawURL, question string, k int) ([]string, error) {
	text, err := r.FetchText(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	chunks, err := r.Chunks(text)
	if err != nil {
		return nil, err
	}
	if len(chunks) == 0 {
		return nil, ErrEmptyContent
	}

	out := make([]string, 0, k)
	for _, i := range relevance.TopK(question, chunks, k) {
		out = append(out, chunks[i])
	}
	return out, nil
}

func normalizeLines(s string) string {
	lines := strings.Split(s, "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}
