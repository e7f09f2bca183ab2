package searxng

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"crew-agent/internal/application/port/output"
	"crew-agent/internal/domain/entity"
)

const defaultTimeout = 10 * time.Second

var _ output.SearchProvider = (*Provider)(nil)

type Provider struct {
	baseURL string
	client  *http.Client
	logger  output.LoggerPort
}

type Config struct {
	BaseURL string
	Timeout time.Duration
	Logger  output.LoggerPort
}

func DefaultConfig(baseURL string) Config {
	return Config{
		BaseURL: baseURL,
		Timeout: defaultTimeout,
	}
}

func New(cfg Config) *Provider {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Provider{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		logger:  cfg.Logger,
	}
}

func (p *Provider) Name() string { return "searxng" }

type searchResponse struct {
	Results []struct {
		Title   string `json:"title"`
		URL     string `json:"url"`
		Content string `json:"content"`
		Snippet string `json:"snippet"`
		Engine  string `json:"engine"`
	} `json:"results"`
}

func (p *Provider) Search(ctx context.Context, query string, page int, opts entity.SearchOptions) ([]entity.SearchResult, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("pageno", strconv.Itoa(page))
	if opts.Categories != "" {
		params.Set("categories", opts.Categories)
	}
	if opts.Language != "" {
		params.Set("language", opts.Language)
	}
	if opts.TimeRange != "" {
		params.Set("time_range", opts.TimeRange)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build searxng request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("searxng request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("searxng returned status %d", resp.StatusCode)
	}

	var data searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode searxng response: %w", err)
	}

	out := make([]entity.SearchResult, 0, len(data.Results))
	for _, it := range data.Results {
		snippet := it.Content
		if snippet == "" {
			snippet = it.Snippet
		}
		source := it.Engine
		if source == "" {
			source = p.Name()
		}
		out = append(out, entity.SearchResult{
			Title:   it.Title,
			URL:     it.URL,
			Snippet: snippet,
			Source:  source,
		})
	}

	if p.logger != nil {
		p.logger.Debug("SearXNG page fetched", "query", query, "page", page, "results", len(out))
	}

	return out, nil
}
