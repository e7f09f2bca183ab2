package entity

type SearchResult struct {
	Title   string  `json:"title"`
	URL     string  `json:"url"`
	Snippet string  `json:"snippet"`
	Source  string  `json:"source"`
	Score   float64 `json:"score"`
}

type SearchOptions struct {
	Pages      int
	MaxResults int
	TimeRange  string
	Categories string
	Language   string
}

// QueryResult isolates the outcome of one query in a multi-query search.
type QueryResult struct {
	Query   string
	Results []SearchResult
	Err     error
}
