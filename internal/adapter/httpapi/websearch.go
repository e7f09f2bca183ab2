package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"crew-agent/internal/domain/entity"
	"crew-agent/internal/usecase/search"
)

type webSearchRequest struct {
	Query      string `json:"query"`
	Mode       string `json:"mode"`
	TimeRange  string `json:"time_range"`
	Lang       string `json:"lang"`
	Pages      int    `json:"pages"`
	MaxResults int    `json:"max_results"`
	Summarize  bool   `json:"summarize"`
}

type webSearchResponse struct {
	Results []entity.SearchResult `json:"results"`
	*search.Digest
}

func (s *Server) handleWebSearch(w http.ResponseWriter, r *http.Request) {
	req := webSearchRequest{
		Mode:       "general",
		Lang:       "en",
		Pages:      2,
		MaxResults: 15,
		Summarize:  true,
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		writeError(w, http.StatusBadRequest, "query is required")
		return
	}

	categories := "general"
	if req.Mode == "news" {
		categories = "news"
	}

	hits, err := s.search.Run(r.Context(), req.Query, entity.SearchOptions{
		Pages:      req.Pages,
		MaxResults: req.MaxResults,
		TimeRange:  req.TimeRange,
		Categories: categories,
		Language:   req.Lang,
	})
	if err != nil {
		writeError(w, http.StatusBadGateway, fmt.Sprintf("search failed: %v", err))
		return
	}
	if hits == nil {
		hits = []entity.SearchResult{}
	}

	resp := webSearchResponse{Results: hits}
	if req.Summarize && s.reader != nil {
		digest := search.Summarize(r.Context(), s.reader, hits, search.DefaultDigestDocs)
		resp.Digest = &digest
	}
	writeJSON(w, http.StatusOK, resp)
}
