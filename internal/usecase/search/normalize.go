package search

import (
	"net/url"
	"strings"

	"crew-agent/internal/domain/entity"
)

var trackingParams = map[string]struct{}{
	"utm_source":   {},
	"utm_medium":   {},
	"utm_campaign": {},
	"utm_term":     {},
	"utm_content":  {},
	"gclid":        {},
	"fbclid":       {},
	"yclid":        {},
	"mc_cid":       {},
	"mc_eid":       {},
}

// NormalizeURL produces the dedup key of a result URL: tracking parameters
// removed, scheme and host lower-cased, fragment dropped. Remaining query
// pairs keep their original order and encoding. Unparseable input is
// returned unchanged.
func NormalizeURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""
	u.RawFragment = ""
	u.RawQuery = stripTracking(u.RawQuery)
	u.ForceQuery = false

	return u.String()
}

func stripTracking(rawQuery string) string {
	if rawQuery == "" {
		return ""
	}

	kept := make([]string, 0, 4)
	for _, pair := range strings.Split(rawQuery, "&") {
		if pair == "" {
			continue
		}
		key := pair
		if i := strings.IndexByte(pair, '='); i >= 0 {
			key = pair[:i]
		}
		if decoded, err := url.QueryUnescape(key); err == nil {
			key = decoded
		}
		if _, tracked := trackingParams[key]; tracked {
			continue
		}
		kept = append(kept, pair)
	}

	return strings.Join(kept, "&")
}

// Dedupe keeps the first result for every normalized URL.
func Dedupe(results []entity.SearchResult) []entity.SearchResult {
	seen := make(map[string]struct{}, len(results))
	out := make([]entity.SearchResult, 0, len(results))

	for _, r := range results {
		key := NormalizeURL(r.URL)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, r)
	}

	return out
}
