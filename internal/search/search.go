// Package search discovers candidate business websites for a free-text
// query through interchangeable backends.
package search

import (
	"context"
	"net/http"
	"net/url"
	"strings"
)

// Result is a single discovered page.
type Result struct {
	URL     string `json:"url"`
	Title   string `json:"title,omitempty"`
	Snippet string `json:"snippet,omitempty"`
}

// Provider abstracts a search backend. Implementations return results in
// backend order, already deduplicated and filtered. A backend missing its
// credentials returns an empty slice and a nil error so callers can skip it
// gracefully.
type Provider interface {
	Name() string
	Search(ctx context.Context, query string, maxResults int) ([]Result, error)
}

// HTTPClient abstracts HTTP requests to simplify testing.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// directoryMarkers flag aggregator hosts that rarely belong to the business
// itself.
var directoryMarkers = []string{"directory", "yellowpages", "listing", "mapquest"}

// filterResults applies the shared post-filter: URL dedup, low-value host
// removal and the result cap. Order is preserved.
func filterResults(results []Result, maxResults int) []Result {
	seen := make(map[string]struct{}, len(results))
	filtered := make([]Result, 0, len(results))

	for _, r := range results {
		target := strings.TrimSpace(r.URL)
		if target == "" || hostIsLowValue(target) {
			continue
		}
		if _, dup := seen[target]; dup {
			continue
		}
		seen[target] = struct{}{}
		r.URL = target
		filtered = append(filtered, r)
		if maxResults > 0 && len(filtered) >= maxResults {
			break
		}
	}

	return filtered
}

func hostIsLowValue(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return true
	}
	host := strings.ToLower(u.Hostname())
	if host == "" {
		return true
	}
	for _, marker := range directoryMarkers {
		if strings.Contains(host, marker) {
			return true
		}
	}
	return false
}
