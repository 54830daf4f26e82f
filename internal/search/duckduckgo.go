package search

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const (
	duckDuckGoBaseURL = "https://html.duckduckgo.com"
	resultsPerPage    = 30
)

// PageStrategy decides which results page a keyless search requests. Using a
// non-zero page diversifies results across repeated runs.
type PageStrategy interface {
	Page() int
}

// FixedPage always requests the same results page. Page 0 is the first.
type FixedPage int

// Page implements PageStrategy.
func (p FixedPage) Page() int {
	if p < 0 {
		return 0
	}
	return int(p)
}

type seededPages struct {
	rng      *rand.Rand
	maxPages int
}

// SeededPages returns a strategy that picks a pseudo-random results page in
// [0, maxPages). The seed keeps runs reproducible.
func SeededPages(seed int64, maxPages int) PageStrategy {
	if maxPages <= 0 {
		maxPages = 1
	}
	return &seededPages{rng: rand.New(rand.NewSource(seed)), maxPages: maxPages}
}

func (s *seededPages) Page() int {
	return s.rng.Intn(s.maxPages)
}

// DuckDuckGo scrapes the keyless HTML SERP endpoint.
type DuckDuckGo struct {
	client  HTTPClient
	baseURL string
	pages   PageStrategy
}

// DuckDuckGoOption configures optional behaviour.
type DuckDuckGoOption func(*DuckDuckGo)

// WithDuckDuckGoClient overrides the default HTTP client.
func WithDuckDuckGoClient(client HTTPClient) DuckDuckGoOption {
	return func(d *DuckDuckGo) {
		if client != nil {
			d.client = client
		}
	}
}

// WithDuckDuckGoBaseURL overrides the SERP endpoint, mainly for tests.
func WithDuckDuckGoBaseURL(base string) DuckDuckGoOption {
	return func(d *DuckDuckGo) {
		if base != "" {
			d.baseURL = strings.TrimRight(base, "/")
		}
	}
}

// WithPageStrategy overrides the results-page selection.
func WithPageStrategy(strategy PageStrategy) DuckDuckGoOption {
	return func(d *DuckDuckGo) {
		if strategy != nil {
			d.pages = strategy
		}
	}
}

// NewDuckDuckGo builds the keyless backend with production defaults.
func NewDuckDuckGo(opts ...DuckDuckGoOption) *DuckDuckGo {
	d := &DuckDuckGo{
		client:  &http.Client{Timeout: 10 * time.Second},
		baseURL: duckDuckGoBaseURL,
		pages:   FixedPage(0),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Name implements Provider.
func (d *DuckDuckGo) Name() string { return "duckduckgo" }

// Search scrapes one SERP page and returns the organic results.
func (d *DuckDuckGo) Search(ctx context.Context, query string, maxResults int) ([]Result, error) {
	searchURL := fmt.Sprintf("%s/html/?q=%s", d.baseURL, url.QueryEscape(query))
	if page := d.pages.Page(); page > 0 {
		searchURL += fmt.Sprintf("&s=%d", page*resultsPerPage)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", browserUserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("duckduckgo request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("duckduckgo returned status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse duckduckgo serp: %w", err)
	}

	var results []Result
	doc.Find(".result").Each(func(_ int, s *goquery.Selection) {
		link := s.Find("a.result__a").First()
		href, ok := link.Attr("href")
		if !ok {
			return
		}
		results = append(results, Result{
			URL:     unwrapRedirect(href),
			Title:   strings.TrimSpace(link.Text()),
			Snippet: strings.TrimSpace(s.Find(".result__snippet").Text()),
		})
	})

	return filterResults(results, maxResults), nil
}

// unwrapRedirect resolves DuckDuckGo's /l/?uddg= redirect wrapper.
func unwrapRedirect(href string) string {
	if !strings.Contains(href, "duckduckgo.com/l/?") && !strings.HasPrefix(href, "/l/?") {
		return href
	}
	parsed, err := url.Parse(href)
	if err != nil {
		return href
	}
	if target := parsed.Query().Get("uddg"); target != "" {
		return target
	}
	return href
}

const browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
