package scraper

import (
	"context"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultTimeout  = 6 * time.Second
	defaultMaxBytes = 200_000

	browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	acceptHeader     = "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"
)

// HTTPClient abstracts HTTP requests to simplify testing.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Fetcher retrieves raw page content with a bounded byte budget and a short
// per-request timeout. Every failure degrades to empty text; fetching never
// returns an error to its caller.
type Fetcher struct {
	client   HTTPClient
	timeout  time.Duration
	maxBytes int64
}

// Option configures optional Fetcher behaviour.
type Option func(*Fetcher)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client HTTPClient) Option {
	return func(f *Fetcher) {
		if client != nil {
			f.client = client
		}
	}
}

// WithTimeout overrides the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		if d > 0 {
			f.timeout = d
		}
	}
}

// WithMaxBytes overrides the response byte budget.
func WithMaxBytes(n int64) Option {
	return func(f *Fetcher) {
		if n > 0 {
			f.maxBytes = n
		}
	}
}

// NewFetcher builds a fetcher with production defaults.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		client:   &http.Client{Timeout: defaultTimeout},
		timeout:  defaultTimeout,
		maxBytes: defaultMaxBytes,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch performs a single GET and returns the truncated body. Network errors,
// timeouts, non-2xx statuses and malformed bytes all yield an empty string.
func (f *Fetcher) Fetch(ctx context.Context, target string) string {
	if strings.TrimSpace(target) == "" {
		return ""
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return ""
	}
	req.Header.Set("User-Agent", browserUserAgent)
	req.Header.Set("Accept", acceptHeader)

	resp, err := f.client.Do(req)
	if err != nil {
		log.Printf("fetch failed url=%s err=%v", target, err)
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return ""
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil && len(body) == 0 {
		return ""
	}

	return strings.ToValidUTF8(string(body), "�")
}

// FetchSite retrieves the page as given plus the derived contact page. The
// two fetches are independent; either may come back empty.
func (f *Fetcher) FetchSite(ctx context.Context, target string) (main, contact string) {
	main = f.Fetch(ctx, target)
	if contactURL := ContactURL(target); contactURL != "" {
		contact = f.Fetch(ctx, contactURL)
	}
	return main, contact
}

// ContactURL derives the same-origin /contact address for a page URL, with
// any trailing slash stripped first. Unparseable input yields an empty string.
func ContactURL(target string) string {
	trimmed := strings.TrimRight(strings.TrimSpace(target), "/")
	if trimmed == "" {
		return ""
	}
	u, err := url.Parse(trimmed)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host + "/contact"
}
