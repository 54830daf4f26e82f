package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const bingBaseURL = "https://api.bing.microsoft.com"

// Bing queries the keyed Bing Web Search API. Without an API key every
// search returns an empty result set.
type Bing struct {
	client  HTTPClient
	baseURL string
	apiKey  string
}

// BingOption configures optional behaviour.
type BingOption func(*Bing)

// WithBingClient overrides the default HTTP client.
func WithBingClient(client HTTPClient) BingOption {
	return func(b *Bing) {
		if client != nil {
			b.client = client
		}
	}
}

// WithBingBaseURL overrides the API endpoint, mainly for tests.
func WithBingBaseURL(base string) BingOption {
	return func(b *Bing) {
		if base != "" {
			b.baseURL = strings.TrimRight(base, "/")
		}
	}
}

// NewBing builds the keyed web-search backend.
func NewBing(apiKey string, opts ...BingOption) *Bing {
	b := &Bing{
		client:  &http.Client{Timeout: 10 * time.Second},
		baseURL: bingBaseURL,
		apiKey:  strings.TrimSpace(apiKey),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Name implements Provider.
func (b *Bing) Name() string { return "bing" }

// Search issues an authenticated GET against the web search endpoint.
func (b *Bing) Search(ctx context.Context, query string, maxResults int) ([]Result, error) {
	if b.apiKey == "" {
		return nil, nil
	}

	count := maxResults
	if count <= 0 || count > 50 {
		count = 10
	}

	searchURL := fmt.Sprintf("%s/v7.0/search?q=%s&count=%d", b.baseURL, url.QueryEscape(query), count)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Ocp-Apim-Subscription-Key", b.apiKey)

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("bing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("bing returned status %d", resp.StatusCode)
	}

	var payload struct {
		WebPages struct {
			Value []struct {
				URL     string `json:"url"`
				Name    string `json:"name"`
				Snippet string `json:"snippet"`
			} `json:"value"`
		} `json:"webPages"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode bing response: %w", err)
	}

	results := make([]Result, 0, len(payload.WebPages.Value))
	for _, item := range payload.WebPages.Value {
		results = append(results, Result{URL: item.URL, Title: item.Name, Snippet: item.Snippet})
	}

	return filterResults(results, maxResults), nil
}
