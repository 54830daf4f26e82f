package search

import (
	"context"
	"fmt"
	"strings"

	customsearch "google.golang.org/api/customsearch/v1"
	"google.golang.org/api/option"
)

// Google queries the keyed Programmable Search API. It needs both an API key
// and a search engine ID; with either missing every search returns an empty
// result set.
type Google struct {
	apiKey   string
	engineID string
	opts     []option.ClientOption
}

// GoogleOption configures optional behaviour.
type GoogleOption func(*Google)

// WithGoogleClientOptions appends extra client options, mainly endpoint and
// transport overrides for tests.
func WithGoogleClientOptions(opts ...option.ClientOption) GoogleOption {
	return func(g *Google) {
		g.opts = append(g.opts, opts...)
	}
}

// NewGoogle builds the programmable-search backend.
func NewGoogle(apiKey, engineID string, opts ...GoogleOption) *Google {
	g := &Google{
		apiKey:   strings.TrimSpace(apiKey),
		engineID: strings.TrimSpace(engineID),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Name implements Provider.
func (g *Google) Name() string { return "google" }

// Search runs one customsearch list call.
func (g *Google) Search(ctx context.Context, query string, maxResults int) ([]Result, error) {
	if g.apiKey == "" || g.engineID == "" {
		return nil, nil
	}

	num := int64(maxResults)
	if num <= 0 || num > 10 {
		num = 10
	}

	clientOpts := append([]option.ClientOption{option.WithAPIKey(g.apiKey)}, g.opts...)
	svc, err := customsearch.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("create customsearch service: %w", err)
	}

	res, err := svc.Cse.List().Q(query).Cx(g.engineID).Num(num).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("customsearch list: %w", err)
	}

	results := make([]Result, 0, len(res.Items))
	for _, item := range res.Items {
		results = append(results, Result{URL: item.Link, Title: item.Title, Snippet: item.Snippet})
	}

	return filterResults(results, maxResults), nil
}
