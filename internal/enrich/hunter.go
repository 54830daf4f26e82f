// Package enrich looks up contact emails for a domain through a third-party
// data provider. It is strictly a last resort after on-page scraping because
// the provider is credit-limited.
package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	hunterBaseURL  = "https://api.hunter.io"
	requestTimeout = 5 * time.Second
)

// HTTPClient abstracts HTTP requests to simplify testing.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client calls the domain-search endpoint of the enrichment provider.
// Without an API key every lookup returns an empty result.
type Client struct {
	client    HTTPClient
	baseURL   string
	apiKey    string
	limiter   *rate.Limiter
	allEmails bool
}

// ClientOption configures optional behaviour.
type ClientOption func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client HTTPClient) ClientOption {
	return func(c *Client) {
		if client != nil {
			c.client = client
		}
	}
}

// WithBaseURL overrides the API endpoint, mainly for tests.
func WithBaseURL(base string) ClientOption {
	return func(c *Client) {
		if base != "" {
			c.baseURL = strings.TrimRight(base, "/")
		}
	}
}

// WithRateLimit paces outgoing lookups. The provider meters credits, so the
// default is deliberately conservative.
func WithRateLimit(perSecond float64, burst int) ClientOption {
	return func(c *Client) {
		if perSecond > 0 && burst > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
		}
	}
}

// WithAllEmails makes DomainSearch return every address joined by ", "
// instead of just the first one.
func WithAllEmails() ClientOption {
	return func(c *Client) {
		c.allEmails = true
	}
}

// NewClient builds an enrichment client.
func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		client:  &http.Client{Timeout: requestTimeout},
		baseURL: hunterBaseURL,
		apiKey:  strings.TrimSpace(apiKey),
		limiter: rate.NewLimiter(rate.Limit(2), 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// DomainSearch returns the provider's emails for a registrable domain, or an
// empty string on any failure, missing key, or empty domain. It never
// returns an error; enrichment is best effort by contract.
func (c *Client) DomainSearch(ctx context.Context, domain string) string {
	domain = strings.TrimSpace(domain)
	if c.apiKey == "" || domain == "" {
		return ""
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return ""
	}

	endpoint := fmt.Sprintf("%s/v2/domain-search?domain=%s&api_key=%s",
		c.baseURL, url.QueryEscape(domain), url.QueryEscape(c.apiKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return ""
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ""
	}

	var payload struct {
		Data struct {
			Emails []struct {
				Value string `json:"value"`
			} `json:"emails"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return ""
	}

	emails := make([]string, 0, len(payload.Data.Emails))
	for _, e := range payload.Data.Emails {
		if v := strings.TrimSpace(e.Value); v != "" {
			emails = append(emails, v)
		}
	}
	if len(emails) == 0 {
		return ""
	}
	if c.allEmails {
		return strings.Join(emails, ", ")
	}
	return emails[0]
}

// RegistrableDomain derives the enrichment lookup key from a URL: the host
// with scheme and a leading "www." removed.
func RegistrableDomain(rawURL string) string {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return ""
	}
	if !strings.Contains(rawURL, "://") {
		rawURL = "https://" + rawURL
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	host := strings.ToLower(u.Hostname())
	return strings.TrimPrefix(host, "www.")
}
