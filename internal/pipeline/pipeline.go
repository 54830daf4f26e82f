// Package pipeline composes search, fetch, extraction and enrichment into
// one lead generation run per keyword/location pair.
package pipeline

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/octobees/leads-finder/internal/enrich"
	"github.com/octobees/leads-finder/internal/extractor"
	"github.com/octobees/leads-finder/internal/search"
)

// Fetcher retrieves the main and contact pages for a site. Failures come
// back as empty strings.
type Fetcher interface {
	FetchSite(ctx context.Context, url string) (main, contact string)
}

// Enricher resolves emails for a registrable domain, empty on failure.
type Enricher interface {
	DomainSearch(ctx context.Context, domain string) string
}

// Record is one lead produced for a unique URL.
type Record struct {
	Website    string
	Email      string
	EmailFound bool
	Emails     []string
	Phones     []string
	Title      string
	Snippet    string
	Keyword    string
	Location   string
	Query      string
	Engine     string
	Source     string
}

// Email sources, in fallback order.
const (
	SourcePage       = "page"
	SourceSnippet    = "snippet"
	SourceEnrichment = "enrichment"
)

const (
	defaultMaxResults = 10
	maxResultsCap     = 20
)

// Orchestrator runs the search-to-scrape-to-enrich pipeline. It holds no
// state across runs; the seen-URL set lives for a single Run call.
type Orchestrator struct {
	provider search.Provider
	fetcher  Fetcher
	extract  *extractor.Extractor
	enricher Enricher
	variants []string
}

// OrchestratorOption configures optional behaviour.
type OrchestratorOption func(*Orchestrator)

// WithEnricher attaches the enrichment fallback. Without it the pipeline
// simply stops after snippet extraction.
func WithEnricher(e Enricher) OrchestratorOption {
	return func(o *Orchestrator) {
		o.enricher = e
	}
}

// WithKeywordVariants expands each keyword into additional role-variant
// queries ("supplier", "wholesaler", ...), merged with cross-query dedup.
func WithKeywordVariants(variants ...string) OrchestratorOption {
	return func(o *Orchestrator) {
		for _, v := range variants {
			if v = strings.TrimSpace(v); v != "" {
				o.variants = append(o.variants, v)
			}
		}
	}
}

// New builds an orchestrator around the given collaborators.
func New(provider search.Provider, fetcher Fetcher, ex *extractor.Extractor, opts ...OrchestratorOption) *Orchestrator {
	o := &Orchestrator{
		provider: provider,
		fetcher:  fetcher,
		extract:  ex,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Run produces one record per unique URL discovered for the keyword and
// location. Per-URL failures never propagate; a failed stage leaves its data
// empty and the record is finalized with whatever was gathered. Queries run
// sequentially; each query's URLs are scraped concurrently and joined before
// the next query starts.
func (o *Orchestrator) Run(ctx context.Context, keyword, location string, maxResults int) []Record {
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}
	if maxResults > maxResultsCap {
		maxResults = maxResultsCap
	}

	queries := o.buildQueries(keyword, location)
	seen := make(map[string]struct{})
	var records []Record

	for _, query := range queries {
		results, err := o.provider.Search(ctx, query, maxResults)
		if err != nil {
			log.Printf("search failed engine=%s query=%q err=%v", o.provider.Name(), query, err)
			continue
		}

		// The seen set is only written here, between batches.
		batch := make([]search.Result, 0, len(results))
		for _, r := range results {
			if _, dup := seen[r.URL]; dup {
				continue
			}
			seen[r.URL] = struct{}{}
			batch = append(batch, r)
		}
		if len(batch) == 0 {
			continue
		}

		slots := make([]Record, len(batch))
		var wg sync.WaitGroup
		for i, result := range batch {
			wg.Add(1)
			go func(i int, result search.Result) {
				defer wg.Done()
				slots[i] = o.scrape(ctx, result, keyword, location, query)
			}(i, result)
		}
		wg.Wait()

		records = append(records, slots...)
		log.Printf("pipeline query=%q engine=%s urls=%d total=%d", query, o.provider.Name(), len(batch), len(records))
	}

	return records
}

// scrape walks a single URL through fetch, extraction, the snippet fallback
// and finally enrichment.
func (o *Orchestrator) scrape(ctx context.Context, result search.Result, keyword, location, query string) Record {
	rec := Record{
		Website:  result.URL,
		Title:    result.Title,
		Snippet:  result.Snippet,
		Keyword:  keyword,
		Location: location,
		Query:    query,
		Engine:   o.provider.Name(),
	}

	mainPage, contactPage := o.fetcher.FetchSite(ctx, result.URL)
	rec.Phones = o.extract.ExtractPhones(mainPage, contactPage)

	emails := mergeCandidates(o.extract.ExtractHTML(mainPage), o.extract.ExtractHTML(contactPage))
	if len(emails) > 0 {
		rec.Source = SourcePage
	}

	if len(emails) == 0 && result.Snippet != "" {
		if emails = o.extract.Extract(result.Snippet); len(emails) > 0 {
			rec.Source = SourceSnippet
		}
	}

	if len(emails) == 0 && o.enricher != nil {
		if domain := enrich.RegistrableDomain(result.URL); domain != "" {
			if found := o.enricher.DomainSearch(ctx, domain); found != "" {
				for _, candidate := range strings.Split(found, ",") {
					if c := strings.ToLower(strings.TrimSpace(candidate)); c != "" && o.extract.IsValidEmail(c) {
						emails = append(emails, c)
					}
				}
				if len(emails) > 0 {
					rec.Source = SourceEnrichment
				}
			}
		}
	}

	rec.Emails = emails
	rec.Email = o.extract.SelectBest(emails)
	rec.EmailFound = rec.Email != ""

	return rec
}

func (o *Orchestrator) buildQueries(keyword, location string) []string {
	queries := []string{fmt.Sprintf("%s %s", keyword, location)}
	for _, variant := range o.variants {
		queries = append(queries, fmt.Sprintf("%s %s in %s", keyword, variant, location))
	}
	return queries
}

func mergeCandidates(lists ...[]string) []string {
	seen := make(map[string]struct{})
	var merged []string
	for _, list := range lists {
		for _, email := range list {
			if _, dup := seen[email]; dup {
				continue
			}
			seen[email] = struct{}{}
			merged = append(merged, email)
		}
	}
	return merged
}
