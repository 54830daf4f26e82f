package extractor

import (
	"regexp"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/idna"
)

var (
	emailPattern     = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)
	fullEmailPattern = regexp.MustCompile(`^[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}$`)
	phonePattern     = regexp.MustCompile(`\+?\(?[0-9][0-9()\s.\-]{6,18}[0-9]`)
	idnaProfile      = idna.Lookup
)

// Config holds the extraction rules. All lists are explicit so behaviour is
// deterministic and testable without hidden shared state.
type Config struct {
	// NoisePatterns are case-insensitive substrings marking non-email noise
	// (asset filenames, bundler artifacts, placeholder addresses).
	NoisePatterns []string
	// RolePrefixes are generic organizational local-part prefixes, preferred
	// over personal-looking addresses when selecting a single best candidate.
	RolePrefixes []string
	// FreeMailDomains lose against business domains during selection.
	FreeMailDomains []string
}

// DefaultConfig returns the standard rule set used in production.
func DefaultConfig() Config {
	return Config{
		NoisePatterns: []string{
			".png", ".jpg", ".jpeg", ".webp", ".svg",
			"sentry", "bootstrap", "react@", "lodash@", "polyfill", "core-js",
			"@2x.", "@3x.",
			"example.com", "your@email.com",
		},
		RolePrefixes: []string{
			"info@", "sales@", "support@", "admin@", "contact@", "hello@", "enquiries@",
		},
		FreeMailDomains: []string{"gmail.com", "yahoo.com", "hotmail.com"},
	}
}

// Extractor scans text for contact details according to its configuration.
type Extractor struct {
	noise    []string
	prefixes []string
	freeMail map[string]struct{}
}

// New builds an extractor from the given configuration. Noise patterns are
// lowercased once so matching stays case-insensitive.
func New(cfg Config) *Extractor {
	noise := make([]string, 0, len(cfg.NoisePatterns))
	for _, p := range cfg.NoisePatterns {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			noise = append(noise, p)
		}
	}

	prefixes := make([]string, 0, len(cfg.RolePrefixes))
	for _, p := range cfg.RolePrefixes {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			prefixes = append(prefixes, p)
		}
	}

	freeMail := make(map[string]struct{}, len(cfg.FreeMailDomains))
	for _, d := range cfg.FreeMailDomains {
		d = strings.ToLower(strings.TrimSpace(d))
		if d != "" {
			freeMail[d] = struct{}{}
		}
	}

	return &Extractor{noise: noise, prefixes: prefixes, freeMail: freeMail}
}

// IsValidEmail reports whether the candidate is a syntactically plausible
// address that is not on the noise blacklist. Deliverability is out of scope.
func (e *Extractor) IsValidEmail(candidate string) bool {
	email := strings.ToLower(strings.TrimSpace(candidate))
	if email == "" || !fullEmailPattern.MatchString(email) {
		return false
	}

	for _, pattern := range e.noise {
		if strings.Contains(email, pattern) {
			return false
		}
	}

	domain := email[strings.LastIndex(email, "@")+1:]
	if !domainLooksValid(domain) {
		return false
	}
	if ascii, err := idnaProfile.ToASCII(domain); err != nil || ascii == "" {
		return false
	}

	return true
}

// Extract returns the deduplicated, lowercased email candidates found across
// the supplied texts, in first-seen order. The result is a pure function of
// the inputs and the configured blacklist.
func (e *Extractor) Extract(texts ...string) []string {
	seen := make(map[string]struct{})
	var emails []string

	for _, text := range texts {
		if text == "" {
			continue
		}
		for _, match := range emailPattern.FindAllString(text, -1) {
			email := strings.ToLower(match)
			if !e.IsValidEmail(email) {
				continue
			}
			if _, dup := seen[email]; dup {
				continue
			}
			seen[email] = struct{}{}
			emails = append(emails, email)
		}
	}

	return emails
}

// ExtractHTML scans an HTML document. mailto: links are harvested first, then
// the raw markup is swept with the same token scan as Extract.
func (e *Extractor) ExtractHTML(html string) []string {
	if html == "" {
		return nil
	}

	seen := make(map[string]struct{})
	var emails []string

	if doc, err := goquery.NewDocumentFromReader(strings.NewReader(html)); err == nil {
		doc.Find("a[href^='mailto:'], a[href^='Mailto:'], a[href^='MAILTO:']").Each(func(_ int, s *goquery.Selection) {
			href, ok := s.Attr("href")
			if !ok {
				return
			}
			value := strings.TrimSpace(href)
			if len(value) > len("mailto:") {
				value = value[len("mailto:"):]
			}
			if idx := strings.Index(value, "?"); idx >= 0 {
				value = value[:idx]
			}
			email := strings.ToLower(strings.TrimSpace(value))
			if email == "" || !e.IsValidEmail(email) {
				return
			}
			if _, dup := seen[email]; dup {
				return
			}
			seen[email] = struct{}{}
			emails = append(emails, email)
		})
	}

	for _, email := range e.Extract(html) {
		if _, dup := seen[email]; dup {
			continue
		}
		seen[email] = struct{}{}
		emails = append(emails, email)
	}

	return emails
}

// SelectBest picks one address deterministically: prefer non-free-mail
// domains, then role-prefixed local parts, then shorter strings, then
// lexicographic order. Empty input yields an empty string.
func (e *Extractor) SelectBest(candidates []string) string {
	if len(candidates) == 0 {
		return ""
	}

	pool := make([]string, 0, len(candidates))
	for _, c := range candidates {
		c = strings.ToLower(strings.TrimSpace(c))
		if c != "" {
			pool = append(pool, c)
		}
	}
	if len(pool) == 0 {
		return ""
	}

	var business []string
	for _, c := range pool {
		if !e.isFreeMail(c) {
			business = append(business, c)
		}
	}
	if len(business) > 0 {
		pool = business
	}

	ranked := append([]string(nil), pool...)
	sort.SliceStable(ranked, func(i, j int) bool {
		ri, rj := e.hasRolePrefix(ranked[i]), e.hasRolePrefix(ranked[j])
		if ri != rj {
			return ri
		}
		if len(ranked[i]) != len(ranked[j]) {
			return len(ranked[i]) < len(ranked[j])
		}
		return ranked[i] < ranked[j]
	})

	return ranked[0]
}

// ExtractPhones collects phone-like tokens from the supplied texts. Tokens
// are raw; normalization and validation happen downstream.
func (e *Extractor) ExtractPhones(texts ...string) []string {
	seen := make(map[string]struct{})
	var phones []string

	for _, text := range texts {
		if text == "" {
			continue
		}
		for _, match := range phonePattern.FindAllString(text, -1) {
			token := strings.TrimSpace(match)
			if countDigits(token) < 8 {
				continue
			}
			if _, dup := seen[token]; dup {
				continue
			}
			seen[token] = struct{}{}
			phones = append(phones, token)
		}
	}

	return phones
}

func (e *Extractor) isFreeMail(email string) bool {
	domain := email[strings.LastIndex(email, "@")+1:]
	_, ok := e.freeMail[domain]
	return ok
}

func (e *Extractor) hasRolePrefix(email string) bool {
	for _, prefix := range e.prefixes {
		if strings.HasPrefix(email, prefix) {
			return true
		}
	}
	return false
}

func domainLooksValid(domain string) bool {
	if strings.Count(domain, ".") == 0 {
		return false
	}
	for _, part := range strings.Split(domain, ".") {
		if part == "" || strings.HasPrefix(part, "-") || strings.HasSuffix(part, "-") {
			return false
		}
	}
	return true
}

func countDigits(s string) int {
	n := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			n++
		}
	}
	return n
}
