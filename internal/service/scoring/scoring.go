package scoring

import (
	"net/url"
	"strings"
)

const (
	categoryContact   = "contact_completeness"
	categoryWebsite   = "website_quality"
	categoryDiscovery = "discovery_confidence"
)

var freeHostingDomains = []string{
	"wordpress.com",
	"blogspot.com",
	"wixsite.com",
	"weebly.com",
	"squarespace.com",
	"medium.com",
	"substack.com",
	"godaddysites.com",
	"notion.site",
	"googlepages.com",
}

var freeMailDomains = []string{"gmail.com", "yahoo.com", "hotmail.com"}

// LeadFeatures captures the pipeline signals used for scoring.
type LeadFeatures struct {
	Email       string
	EmailFound  bool
	EmailSource string
	Emails      []string
	Phones      []string
	Website     string
	Title       string
	Snippet     string
}

// ScoreResult reports the aggregate score and the per-category breakdown.
type ScoreResult struct {
	Total     int
	Breakdown map[string]int
}

// ComputeScore evaluates the provided features and returns the score
// breakdown. The function is pure; identical features always yield the same
// score.
func ComputeScore(input LeadFeatures) ScoreResult {
	breakdown := map[string]int{
		categoryContact:   scoreContactCompleteness(input),
		categoryWebsite:   scoreWebsiteQuality(input),
		categoryDiscovery: scoreDiscoveryConfidence(input),
	}

	total := 0
	for _, value := range breakdown {
		total += value
	}

	return ScoreResult{
		Total:     total,
		Breakdown: breakdown,
	}
}

func scoreContactCompleteness(input LeadFeatures) int {
	score := 0
	if input.EmailFound {
		score += 15
	}
	if len(input.Emails) > 1 {
		score += 5
	}
	if hasValue(input.Phones) {
		score += 10
	}
	if input.EmailFound && !isFreeMail(input.Email) {
		score += 10
	}
	if score > 40 {
		return 40
	}
	return score
}

func scoreWebsiteQuality(input LeadFeatures) int {
	score := 0
	site := strings.ToLower(strings.TrimSpace(input.Website))
	if strings.HasPrefix(site, "https://") {
		score += 10
	}
	if highQualityDomain(input.Website) {
		score += 10
	}
	if score > 20 {
		return 20
	}
	return score
}

// scoreDiscoveryConfidence rewards leads whose email came from the site
// itself over snippet matches or paid enrichment.
func scoreDiscoveryConfidence(input LeadFeatures) int {
	score := 0
	switch input.EmailSource {
	case "page":
		score += 20
	case "snippet":
		score += 10
	case "enrichment":
		score += 5
	}
	if strings.TrimSpace(input.Title) != "" {
		score += 5
	}
	if strings.TrimSpace(input.Snippet) != "" {
		score += 5
	}
	if score > 30 {
		return 30
	}
	return score
}

func hasValue(values []string) bool {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return true
		}
	}
	return false
}

func isFreeMail(email string) bool {
	email = strings.ToLower(strings.TrimSpace(email))
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return false
	}
	domain := email[at+1:]
	for _, free := range freeMailDomains {
		if domain == free {
			return true
		}
	}
	return false
}

func highQualityDomain(raw string) bool {
	domain := extractDomain(raw)
	if domain == "" {
		return false
	}
	for _, bad := range freeHostingDomains {
		if domain == bad || strings.HasSuffix(domain, "."+bad) {
			return false
		}
	}
	return strings.Count(domain, ".") >= 1
}

func extractDomain(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	lowered := strings.ToLower(raw)
	if !strings.Contains(lowered, "://") {
		lowered = "https://" + lowered
	}
	parsed, err := url.Parse(lowered)
	if err != nil {
		return ""
	}
	host := strings.TrimSpace(strings.ToLower(parsed.Host))
	host = strings.TrimPrefix(host, "www.")
	return host
}
