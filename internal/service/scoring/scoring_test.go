package scoring

import "testing"

func TestComputeScore_FullCoverage(t *testing.T) {
	input := LeadFeatures{
		Email:       "bookings@acmebakery.co.za",
		EmailFound:  true,
		EmailSource: "page",
		Emails:      []string{"bookings@acmebakery.co.za", "info@acmebakery.co.za"},
		Phones:      []string{"+27111234567"},
		Website:     "https://acmebakery.co.za",
		Title:       "Acme Bakery",
		Snippet:     "Artisan breads in Johannesburg.",
	}

	score := ComputeScore(input)

	if score.Total != 90 {
		t.Fatalf("expected full score 90, got %d", score.Total)
	}
	if score.Breakdown[categoryContact] != 40 {
		t.Fatalf("expected contact completeness 40, got %d", score.Breakdown[categoryContact])
	}
	if score.Breakdown[categoryWebsite] != 20 {
		t.Fatalf("expected website quality 20, got %d", score.Breakdown[categoryWebsite])
	}
	if score.Breakdown[categoryDiscovery] != 30 {
		t.Fatalf("expected discovery confidence 30, got %d", score.Breakdown[categoryDiscovery])
	}
}

func TestComputeScore_MinimalSignals(t *testing.T) {
	input := LeadFeatures{
		Email:   "",
		Emails:  nil,
		Phones:  []string{"   "},
		Website: "http://myshop.wordpress.com",
	}

	score := ComputeScore(input)

	if score.Total != 0 {
		t.Fatalf("expected zero score for insufficient signals, got %d", score.Total)
	}
}

func TestComputeScore_SourceOrdering(t *testing.T) {
	base := LeadFeatures{
		Email:      "hello@shop.example",
		EmailFound: true,
		Emails:     []string{"hello@shop.example"},
		Website:    "https://shop.example",
	}

	page := base
	page.EmailSource = "page"
	snippet := base
	snippet.EmailSource = "snippet"
	enrichment := base
	enrichment.EmailSource = "enrichment"

	pageScore := ComputeScore(page).Total
	snippetScore := ComputeScore(snippet).Total
	enrichmentScore := ComputeScore(enrichment).Total

	if !(pageScore > snippetScore && snippetScore > enrichmentScore) {
		t.Fatalf("expected page > snippet > enrichment, got %d, %d, %d",
			pageScore, snippetScore, enrichmentScore)
	}
}

func TestComputeScore_FreeMailPenalty(t *testing.T) {
	business := LeadFeatures{
		Email:       "orders@plumberco.com",
		EmailFound:  true,
		EmailSource: "page",
		Emails:      []string{"orders@plumberco.com"},
		Website:     "https://plumberco.com",
	}
	free := business
	free.Email = "plumberco@gmail.com"
	free.Emails = []string{"plumberco@gmail.com"}

	if ComputeScore(business).Total <= ComputeScore(free).Total {
		t.Fatalf("expected business-domain email to outscore free mail")
	}
}

func TestComputeScore_Deterministic(t *testing.T) {
	input := LeadFeatures{
		Email:       "info@studio.example",
		EmailFound:  true,
		EmailSource: "snippet",
		Emails:      []string{"info@studio.example"},
		Phones:      []string{"011 555 0001"},
		Website:     "https://studio.example",
		Snippet:     "Design studio.",
	}

	first := ComputeScore(input)
	second := ComputeScore(input)

	if first.Total != second.Total {
		t.Fatalf("expected identical totals, got %d and %d", first.Total, second.Total)
	}
	for category, value := range first.Breakdown {
		if second.Breakdown[category] != value {
			t.Fatalf("breakdown for %s changed between runs", category)
		}
	}
}

func TestHighQualityDomain(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"https://example.com", true},
		{"http://www.example.co.za", true},
		{"mybrand.wordpress.com", false},
		{"", false},
		{"ftp://subdomain.googlepages.com", false},
	}

	for _, tc := range cases {
		if got := highQualityDomain(tc.input); got != tc.want {
			t.Fatalf("highQualityDomain(%q)=%v, want %v", tc.input, got, tc.want)
		}
	}
}
