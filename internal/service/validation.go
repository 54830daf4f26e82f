package service

import (
	"strings"

	"github.com/nyaruka/phonenumbers"

	"github.com/octobees/leads-finder/internal/entity"
)

const defaultPhoneRegion = "ZA"

// LeadProcessor normalizes contact fields on scraped leads before they are
// scored and persisted.
type LeadProcessor struct {
	DefaultRegion string
}

// NewLeadProcessor builds a processor for the given default phone region.
func NewLeadProcessor(defaultRegion string) *LeadProcessor {
	region := strings.ToUpper(strings.TrimSpace(defaultRegion))
	if region == "" {
		region = defaultPhoneRegion
	}
	return &LeadProcessor{DefaultRegion: region}
}

// Clean normalizes emails and phones in place. Phone tokens that do not parse
// as a valid number for the default region are dropped.
func (p *LeadProcessor) Clean(lead *entity.Lead) {
	if lead == nil {
		return
	}
	lead.Email = strings.ToLower(strings.TrimSpace(lead.Email))
	lead.Emails = dedupeLower(lead.Emails)
	lead.Phones = p.normalizePhones(lead.Phones)
}

func (p *LeadProcessor) normalizePhones(candidates []string) []string {
	if len(candidates) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(candidates))
	valid := make([]string, 0, len(candidates))
	for _, raw := range candidates {
		normalized := normalizePhone(raw, p.DefaultRegion)
		if normalized == "" {
			continue
		}
		if _, dup := seen[normalized]; dup {
			continue
		}
		seen[normalized] = struct{}{}
		valid = append(valid, normalized)
	}
	if len(valid) == 0 {
		return nil
	}
	return valid
}

func normalizePhone(raw, region string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if region == "" {
		region = defaultPhoneRegion
	}
	number, err := phonenumbers.Parse(raw, region)
	if err != nil {
		return ""
	}
	if !phonenumbers.IsPossibleNumber(number) || !phonenumbers.IsValidNumber(number) {
		return ""
	}
	return phonenumbers.Format(number, phonenumbers.E164)
}

func dedupeLower(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, raw := range values {
		value := strings.ToLower(strings.TrimSpace(raw))
		if value == "" {
			continue
		}
		if _, dup := seen[value]; dup {
			continue
		}
		seen[value] = struct{}{}
		out = append(out, value)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
