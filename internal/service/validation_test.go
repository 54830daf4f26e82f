package service

import (
	"testing"

	"github.com/octobees/leads-finder/internal/entity"
)

func TestLeadProcessorCleanNormalizesEmailAndPhones(t *testing.T) {
	p := NewLeadProcessor("US")
	lead := &entity.Lead{
		Email:  " Sales@Example.com ",
		Emails: []string{"Sales@Example.com", "sales@example.com", "  "},
		Phones: []string{" (415) 555-1234 ", "+14155551234", "12345"},
	}

	p.Clean(lead)

	if lead.Email != "sales@example.com" {
		t.Fatalf("unexpected email: %q", lead.Email)
	}
	if len(lead.Emails) != 1 || lead.Emails[0] != "sales@example.com" {
		t.Fatalf("expected deduplicated emails, got %#v", lead.Emails)
	}
	if len(lead.Phones) != 1 || lead.Phones[0] != "+14155551234" {
		t.Fatalf("unexpected normalized phones: %#v", lead.Phones)
	}
}

func TestLeadProcessorCleanDropsUnparseablePhones(t *testing.T) {
	p := NewLeadProcessor("ZA")
	lead := &entity.Lead{
		Phones: []string{"not a phone", "000", "011 555"},
	}

	p.Clean(lead)

	if lead.Phones != nil {
		t.Fatalf("expected nil phones, got %#v", lead.Phones)
	}
}

func TestLeadProcessorCleanRegionalFormat(t *testing.T) {
	p := NewLeadProcessor("za")
	lead := &entity.Lead{
		Phones: []string{"011 555 8234"},
	}

	p.Clean(lead)

	if len(lead.Phones) != 1 || lead.Phones[0] != "+27115558234" {
		t.Fatalf("expected E.164 for the default region, got %#v", lead.Phones)
	}
}

func TestLeadProcessorCleanNilLead(t *testing.T) {
	p := NewLeadProcessor("")
	p.Clean(nil)
	if p.DefaultRegion != "ZA" {
		t.Fatalf("expected fallback region ZA, got %q", p.DefaultRegion)
	}
}
