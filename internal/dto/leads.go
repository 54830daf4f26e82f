package dto

import "time"

// GenerateLeadsRequest is the payload for the lead generation endpoint.
// Locations accepts a comma-separated list; each location is processed as a
// separate pipeline run.
type GenerateLeadsRequest struct {
	Keyword    string `json:"keyword"`
	Locations  string `json:"locations"`
	MaxResults int    `json:"max_results,omitempty"`
	Engine     string `json:"engine,omitempty"`
}

// ListFilter contains query parameters for the lead listing endpoint.
type ListFilter struct {
	Keyword      string
	Location     string
	Engine       string
	OnlyWithMail bool
	UpdatedSince *time.Time
	Page         int
	PerPage      int
}
