package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/octobees/leads-finder/internal/dto"
	"github.com/octobees/leads-finder/internal/entity"
	"github.com/octobees/leads-finder/internal/pipeline"
	"github.com/octobees/leads-finder/internal/repository"
	"github.com/octobees/leads-finder/internal/service/scoring"
)

// PipelineRunner executes one search-to-scrape pass for a keyword and
// location pair.
type PipelineRunner interface {
	Run(ctx context.Context, keyword, location string, maxResults int) []pipeline.Record
}

// ValidationError indicates that the generation request is invalid.
type ValidationError struct {
	Message string
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return e.Message
}

// GenerateSummary reports the outcome of a generation run.
type GenerateSummary struct {
	Leads    int `json:"leads"`
	Inserted int `json:"inserted"`
	Updated  int `json:"updated"`
}

// LeadsService coordinates pipeline runs, cleaning, scoring and persistence.
type LeadsService struct {
	runners       map[string]PipelineRunner
	defaultEngine string
	repo          repository.LeadsRepository
	processor     *LeadProcessor
}

// LeadsServiceOption configures optional behaviour.
type LeadsServiceOption func(*LeadsService)

// WithEngineRunner registers an additional runner selectable by engine name
// in the request payload.
func WithEngineRunner(engine string, runner PipelineRunner) LeadsServiceOption {
	return func(s *LeadsService) {
		if engine != "" && runner != nil {
			s.runners[engine] = runner
		}
	}
}

// WithRepository enables persistence of generated leads.
func WithRepository(repo repository.LeadsRepository) LeadsServiceOption {
	return func(s *LeadsService) {
		s.repo = repo
	}
}

// NewLeadsService builds the service around the default engine runner.
func NewLeadsService(defaultEngine string, runner PipelineRunner, processor *LeadProcessor, opts ...LeadsServiceOption) *LeadsService {
	s := &LeadsService{
		runners:       map[string]PipelineRunner{defaultEngine: runner},
		defaultEngine: defaultEngine,
		processor:     processor,
	}
	if s.processor == nil {
		s.processor = NewLeadProcessor("")
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GenerateLeads runs the pipeline for every requested location, cleans and
// scores the results, and persists them when a repository is configured.
// Locations run sequentially; a location that yields nothing contributes
// nothing rather than failing the run.
func (s *LeadsService) GenerateLeads(ctx context.Context, req dto.GenerateLeadsRequest) (GenerateSummary, []entity.Lead, error) {
	keyword := strings.TrimSpace(req.Keyword)
	if keyword == "" {
		return GenerateSummary{}, nil, ValidationError{Message: "keyword is required"}
	}

	locations := splitLocations(req.Locations)
	if len(locations) == 0 {
		return GenerateSummary{}, nil, ValidationError{Message: "at least one location is required"}
	}

	engine := strings.TrimSpace(strings.ToLower(req.Engine))
	if engine == "" {
		engine = s.defaultEngine
	}
	runner, ok := s.runners[engine]
	if !ok {
		return GenerateSummary{}, nil, ValidationError{Message: "unknown search engine: " + engine}
	}

	var leads []entity.Lead
	for _, location := range locations {
		records := runner.Run(ctx, keyword, location, req.MaxResults)
		for _, record := range records {
			lead := s.buildLead(record)
			leads = append(leads, lead)
		}
	}

	summary := GenerateSummary{Leads: len(leads)}
	if s.repo != nil && len(leads) > 0 {
		result, err := s.repo.BulkUpsertLeads(ctx, leads)
		if err != nil {
			return summary, leads, err
		}
		summary.Inserted = result.Inserted
		summary.Updated = result.Updated
	}

	return summary, leads, nil
}

// ListLeads returns persisted leads respecting pagination defaults.
func (s *LeadsService) ListLeads(ctx context.Context, filter dto.ListFilter) ([]entity.Lead, error) {
	if s.repo == nil {
		return nil, nil
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PerPage <= 0 {
		filter.PerPage = 20
	}
	if filter.PerPage > 100 {
		filter.PerPage = 100
	}
	return s.repo.List(ctx, filter)
}

func (s *LeadsService) buildLead(record pipeline.Record) entity.Lead {
	lead := entity.Lead{
		ID:         uuid.New(),
		Website:    record.Website,
		Email:      record.Email,
		EmailFound: record.EmailFound,
		Emails:     record.Emails,
		Phones:     record.Phones,
		Snippet:    normalizeString(record.Snippet),
		Title:      normalizeString(record.Title),
		Keyword:    record.Keyword,
		Location:   record.Location,
		Query:      normalizeString(record.Query),
		Engine:     normalizeString(record.Engine),
		Source:     normalizeString(record.Source),
	}

	s.processor.Clean(&lead)

	score := scoring.ComputeScore(scoring.LeadFeatures{
		Email:       lead.Email,
		EmailFound:  lead.EmailFound,
		EmailSource: record.Source,
		Emails:      lead.Emails,
		Phones:      lead.Phones,
		Website:     lead.Website,
		Title:       record.Title,
		Snippet:     record.Snippet,
	})
	lead.Score = score.Total

	return lead
}

func splitLocations(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	seen := make(map[string]struct{}, len(parts))
	for _, part := range parts {
		location := strings.TrimSpace(part)
		if location == "" {
			continue
		}
		key := strings.ToLower(location)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, location)
	}
	return out
}

func normalizeString(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}
