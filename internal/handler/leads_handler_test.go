package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/octobees/leads-finder/internal/dto"
	"github.com/octobees/leads-finder/internal/entity"
	"github.com/octobees/leads-finder/internal/pipeline"
	"github.com/octobees/leads-finder/internal/repository"
	"github.com/octobees/leads-finder/internal/service"
)

type stubLeadsRunner struct {
	records []pipeline.Record
}

func (s *stubLeadsRunner) Run(_ context.Context, _, _ string, _ int) []pipeline.Record {
	return s.records
}

type capturingLeadsRepo struct {
	lastFilter dto.ListFilter
	upserted   []entity.Lead
	err        error
}

func (c *capturingLeadsRepo) BulkUpsertLeads(_ context.Context, leads []entity.Lead) (repository.BulkUpsertResult, error) {
	if c.err != nil {
		return repository.BulkUpsertResult{}, c.err
	}
	c.upserted = append(c.upserted, leads...)
	return repository.BulkUpsertResult{Inserted: len(leads), Total: len(leads)}, nil
}

func (c *capturingLeadsRepo) List(_ context.Context, filter dto.ListFilter) ([]entity.Lead, error) {
	c.lastFilter = filter
	if c.err != nil {
		return nil, c.err
	}
	return []entity.Lead{{Website: "https://acme.example"}}, nil
}

func newLeadsHandler(runner service.PipelineRunner, repo repository.LeadsRepository) *LeadsHandler {
	opts := []service.LeadsServiceOption{}
	if repo != nil {
		opts = append(opts, service.WithRepository(repo))
	}
	return NewLeadsHandler(service.NewLeadsService("duckduckgo", runner, nil, opts...))
}

func TestLeadsHandler_Generate_Success(t *testing.T) {
	runner := &stubLeadsRunner{
		records: []pipeline.Record{
			{Website: "https://acme.example", Email: "info@acme.example", EmailFound: true,
				Keyword: "bakery", Location: "Cape Town", Source: pipeline.SourcePage},
		},
	}
	repo := &capturingLeadsRepo{}
	handler := newLeadsHandler(runner, repo)

	body := `{"keyword":"bakery","locations":"Cape Town"}`
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/leads/generate", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.Generate(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(repo.upserted) != 1 {
		t.Fatalf("expected the lead persisted, got %d", len(repo.upserted))
	}

	var payload APIResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if payload.Status != "success" {
		t.Fatalf("unexpected payload: %+v", payload)
	}
}

func TestLeadsHandler_Generate_MissingKeyword(t *testing.T) {
	handler := newLeadsHandler(&stubLeadsRunner{}, nil)

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/leads/generate", strings.NewReader(`{"locations":"Cape Town"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	_ = handler.Generate(c)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestLeadsHandler_Generate_InvalidPayload(t *testing.T) {
	handler := newLeadsHandler(&stubLeadsRunner{}, nil)

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/leads/generate", strings.NewReader(`{"keyword":`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	_ = handler.Generate(c)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestLeadsHandler_Generate_RepositoryError(t *testing.T) {
	runner := &stubLeadsRunner{
		records: []pipeline.Record{{Website: "https://acme.example", Keyword: "bakery", Location: "Cape Town"}},
	}
	repo := &capturingLeadsRepo{err: context.DeadlineExceeded}
	handler := newLeadsHandler(runner, repo)

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/leads/generate",
		strings.NewReader(`{"keyword":"bakery","locations":"Cape Town"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	_ = handler.Generate(c)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}

func TestLeadsHandler_List_Success(t *testing.T) {
	repo := &capturingLeadsRepo{}
	handler := newLeadsHandler(&stubLeadsRunner{}, repo)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/leads?keyword=bakery&with_email=true&per_page=25", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.List(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if repo.lastFilter.Keyword != "bakery" {
		t.Fatalf("expected keyword filter applied")
	}
	if !repo.lastFilter.OnlyWithMail {
		t.Fatalf("expected with_email filter applied")
	}
	if repo.lastFilter.PerPage != 25 {
		t.Fatalf("expected per_page 25, got %d", repo.lastFilter.PerPage)
	}
}

func TestLeadsHandler_List_InvalidUpdatedSince(t *testing.T) {
	handler := newLeadsHandler(&stubLeadsRunner{}, &capturingLeadsRepo{})

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/leads?updated_since=yesterday", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	_ = handler.List(c)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestLeadsHandler_List_Error(t *testing.T) {
	repo := &capturingLeadsRepo{err: context.DeadlineExceeded}
	handler := newLeadsHandler(&stubLeadsRunner{}, repo)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/leads", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	_ = handler.List(c)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}
