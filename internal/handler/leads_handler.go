package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/octobees/leads-finder/internal/dto"
	"github.com/octobees/leads-finder/internal/entity"
	"github.com/octobees/leads-finder/internal/service"
)

// LeadsHandler exposes the lead generation and listing endpoints.
type LeadsHandler struct {
	service *service.LeadsService
}

// NewLeadsHandler creates a new handler instance.
func NewLeadsHandler(service *service.LeadsService) *LeadsHandler {
	return &LeadsHandler{service: service}
}

// GenerateResponse is the payload returned by the generate endpoint.
type GenerateResponse struct {
	Summary service.GenerateSummary `json:"summary"`
	Leads   []entity.Lead           `json:"leads"`
}

// Generate handles POST /leads/generate requests.
func (h *LeadsHandler) Generate(c echo.Context) error {
	var req dto.GenerateLeadsRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}

	summary, leads, err := h.service.GenerateLeads(c.Request().Context(), req)
	if err != nil {
		var verr service.ValidationError
		if errors.As(err, &verr) {
			return Error(c, http.StatusBadRequest, verr.Message)
		}
		return Error(c, http.StatusInternalServerError, "failed to generate leads")
	}

	if leads == nil {
		leads = []entity.Lead{}
	}
	return Success(c, http.StatusOK, "leads generated", GenerateResponse{
		Summary: summary,
		Leads:   leads,
	})
}

// List handles GET /leads requests.
func (h *LeadsHandler) List(c echo.Context) error {
	filter := dto.ListFilter{
		Keyword:  strings.TrimSpace(c.QueryParam("keyword")),
		Location: strings.TrimSpace(c.QueryParam("location")),
		Engine:   strings.TrimSpace(c.QueryParam("engine")),
		Page:     parseIntDefault(c.QueryParam("page"), 1),
		PerPage:  parseIntDefault(c.QueryParam("per_page"), 20),
	}

	if withMail := strings.TrimSpace(c.QueryParam("with_email")); withMail != "" {
		parsed, err := strconv.ParseBool(withMail)
		if err != nil {
			return Error(c, http.StatusBadRequest, "invalid with_email (use true or false)")
		}
		filter.OnlyWithMail = parsed
	}

	if updatedSinceStr := strings.TrimSpace(c.QueryParam("updated_since")); updatedSinceStr != "" {
		parsed, err := time.Parse(time.RFC3339, updatedSinceStr)
		if err != nil {
			return Error(c, http.StatusBadRequest, "invalid updated_since (use RFC3339)")
		}
		filter.UpdatedSince = &parsed
	}

	leads, err := h.service.ListLeads(c.Request().Context(), filter)
	if err != nil {
		return Error(c, http.StatusInternalServerError, "failed to list leads")
	}

	if leads == nil {
		leads = []entity.Lead{}
	}
	return Success(c, http.StatusOK, "leads retrieved", leads)
}

func parseIntDefault(input string, fallback int) int {
	if input == "" {
		return fallback
	}
	if value, err := strconv.Atoi(input); err == nil {
		return value
	}
	return fallback
}
