package router

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/octobees/leads-finder/internal/auth"
	"github.com/octobees/leads-finder/internal/config"
	"github.com/octobees/leads-finder/internal/handler"
	middlewarepkg "github.com/octobees/leads-finder/internal/middleware"
)

// Handlers aggregates HTTP handlers used by the router.
type Handlers struct {
	Auth  *handler.AuthHandler
	Leads *handler.LeadsHandler
}

// Register wires all HTTP routes for the API.
func Register(e *echo.Echo, cfg *config.Config, jwtManager *auth.JWTManager, handlers Handlers) {
	e.GET("/healthz", func(c echo.Context) error {
		return handler.Success(c, http.StatusOK, "service healthy", map[string]any{"status": "ok"})
	})

	e.POST("/auth/login", handlers.Auth.Login)
	e.GET("/leads", handlers.Leads.List)

	secured := e.Group("")
	secured.Use(middlewarepkg.JWT(jwtManager))

	secured.POST("/leads/generate", handlers.Leads.Generate, middlewarepkg.GenerateRateLimiter(cfg.RateLimitGenerate))
}
