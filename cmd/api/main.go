package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/octobees/leads-finder/internal/auth"
	"github.com/octobees/leads-finder/internal/config"
	"github.com/octobees/leads-finder/internal/database"
	"github.com/octobees/leads-finder/internal/enrich"
	"github.com/octobees/leads-finder/internal/extractor"
	"github.com/octobees/leads-finder/internal/handler"
	middlewarepkg "github.com/octobees/leads-finder/internal/middleware"
	"github.com/octobees/leads-finder/internal/pipeline"
	"github.com/octobees/leads-finder/internal/repository"
	"github.com/octobees/leads-finder/internal/router"
	"github.com/octobees/leads-finder/internal/scraper"
	"github.com/octobees/leads-finder/internal/search"
	"github.com/octobees/leads-finder/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)

	fetcher := scraper.NewFetcher(
		scraper.WithTimeout(cfg.FetchTimeout),
		scraper.WithMaxBytes(cfg.FetchMaxBytes),
	)
	extract := extractor.New(extractor.DefaultConfig())

	var orchestratorOpts []pipeline.OrchestratorOption
	if cfg.HunterAPIKey != "" {
		orchestratorOpts = append(orchestratorOpts, pipeline.WithEnricher(enrich.NewClient(cfg.HunterAPIKey)))
	}
	if len(cfg.KeywordVariants) > 0 {
		orchestratorOpts = append(orchestratorOpts, pipeline.WithKeywordVariants(cfg.KeywordVariants...))
	}

	newRunner := func(provider search.Provider) *pipeline.Orchestrator {
		return pipeline.New(provider, fetcher, extract, orchestratorOpts...)
	}

	var ddgOpts []search.DuckDuckGoOption
	if cfg.SearchMaxPages > 0 {
		ddgOpts = append(ddgOpts, search.WithPageStrategy(search.SeededPages(cfg.SearchPageSeed, cfg.SearchMaxPages)))
	}

	runners := map[string]*pipeline.Orchestrator{
		config.EngineDuckDuckGo: newRunner(search.NewDuckDuckGo(ddgOpts...)),
		config.EngineBing:       newRunner(search.NewBing(cfg.BingAPIKey)),
		config.EngineGoogle:     newRunner(search.NewGoogle(cfg.GoogleAPIKey, cfg.GoogleEngineID)),
	}

	var svcOpts []service.LeadsServiceOption
	for engine, runner := range runners {
		if engine != cfg.SearchEngine {
			svcOpts = append(svcOpts, service.WithEngineRunner(engine, runner))
		}
	}

	if cfg.DatabaseURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		pool, err := database.Connect(ctx, cfg.DatabaseURL)
		cancel()
		if err != nil {
			log.Fatalf("failed to connect database: %v", err)
		}
		defer pool.Close()
		svcOpts = append(svcOpts, service.WithRepository(repository.NewPGXLeadsRepository(pool)))
	} else {
		log.Printf("DATABASE_URL not set, leads will not be persisted")
	}

	processor := service.NewLeadProcessor(cfg.DefaultPhoneRegion)
	leadsService := service.NewLeadsService(cfg.SearchEngine, runners[cfg.SearchEngine], processor, svcOpts...)
	authService := service.NewAuthService(cfg.OperatorEmail, cfg.OperatorPasswordHash, jwtManager)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middlewarepkg.RequestID())
	e.Use(middlewarepkg.Logging())
	e.Use(echoMiddleware.Recover())

	router.Register(e, cfg, jwtManager, router.Handlers{
		Auth:  handler.NewAuthHandler(authService),
		Leads: handler.NewLeadsHandler(leadsService),
	})

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- e.Start(":" + cfg.Port)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		log.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
		return
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}
}
