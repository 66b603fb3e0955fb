package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/octobees/wanderplan/internal/auth"
	"github.com/octobees/wanderplan/internal/config"
	"github.com/octobees/wanderplan/internal/gemini"
	"github.com/octobees/wanderplan/internal/handler"
	"github.com/octobees/wanderplan/internal/logger"
	"github.com/octobees/wanderplan/internal/metrics"
	middlewarepkg "github.com/octobees/wanderplan/internal/middleware"
	"github.com/octobees/wanderplan/internal/render"
	"github.com/octobees/wanderplan/internal/repository"
	"github.com/octobees/wanderplan/internal/router"
	"github.com/octobees/wanderplan/internal/service"
	"github.com/octobees/wanderplan/internal/web"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.New(logger.Config{}).Error("failed to load config", "error", err)
		os.Exit(1)
	}

	log := logger.New(logger.FromConfig(cfg.LogLevel, cfg.LogFormat))
	if cfg.Gemini.APIKey == "" {
		log.Warn("GEMINI_API_KEY is empty, generation requests will be rejected by the provider")
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	m := metrics.New()

	generator, err := newGenerator(ctx, cfg.Gemini)
	if err != nil {
		log.Error("failed to create generator", "error", err)
		os.Exit(1)
	}

	sessionsRepo := repository.NewMemorySessionsRepository(cfg.SessionTTL)
	go sessionsRepo.Run(ctx, time.Minute, m.SetSessions)

	itineraryService := service.NewItineraryService(generator, log, m)
	sessionService := service.NewSessionService(sessionsRepo, itineraryService)
	tokens := auth.NewSessionTokens(cfg.SessionSecret, cfg.SessionTTL)

	markdown, err := render.NewRenderer()
	if err != nil {
		log.Error("failed to load styles", "error", err)
		os.Exit(1)
	}
	templates, err := web.NewTemplates()
	if err != nil {
		log.Error("failed to parse templates", "error", err)
		os.Exit(1)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Renderer = templates

	e.Use(middlewarepkg.RequestID())
	e.Use(middlewarepkg.Logging(log))
	e.Use(echoMiddleware.Recover())

	router.Register(e, cfg, tokens, sessionService, router.Handlers{
		Page:      handler.NewPageHandler(markdown, log),
		Itinerary: handler.NewItineraryHandler(sessionService, markdown, log),
		Download:  handler.NewDownloadHandler(),
		Metrics:   m.Handler(),
	})

	serverErr := make(chan error, 1)
	go func() {
		log.Info("starting server", "port", cfg.Port, "backend", cfg.Gemini.Backend, "model", cfg.Gemini.Model)
		serverErr <- e.Start(":" + cfg.Port)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		log.Info("shutting down", "signal", sig.String())
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
		return
	}

	stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}
}

// newGenerator picks the backend that talks to the generative-language endpoint.
// Neither backend sets a request timeout.
func newGenerator(ctx context.Context, cfg config.GeminiConfig) (gemini.Generator, error) {
	opts := []gemini.Option{
		gemini.WithBaseURL(cfg.BaseURL),
		gemini.WithModel(cfg.Model),
		gemini.WithHTTPClient(&http.Client{}),
	}
	if cfg.Backend == config.BackendGenAI {
		return gemini.NewSDKClient(ctx, cfg.APIKey, opts...)
	}
	return gemini.NewClient(cfg.APIKey, opts...), nil
}
