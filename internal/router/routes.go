package router

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/octobees/wanderplan/internal/auth"
	"github.com/octobees/wanderplan/internal/config"
	"github.com/octobees/wanderplan/internal/handler"
	middlewarepkg "github.com/octobees/wanderplan/internal/middleware"
)

// Handlers aggregates HTTP handlers used by the router.
type Handlers struct {
	Page      *handler.PageHandler
	Itinerary *handler.ItineraryHandler
	Download  *handler.DownloadHandler
	Metrics   http.Handler
}

// Register wires all HTTP routes. Routes that read or change form state run
// behind the session middleware; both generation routes share one limiter.
func Register(e *echo.Echo, cfg *config.Config, tokens *auth.SessionTokens, sessions middlewarepkg.SessionResolver, handlers Handlers) {
	session := middlewarepkg.Session(tokens, sessions, middlewarepkg.SessionOptions{
		MaxAgeSeconds: int(tokens.TTL().Seconds()),
		Secure:        cfg.CookieSecure,
	})
	generateLimit := middlewarepkg.NewRateLimit(cfg.RateLimitGenerate)

	e.GET("/healthz", func(c echo.Context) error {
		return handler.Success(c, http.StatusOK, "service healthy", map[string]any{"status": "ok"})
	})
	if handlers.Metrics != nil {
		e.GET("/metrics", echo.WrapHandler(handlers.Metrics))
	}

	// stateless variant, the caller supplies the text
	e.POST("/download", handlers.Download.TextFromBody)

	app := e.Group("", session)
	app.GET("/", handlers.Page.Index)
	app.POST("/generate", handlers.Itinerary.Submit, generateLimit.Middleware(handlers.Itinerary.Throttled))
	app.GET("/download", handlers.Download.Text)
	app.GET("/download.pdf", handlers.Download.PDF)

	api := app.Group("/api")
	api.GET("/session", handlers.Itinerary.State)
	api.PUT("/trip", handlers.Itinerary.UpdateTrip)
	api.PATCH("/trip", handlers.Itinerary.SetField)
	api.POST("/itinerary", handlers.Itinerary.Generate, generateLimit.Middleware(nil))
}
