package handler

import (
	"html/template"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/octobees/wanderplan/internal/entity"
	"github.com/octobees/wanderplan/internal/logger"
	middlewarepkg "github.com/octobees/wanderplan/internal/middleware"
)

// Placeholder is shown in the output pane until a result exists.
const Placeholder = "Your generated itinerary will appear here."

// MarkdownRenderer converts itinerary markdown into HTML.
type MarkdownRenderer interface {
	Render(markdown string) (template.HTML, error)
}

// PageData feeds the index template.
type PageData struct {
	Trip        entity.TripRequest
	Itinerary   string
	Rendered    template.HTML
	Busy        bool
	Placeholder string
}

// PageHandler serves the single page form.
type PageHandler struct {
	renderer MarkdownRenderer
	log      *logger.Logger
}

// NewPageHandler wires the page handler.
func NewPageHandler(renderer MarkdownRenderer, log *logger.Logger) *PageHandler {
	if log == nil {
		log = logger.Discard()
	}
	return &PageHandler{renderer: renderer, log: log}
}

// Index renders the form with the session's values and result.
func (h *PageHandler) Index(c echo.Context) error {
	sess := middlewarepkg.SessionFromContext(c)
	if sess == nil {
		return Error(c, http.StatusInternalServerError, "session unavailable")
	}

	state := sess.Snapshot()
	data := PageData{
		Trip:        state.Trip,
		Itinerary:   state.Itinerary,
		Busy:        state.Busy,
		Placeholder: Placeholder,
	}
	if state.Itinerary != "" {
		data.Rendered = renderOrEscape(c, h.renderer, h.log, state.Itinerary)
	}

	return c.Render(http.StatusOK, "index.html", data)
}

// renderOrEscape falls back to escaped plain text when markdown rendering fails.
func renderOrEscape(c echo.Context, renderer MarkdownRenderer, log *logger.Logger, text string) template.HTML {
	rendered, err := renderer.Render(text)
	if err != nil {
		log.LogError(c.Request().Context(), err, "render itinerary")
		return template.HTML("<pre>" + template.HTMLEscapeString(text) + "</pre>")
	}
	return rendered
}
