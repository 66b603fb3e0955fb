package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/octobees/wanderplan/internal/dto"
	"github.com/octobees/wanderplan/internal/entity"
	"github.com/octobees/wanderplan/internal/logger"
	middlewarepkg "github.com/octobees/wanderplan/internal/middleware"
	"github.com/octobees/wanderplan/internal/service"
)

// ItineraryHandler edits the form state and triggers generation.
type ItineraryHandler struct {
	sessions *service.SessionService
	renderer MarkdownRenderer
	log      *logger.Logger
}

// NewItineraryHandler wires the handler.
func NewItineraryHandler(sessions *service.SessionService, renderer MarkdownRenderer, log *logger.Logger) *ItineraryHandler {
	if log == nil {
		log = logger.Discard()
	}
	return &ItineraryHandler{sessions: sessions, renderer: renderer, log: log}
}

// Submit handles the form post: store the fields, generate, then show the page again.
func (h *ItineraryHandler) Submit(c echo.Context) error {
	sess := middlewarepkg.SessionFromContext(c)
	if sess == nil {
		return Error(c, http.StatusInternalServerError, "session unavailable")
	}

	var req dto.TripRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}
	h.sessions.UpdateTrip(sess, req.Entity())

	if _, err := h.sessions.Generate(c.Request().Context(), sess); err != nil && !errors.Is(err, service.ErrBusy) {
		return Error(c, http.StatusInternalServerError, err.Error())
	}
	return c.Redirect(http.StatusSeeOther, "/")
}

// Throttled answers a form submit refused by the rate limiter: the refusal
// becomes the displayed result and the browser goes back to the page.
func (h *ItineraryHandler) Throttled(c echo.Context) error {
	if sess := middlewarepkg.SessionFromContext(c); sess != nil {
		h.sessions.Reject(sess, service.ErrRateLimited)
	}
	return c.Redirect(http.StatusSeeOther, "/")
}

// Generate handles POST /api/itinerary. A JSON body, when present, replaces the fields first.
func (h *ItineraryHandler) Generate(c echo.Context) error {
	sess := middlewarepkg.SessionFromContext(c)
	if sess == nil {
		return Error(c, http.StatusInternalServerError, "session unavailable")
	}

	if c.Request().ContentLength != 0 {
		var req dto.TripRequest
		if err := c.Bind(&req); err != nil {
			return Error(c, http.StatusBadRequest, "invalid payload")
		}
		h.sessions.UpdateTrip(sess, req.Entity())
	}

	result, err := h.sessions.Generate(c.Request().Context(), sess)
	if err != nil {
		if errors.Is(err, service.ErrBusy) {
			return Error(c, http.StatusConflict, err.Error())
		}
		return Error(c, http.StatusInternalServerError, err.Error())
	}

	return Success(c, http.StatusOK, "itinerary generated", dto.ItineraryResponse{
		Itinerary: result,
		HTML:      string(renderOrEscape(c, h.renderer, h.log, result)),
	})
}

// UpdateTrip handles PUT /api/trip and replaces all seven fields.
func (h *ItineraryHandler) UpdateTrip(c echo.Context) error {
	sess := middlewarepkg.SessionFromContext(c)
	if sess == nil {
		return Error(c, http.StatusInternalServerError, "session unavailable")
	}

	var req dto.TripRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}
	h.sessions.UpdateTrip(sess, req.Entity())

	return Success(c, http.StatusOK, "trip updated", sessionResponse(sess.Snapshot()))
}

// SetField handles PATCH /api/trip with a single field edit.
func (h *ItineraryHandler) SetField(c echo.Context) error {
	sess := middlewarepkg.SessionFromContext(c)
	if sess == nil {
		return Error(c, http.StatusInternalServerError, "session unavailable")
	}

	var req dto.FieldUpdateRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}
	if err := h.sessions.SetField(sess, req.Field, req.Value); err != nil {
		if errors.Is(err, entity.ErrUnknownField) {
			return Error(c, http.StatusBadRequest, err.Error())
		}
		return Error(c, http.StatusInternalServerError, "failed to update field")
	}

	return Success(c, http.StatusOK, "field updated", sessionResponse(sess.Snapshot()))
}

// State handles GET /api/session.
func (h *ItineraryHandler) State(c echo.Context) error {
	sess := middlewarepkg.SessionFromContext(c)
	if sess == nil {
		return Error(c, http.StatusInternalServerError, "session unavailable")
	}
	return Success(c, http.StatusOK, "ok", sessionResponse(sess.Snapshot()))
}

func sessionResponse(state entity.SessionState) dto.SessionResponse {
	return dto.SessionResponse{
		Trip:      state.Trip,
		Itinerary: state.Itinerary,
		Busy:      state.Busy,
		UpdatedAt: state.UpdatedAt,
	}
}
