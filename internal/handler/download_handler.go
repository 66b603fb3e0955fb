package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/octobees/wanderplan/internal/dto"
	"github.com/octobees/wanderplan/internal/export"
	middlewarepkg "github.com/octobees/wanderplan/internal/middleware"
)

// DownloadHandler serves the current itinerary as a file.
type DownloadHandler struct{}

// NewDownloadHandler wires the handler.
func NewDownloadHandler() *DownloadHandler {
	return &DownloadHandler{}
}

// Text handles GET /download with the session's result.
func (h *DownloadHandler) Text(c echo.Context) error {
	itinerary, ok := sessionItinerary(c)
	if !ok {
		return Error(c, http.StatusNotFound, "no itinerary to download")
	}
	return attach(c, export.Text(itinerary))
}

// TextFromBody handles POST /download and packages the posted text as is.
func (h *DownloadHandler) TextFromBody(c echo.Context) error {
	var req dto.DownloadRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}
	return attach(c, export.Text(req.Itinerary))
}

// PDF handles GET /download.pdf.
func (h *DownloadHandler) PDF(c echo.Context) error {
	itinerary, ok := sessionItinerary(c)
	if !ok {
		return Error(c, http.StatusNotFound, "no itinerary to download")
	}
	file, err := export.PDF(itinerary)
	if err != nil {
		return Error(c, http.StatusInternalServerError, "failed to render pdf")
	}
	return attach(c, file)
}

func sessionItinerary(c echo.Context) (string, bool) {
	sess := middlewarepkg.SessionFromContext(c)
	if sess == nil {
		return "", false
	}
	itinerary := sess.Itinerary()
	return itinerary, itinerary != ""
}

func attach(c echo.Context, file export.Attachment) error {
	c.Response().Header().Set(echo.HeaderContentDisposition, file.ContentDisposition())
	return c.Blob(http.StatusOK, file.ContentType, file.Data)
}
