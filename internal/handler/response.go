package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/octobees/wanderplan/internal/dto"
)

// Success sends a successful response using the shared envelope format.
func Success(c echo.Context, status int, message string, data any) error {
	if status == 0 {
		status = http.StatusOK
	}
	return c.JSON(status, dto.Envelope{Status: dto.StatusSuccess, Message: message, Data: data})
}

// Error sends an error response using the shared envelope format.
func Error(c echo.Context, status int, message string) error {
	if status == 0 {
		status = http.StatusInternalServerError
	}
	return c.JSON(status, dto.ErrorEnvelope(message))
}
