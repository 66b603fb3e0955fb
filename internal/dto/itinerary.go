package dto

import (
	"time"

	"github.com/octobees/wanderplan/internal/entity"
)

// ItineraryResponse returns the raw result and its rendered form.
type ItineraryResponse struct {
	Itinerary string `json:"itinerary"`
	HTML      string `json:"html"`
}

// SessionResponse describes the form state of the caller's session.
type SessionResponse struct {
	Trip      entity.TripRequest `json:"trip"`
	Itinerary string             `json:"itinerary"`
	Busy      bool               `json:"busy"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// DownloadRequest supplies the text to package when downloading without a session result.
type DownloadRequest struct {
	Itinerary string `json:"itinerary" form:"itinerary"`
}
