package entity

import (
	"sync"
	"time"
)

// Session is the per-browser holder of the form state, the single itinerary
// result and the busy flag. All access goes through its methods.
type Session struct {
	ID string

	mu        sync.Mutex
	trip      TripRequest
	itinerary string
	busy      bool
	updatedAt time.Time
}

// SessionState is an immutable copy of a session taken under its lock.
type SessionState struct {
	ID        string      `json:"id"`
	Trip      TripRequest `json:"trip"`
	Itinerary string      `json:"itinerary"`
	Busy      bool        `json:"busy"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// NewSession creates an empty session.
func NewSession(id string, now time.Time) *Session {
	return &Session{ID: id, updatedAt: now}
}

// Snapshot copies the current state.
func (s *Session) Snapshot() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return SessionState{
		ID:        s.ID,
		Trip:      s.trip,
		Itinerary: s.itinerary,
		Busy:      s.busy,
		UpdatedAt: s.updatedAt,
	}
}

// Trip returns the current form values.
func (s *Session) Trip() TripRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.trip
}

// Itinerary returns the stored result, markdown or error text.
func (s *Session) Itinerary() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.itinerary
}

// Busy reports whether a generation call is in flight.
func (s *Session) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy
}

// UpdatedAt reports the last time the session was touched.
func (s *Session) UpdatedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updatedAt
}

// ReplaceTrip overwrites all seven fields at once.
func (s *Session) ReplaceTrip(trip TripRequest, now time.Time) {
	s.mu.Lock()
	s.trip = trip
	s.updatedAt = now
	s.mu.Unlock()
}

// SetField edits one field.
func (s *Session) SetField(field, value string, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.trip.Set(field, value); err != nil {
		return err
	}
	s.updatedAt = now
	return nil
}

// Begin marks the session busy and returns the trip to generate from.
// It returns false when a call is already in flight.
func (s *Session) Begin(now time.Time) (TripRequest, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy {
		return TripRequest{}, false
	}
	s.busy = true
	s.updatedAt = now
	return s.trip, true
}

// Finish stores the result of a generation call and clears the busy flag.
func (s *Session) Finish(itinerary string, now time.Time) {
	s.mu.Lock()
	s.itinerary = itinerary
	s.busy = false
	s.updatedAt = now
	s.mu.Unlock()
}

// Touch refreshes the idle timer.
func (s *Session) Touch(now time.Time) {
	s.mu.Lock()
	s.updatedAt = now
	s.mu.Unlock()
}
