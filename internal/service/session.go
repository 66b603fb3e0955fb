package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/octobees/wanderplan/internal/entity"
	"github.com/octobees/wanderplan/internal/repository"
)

var (
	// ErrBusy is returned when a session already has a generation call in flight.
	ErrBusy = errors.New("itinerary generation already in progress")
	// ErrRateLimited explains a generation refused by the rate limiter.
	ErrRateLimited = errors.New("generation rate limit exceeded")
)

// SessionService owns the form state of each browser session.
type SessionService struct {
	repo      repository.SessionsRepository
	itinerary *ItineraryService
	now       func() time.Time
}

// NewSessionService wires the session service.
func NewSessionService(repo repository.SessionsRepository, itinerary *ItineraryService) *SessionService {
	return &SessionService{repo: repo, itinerary: itinerary, now: time.Now}
}

// Resolve returns the live session for id, or a fresh one when id is empty,
// unknown or expired. created reports whether a new session was made.
func (s *SessionService) Resolve(ctx context.Context, id string) (sess *entity.Session, created bool, err error) {
	if id != "" {
		sess, err = s.repo.FindByID(ctx, id)
		switch {
		case err == nil:
			sess.Touch(s.now())
			return sess, false, nil
		case !errors.Is(err, repository.ErrSessionNotFound):
			return nil, false, fmt.Errorf("find session: %w", err)
		}
	}

	sess, err = s.repo.Create(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("create session: %w", err)
	}
	return sess, true, nil
}

// UpdateTrip replaces all form fields.
func (s *SessionService) UpdateTrip(sess *entity.Session, trip entity.TripRequest) {
	sess.ReplaceTrip(trip, s.now())
}

// SetField edits one form field.
func (s *SessionService) SetField(sess *entity.Session, field, value string) error {
	return sess.SetField(field, value, s.now())
}

// Generate runs one generation for the session's current fields. The busy
// flag is set for exactly the duration of the call and the result replaces
// any previous itinerary, whether it is markdown or an error message.
func (s *SessionService) Generate(ctx context.Context, sess *entity.Session) (string, error) {
	trip, ok := sess.Begin(s.now())
	if !ok {
		return "", ErrBusy
	}

	result := s.itinerary.Generate(ctx, trip)
	sess.Finish(result, s.now())
	return result, nil
}

// Reject stores the display message for err as the session's result without
// calling the generator. A session with a call in flight keeps waiting for it.
func (s *SessionService) Reject(sess *entity.Session, err error) {
	if _, ok := sess.Begin(s.now()); !ok {
		return
	}
	sess.Finish(FormatGenerationError(err), s.now())
}
