package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/octobees/wanderplan/internal/entity"
	"github.com/octobees/wanderplan/internal/gemini"
	"github.com/octobees/wanderplan/internal/logger"
	"github.com/octobees/wanderplan/internal/metrics"
)

const errorMessageFormat = "There was an error generating the itinerary: %s. Please try again later."

// ItineraryService turns a trip into itinerary text with one remote call.
type ItineraryService struct {
	generator gemini.Generator
	log       *logger.Logger
	metrics   *metrics.Metrics
}

// NewItineraryService wires the service. log and m may be nil.
func NewItineraryService(generator gemini.Generator, log *logger.Logger, m *metrics.Metrics) *ItineraryService {
	if log == nil {
		log = logger.Discard()
	}
	return &ItineraryService{generator: generator, log: log.WithComponent("itinerary"), metrics: m}
}

// Generate returns the generated markdown, or the display message describing
// why generation failed. It never returns an error and never retries.
//
// The remote call is detached from ctx cancellation so that it resolves on
// the network layer alone.
func (s *ItineraryService) Generate(ctx context.Context, trip entity.TripRequest) string {
	prompt, err := BuildPrompt(trip)
	if err != nil {
		s.log.LogError(ctx, err, "build prompt")
		return FormatGenerationError(err)
	}

	start := time.Now()
	s.metrics.GenerationStarted()
	text, err := s.call(context.WithoutCancel(ctx), prompt)
	elapsed := time.Since(start)

	if err != nil {
		s.metrics.GenerationFinished(outcomeOf(err), elapsed)
		s.log.LogError(ctx, err, "error generating itinerary", "elapsed", elapsed)
		return FormatGenerationError(err)
	}

	s.metrics.GenerationFinished(metrics.OutcomeSuccess, elapsed)
	s.log.WithContext(ctx).Info("itinerary generated", "elapsed", elapsed, "chars", len(text))
	return text
}

func (s *ItineraryService) call(ctx context.Context, prompt string) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("unexpected failure: %v", r)
		}
	}()
	if s.generator == nil {
		return "", errors.New("no generator configured")
	}
	return s.generator.GenerateText(ctx, prompt)
}

// FormatGenerationError builds the user facing message that replaces the itinerary.
// The underlying message is embedded as is.
func FormatGenerationError(err error) string {
	return fmt.Sprintf(errorMessageFormat, err.Error())
}

func outcomeOf(err error) string {
	var statusErr *gemini.StatusError
	switch {
	case errors.As(err, &statusErr):
		return metrics.OutcomeHTTPError
	case errors.Is(err, gemini.ErrMissingItinerary):
		return metrics.OutcomeMissing
	default:
		return metrics.OutcomeFailure
	}
}
