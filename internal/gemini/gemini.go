// Package gemini talks to the Gemini generative-language endpoint.
package gemini

import (
	"context"
	"errors"
	"fmt"
)

const (
	// DefaultBaseURL is the public generative-language endpoint root.
	DefaultBaseURL = "https://generativelanguage.googleapis.com"
	// DefaultModel is used when no model is configured.
	DefaultModel = "gemini-1.5-flash"

	apiKeyHeader = "x-goog-api-key"
)

// ErrMissingItinerary is returned when a successful response carries no
// text at candidates[0].content.parts[0].text.
var ErrMissingItinerary = errors.New("Itinerary data is missing from the response.")

// Generator turns a prompt into generated text.
type Generator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// StatusError reports a non-2xx answer from the endpoint.
type StatusError struct {
	Code       int
	StatusText string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("Error %d: %s", e.Code, e.StatusText)
}

type options struct {
	baseURL string
	model   string
	client  httpDoer
}

// Option configures a Client or SDKClient.
type Option func(*options)

// WithBaseURL overrides the endpoint root, mainly for tests and proxies.
func WithBaseURL(baseURL string) Option {
	return func(o *options) {
		if baseURL != "" {
			o.baseURL = baseURL
		}
	}
}

// WithModel selects the model id.
func WithModel(model string) Option {
	return func(o *options) {
		if model != "" {
			o.model = model
		}
	}
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(client httpDoer) Option {
	return func(o *options) {
		if client != nil {
			o.client = client
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{baseURL: DefaultBaseURL, model: DefaultModel}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
