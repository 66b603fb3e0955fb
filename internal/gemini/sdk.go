package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/genai"
)

// SDKClient serves the same contract as Client through the genai SDK.
type SDKClient struct {
	client *genai.Client
	model  string
}

// NewSDKClient builds a genai backed generator for the Gemini API backend.
func NewSDKClient(ctx context.Context, apiKey string, opts ...Option) (*SDKClient, error) {
	o := buildOptions(opts)

	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if o.baseURL != DefaultBaseURL {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: o.baseURL}
	}
	if hc, ok := o.client.(*http.Client); ok {
		cfg.HTTPClient = hc
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &SDKClient{client: client, model: o.model}, nil
}

// GenerateText sends the prompt as a single user turn.
func (s *SDKClient) GenerateText(ctx context.Context, prompt string) (string, error) {
	resp, err := s.client.Models.GenerateContent(ctx, s.model, genai.Text(prompt), nil)
	if err != nil {
		if code, ok := apiErrorCode(err); ok {
			return "", &StatusError{Code: code, StatusText: http.StatusText(code)}
		}
		return "", fmt.Errorf("call generative language endpoint: %w", err)
	}

	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0] == nil {
		return "", ErrMissingItinerary
	}
	content := resp.Candidates[0].Content
	if content == nil || len(content.Parts) == 0 || content.Parts[0] == nil || content.Parts[0].Text == "" {
		return "", ErrMissingItinerary
	}
	return content.Parts[0].Text, nil
}

func apiErrorCode(err error) (int, bool) {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code, true
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return apiErrPtr.Code, true
	}
	return 0, false
}

var _ Generator = (*SDKClient)(nil)
