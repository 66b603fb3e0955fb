package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	generativelanguage "google.golang.org/api/generativelanguage/v1beta"
)

type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client calls models/{model}:generateContent over plain HTTP.
type Client struct {
	client   httpDoer
	endpoint string
	apiKey   string
}

// NewClient builds a REST client. No timeout is configured: a call resolves
// or fails on the network layer alone.
func NewClient(apiKey string, opts ...Option) *Client {
	o := buildOptions(opts)
	if o.client == nil {
		o.client = &http.Client{}
	}
	endpoint := strings.TrimRight(o.baseURL, "/") + "/v1beta/models/" + url.PathEscape(o.model) + ":generateContent"
	return &Client{client: o.client, endpoint: endpoint, apiKey: apiKey}
}

// GenerateText posts the prompt and returns the first candidate's first text part.
func (c *Client) GenerateText(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(&generativelanguage.GenerateContentRequest{
		Contents: []*generativelanguage.Content{
			{Parts: []*generativelanguage.Part{{Text: prompt}}},
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(apiKeyHeader, c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("call generative language endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return "", &StatusError{Code: resp.StatusCode, StatusText: statusText(resp)}
	}

	var out generativelanguage.GenerateContentResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	text := firstText(&out)
	if text == "" {
		return "", ErrMissingItinerary
	}
	return text, nil
}

func firstText(resp *generativelanguage.GenerateContentResponse) string {
	if len(resp.Candidates) == 0 || resp.Candidates[0] == nil {
		return ""
	}
	content := resp.Candidates[0].Content
	if content == nil || len(content.Parts) == 0 || content.Parts[0] == nil {
		return ""
	}
	return content.Parts[0].Text
}

// statusText returns the reason phrase from the status line, falling back to
// the canonical text for the code.
func statusText(resp *http.Response) string {
	text := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if text == "" {
		text = http.StatusText(resp.StatusCode)
	}
	return text
}

var _ Generator = (*Client)(nil)
