package router

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/octobees/wanderplan/internal/auth"
	"github.com/octobees/wanderplan/internal/config"
	"github.com/octobees/wanderplan/internal/dto"
	"github.com/octobees/wanderplan/internal/gemini"
	"github.com/octobees/wanderplan/internal/handler"
	"github.com/octobees/wanderplan/internal/metrics"
	middlewarepkg "github.com/octobees/wanderplan/internal/middleware"
	"github.com/octobees/wanderplan/internal/render"
	"github.com/octobees/wanderplan/internal/repository"
	"github.com/octobees/wanderplan/internal/service"
	"github.com/octobees/wanderplan/internal/web"
)

type roundTripFunc func(req *http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func newTestServer(t *testing.T, limit config.RateLimitConfig) *echo.Echo {
	t.Helper()

	client := &http.Client{Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusOK,
			Header:     http.Header{"Content-Type": []string{"application/json"}},
			Body:       io.NopCloser(strings.NewReader(`{"candidates":[{"content":{"parts":[{"text":"## Day 1\n- Harbour walk"}]}}]}`)),
		}, nil
	})}
	generator := gemini.NewClient("k", gemini.WithBaseURL("http://gemini.test"), gemini.WithHTTPClient(client))

	m := metrics.New()
	sessions := service.NewSessionService(
		repository.NewMemorySessionsRepository(time.Hour),
		service.NewItineraryService(generator, nil, m),
	)
	markdown, err := render.NewRenderer()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	templates, err := web.NewTemplates()
	if err != nil {
		t.Fatalf("parse templates: %v", err)
	}

	e := echo.New()
	e.Renderer = templates
	cfg := &config.Config{RateLimitGenerate: limit}
	Register(e, cfg, auth.NewSessionTokens("secret", time.Hour), sessions, Handlers{
		Page:      handler.NewPageHandler(markdown, nil),
		Itinerary: handler.NewItineraryHandler(sessions, markdown, nil),
		Download:  handler.NewDownloadHandler(),
		Metrics:   m.Handler(),
	})
	return e
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == middlewarepkg.SessionCookieName {
			return c
		}
	}
	t.Fatalf("expected session cookie")
	return nil
}

func TestRegister_GenerateAndDownload(t *testing.T) {
	e := newTestServer(t, config.RateLimitConfig{})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), handler.Placeholder) {
		t.Fatalf("expected placeholder on first visit")
	}
	cookie := sessionCookie(t, rec)

	req := httptest.NewRequest(http.MethodPost, "/api/itinerary", strings.NewReader(`{"origin":"Oslo","destination":"Bergen"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/download", nil)
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Body.String() != "## Day 1\n- Harbour walk" {
		t.Fatalf("unexpected download body %q", rec.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/api/session", nil)
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	var payload struct {
		Data dto.SessionResponse `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode session: %v", err)
	}
	if payload.Data.Trip.Destination != "Bergen" || payload.Data.Busy {
		t.Fatalf("unexpected session state %+v", payload.Data)
	}
}

func TestRegister_FreshSessionHasNothingToDownload(t *testing.T) {
	e := newTestServer(t, config.RateLimitConfig{})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/download", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestRegister_GenerationRateLimit(t *testing.T) {
	e := newTestServer(t, config.RateLimitConfig{Requests: 1, Interval: time.Hour})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/itinerary", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected first generation to pass, got %d", rec.Code)
	}

	// the form route sends the browser back to the page with the refusal as its result
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/generate", nil))
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected generation routes to share the limit, got %d", rec.Code)
	}
	cookie := sessionCookie(t, rec)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if !strings.Contains(rec.Body.String(), "generation rate limit exceeded. Please try again later.") {
		t.Fatalf("expected refusal on the page, got %s", rec.Body.String())
	}

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/itinerary", nil))
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected JSON 429 on the API route, got %d", rec.Code)
	}
}

func TestRegister_HealthAndMetrics(t *testing.T) {
	e := newTestServer(t, config.RateLimitConfig{})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "sessions") {
		t.Fatalf("expected session gauge in metrics output")
	}
}
