package handler

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/octobees/wanderplan/internal/entity"
	"github.com/octobees/wanderplan/internal/gemini"
	middlewarepkg "github.com/octobees/wanderplan/internal/middleware"
	"github.com/octobees/wanderplan/internal/render"
	"github.com/octobees/wanderplan/internal/repository"
	"github.com/octobees/wanderplan/internal/service"
)

type roundTripFunc func(req *http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func geminiReplying(status int, body string) gemini.Generator {
	client := &http.Client{Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: status,
			Status:     http.StatusText(status),
			Header:     http.Header{"Content-Type": []string{"application/json"}},
			Body:       io.NopCloser(strings.NewReader(body)),
		}, nil
	})}
	return gemini.NewClient("test-key", gemini.WithBaseURL("http://gemini.test"), gemini.WithHTTPClient(client))
}

func newTestSessions(t *testing.T, gen gemini.Generator) (*service.SessionService, *entity.Session) {
	t.Helper()
	repo := repository.NewMemorySessionsRepository(time.Hour)
	svc := service.NewSessionService(repo, service.NewItineraryService(gen, nil, nil))
	sess, _, err := svc.Resolve(context.Background(), "")
	if err != nil {
		t.Fatalf("resolve session: %v", err)
	}
	return svc, sess
}

func newTestRenderer(t *testing.T) *render.Renderer {
	t.Helper()
	r, err := render.NewRenderer()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	return r
}

func withSession(c echo.Context, sess *entity.Session) echo.Context {
	c.Set(middlewarepkg.ContextKeySession, sess)
	return c
}
