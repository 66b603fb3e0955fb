package middleware

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/octobees/wanderplan/internal/dto"
	"github.com/octobees/wanderplan/internal/entity"
)

// SessionCookieName is the cookie carrying the signed session token.
const SessionCookieName = "wanderplan_session"

// SessionTokenizer signs and verifies session identifiers.
type SessionTokenizer interface {
	Issue(sessionID string) (string, error)
	Parse(token string) (string, error)
}

// SessionResolver finds or creates the session for an identifier.
type SessionResolver interface {
	Resolve(ctx context.Context, id string) (*entity.Session, bool, error)
}

// SessionOptions tunes the cookie.
type SessionOptions struct {
	MaxAgeSeconds int
	Secure        bool
}

// Session loads the caller's session from the signed cookie, creating a new
// one when the cookie is missing, invalid or points at an expired session.
func Session(tokens SessionTokenizer, sessions SessionResolver, opts SessionOptions) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			var id string
			if cookie, err := c.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
				if parsed, err := tokens.Parse(cookie.Value); err == nil {
					id = parsed
				}
			}

			sess, created, err := sessions.Resolve(c.Request().Context(), id)
			if err != nil {
				return c.JSON(http.StatusInternalServerError, dto.ErrorEnvelope("failed to load session"))
			}

			if created || id != sess.ID {
				token, err := tokens.Issue(sess.ID)
				if err != nil {
					return c.JSON(http.StatusInternalServerError, dto.ErrorEnvelope("failed to issue session"))
				}
				c.SetCookie(&http.Cookie{
					Name:     SessionCookieName,
					Value:    token,
					Path:     "/",
					MaxAge:   opts.MaxAgeSeconds,
					HttpOnly: true,
					Secure:   opts.Secure,
					SameSite: http.SameSiteLaxMode,
				})
			}

			c.Set(ContextKeySession, sess)
			return next(c)
		}
	}
}

// SessionFromContext returns the session stored by Session.
func SessionFromContext(c echo.Context) *entity.Session {
	if sess, ok := c.Get(ContextKeySession).(*entity.Session); ok {
		return sess
	}
	return nil
}
