package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims is the payload of a session cookie.
type SessionClaims struct {
	jwt.RegisteredClaims
}

// SessionTokens issues and verifies HMAC signed session cookies.
type SessionTokens struct {
	secret []byte
	ttl    time.Duration
}

// NewSessionTokens constructs a manager with the given secret and cookie lifetime.
func NewSessionTokens(secret string, ttl time.Duration) *SessionTokens {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &SessionTokens{secret: []byte(secret), ttl: ttl}
}

// TTL is the lifetime of issued tokens.
func (m *SessionTokens) TTL() time.Duration {
	return m.ttl
}

// Issue signs a token carrying the session identifier.
func (m *SessionTokens) Issue(sessionID string) (string, error) {
	if len(m.secret) == 0 {
		return "", errors.New("session secret must not be empty")
	}
	if sessionID == "" {
		return "", errors.New("session id must not be empty")
	}

	now := time.Now()
	claims := &SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sessionID,
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Parse verifies the token and returns the session identifier.
func (m *SessionTokens) Parse(token string) (string, error) {
	parsed, err := jwt.ParseWithClaims(token, &SessionClaims{}, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	})
	if err != nil {
		return "", err
	}

	claims, ok := parsed.Claims.(*SessionClaims)
	if !ok || !parsed.Valid || claims.Subject == "" {
		return "", errors.New("invalid session claims")
	}

	return claims.Subject, nil
}
