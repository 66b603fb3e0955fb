package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Generator backends.
const (
	BackendREST  = "rest"
	BackendGenAI = "genai"
)

// RateLimitConfig indicates how many requests are allowed within a given interval.
type RateLimitConfig struct {
	Requests int
	Interval time.Duration
}

// GeminiConfig locates the generative-language endpoint.
type GeminiConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Backend string
}

// Config aggregates application-wide configuration values.
type Config struct {
	Gemini            GeminiConfig
	Port              string
	SessionSecret     string
	SessionTTL        time.Duration
	CookieSecure      bool
	RateLimitGenerate RateLimitConfig
	LogLevel          string
	LogFormat         string
}

// Load reads configuration from environment variables and applies sane defaults.
func Load() (*Config, error) {
	cfg := &Config{
		Gemini: GeminiConfig{
			APIKey:  os.Getenv("GEMINI_API_KEY"),
			BaseURL: getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com"),
			Model:   getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
			Backend: strings.ToLower(getEnv("GENERATOR_BACKEND", BackendREST)),
		},
		Port:          getEnv("PORT", "8080"),
		SessionSecret: getEnv("SESSION_SECRET", "dev-secret"),
		SessionTTL:    parseDuration(getEnv("SESSION_TTL", "24h")),
		CookieSecure:  parseBool(getEnv("COOKIE_SECURE", "false")),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogFormat:     getEnv("LOG_FORMAT", "text"),
	}

	switch cfg.Gemini.Backend {
	case BackendREST, BackendGenAI:
	default:
		return nil, fmt.Errorf("invalid GENERATOR_BACKEND value: %q", cfg.Gemini.Backend)
	}

	rl, err := parseRateLimit(getEnv("RATE_LIMIT_GENERATE", "10/min"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_GENERATE value: %w", err)
	}
	cfg.RateLimitGenerate = rl

	return cfg, nil
}

func parseRateLimit(value string) (RateLimitConfig, error) {
	parts := strings.Split(value, "/")
	if len(parts) != 2 {
		return RateLimitConfig{}, fmt.Errorf("expected format <requests>/<interval>, got %q", value)
	}

	requests, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || requests <= 0 {
		return RateLimitConfig{}, fmt.Errorf("invalid request count: %v", parts[0])
	}

	unit := strings.ToLower(strings.TrimSpace(parts[1]))
	var interval time.Duration
	switch unit {
	case "s", "sec", "second", "seconds":
		interval = time.Second
	case "m", "min", "minute", "minutes":
		interval = time.Minute
	case "h", "hr", "hour", "hours":
		interval = time.Hour
	default:
		return RateLimitConfig{}, fmt.Errorf("unsupported interval unit: %s", unit)
	}

	return RateLimitConfig{Requests: requests, Interval: interval}, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return fallback
}

func parseDuration(input string) time.Duration {
	d, err := time.ParseDuration(input)
	if err != nil {
		return 24 * time.Hour
	}
	return d
}

func parseBool(input string) bool {
	b, err := strconv.ParseBool(input)
	return err == nil && b
}
