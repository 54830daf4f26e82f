package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Search engine identifiers accepted by SEARCH_ENGINE.
const (
	EngineDuckDuckGo = "duckduckgo"
	EngineBing       = "bing"
	EngineGoogle     = "google"
)

// RateLimitConfig indicates how many requests are allowed within a given interval.
type RateLimitConfig struct {
	Requests int
	Interval time.Duration
}

// Config aggregates application-wide configuration values. All secrets come
// from the environment; none have baked-in defaults.
type Config struct {
	DatabaseURL          string
	JWTSecret            string
	Port                 string
	TokenTTL             time.Duration
	RateLimitGenerate    RateLimitConfig
	OperatorEmail        string
	OperatorPasswordHash string

	SearchEngine    string
	BingAPIKey      string
	GoogleAPIKey    string
	GoogleEngineID  string
	HunterAPIKey    string
	KeywordVariants []string

	MaxResults     int
	FetchTimeout   time.Duration
	FetchMaxBytes  int64
	SearchMaxPages int
	SearchPageSeed int64

	DefaultPhoneRegion string
}

// Load reads configuration from environment variables and applies sane defaults.
func Load() (*Config, error) {
	cfg := &Config{
		DatabaseURL:          os.Getenv("DATABASE_URL"),
		JWTSecret:            getEnv("JWT_SECRET", "dev-secret"),
		Port:                 getEnv("PORT", "8080"),
		TokenTTL:             parseDuration(getEnv("JWT_TTL", "24h")),
		OperatorEmail:        os.Getenv("OPERATOR_EMAIL"),
		OperatorPasswordHash: os.Getenv("OPERATOR_PASSWORD_HASH"),
		BingAPIKey:           os.Getenv("BING_API_KEY"),
		GoogleAPIKey:         os.Getenv("GOOGLE_API_KEY"),
		GoogleEngineID:       os.Getenv("GOOGLE_CX"),
		HunterAPIKey:         os.Getenv("HUNTER_API_KEY"),
		KeywordVariants:      splitCSV(os.Getenv("KEYWORD_VARIANTS")),
		FetchTimeout:         parseDuration(getEnv("FETCH_TIMEOUT", "6s")),
		DefaultPhoneRegion:   getEnv("PHONE_REGION", "ZA"),
	}

	engine := strings.ToLower(strings.TrimSpace(getEnv("SEARCH_ENGINE", EngineDuckDuckGo)))
	switch engine {
	case EngineDuckDuckGo, EngineBing, EngineGoogle:
		cfg.SearchEngine = engine
	default:
		return nil, fmt.Errorf("unsupported SEARCH_ENGINE value: %q", engine)
	}

	maxResults, err := parsePositiveInt(getEnv("MAX_RESULTS", "10"))
	if err != nil || maxResults > 20 {
		return nil, fmt.Errorf("MAX_RESULTS must be an integer between 1 and 20")
	}
	cfg.MaxResults = maxResults

	maxBytes, err := parsePositiveInt(getEnv("FETCH_MAX_BYTES", "200000"))
	if err != nil {
		return nil, fmt.Errorf("invalid FETCH_MAX_BYTES value: %w", err)
	}
	cfg.FetchMaxBytes = int64(maxBytes)

	rl, err := parseRateLimit(getEnv("RATE_LIMIT_GENERATE", "5/min"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_GENERATE value: %w", err)
	}
	cfg.RateLimitGenerate = rl

	pages, err := strconv.Atoi(getEnv("SEARCH_MAX_PAGES", "0"))
	if err != nil || pages < 0 {
		return nil, fmt.Errorf("invalid SEARCH_MAX_PAGES value")
	}
	cfg.SearchMaxPages = pages

	seed, err := strconv.ParseInt(getEnv("SEARCH_PAGE_SEED", "1"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid SEARCH_PAGE_SEED value")
	}
	cfg.SearchPageSeed = seed

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

func parsePositiveInt(input string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, fmt.Errorf("value must be positive, got %d", n)
	}
	return n, nil
}

func splitCSV(input string) []string {
	if strings.TrimSpace(input) == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(input, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
