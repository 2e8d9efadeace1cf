package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything the client needs to reach the record store.
type Config struct {
	// APIBaseURL is the record store root, e.g. http://192.168.88.178:8080
	APIBaseURL string

	// HTTPTimeout bounds a single request attempt.
	HTTPTimeout time.Duration

	// RetryAttempts is the number of tries for summary fetches.
	RetryAttempts uint

	// Logging
	LogLevel string
	LogJSON  bool
}

// Load reads configuration from a .env file (when present) and the
// environment. Missing values fall back to defaults.
func Load() (*Config, error) {
	// A missing .env is fine; the environment may carry everything.
	_ = godotenv.Load()

	cfg := &Config{
		APIBaseURL:    getEnv("API_BASE_URL", "http://localhost:8080"),
		HTTPTimeout:   getEnvDuration("HTTP_TIMEOUT", 15*time.Second),
		RetryAttempts: uint(getEnvInt("RETRY_ATTEMPTS", 3)),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogJSON:       getEnv("LOG_JSON", "") == "true",
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the loaded values before any request is attempted.
func (c *Config) Validate() error {
	u, err := url.Parse(c.APIBaseURL)
	if err != nil {
		return fmt.Errorf("invalid API_BASE_URL %q: %w", c.APIBaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid API_BASE_URL %q: scheme must be http or https", c.APIBaseURL)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid API_BASE_URL %q: missing host", c.APIBaseURL)
	}
	if c.HTTPTimeout < time.Second {
		return fmt.Errorf("invalid HTTP_TIMEOUT %v: must be at least 1s", c.HTTPTimeout)
	}
	if c.RetryAttempts < 1 || c.RetryAttempts > 10 {
		return fmt.Errorf("invalid RETRY_ATTEMPTS %d: must be between 1 and 10", c.RetryAttempts)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
