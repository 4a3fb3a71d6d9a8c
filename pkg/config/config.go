package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	// Application
	AppEnv   string
	LogLevel string

	// Backend API
	APIBaseURL  string
	HTTPTimeout time.Duration

	// Circuit breaker
	BreakerMaxRequests      int
	BreakerInterval         time.Duration
	BreakerTimeout          time.Duration
	BreakerFailureThreshold int

	// Session
	SessionDBPath string
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:   getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		APIBaseURL:  getEnv("DAYBOOK_API_URL", "http://localhost:5000"),
		HTTPTimeout: getDurationEnv("DAYBOOK_HTTP_TIMEOUT", 30*time.Second),

		BreakerMaxRequests:      getIntEnv("DAYBOOK_BREAKER_MAX_REQUESTS", 3),
		BreakerInterval:         getDurationEnv("DAYBOOK_BREAKER_INTERVAL", 60*time.Second),
		BreakerTimeout:          getDurationEnv("DAYBOOK_BREAKER_TIMEOUT", 30*time.Second),
		BreakerFailureThreshold: getIntEnv("DAYBOOK_BREAKER_FAILURES", 5),

		SessionDBPath: getEnv("DAYBOOK_SESSION_DB", ""),
	}

	return cfg, nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
