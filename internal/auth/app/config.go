package app

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// SessionSecret signs session tokens. Required in prod; in dev an
	// ephemeral secret is generated at startup when none is supplied.
	SessionSecret string

	Issuer  string // Optional: issuer claim for session tokens (default: gatehouse-auth)
	BaseURL string // Optional: external origin used in magic-link URLs (default: http://localhost:<port>)

	DatabaseFile         string        // Optional: path to SQLite database file (default: ./auth.db)
	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Expired magic-token cleanup interval (default: 1h)
}

// ErrNoSessionSecret means a production deployment has no operator-supplied
// signing secret. The process must refuse to start rather than fall back to
// anything implicit.
var ErrNoSessionSecret = errors.New("app: AUTH_SESSION_SECRET must be set when ENV=prod")

func LoadConfig() Config {
	// A .env file is a development convenience; absence is not an error.
	_ = godotenv.Load()

	cfg := Config{
		SessionSecret:        os.Getenv("AUTH_SESSION_SECRET"),
		Issuer:               getEnvOrDefault("AUTH_ISSUER", "gatehouse-auth"),
		BaseURL:              os.Getenv("AUTH_BASE_URL"),
		DatabaseFile:         getEnvOrDefault("AUTH_DATABASE_FILE", "auth.db"),
		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
	}

	return cfg
}

// IsProd reports whether the config describes a production deployment.
func (c Config) IsProd() bool { return c.Env == "prod" }

// Validate enforces startup invariants that must not degrade silently.
func (c Config) Validate() error {
	if c.IsProd() && c.SessionSecret == "" {
		return ErrNoSessionSecret
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	return defaultValue
}
