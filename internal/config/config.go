// internal/config/config.go
//
// Runtime configuration for the Conduit server.
// Values come from the process environment, optionally seeded from a
// `.env` file in development (godotenv). Every field has a default so the
// server boots with no configuration at all against a local SQLite file.
//
// Environment variables:
//   ADDR, DIAG_ADDR, LOG_LEVEL, LOG_FORMAT, DB_DRIVER, DATABASE_URL,
//   JWT_SECRET, JWT_EXPIRES_DAYS, CLIENT_ORIGIN, REQUEST_TIMEOUT

package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// DevSecret is the signing secret used when JWT_SECRET is unset.
const DevSecret = "dev_secret_change_me"

// Config holds every tunable of the server.
type Config struct {
	Addr           string        // API listener
	DiagAddr       string        // metrics listener; empty disables it
	LogLevel       string        // zerolog level name
	LogFormat      string        // "json" | "console"
	DBDriver       string        // "sqlite3" | "sqlite" | "pgx"
	DatabaseURL    string        // driver-specific DSN or file path
	JWTSecret      string        // HS256 signing key
	TokenTTL       time.Duration // 0 disables token expiry
	ClientOrigin   string        // CORS allowed origin
	RequestTimeout time.Duration // per-request handler bound
}

// Load reads .env (if present) and the environment into a Config.
func Load() (Config, error) {
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function. Tests pass a map lookup.
func FromEnv(getenv func(string) string) (Config, error) {
	get := func(k, def string) string {
		if v := getenv(k); v != "" {
			return v
		}
		return def
	}

	c := Config{
		Addr:         get("ADDR", ":3000"),
		DiagAddr:     get("DIAG_ADDR", ":9999"),
		LogLevel:     get("LOG_LEVEL", "info"),
		LogFormat:    get("LOG_FORMAT", "json"),
		DBDriver:     get("DB_DRIVER", "sqlite3"),
		DatabaseURL:  get("DATABASE_URL", "./data/conduit.db"),
		JWTSecret:    get("JWT_SECRET", DevSecret),
		ClientOrigin: get("CLIENT_ORIGIN", "http://localhost:4200"),
	}
	if getenv("DIAG_ADDR") == "-" {
		c.DiagAddr = ""
	}

	days, err := strconv.Atoi(get("JWT_EXPIRES_DAYS", "14"))
	if err != nil || days < 0 {
		return Config{}, fmt.Errorf("JWT_EXPIRES_DAYS: want a non-negative integer, got %q", getenv("JWT_EXPIRES_DAYS"))
	}
	c.TokenTTL = time.Duration(days) * 24 * time.Hour

	c.RequestTimeout, err = time.ParseDuration(get("REQUEST_TIMEOUT", "10s"))
	if err != nil || c.RequestTimeout <= 0 {
		return Config{}, fmt.Errorf("REQUEST_TIMEOUT: want a positive duration, got %q", getenv("REQUEST_TIMEOUT"))
	}

	switch c.DBDriver {
	case "sqlite3", "sqlite", "pgx":
	default:
		return Config{}, fmt.Errorf("DB_DRIVER: unsupported driver %q", c.DBDriver)
	}
	switch c.LogFormat {
	case "json", "console":
	default:
		return Config{}, fmt.Errorf("LOG_FORMAT: want json or console, got %q", c.LogFormat)
	}
	return c, nil
}
