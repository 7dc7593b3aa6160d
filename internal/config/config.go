// Package config loads process configuration from the environment (with an
// optional .env file), mirroring the corpus's godotenv + struct-config
// pattern.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/qroute/optimizer/internal/logging"
)

// Config holds the ambient process configuration. Nothing here is part of
// the optimization core; it exists to bootstrap cmd/server.
type Config struct {
	Port                    string
	GoogleMapsAPIKeyDefault string
	MatrixProviderTimeout   time.Duration
	LogLevel                logging.Level
	LogFormat               string
}

// Load reads .env (if present; its absence is not an error) then the
// process environment, applying defaults for anything unset.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		// Missing .env is expected outside local development; fall through
		// to process environment, exactly like the corpus's main.go does.
	}

	return Config{
		Port:                    envOr("PORT", "8080"),
		GoogleMapsAPIKeyDefault: os.Getenv("GOOGLE_MAPS_API_KEY"),
		MatrixProviderTimeout:   envDurationOr("MATRIX_PROVIDER_TIMEOUT", 10*time.Second),
		LogLevel:                logging.Level(envOr("LOG_LEVEL", "info")),
		LogFormat:               envOr("LOG_FORMAT", "json"),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	seconds, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return time.Duration(seconds) * time.Second
}
