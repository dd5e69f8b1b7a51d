// Package config loads and validates environment variables at startup.
// Fail-fast: if a required variable is missing, the process exits with an error.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Defaults applied when the corresponding variable is unset.
const (
	defaultEntityTTLSeconds     = 600 // individual listing pages change rarely
	defaultCollectionTTLSeconds = 300 // list freshness matters more
	defaultRateLimit            = 60
	defaultRateWindowSeconds    = 60
)

// Config holds all runtime configuration for the listing engine.
type Config struct {
	Port                 string
	DatabaseURL          string
	RedisURL             string
	EntityTTLSeconds     int
	CollectionTTLSeconds int
	RateLimit            int
	RateWindowSeconds    int
}

// Load reads environment variables and returns a validated Config.
// A .env file in the working directory is honoured when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		return nil, fmt.Errorf("REDIS_URL is required")
	}

	port := os.Getenv("ENGINE_PORT")
	if port == "" {
		port = "8083"
	}

	cfg := &Config{
		Port:                 port,
		DatabaseURL:          dbURL,
		RedisURL:             redisURL,
		EntityTTLSeconds:     defaultEntityTTLSeconds,
		CollectionTTLSeconds: defaultCollectionTTLSeconds,
		RateLimit:            defaultRateLimit,
		RateWindowSeconds:    defaultRateWindowSeconds,
	}

	for _, v := range []struct {
		env  string
		dst  *int
		name string
	}{
		{"ENTITY_TTL_SECONDS", &cfg.EntityTTLSeconds, "ENTITY_TTL_SECONDS"},
		{"COLLECTION_TTL_SECONDS", &cfg.CollectionTTLSeconds, "COLLECTION_TTL_SECONDS"},
		{"RATE_LIMIT", &cfg.RateLimit, "RATE_LIMIT"},
		{"RATE_WINDOW_SECONDS", &cfg.RateWindowSeconds, "RATE_WINDOW_SECONDS"},
	} {
		if s := os.Getenv(v.env); s != "" {
			n, err := strconv.Atoi(s)
			if err != nil || n < 1 {
				return nil, fmt.Errorf("%s must be a positive integer, got %q", v.name, s)
			}
			*v.dst = n
		}
	}

	return cfg, nil
}
