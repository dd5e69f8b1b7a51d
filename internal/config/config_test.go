package config_test

import (
	"testing"

	"jobboard/listing-engine/internal/config"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/listings")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Port != "8083" {
		t.Errorf("Port = %q, want 8083", cfg.Port)
	}
	if cfg.EntityTTLSeconds != 600 || cfg.CollectionTTLSeconds != 300 {
		t.Errorf("TTLs = %d/%d, want 600/300", cfg.EntityTTLSeconds, cfg.CollectionTTLSeconds)
	}
	if cfg.RateLimit != 60 || cfg.RateWindowSeconds != 60 {
		t.Errorf("rate defaults = %d/%d, want 60/60", cfg.RateLimit, cfg.RateWindowSeconds)
	}
}

func TestLoad_MissingDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")

	if _, err := config.Load(); err == nil {
		t.Error("Load without DATABASE_URL must fail")
	}
}

func TestLoad_MissingRedisURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/listings")
	t.Setenv("REDIS_URL", "")

	if _, err := config.Load(); err == nil {
		t.Error("Load without REDIS_URL must fail")
	}
}

func TestLoad_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("ENTITY_TTL_SECONDS", "120")
	t.Setenv("RATE_LIMIT", "10")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.EntityTTLSeconds != 120 || cfg.RateLimit != 10 {
		t.Errorf("overrides ignored: TTL=%d limit=%d", cfg.EntityTTLSeconds, cfg.RateLimit)
	}
}

func TestLoad_RejectsNonPositiveIntegers(t *testing.T) {
	for _, bad := range []string{"0", "-5", "abc"} {
		t.Run(bad, func(t *testing.T) {
			setRequired(t)
			t.Setenv("RATE_WINDOW_SECONDS", bad)
			if _, err := config.Load(); err == nil {
				t.Errorf("Load with RATE_WINDOW_SECONDS=%q must fail", bad)
			}
		})
	}
}
