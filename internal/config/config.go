package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

const (
	defaultPort         = "8080"
	defaultRedisURL     = "redis://localhost:6379/0"
	defaultAccessTTL    = "30m"
	defaultRefreshTTL   = "168h"
	defaultStoreTimeout = "250ms"
	defaultMTTimeout    = "60s"
)

// Config carries every runtime knob of the service. Values come from the
// environment; main loads .env first in local setups.
type Config struct {
	AppEnv      string
	Port        string
	DatabaseURL string
	RedisURL    string

	JWTSecret  string
	AccessTTL  time.Duration
	RefreshTTL time.Duration

	// StoreTimeout bounds every Redis call; a timeout is treated as the
	// store being unavailable.
	StoreTimeout time.Duration
	// StoreFailOpen selects what happens when the store is unavailable
	// during revocation, rate-limit and quota checks: true admits the
	// request, false (default) rejects with 503.
	StoreFailOpen bool

	MTServiceURL string
	MTAPIKey     string
	MTTimeout    time.Duration
}

func Load() (*Config, error) {
	cfg := &Config{}

	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = "dev"
	}
	cfg.AppEnv = strings.ToLower(appEnv)

	cfg.Port = getEnv("PORT", defaultPort)
	cfg.DatabaseURL = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	cfg.RedisURL = getEnv("REDIS_URL", defaultRedisURL)

	cfg.JWTSecret = strings.TrimSpace(os.Getenv("JWT_SECRET"))
	if cfg.JWTSecret == "" {
		if cfg.AppEnv == "prod" || cfg.AppEnv == "production" {
			return nil, fmt.Errorf("JWT_SECRET is required in %s", cfg.AppEnv)
		}
		cfg.JWTSecret = "change-me-jwt-secret"
	}

	var err error
	if cfg.AccessTTL, err = parseDurationEnv("ACCESS_TOKEN_TTL", defaultAccessTTL); err != nil {
		return nil, err
	}
	if cfg.RefreshTTL, err = parseDurationEnv("REFRESH_TOKEN_TTL", defaultRefreshTTL); err != nil {
		return nil, err
	}
	if cfg.StoreTimeout, err = parseDurationEnv("STORE_TIMEOUT", defaultStoreTimeout); err != nil {
		return nil, err
	}
	if cfg.MTTimeout, err = parseDurationEnv("MT_TIMEOUT", defaultMTTimeout); err != nil {
		return nil, err
	}

	cfg.StoreFailOpen = parseBoolEnv("STORE_FAIL_OPEN", false)
	cfg.MTServiceURL = getEnv("MT_SERVICE_URL", "http://localhost:8001")
	cfg.MTAPIKey = strings.TrimSpace(os.Getenv("MT_API_KEY"))

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func parseDurationEnv(key, fallback string) (time.Duration, error) {
	raw := getEnv(key, fallback)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid %s %q: must be positive", key, raw)
	}
	return d, nil
}

func parseBoolEnv(key string, fallback bool) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "true", "1", "yes", "on":
		return true
	case "false", "0", "no", "off":
		return false
	default:
		return fallback
	}
}
