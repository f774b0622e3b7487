package main

import (
	"fmt"
	"os"
	"time"
)

type config struct {
	Addr            string
	LogLevel        string
	SessionTTL      time.Duration
	SweepInterval   time.Duration
	ShutdownTimeout time.Duration
}

// loadConfig reads the service configuration from the environment.
func loadConfig() (config, error) {
	cfg := config{
		Addr:     envOr("HTTP_ADDR", ":8080"),
		LogLevel: envOr("LOG_LEVEL", "info"),
	}

	var err error
	if cfg.SessionTTL, err = envDuration("SESSION_TTL", 30*time.Minute); err != nil {
		return config{}, err
	}
	if cfg.SweepInterval, err = envDuration("SESSION_SWEEP_INTERVAL", time.Minute); err != nil {
		return config{}, err
	}
	if cfg.ShutdownTimeout, err = envDuration("SHUTDOWN_TIMEOUT", 5*time.Second); err != nil {
		return config{}, err
	}

	return cfg, nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("parse %s: negative duration %s", key, v)
	}
	return d, nil
}
