// Package config reads runtime settings from the environment, after an
// optional .env file has been loaded.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr    string
	LogLevel    string
	LogFile     string
	SessionTTL  time.Duration
	SweepEvery  time.Duration
	MaxSessions int
	OTLPEnabled bool
}

func Default() Config {
	return Config{
		HTTPAddr:    ":8080",
		LogLevel:    "info",
		SessionTTL:  15 * time.Minute,
		SweepEvery:  time.Minute,
		MaxSessions: 1024,
	}
}

// LoadDotEnv loads environment variables from .env when present.
// Existing process environment variables are not overridden.
func LoadDotEnv() error {
	err := godotenv.Load()
	if err == nil {
		return nil
	}

	if errors.Is(err, os.ErrNotExist) {
		return nil
	}

	return fmt.Errorf("load .env: %w", err)
}

// Load returns Default overlaid with any CALC_* variables that are set.
func Load() (Config, error) {
	cfg := Default()

	str(&cfg.HTTPAddr, "CALC_HTTP_ADDR")
	str(&cfg.LogLevel, "CALC_LOG_LEVEL")
	str(&cfg.LogFile, "CALC_LOG_FILE")

	if err := duration(&cfg.SessionTTL, "CALC_SESSION_TTL"); err != nil {
		return Config{}, err
	}
	if err := duration(&cfg.SweepEvery, "CALC_SESSION_SWEEP"); err != nil {
		return Config{}, err
	}
	if v, ok := os.LookupEnv("CALC_MAX_SESSIONS"); ok {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return Config{}, fmt.Errorf("CALC_MAX_SESSIONS: want a positive integer, got %q", v)
		}
		cfg.MaxSessions = n
	}
	if v, ok := os.LookupEnv("CALC_OTLP_ENABLED"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("CALC_OTLP_ENABLED: %w", err)
		}
		cfg.OTLPEnabled = b
	}

	return cfg, nil
}

func str(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func duration(dst *time.Duration, key string) error {
	v, ok := os.LookupEnv(key)
	if !ok {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	if d <= 0 {
		return fmt.Errorf("%s: want a positive duration, got %q", key, v)
	}
	*dst = d
	return nil
}
