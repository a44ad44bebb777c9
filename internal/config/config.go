package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config carries runtime settings for the analysis engine.
type Config struct {
	// DetectorTimeout is the soft time budget granted to each detector.
	// A detector that exceeds it is reported as an errored method rather
	// than hanging the whole analysis.
	DetectorTimeout time.Duration

	// MaxWorkers bounds the detector worker pool. Zero means one worker
	// per CPU core (capped by the number of detectors in the suite).
	MaxWorkers int

	// MaxPixels rejects absurdly large buffers before analysis starts.
	MaxPixels int
}

// LoadFromEnv builds a Config from environment variables with defaults.
func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		DetectorTimeout: parseDurationOrDefault("DETECTOR_TIMEOUT", 5*time.Second),
		MaxWorkers:      int(parseIntOrDefault("MAX_WORKERS", 0)),
		MaxPixels:       int(parseIntOrDefault("MAX_PIXELS", 64*1024*1024)),
	}

	if cfg.DetectorTimeout <= 0 {
		return nil, fmt.Errorf("DETECTOR_TIMEOUT must be > 0 (got %s)", cfg.DetectorTimeout)
	}
	if cfg.MaxWorkers < 0 {
		return nil, fmt.Errorf("MAX_WORKERS must be >= 0 (got %d)", cfg.MaxWorkers)
	}
	if cfg.MaxPixels <= 0 {
		return nil, fmt.Errorf("MAX_PIXELS must be > 0 (got %d)", cfg.MaxPixels)
	}
	return cfg, nil
}

func parseDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(strings.TrimSpace(value)); err == nil && duration > 0 {
			return duration
		}
	}
	return defaultValue
}

func parseIntOrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}
