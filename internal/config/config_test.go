package config

import (
	"testing"
	"time"
)

func TestLoadFromEnvDefaults(t *testing.T) {
	t.Setenv("DETECTOR_TIMEOUT", "")
	t.Setenv("MAX_WORKERS", "")
	t.Setenv("MAX_PIXELS", "")

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DetectorTimeout != 5*time.Second {
		t.Errorf("DetectorTimeout = %v, want 5s", cfg.DetectorTimeout)
	}
	if cfg.MaxWorkers != 0 {
		t.Errorf("MaxWorkers = %d, want 0", cfg.MaxWorkers)
	}
	if cfg.MaxPixels != 64*1024*1024 {
		t.Errorf("MaxPixels = %d, want 64Mi", cfg.MaxPixels)
	}
}

func TestLoadFromEnvOverrides(t *testing.T) {
	t.Setenv("DETECTOR_TIMEOUT", "30s")
	t.Setenv("MAX_WORKERS", "4")
	t.Setenv("MAX_PIXELS", "1000000")

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DetectorTimeout != 30*time.Second {
		t.Errorf("DetectorTimeout = %v, want 30s", cfg.DetectorTimeout)
	}
	if cfg.MaxWorkers != 4 {
		t.Errorf("MaxWorkers = %d, want 4", cfg.MaxWorkers)
	}
	if cfg.MaxPixels != 1000000 {
		t.Errorf("MaxPixels = %d, want 1000000", cfg.MaxPixels)
	}
}

func TestLoadFromEnvInvalidValuesFallBack(t *testing.T) {
	t.Setenv("DETECTOR_TIMEOUT", "not-a-duration")
	t.Setenv("MAX_WORKERS", "many")

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DetectorTimeout != 5*time.Second {
		t.Errorf("DetectorTimeout = %v, want default on parse failure", cfg.DetectorTimeout)
	}
	if cfg.MaxWorkers != 0 {
		t.Errorf("MaxWorkers = %d, want default on parse failure", cfg.MaxWorkers)
	}
}

func TestLoadFromEnvRejectsNegativeWorkers(t *testing.T) {
	t.Setenv("MAX_WORKERS", "-2")

	if _, err := LoadFromEnv(); err == nil {
		t.Error("expected error for negative MAX_WORKERS")
	}
}
