package steganalysis

import (
	"context"
	"testing"

	"go-image-forensics/internal/capability"
	"go-image-forensics/internal/config"
	apperrors "go-image-forensics/internal/errors"
)

func TestFrequencyWithoutCapability(t *testing.T) {
	detector := NewFrequencyDetector(config.DefaultThresholds().Steganalysis, nil)

	_, err := detector.Run(context.Background(), noiseBuffer(32, 32, 5))
	if err == nil {
		t.Fatal("expected error without Fourier capability")
	}
	if !apperrors.IsKind(err, apperrors.KindCapabilityUnavailable) {
		t.Errorf("error kind = %v, want capability unavailable", err)
	}
}

func TestFrequencyNoiseImage(t *testing.T) {
	detector := NewFrequencyDetector(config.DefaultThresholds().Steganalysis, capability.NewGonumFourier())
	buf := noiseBuffer(64, 64, 9)

	result, err := detector.Run(context.Background(), buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.SuspicionScore < 0 || result.SuspicionScore > 1 {
		t.Errorf("suspicion %v outside [0,1]", result.SuspicionScore)
	}

	for _, key := range []string{"dc_component", "mean_magnitude", "std_magnitude", "max_magnitude", "high_freq_ratio", "phase_entropy"} {
		if _, ok := result.Details[key]; !ok {
			t.Errorf("missing detail %s", key)
		}
	}

	// DC carries the sum of all grayscale values, far above any other bin
	// for non-negative input.
	dc := result.Details["dc_component"].(float64)
	maxMag := result.Details["max_magnitude"].(float64)
	if dc != maxMag {
		t.Errorf("dc_component = %v, max_magnitude = %v, want DC to dominate", dc, maxMag)
	}

	ratio := result.Details["high_freq_ratio"].(float64)
	if ratio <= 0 || ratio >= 1 {
		t.Errorf("high_freq_ratio = %v, want in (0,1)", ratio)
	}
}

func TestFrequencyZeroEnergyDegenerates(t *testing.T) {
	detector := NewFrequencyDetector(config.DefaultThresholds().Steganalysis, capability.NewGonumFourier())
	buf := solidBuffer(16, 16, 0, 0, 0)

	result, err := detector.Run(context.Background(), buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.SuspicionScore != 0 {
		t.Errorf("suspicion = %v, want 0", result.SuspicionScore)
	}
	if _, ok := result.Details["note"]; !ok {
		t.Error("expected zero-energy note")
	}
}
