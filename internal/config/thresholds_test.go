package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultThresholdsValid(t *testing.T) {
	if err := DefaultThresholds().Validate(); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
}

func TestLoadThresholdsPartialOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "thresholds.yaml")
	content := []byte(`
steganalysis:
  lsb_deviation_min: 0.2
aggregation:
  high_band: 0.8
`)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatal(err)
	}

	thresholds, err := LoadThresholds(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if thresholds.Steganalysis.LSBDeviationMin != 0.2 {
		t.Errorf("lsb_deviation_min = %v, want overridden 0.2", thresholds.Steganalysis.LSBDeviationMin)
	}
	if thresholds.Aggregation.HighBand != 0.8 {
		t.Errorf("high_band = %v, want overridden 0.8", thresholds.Aggregation.HighBand)
	}

	// Untouched fields keep their defaults
	defaults := DefaultThresholds()
	if thresholds.Steganalysis.LSBEntropyLow != defaults.Steganalysis.LSBEntropyLow {
		t.Errorf("lsb_entropy_low = %v, want default", thresholds.Steganalysis.LSBEntropyLow)
	}
	if thresholds.Manipulation.ELAQuality != defaults.Manipulation.ELAQuality {
		t.Errorf("ela_quality = %d, want default", thresholds.Manipulation.ELAQuality)
	}
}

func TestLoadThresholdsMissingFile(t *testing.T) {
	if _, err := LoadThresholds(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadThresholdsRejectsInvalidOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "thresholds.yaml")
	content := []byte(`
aggregation:
  high_band: 0.3
  moderate_band: 0.4
`)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadThresholds(path); err == nil {
		t.Error("expected validation error for inverted bands")
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Thresholds)
	}{
		{"inverted bands", func(th *Thresholds) { th.Aggregation.HighBand = 0.2 }},
		{"quality too high", func(th *Thresholds) { th.Manipulation.ELAQuality = 101 }},
		{"quality too low", func(th *Thresholds) { th.Manipulation.ELAQuality = 0 }},
		{"zero block size", func(th *Thresholds) { th.Manipulation.NoiseBlockSize = 0 }},
		{"zero entropy block", func(th *Thresholds) { th.Steganalysis.EntropyBlockSizes = []int{8, 0} }},
		{"ratio test out of range", func(th *Thresholds) { th.Manipulation.CopyMoveRatioTest = 1 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			thresholds := DefaultThresholds()
			tc.mutate(&thresholds)
			if err := thresholds.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
