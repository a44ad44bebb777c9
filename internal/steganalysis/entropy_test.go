package steganalysis

import (
	"context"
	"math/rand"
	"testing"

	"go-image-forensics/internal/config"
	"go-image-forensics/internal/imaging"
)

func noiseBuffer(width, height int, seed int64) *imaging.PixelBuffer {
	rng := rand.New(rand.NewSource(seed))
	data := make([]byte, width*height*imaging.Channels)
	for i := range data {
		data[i] = byte(rng.Intn(256))
	}
	return &imaging.PixelBuffer{Width: width, Height: height, Data: data}
}

func blockDetails(t *testing.T, details map[string]interface{}, key string) map[string]interface{} {
	t.Helper()
	block, ok := details[key].(map[string]interface{})
	if !ok {
		t.Fatalf("missing %s details", key)
	}
	return block
}

func TestEntropyNoiseImageHighMean(t *testing.T) {
	detector := NewEntropyDetector(config.DefaultThresholds().Steganalysis)
	buf := noiseBuffer(128, 128, 7)

	result, err := detector.Run(context.Background(), buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Random noise keeps block entropy near its maximum at the larger
	// block sizes.
	for _, key := range []string{"block_32", "block_64"} {
		block := blockDetails(t, result.Details, key)
		if mean := block["mean"].(float64); mean <= 0.9 {
			t.Errorf("%s mean entropy = %v, want > 0.9", key, mean)
		}
	}

	if result.SuspicionScore < 0 || result.SuspicionScore > 1 {
		t.Errorf("suspicion %v outside [0,1]", result.SuspicionScore)
	}
}

func TestEntropySolidImageLow(t *testing.T) {
	detector := NewEntropyDetector(config.DefaultThresholds().Steganalysis)
	buf := solidBuffer(128, 128, 10, 20, 30)

	result, err := detector.Run(context.Background(), buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// A solid color yields low entropy everywhere: no variance, no high
	// mean, nothing suspicious.
	if result.SuspicionScore != 0 {
		t.Errorf("suspicion = %v, want 0", result.SuspicionScore)
	}
	block := blockDetails(t, result.Details, "block_8")
	if variance := block["variance"].(float64); variance != 0 {
		t.Errorf("solid image entropy variance = %v, want 0", variance)
	}
}

func TestEntropyTinyImageDegenerates(t *testing.T) {
	detector := NewEntropyDetector(config.DefaultThresholds().Steganalysis)
	buf := solidBuffer(4, 4, 1, 2, 3)

	result, err := detector.Run(context.Background(), buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.SuspicionScore != 0 {
		t.Errorf("suspicion = %v, want 0", result.SuspicionScore)
	}
	if _, ok := result.Details["note"]; !ok {
		t.Error("expected degenerate-input note for image smaller than all block sizes")
	}
}

func TestEntropyBlockCounts(t *testing.T) {
	detector := NewEntropyDetector(config.DefaultThresholds().Steganalysis)
	// 100x70 discards partial blocks: 12x8 at size 8, 6x4 at 16, 3x2 at 32,
	// 1x1 at 64
	buf := noiseBuffer(100, 70, 3)

	result, err := detector.Run(context.Background(), buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantBlocks := map[string]int{
		"block_8":  96,
		"block_16": 24,
		"block_32": 6,
		"block_64": 1,
	}
	for key, want := range wantBlocks {
		block := blockDetails(t, result.Details, key)
		if got := block["blocks"].(int); got != want {
			t.Errorf("%s blocks = %d, want %d", key, got, want)
		}
	}
}
