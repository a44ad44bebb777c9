package capability

import (
	"math"
	"math/rand"
	"testing"
)

// texturedImage builds a flat field with one random-texture patch, optionally
// duplicated at a second location.
func texturedImage(width, height int, seed int64, duplicate bool) []float64 {
	rng := rand.New(rand.NewSource(seed))
	gray := make([]float64, width*height)
	for i := range gray {
		gray[i] = 128
	}

	patch := make([]float64, 30*30)
	for i := range patch {
		patch[i] = float64(rng.Intn(256))
	}

	paste := func(ox, oy int) {
		for y := 0; y < 30; y++ {
			for x := 0; x < 30; x++ {
				gray[(oy+y)*width+ox+x] = patch[y*30+x]
			}
		}
	}
	paste(20, 20)
	if duplicate {
		paste(150, 150)
	}
	return gray
}

func TestHarrisDetectorFindsTexture(t *testing.T) {
	detector := NewHarrisDetector()
	gray := texturedImage(220, 220, 7, false)

	keypoints, descriptors, err := detector.DetectAndDescribe(gray, 220, 220)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(keypoints) == 0 {
		t.Fatal("expected keypoints on textured patch")
	}
	if len(keypoints) != len(descriptors) {
		t.Fatalf("keypoints (%d) and descriptors (%d) out of sync", len(keypoints), len(descriptors))
	}

	// All keypoints must sit on the textured patch, the flat field has no
	// corner response.
	for _, kp := range keypoints {
		if kp.X < 18 || kp.X > 52 || kp.Y < 18 || kp.Y > 52 {
			t.Errorf("keypoint (%v, %v) outside the textured patch", kp.X, kp.Y)
		}
	}

	// Descriptors are L2 normalized
	for i, desc := range descriptors {
		var norm float64
		for _, v := range desc {
			norm += v * v
		}
		if math.Abs(math.Sqrt(norm)-1) > 1e-9 {
			t.Fatalf("descriptor %d has norm %v, want 1", i, math.Sqrt(norm))
		}
	}
}

func TestHarrisDetectorDeterministic(t *testing.T) {
	detector := NewHarrisDetector()
	gray := texturedImage(220, 220, 7, true)

	first, _, err := detector.DetectAndDescribe(gray, 220, 220)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, _, err := detector.DetectAndDescribe(gray, 220, 220)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(first) != len(second) {
		t.Fatalf("keypoint counts differ between runs: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("keypoint %d differs between runs", i)
		}
	}
}

func TestHarrisDetectorFlatImage(t *testing.T) {
	detector := NewHarrisDetector()
	gray := make([]float64, 64*64)
	for i := range gray {
		gray[i] = 50
	}

	keypoints, descriptors, err := detector.DetectAndDescribe(gray, 64, 64)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(keypoints) != 0 || len(descriptors) != 0 {
		t.Errorf("expected no keypoints on flat image, got %d", len(keypoints))
	}
}

func TestBruteForceMatcherKNN(t *testing.T) {
	matcher := NewBruteForceMatcher()
	descriptors := [][]float64{
		{0, 0},
		{1, 0},
		{0, 3},
	}

	matches, err := matcher.KNNMatch(descriptors, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(matches) != 3 {
		t.Fatalf("expected 3 match lists, got %d", len(matches))
	}

	// Nearest neighbor of descriptor 0 is itself, then descriptor 1
	first := matches[0]
	if len(first) != 2 {
		t.Fatalf("expected 2 neighbors, got %d", len(first))
	}
	if first[0].TrainIndex != 0 || first[0].Distance != 0 {
		t.Errorf("self match expected first, got index %d distance %v", first[0].TrainIndex, first[0].Distance)
	}
	if first[1].TrainIndex != 1 || math.Abs(first[1].Distance-1) > 1e-12 {
		t.Errorf("expected neighbor 1 at distance 1, got index %d distance %v", first[1].TrainIndex, first[1].Distance)
	}
}

func TestBruteForceMatcherInvalidK(t *testing.T) {
	matcher := NewBruteForceMatcher()
	if _, err := matcher.KNNMatch(nil, 0); err == nil {
		t.Error("expected error for k=0")
	}
}
