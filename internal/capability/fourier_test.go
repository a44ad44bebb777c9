package capability

import (
	"math"
	"math/cmplx"
	"testing"
)

func TestTransform2DConstantSignal(t *testing.T) {
	fourier := NewGonumFourier()

	width, height := 8, 4
	data := make([]float64, width*height)
	for i := range data {
		data[i] = 3.0
	}

	spectrum, err := fourier.Transform2D(data, width, height)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(spectrum) != width*height {
		t.Fatalf("spectrum length = %d, want %d", len(spectrum), width*height)
	}

	// A constant signal concentrates all energy in the DC coefficient
	dc := cmplx.Abs(spectrum[0])
	want := 3.0 * float64(width*height)
	if math.Abs(dc-want) > 1e-9 {
		t.Errorf("DC component = %v, want %v", dc, want)
	}
	for i := 1; i < len(spectrum); i++ {
		if cmplx.Abs(spectrum[i]) > 1e-9 {
			t.Fatalf("non-DC coefficient %d has magnitude %v", i, cmplx.Abs(spectrum[i]))
		}
	}
}

func TestTransform2DSingleFrequency(t *testing.T) {
	fourier := NewGonumFourier()

	// A horizontal cosine at frequency 1 puts energy at (x=1, y=0) and its
	// conjugate mirror, nowhere else.
	width, height := 16, 4
	data := make([]float64, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			data[y*width+x] = math.Cos(2 * math.Pi * float64(x) / float64(width))
		}
	}

	spectrum, err := fourier.Transform2D(data, width, height)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	peak := cmplx.Abs(spectrum[1])
	mirror := cmplx.Abs(spectrum[width-1])
	if peak < 1 || mirror < 1 {
		t.Errorf("expected energy at bins 1 and %d, got %v and %v", width-1, peak, mirror)
	}
	if dc := cmplx.Abs(spectrum[0]); dc > 1e-9 {
		t.Errorf("cosine has no DC component, got %v", dc)
	}
}

func TestTransform2DDimensionMismatch(t *testing.T) {
	fourier := NewGonumFourier()
	if _, err := fourier.Transform2D(make([]float64, 10), 4, 4); err == nil {
		t.Error("expected error for mismatched dimensions")
	}
	if _, err := fourier.Transform2D(nil, 0, 0); err == nil {
		t.Error("expected error for empty dimensions")
	}
}
