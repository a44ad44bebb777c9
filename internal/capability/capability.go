package capability

import "go-image-forensics/internal/imaging"

// FourierTransformer provides a 2D complex DFT over row-major real data.
// Used by the frequency-analysis detector.
type FourierTransformer interface {
	// Transform2D returns the full complex spectrum of data laid out
	// row-major with the given dimensions.
	Transform2D(data []float64, width, height int) ([]complex128, error)
}

// Reencoder provides lossy re-encoding at a given quality. Used by
// error-level analysis.
type Reencoder interface {
	Reencode(buf *imaging.PixelBuffer, quality int) (*imaging.PixelBuffer, error)
}

// Keypoint is a scale/rotation-stable interest point in image coordinates.
type Keypoint struct {
	X        float64
	Y        float64
	Response float64
}

// KeypointDetector finds interest points and their descriptors in a
// row-major grayscale image. Used by copy-move detection.
type KeypointDetector interface {
	DetectAndDescribe(gray []float64, width, height int) ([]Keypoint, [][]float64, error)
}

// DescriptorMatch pairs a query descriptor with one of its nearest
// neighbors in descriptor space.
type DescriptorMatch struct {
	QueryIndex int
	TrainIndex int
	Distance   float64
}

// DescriptorMatcher performs k-nearest-neighbor matching of a descriptor
// set against itself.
type DescriptorMatcher interface {
	KNNMatch(descriptors [][]float64, k int) ([][]DescriptorMatch, error)
}

// Capabilities bundles the optional native capabilities injected into the
// engine. A nil field means the capability is unavailable: the detectors
// that need it report a capability error instead of running.
type Capabilities struct {
	Fourier   FourierTransformer
	Reencoder Reencoder
	Keypoints KeypointDetector
	Matcher   DescriptorMatcher
}

// Default returns the full capability set backed by the in-tree
// implementations. All of them are deterministic.
func Default() Capabilities {
	return Capabilities{
		Fourier:   NewGonumFourier(),
		Reencoder: NewJPEGReencoder(),
		Keypoints: NewHarrisDetector(),
		Matcher:   NewBruteForceMatcher(),
	}
}
