package capability

import (
	"fmt"
	"math"
	"sort"
)

const (
	harrisK             = 0.04
	harrisQualityRatio  = 0.01
	harrisMaxKeypoints  = 500
	descriptorPatchSize = 8
	descriptorRadius    = descriptorPatchSize / 2
)

// harrisDetector implements KeypointDetector with Harris corner response and
// mean/contrast-normalized patch descriptors. Unlike tree-based feature
// matchers it is fully deterministic, which keeps repeated analyses of the
// same buffer bit-identical.
type harrisDetector struct{}

// NewHarrisDetector creates the in-tree keypoint capability.
func NewHarrisDetector() KeypointDetector {
	return &harrisDetector{}
}

// DetectAndDescribe finds corner keypoints and extracts a normalized patch
// descriptor for each. Keypoints too close to the border for a full patch
// are discarded.
func (h *harrisDetector) DetectAndDescribe(gray []float64, width, height int) ([]Keypoint, [][]float64, error) {
	if width <= 0 || height <= 0 || len(gray) != width*height {
		return nil, nil, fmt.Errorf("keypoints: data length %d does not match %dx%d", len(gray), width, height)
	}
	if width < descriptorPatchSize+2 || height < descriptorPatchSize+2 {
		return nil, nil, nil
	}

	response := h.cornerResponse(gray, width, height)

	maxResponse := 0.0
	for _, r := range response {
		if r > maxResponse {
			maxResponse = r
		}
	}
	if maxResponse <= 0 {
		return nil, nil, nil
	}
	threshold := harrisQualityRatio * maxResponse

	keypoints := h.collectMaxima(response, width, height, threshold)
	if len(keypoints) > harrisMaxKeypoints {
		keypoints = keypoints[:harrisMaxKeypoints]
	}

	descriptors := make([][]float64, 0, len(keypoints))
	kept := keypoints[:0]
	for _, kp := range keypoints {
		desc, ok := h.describe(gray, width, int(kp.X), int(kp.Y))
		if !ok {
			continue
		}
		kept = append(kept, kp)
		descriptors = append(descriptors, desc)
	}

	return kept, descriptors, nil
}

// cornerResponse computes the Harris response R = det(M) - k*trace(M)^2 with
// a 3x3 box window over gradient products.
func (h *harrisDetector) cornerResponse(gray []float64, width, height int) []float64 {
	ixx := make([]float64, width*height)
	iyy := make([]float64, width*height)
	ixy := make([]float64, width*height)

	for y := 1; y < height-1; y++ {
		for x := 1; x < width-1; x++ {
			i := y*width + x
			gx := (gray[i+1] - gray[i-1]) / 2
			gy := (gray[i+width] - gray[i-width]) / 2
			ixx[i] = gx * gx
			iyy[i] = gy * gy
			ixy[i] = gx * gy
		}
	}

	response := make([]float64, width*height)
	for y := 2; y < height-2; y++ {
		for x := 2; x < width-2; x++ {
			var sxx, syy, sxy float64
			for dy := -1; dy <= 1; dy++ {
				base := (y+dy)*width + x
				for dx := -1; dx <= 1; dx++ {
					sxx += ixx[base+dx]
					syy += iyy[base+dx]
					sxy += ixy[base+dx]
				}
			}
			det := sxx*syy - sxy*sxy
			trace := sxx + syy
			response[y*width+x] = det - harrisK*trace*trace
		}
	}
	return response
}

// collectMaxima keeps responses above threshold that are 3x3 local maxima,
// strongest first with a stable positional tie-break.
func (h *harrisDetector) collectMaxima(response []float64, width, height int, threshold float64) []Keypoint {
	var keypoints []Keypoint
	for y := 2; y < height-2; y++ {
		for x := 2; x < width-2; x++ {
			r := response[y*width+x]
			if r < threshold {
				continue
			}
			isMax := true
			for dy := -1; dy <= 1 && isMax; dy++ {
				for dx := -1; dx <= 1; dx++ {
					if dx == 0 && dy == 0 {
						continue
					}
					if response[(y+dy)*width+x+dx] > r {
						isMax = false
						break
					}
				}
			}
			if isMax {
				keypoints = append(keypoints, Keypoint{X: float64(x), Y: float64(y), Response: r})
			}
		}
	}

	sort.Slice(keypoints, func(i, j int) bool {
		if keypoints[i].Response != keypoints[j].Response {
			return keypoints[i].Response > keypoints[j].Response
		}
		if keypoints[i].Y != keypoints[j].Y {
			return keypoints[i].Y < keypoints[j].Y
		}
		return keypoints[i].X < keypoints[j].X
	})
	return keypoints
}

// describe extracts a mean-subtracted, L2-normalized patch descriptor
// centered on (cx, cy).
func (h *harrisDetector) describe(gray []float64, width, cx, cy int) ([]float64, bool) {
	height := len(gray) / width
	if cx-descriptorRadius < 0 || cx+descriptorRadius > width ||
		cy-descriptorRadius < 0 || cy+descriptorRadius > height {
		return nil, false
	}

	desc := make([]float64, descriptorPatchSize*descriptorPatchSize)
	idx := 0
	var mean float64
	for dy := -descriptorRadius; dy < descriptorRadius; dy++ {
		for dx := -descriptorRadius; dx < descriptorRadius; dx++ {
			v := gray[(cy+dy)*width+cx+dx]
			desc[idx] = v
			mean += v
			idx++
		}
	}
	mean /= float64(len(desc))

	var norm float64
	for i := range desc {
		desc[i] -= mean
		norm += desc[i] * desc[i]
	}
	norm = math.Sqrt(norm)
	if norm > 1e-12 {
		for i := range desc {
			desc[i] /= norm
		}
	}
	return desc, true
}

// bruteForceMatcher implements DescriptorMatcher with exhaustive Euclidean
// search. Self-pairs are returned like any other neighbor; callers that need
// them excluded filter on index.
type bruteForceMatcher struct{}

// NewBruteForceMatcher creates the in-tree descriptor matcher.
func NewBruteForceMatcher() DescriptorMatcher {
	return &bruteForceMatcher{}
}

// KNNMatch finds the k nearest neighbors of every descriptor within the set.
func (m *bruteForceMatcher) KNNMatch(descriptors [][]float64, k int) ([][]DescriptorMatch, error) {
	if k <= 0 {
		return nil, fmt.Errorf("matcher: k must be > 0 (got %d)", k)
	}

	matches := make([][]DescriptorMatch, len(descriptors))
	for i := range descriptors {
		neighbors := make([]DescriptorMatch, 0, len(descriptors))
		for j := range descriptors {
			neighbors = append(neighbors, DescriptorMatch{
				QueryIndex: i,
				TrainIndex: j,
				Distance:   euclidean(descriptors[i], descriptors[j]),
			})
		}
		sort.Slice(neighbors, func(a, b int) bool {
			if neighbors[a].Distance != neighbors[b].Distance {
				return neighbors[a].Distance < neighbors[b].Distance
			}
			return neighbors[a].TrainIndex < neighbors[b].TrainIndex
		})
		if len(neighbors) > k {
			neighbors = neighbors[:k]
		}
		matches[i] = neighbors
	}
	return matches, nil
}

func euclidean(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}
