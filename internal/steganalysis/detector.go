// Package steganalysis implements the five steganalysis detectors. Each
// detector is a pure function of the pixel buffer: no shared state, no I/O.
package steganalysis

import (
	"context"

	"go-image-forensics/internal/capability"
	"go-image-forensics/internal/config"
	"go-image-forensics/internal/imaging"
	"go-image-forensics/pkg/models"
)

// Method names used as keys in the analysis report.
const (
	MethodLSB          = "lsb_analysis"
	MethodEntropy      = "entropy_analysis"
	MethodFrequency    = "frequency_analysis"
	MethodStatistical  = "statistical_analysis"
	MethodVisualAttack = "visual_attack"
)

// Detector is the closed contract every steganalysis method implements.
// Replaces dynamic method-list dispatch with an explicit, statically
// checkable registry.
type Detector interface {
	Name() string
	Description() string
	Run(ctx context.Context, buf *imaging.PixelBuffer) (models.MethodResult, error)
}

// NewSuite builds the full steganalysis detector set. The frequency detector
// receives the optional Fourier capability; a nil capability makes that one
// detector fail with a capability error while the rest run normally.
func NewSuite(thresholds config.SteganalysisThresholds, caps capability.Capabilities) []Detector {
	return []Detector{
		NewLSBDetector(thresholds),
		NewEntropyDetector(thresholds),
		NewFrequencyDetector(thresholds, caps.Fourier),
		NewStatisticalDetector(thresholds),
		NewVisualAttackDetector(thresholds),
	}
}

// meanOrZero averages triggered suspicion factors; no triggered factor means
// no suspicion.
func meanOrZero(factors []float64) float64 {
	if len(factors) == 0 {
		return 0
	}
	var sum float64
	for _, f := range factors {
		sum += f
	}
	return sum / float64(len(factors))
}

// finishScore clamps an out-of-domain score instead of trusting it, noting
// the clamp in the method details.
func finishScore(score float64, details map[string]interface{}) float64 {
	clamped := imaging.Clamp01(score)
	if clamped != score {
		details["score_clamped"] = true
	}
	return clamped
}
