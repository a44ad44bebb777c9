// Package manipulation implements the pixel-domain manipulation detectors
// and the metadata consistency checker.
package manipulation

import (
	"context"

	"go-image-forensics/internal/capability"
	"go-image-forensics/internal/config"
	"go-image-forensics/internal/imaging"
	"go-image-forensics/pkg/models"
)

// Method names used as keys in the analysis report.
const (
	MethodELA      = "error_level_analysis"
	MethodCopyMove = "copy_move_detection"
	MethodNoise    = "noise_analysis"
)

// Detector is the closed contract every manipulation method implements.
type Detector interface {
	Name() string
	Description() string
	Run(ctx context.Context, buf *imaging.PixelBuffer) (models.MethodResult, error)
}

// NewSuite builds the pixel-domain manipulation detector set. ELA and
// copy-move receive their optional capabilities; nil capabilities make those
// detectors fail individually without touching the others. The metadata
// consistency checker is not part of the suite: it is a pure function over
// the tag map (see CheckConsistency) whose findings never enter the numeric
// score.
func NewSuite(thresholds config.ManipulationThresholds, caps capability.Capabilities) []Detector {
	return []Detector{
		NewELADetector(thresholds, caps.Reencoder),
		NewCopyMoveDetector(thresholds, caps.Keypoints, caps.Matcher),
		NewNoiseDetector(thresholds),
	}
}

func finishScore(score float64, details map[string]interface{}) float64 {
	clamped := imaging.Clamp01(score)
	if clamped != score {
		details["score_clamped"] = true
	}
	return clamped
}
