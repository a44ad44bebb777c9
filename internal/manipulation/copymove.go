package manipulation

import (
	"context"
	"math"

	"go-image-forensics/internal/capability"
	"go-image-forensics/internal/config"
	apperrors "go-image-forensics/internal/errors"
	"go-image-forensics/internal/imaging"
	"go-image-forensics/pkg/models"
)

const knnNeighbors = 3

// copyMoveDetector finds regions duplicated within the same image by matching
// keypoint descriptors against each other. The spatial separation requirement
// throws away coincidental near-duplicate texture, keeping only matches that
// are displaced far enough to be a paste.
type copyMoveDetector struct {
	thresholds config.ManipulationThresholds
	keypoints  capability.KeypointDetector
	matcher    capability.DescriptorMatcher
}

// NewCopyMoveDetector creates the copy-move forgery detector. Either
// capability may be nil, in which case every run reports a capability error.
func NewCopyMoveDetector(thresholds config.ManipulationThresholds, keypoints capability.KeypointDetector, matcher capability.DescriptorMatcher) Detector {
	return &copyMoveDetector{thresholds: thresholds, keypoints: keypoints, matcher: matcher}
}

func (d *copyMoveDetector) Name() string { return MethodCopyMove }

func (d *copyMoveDetector) Description() string {
	return "Keypoint self-matching for spatially displaced duplicated regions"
}

// Run detects keypoints, self-matches their descriptors with a ratio test,
// and counts matches whose endpoints are far enough apart.
func (d *copyMoveDetector) Run(ctx context.Context, buf *imaging.PixelBuffer) (models.MethodResult, error) {
	if d.keypoints == nil || d.matcher == nil {
		return models.MethodResult{}, apperrors.NewCapabilityError("no keypoint/matcher capability configured")
	}
	if err := ctx.Err(); err != nil {
		return models.MethodResult{}, err
	}

	gray := buf.GrayscaleFloat()
	keypoints, descriptors, err := d.keypoints.DetectAndDescribe(gray, buf.Width, buf.Height)
	if err != nil {
		return models.MethodResult{}, apperrors.NewInternalError("keypoint detection failed", err)
	}

	details := map[string]interface{}{
		"keypoints": len(keypoints),
	}

	if len(descriptors) < d.thresholds.CopyMoveMinDescriptors {
		details["matches"] = 0
		details["note"] = "too few descriptors for matching"
		return models.MethodResult{
			MethodName:     d.Name(),
			Description:    d.Description(),
			SuspicionScore: 0,
			Details:        details,
		}, nil
	}

	// +1 neighbor so the self-match can be discarded without starving the
	// ratio test.
	matches, err := d.matcher.KNNMatch(descriptors, knnNeighbors+1)
	if err != nil {
		return models.MethodResult{}, apperrors.NewInternalError("descriptor matching failed", err)
	}

	matchCount := 0
	for i, neighbors := range matches {
		if err := ctx.Err(); err != nil {
			return models.MethodResult{}, err
		}

		candidates := neighbors[:0:0]
		for _, m := range neighbors {
			if m.TrainIndex != i {
				candidates = append(candidates, m)
			}
		}
		if len(candidates) < 2 {
			continue
		}

		best, second := candidates[0], candidates[1]
		if best.Distance >= d.thresholds.CopyMoveRatioTest*second.Distance {
			continue
		}

		a, b := keypoints[i], keypoints[best.TrainIndex]
		if math.Hypot(a.X-b.X, a.Y-b.Y) > d.thresholds.CopyMoveMinSeparation {
			matchCount++
		}
	}

	score := 0.0
	if matchCount > d.thresholds.CopyMoveMatchCountLow {
		score += 0.5
	}
	if matchCount > d.thresholds.CopyMoveMatchCountHigh {
		score += 0.3
	}

	details["matches"] = matchCount

	return models.MethodResult{
		MethodName:     d.Name(),
		Description:    d.Description(),
		SuspicionScore: finishScore(score, details),
		Details:        details,
	}, nil
}
