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

// elaDetector performs error-level analysis: regions with a different
// compression history than the rest of the image respond differently to a
// fresh lossy re-encode, leaving localized hot spots in the amplified
// difference image.
type elaDetector struct {
	thresholds config.ManipulationThresholds
	reencoder  capability.Reencoder
}

// NewELADetector creates the error-level analysis detector. reencoder may be
// nil, in which case every run reports a capability error.
func NewELADetector(thresholds config.ManipulationThresholds, reencoder capability.Reencoder) Detector {
	return &elaDetector{thresholds: thresholds, reencoder: reencoder}
}

func (d *elaDetector) Name() string { return MethodELA }

func (d *elaDetector) Description() string {
	return "Error-level analysis against a fresh lossy re-encode"
}

// Run re-encodes at the configured quality, amplifies the absolute
// difference and scores the spread of the resulting error image.
func (d *elaDetector) Run(ctx context.Context, buf *imaging.PixelBuffer) (models.MethodResult, error) {
	if d.reencoder == nil {
		return models.MethodResult{}, apperrors.NewCapabilityError("no lossy re-encode capability configured")
	}
	if err := ctx.Err(); err != nil {
		return models.MethodResult{}, err
	}

	recompressed, err := d.reencoder.Reencode(buf, d.thresholds.ELAQuality)
	if err != nil {
		return models.MethodResult{}, apperrors.NewInternalError("lossy re-encode failed", err)
	}

	// Amplified per-pixel error, collapsed to grayscale.
	pixels := buf.Width * buf.Height
	errGray := make([]float64, pixels)
	for i := 0; i < pixels; i++ {
		base := i * imaging.Channels
		var sum float64
		for c := 0; c < imaging.Channels; c++ {
			diff := math.Abs(float64(buf.Data[base+c]) - float64(recompressed.Data[base+c]))
			sum += math.Min(diff*d.thresholds.ELAGain, 255)
		}
		errGray[i] = sum / imaging.Channels
	}

	mean, std := imaging.MeanStd(errGray)
	maxErr := errGray[0]
	for _, e := range errGray[1:] {
		if e > maxErr {
			maxErr = e
		}
	}

	highCutoff := mean + 2*std
	highCount := 0
	for _, e := range errGray {
		if e > highCutoff {
			highCount++
		}
	}
	highErrorFrac := float64(highCount) / float64(pixels)

	// Flat additive contributions, capped at 1.
	score := 0.0
	if highErrorFrac > d.thresholds.ELAHighErrorFrac {
		score += 0.4
	}
	if std > d.thresholds.ELAStdMin {
		score += 0.3
	}

	details := map[string]interface{}{
		"quality":         d.thresholds.ELAQuality,
		"gain":            d.thresholds.ELAGain,
		"mean_error":      mean,
		"std_error":       std,
		"max_error":       maxErr,
		"high_error_frac": highErrorFrac,
	}

	return models.MethodResult{
		MethodName:     d.Name(),
		Description:    d.Description(),
		SuspicionScore: finishScore(score, details),
		Details:        details,
	}, nil
}
