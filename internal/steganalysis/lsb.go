package steganalysis

import (
	"context"
	"fmt"
	"math"

	"go-image-forensics/internal/config"
	"go-image-forensics/internal/imaging"
	"go-image-forensics/pkg/models"
)

var channelNames = [imaging.Channels]string{"red", "green", "blue"}

// lsbDetector inspects the least-significant-bit plane of each color channel
// for the statistical fingerprints of embedded data: a ones ratio far from
// 0.5, bit entropy outside the band natural images occupy, and implausibly
// long runs of identical bits.
type lsbDetector struct {
	thresholds config.SteganalysisThresholds
}

// NewLSBDetector creates the LSB analysis detector.
func NewLSBDetector(thresholds config.SteganalysisThresholds) Detector {
	return &lsbDetector{thresholds: thresholds}
}

func (d *lsbDetector) Name() string { return MethodLSB }

func (d *lsbDetector) Description() string {
	return "Least-significant-bit plane analysis per color channel"
}

// Run computes per-channel LSB statistics and averages the channel scores.
func (d *lsbDetector) Run(ctx context.Context, buf *imaging.PixelBuffer) (models.MethodResult, error) {
	details := make(map[string]interface{}, imaging.Channels)
	var channelScores []float64

	for c := 0; c < imaging.Channels; c++ {
		if err := ctx.Err(); err != nil {
			return models.MethodResult{}, err
		}

		bits := buf.LSBPlane(c)
		ones := 0
		for _, b := range bits {
			ones += int(b)
		}
		total := len(bits)

		onesRatio := float64(ones) / float64(total)
		deviation := math.Abs(onesRatio - 0.5)
		entropy := imaging.BitEntropy(ones, total)
		maxRun := imaging.LongestRun(bits)

		var factors []float64
		if deviation > d.thresholds.LSBDeviationMin {
			factors = append(factors, 2*deviation)
		}
		if entropy < d.thresholds.LSBEntropyLow || entropy > d.thresholds.LSBEntropyHigh {
			factors = append(factors, 2*math.Abs(entropy-d.thresholds.LSBEntropyCenter))
		}
		if maxRun > d.thresholds.LSBRunLengthMin {
			factors = append(factors, math.Min(float64(maxRun)/d.thresholds.LSBRunLengthScale, 1.0))
		}

		score := imaging.Clamp01(meanOrZero(factors))
		channelScores = append(channelScores, score)

		details[channelNames[c]] = map[string]interface{}{
			"ones_ratio":     onesRatio,
			"deviation":      deviation,
			"bit_entropy":    entropy,
			"max_run_length": maxRun,
			"score":          score,
		}
	}

	return models.MethodResult{
		MethodName:     d.Name(),
		Description:    fmt.Sprintf("LSB bit-plane statistics across %d channels", imaging.Channels),
		SuspicionScore: finishScore(meanOrZero(channelScores), details),
		Details:        details,
	}, nil
}
