package steganalysis

import (
	"context"
	"math"
	"math/cmplx"

	"go-image-forensics/internal/capability"
	"go-image-forensics/internal/config"
	apperrors "go-image-forensics/internal/errors"
	"go-image-forensics/internal/imaging"
	"go-image-forensics/pkg/models"
)

const (
	phaseEntropyCenter = 0.90
	phaseHistogramBins = 256
)

// frequencyDetector looks at the 2D spectrum of the grayscale image. Embedded
// data pushes energy into the high-frequency quadrant and randomizes the
// phase distribution in ways natural image content does not.
type frequencyDetector struct {
	thresholds config.SteganalysisThresholds
	fourier    capability.FourierTransformer
}

// NewFrequencyDetector creates the frequency-domain detector. fourier may be
// nil, in which case every run reports a capability error.
func NewFrequencyDetector(thresholds config.SteganalysisThresholds, fourier capability.FourierTransformer) Detector {
	return &frequencyDetector{thresholds: thresholds, fourier: fourier}
}

func (d *frequencyDetector) Name() string { return MethodFrequency }

func (d *frequencyDetector) Description() string {
	return "2D Fourier spectrum energy distribution and phase entropy"
}

// Run transforms the grayscale image and scores high-frequency energy ratio
// and phase entropy.
func (d *frequencyDetector) Run(ctx context.Context, buf *imaging.PixelBuffer) (models.MethodResult, error) {
	if d.fourier == nil {
		return models.MethodResult{}, apperrors.NewCapabilityError("no Fourier transform capability configured")
	}
	if err := ctx.Err(); err != nil {
		return models.MethodResult{}, err
	}

	gray := buf.GrayscaleFloat()
	spectrum, err := d.fourier.Transform2D(gray, buf.Width, buf.Height)
	if err != nil {
		return models.MethodResult{}, apperrors.NewInternalError("fourier transform failed", err)
	}

	magnitudes := make([]float64, len(spectrum))
	phaseHist := make([]int, phaseHistogramBins)
	var totalEnergy float64
	for i, coeff := range spectrum {
		mag := cmplx.Abs(coeff)
		magnitudes[i] = mag
		totalEnergy += mag

		phase := cmplx.Phase(coeff) // [-pi, pi]
		bin := int((phase + math.Pi) / (2 * math.Pi) * phaseHistogramBins)
		if bin >= phaseHistogramBins {
			bin = phaseHistogramBins - 1
		}
		phaseHist[bin]++
	}

	details := make(map[string]interface{})

	if totalEnergy <= 0 {
		details["note"] = "zero spectral energy"
		return models.MethodResult{
			MethodName:     d.Name(),
			Description:    d.Description(),
			SuspicionScore: 0,
			Details:        details,
		}, nil
	}

	// High-frequency energy: the quadrant beyond the midpoint of both axes.
	var highEnergy float64
	for y := buf.Height / 2; y < buf.Height; y++ {
		row := magnitudes[y*buf.Width:]
		for x := buf.Width / 2; x < buf.Width; x++ {
			highEnergy += row[x]
		}
	}
	highFreqRatio := highEnergy / totalEnergy

	meanMag, stdMag := imaging.MeanStd(magnitudes)
	maxMag := magnitudes[0]
	for _, m := range magnitudes[1:] {
		if m > maxMag {
			maxMag = m
		}
	}

	phaseEntropy := imaging.NormalizedHistogramEntropy(phaseHist, len(spectrum))

	var factors []float64
	if highFreqRatio > d.thresholds.FreqHighRatioMin {
		factors = append(factors, highFreqRatio)
	}
	if phaseEntropy > d.thresholds.FreqPhaseEntropyMin {
		factors = append(factors, 10*(phaseEntropy-phaseEntropyCenter))
	}

	details["dc_component"] = cmplx.Abs(spectrum[0])
	details["mean_magnitude"] = meanMag
	details["std_magnitude"] = stdMag
	details["max_magnitude"] = maxMag
	details["high_freq_ratio"] = highFreqRatio
	details["phase_entropy"] = phaseEntropy

	return models.MethodResult{
		MethodName:     d.Name(),
		Description:    d.Description(),
		SuspicionScore: finishScore(meanOrZero(factors), details),
		Details:        details,
	}, nil
}
