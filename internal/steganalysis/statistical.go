package steganalysis

import (
	"context"
	"math"

	"go-image-forensics/internal/config"
	"go-image-forensics/internal/imaging"
	"go-image-forensics/pkg/models"
)

// statisticalDetector studies the first four moments and the value histogram
// of the flattened channel data. LSB embedding flattens pair frequencies,
// which a chi-square test against the uniform distribution picks up, while
// unusual skew or kurtosis flags synthetic value distributions.
type statisticalDetector struct {
	thresholds config.SteganalysisThresholds
}

// NewStatisticalDetector creates the global-statistics detector.
func NewStatisticalDetector(thresholds config.SteganalysisThresholds) Detector {
	return &statisticalDetector{thresholds: thresholds}
}

func (d *statisticalDetector) Name() string { return MethodStatistical }

func (d *statisticalDetector) Description() string {
	return "Global moments, chi-square goodness of fit and histogram entropy"
}

// Run computes all statistics from the 256-bin histogram, which gives exact
// moments without materializing the flattened data as floats.
func (d *statisticalDetector) Run(ctx context.Context, buf *imaging.PixelBuffer) (models.MethodResult, error) {
	if err := ctx.Err(); err != nil {
		return models.MethodResult{}, err
	}

	hist := imaging.Histogram256(buf.Data)
	total := len(buf.Data)

	mean, std, skewness, kurtosis := histogramMoments(hist[:], total)
	chiSquare := imaging.ChiSquareUniform(hist[:], total)
	histEntropy := imaging.NormalizedHistogramEntropy(hist[:], total)

	details := map[string]interface{}{
		"mean":              mean,
		"std":               std,
		"skewness":          skewness,
		"kurtosis":          kurtosis,
		"chi_square":        chiSquare,
		"histogram_entropy": histEntropy,
	}

	if std == 0 {
		// Constant-valued buffer: higher moments are undefined.
		details["note"] = "zero-variance data, skewness and kurtosis undefined"
		return models.MethodResult{
			MethodName:     d.Name(),
			Description:    d.Description(),
			SuspicionScore: 0,
			Details:        details,
		}, nil
	}

	var factors []float64
	if chiSquare > d.thresholds.StatChiSquareMin {
		factors = append(factors, math.Min(chiSquare/d.thresholds.StatChiSquareScale, 1.0))
	}
	if math.Abs(skewness) > d.thresholds.StatSkewnessMin {
		factors = append(factors, math.Min(math.Abs(skewness)/d.thresholds.StatSkewnessScale, 1.0))
	}
	if math.Abs(kurtosis) > d.thresholds.StatKurtosisMin {
		factors = append(factors, math.Min(math.Abs(kurtosis)/d.thresholds.StatKurtosisScale, 1.0))
	}

	return models.MethodResult{
		MethodName:     d.Name(),
		Description:    d.Description(),
		SuspicionScore: finishScore(meanOrZero(factors), details),
		Details:        details,
	}, nil
}

// histogramMoments returns mean, standard deviation, skewness and excess
// kurtosis computed exactly from bin counts.
func histogramMoments(hist []int, total int) (mean, std, skewness, kurtosis float64) {
	if total == 0 {
		return 0, 0, 0, 0
	}
	n := float64(total)

	for v, c := range hist {
		mean += float64(v) * float64(c)
	}
	mean /= n

	var m2, m3, m4 float64
	for v, c := range hist {
		d := float64(v) - mean
		w := float64(c)
		d2 := d * d
		m2 += w * d2
		m3 += w * d2 * d
		m4 += w * d2 * d2
	}
	m2 /= n
	m3 /= n
	m4 /= n

	if m2 == 0 {
		return mean, 0, 0, 0
	}
	std = math.Sqrt(m2)
	skewness = m3 / (std * std * std)
	kurtosis = m4/(m2*m2) - 3 // excess kurtosis
	return mean, std, skewness, kurtosis
}
