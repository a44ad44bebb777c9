package steganalysis

import (
	"context"
	"math"

	"gonum.org/v1/gonum/stat"

	"go-image-forensics/internal/config"
	"go-image-forensics/internal/imaging"
	"go-image-forensics/pkg/models"
)

// visualAttackDetector looks for artificial structure in the bit planes: high
// LSB-plane variance, correlation with periodic checkerboard patterns, and an
// anomalous density of strong gradients. These are the machine equivalents of
// the classic visual attack, where an amplified bit plane is inspected by eye.
type visualAttackDetector struct {
	thresholds config.SteganalysisThresholds
}

// NewVisualAttackDetector creates the visual-attack detector.
func NewVisualAttackDetector(thresholds config.SteganalysisThresholds) Detector {
	return &visualAttackDetector{thresholds: thresholds}
}

func (d *visualAttackDetector) Name() string { return MethodVisualAttack }

func (d *visualAttackDetector) Description() string {
	return "Bit-plane structure: LSB variance, checkerboard correlation, edge anomalies"
}

// Run evaluates all three factors per channel. Triggered factors from every
// channel are pooled and averaged, so one strongly periodic channel is not
// diluted by clean siblings.
func (d *visualAttackDetector) Run(ctx context.Context, buf *imaging.PixelBuffer) (models.MethodResult, error) {
	details := make(map[string]interface{}, imaging.Channels)
	pattern0, pattern1 := checkerboards(buf.Width, buf.Height)

	var factors []float64
	for c := 0; c < imaging.Channels; c++ {
		if err := ctx.Err(); err != nil {
			return models.MethodResult{}, err
		}

		bits := imaging.BitsToFloats(buf.LSBPlane(c))

		variance := 0.0
		if len(bits) > 1 {
			variance = stat.Variance(bits, nil)
		}

		corr0 := safeCorrelation(bits, pattern0)
		corr1 := safeCorrelation(bits, pattern1)
		checkerboard := math.Max(math.Abs(corr0), math.Abs(corr1))

		edgeDensity := d.edgeAnomalyDensity(buf, c)

		triggered := 0
		if variance > d.thresholds.VisualLSBVarianceMin {
			factors = append(factors, variance)
			triggered++
		}
		if checkerboard > d.thresholds.VisualCheckerboardMin {
			factors = append(factors, checkerboard)
			triggered++
		}
		if edgeDensity > d.thresholds.VisualEdgeDensityMin {
			factors = append(factors, edgeDensity)
			triggered++
		}

		details[channelNames[c]] = map[string]interface{}{
			"lsb_variance":       variance,
			"checkerboard_score": checkerboard,
			"edge_density":       edgeDensity,
			"factors_triggered":  triggered,
		}
	}

	return models.MethodResult{
		MethodName:     d.Name(),
		Description:    d.Description(),
		SuspicionScore: finishScore(meanOrZero(factors), details),
		Details:        details,
	}, nil
}

// edgeAnomalyDensity computes a simple gradient magnitude over the channel
// and returns the fraction of pixels whose magnitude exceeds the 95th
// percentile of all magnitudes. Heavy ties at the percentile value (flat or
// strongly periodic content) are what push the density away from the
// nominal 5%.
func (d *visualAttackDetector) edgeAnomalyDensity(buf *imaging.PixelBuffer, c int) float64 {
	width, height := buf.Width, buf.Height
	if width < 2 || height < 2 {
		return 0
	}

	magnitudes := make([]float64, 0, (width-1)*(height-1))
	for y := 0; y < height-1; y++ {
		for x := 0; x < width-1; x++ {
			v := float64(buf.At(x, y, c))
			gx := float64(buf.At(x+1, y, c)) - v
			gy := float64(buf.At(x, y+1, c)) - v
			magnitudes = append(magnitudes, math.Sqrt(gx*gx+gy*gy))
		}
	}

	threshold := imaging.Percentile(magnitudes, d.thresholds.VisualEdgePercentile)
	exceeding := 0
	for _, m := range magnitudes {
		if m > threshold {
			exceeding++
		}
	}
	return float64(exceeding) / float64(len(magnitudes))
}

// checkerboards builds the two complementary alternating reference patterns.
func checkerboards(width, height int) ([]float64, []float64) {
	phase0 := make([]float64, width*height)
	phase1 := make([]float64, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			i := y*width + x
			bit := float64((x + y) & 1)
			phase0[i] = bit
			phase1[i] = 1 - bit
		}
	}
	return phase0, phase1
}

// safeCorrelation guards gonum's Pearson correlation against zero-variance
// inputs, mapping the undefined case to zero correlation.
func safeCorrelation(x, y []float64) float64 {
	corr := stat.Correlation(x, y, nil)
	if math.IsNaN(corr) || math.IsInf(corr, 0) {
		return 0
	}
	return corr
}
