package manipulation

import (
	"context"

	"gonum.org/v1/gonum/stat"

	"go-image-forensics/internal/config"
	"go-image-forensics/internal/imaging"
	"go-image-forensics/pkg/models"
)

// noiseDetector studies the noise residual left after removing a low-pass
// version of the image. Sensor noise is close to homogeneous across a
// single untouched capture; spliced or retouched regions break that
// homogeneity, inflating the variance of block-wise residual statistics.
type noiseDetector struct {
	thresholds config.ManipulationThresholds
}

// NewNoiseDetector creates the noise-consistency detector.
func NewNoiseDetector(thresholds config.ManipulationThresholds) Detector {
	return &noiseDetector{thresholds: thresholds}
}

func (d *noiseDetector) Name() string { return MethodNoise }

func (d *noiseDetector) Description() string {
	return "Block-wise noise residual consistency"
}

// Run extracts the residual, partitions it into non-overlapping blocks and
// scores the spread of per-block standard deviation and skewness.
func (d *noiseDetector) Run(ctx context.Context, buf *imaging.PixelBuffer) (models.MethodResult, error) {
	if err := ctx.Err(); err != nil {
		return models.MethodResult{}, err
	}

	gray := buf.GrayscaleFloat()
	residual := noiseResidual(gray, buf.Width, buf.Height)

	size := d.thresholds.NoiseBlockSize
	blocksX := buf.Width / size
	blocksY := buf.Height / size

	details := map[string]interface{}{
		"block_size": size,
	}

	if blocksX*blocksY < 2 {
		details["blocks"] = blocksX * blocksY
		details["note"] = "too few blocks for consistency statistics"
		return models.MethodResult{
			MethodName:     d.Name(),
			Description:    d.Description(),
			SuspicionScore: 0,
			Details:        details,
		}, nil
	}

	stds := make([]float64, 0, blocksX*blocksY)
	skews := make([]float64, 0, blocksX*blocksY)
	block := make([]float64, 0, size*size)

	for by := 0; by < blocksY; by++ {
		if err := ctx.Err(); err != nil {
			return models.MethodResult{}, err
		}
		for bx := 0; bx < blocksX; bx++ {
			block = block[:0]
			for y := by * size; y < (by+1)*size; y++ {
				row := residual[y*buf.Width+bx*size : y*buf.Width+(bx+1)*size]
				block = append(block, row...)
			}

			_, std := imaging.MeanStd(block)
			stds = append(stds, std)
			if std > 0 {
				skews = append(skews, stat.Skew(block, nil))
			} else {
				skews = append(skews, 0)
			}
		}
	}

	stdVariance := stat.Variance(stds, nil)
	skewVariance := stat.Variance(skews, nil)

	score := 0.0
	if stdVariance > d.thresholds.NoiseStdVarianceMin {
		score += 0.3
	}
	if skewVariance > d.thresholds.NoiseSkewVarianceMin {
		score += 0.2
	}

	details["blocks"] = blocksX * blocksY
	details["std_variance"] = stdVariance
	details["skew_variance"] = skewVariance

	return models.MethodResult{
		MethodName:     d.Name(),
		Description:    d.Description(),
		SuspicionScore: finishScore(score, details),
		Details:        details,
	}, nil
}

// noiseResidual subtracts a 3x3 box blur from the image, clamping the blur
// window at the borders.
func noiseResidual(gray []float64, width, height int) []float64 {
	residual := make([]float64, len(gray))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var sum float64
			count := 0
			for dy := -1; dy <= 1; dy++ {
				yy := y + dy
				if yy < 0 || yy >= height {
					continue
				}
				for dx := -1; dx <= 1; dx++ {
					xx := x + dx
					if xx < 0 || xx >= width {
						continue
					}
					sum += gray[yy*width+xx]
					count++
				}
			}
			i := y*width + x
			residual[i] = gray[i] - sum/float64(count)
		}
	}
	return residual
}
