package steganalysis

import (
	"context"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"go-image-forensics/internal/config"
	"go-image-forensics/internal/imaging"
	"go-image-forensics/pkg/models"
)

// entropyMeanCenter anchors the mean-entropy suspicion factor.
const entropyMeanCenter = 0.90

// entropyDetector tiles the RGB buffer at several block sizes and studies
// the distribution of per-block Shannon entropy. Hidden payloads raise the
// entropy of the regions they occupy, which shows up as either a very high
// mean or an unusually large variance across blocks.
type entropyDetector struct {
	thresholds config.SteganalysisThresholds
}

// NewEntropyDetector creates the block entropy detector.
func NewEntropyDetector(thresholds config.SteganalysisThresholds) Detector {
	return &entropyDetector{thresholds: thresholds}
}

func (d *entropyDetector) Name() string { return MethodEntropy }

func (d *entropyDetector) Description() string {
	return "Block-wise Shannon entropy distribution at multiple block sizes"
}

// Run tiles the buffer non-overlapping at each configured block size,
// discarding any partial remainder row or column.
func (d *entropyDetector) Run(ctx context.Context, buf *imaging.PixelBuffer) (models.MethodResult, error) {
	details := make(map[string]interface{})
	var sizeScores []float64

	for _, size := range d.thresholds.EntropyBlockSizes {
		if err := ctx.Err(); err != nil {
			return models.MethodResult{}, err
		}

		entropies := d.blockEntropies(buf, size)
		if len(entropies) == 0 {
			continue
		}

		mean := stat.Mean(entropies, nil)
		variance := 0.0
		std := 0.0
		if len(entropies) > 1 {
			variance = stat.Variance(entropies, nil)
			std = math.Sqrt(variance)
		}
		minEnt, maxEnt := entropies[0], entropies[0]
		for _, e := range entropies[1:] {
			if e < minEnt {
				minEnt = e
			}
			if e > maxEnt {
				maxEnt = e
			}
		}

		var factors []float64
		if variance > d.thresholds.EntropyVarianceMin {
			factors = append(factors, 5*variance)
		}
		if mean > d.thresholds.EntropyMeanMin {
			factors = append(factors, 10*(mean-entropyMeanCenter))
		}

		score := imaging.Clamp01(meanOrZero(factors))
		sizeScores = append(sizeScores, score)

		details[fmt.Sprintf("block_%d", size)] = map[string]interface{}{
			"blocks":   len(entropies),
			"mean":     mean,
			"std":      std,
			"min":      minEnt,
			"max":      maxEnt,
			"variance": variance,
			"score":    score,
		}
	}

	if len(sizeScores) == 0 {
		// Image smaller than every block size: degenerate, not an error.
		details["note"] = "image too small for block tiling"
		return models.MethodResult{
			MethodName:     d.Name(),
			Description:    d.Description(),
			SuspicionScore: 0,
			Details:        details,
		}, nil
	}

	return models.MethodResult{
		MethodName:     d.Name(),
		Description:    d.Description(),
		SuspicionScore: finishScore(meanOrZero(sizeScores), details),
		Details:        details,
	}, nil
}

// blockEntropies computes normalized byte entropy of each full size×size
// pixel block, all three channels included.
func (d *entropyDetector) blockEntropies(buf *imaging.PixelBuffer, size int) []float64 {
	blocksX := buf.Width / size
	blocksY := buf.Height / size
	if blocksX == 0 || blocksY == 0 {
		return nil
	}

	entropies := make([]float64, 0, blocksX*blocksY)
	block := make([]byte, 0, size*size*imaging.Channels)

	for by := 0; by < blocksY; by++ {
		for bx := 0; bx < blocksX; bx++ {
			block = block[:0]
			for y := by * size; y < (by+1)*size; y++ {
				rowStart := (y*buf.Width + bx*size) * imaging.Channels
				block = append(block, buf.Data[rowStart:rowStart+size*imaging.Channels]...)
			}
			entropies = append(entropies, imaging.NormalizedByteEntropy(block))
		}
	}
	return entropies
}
