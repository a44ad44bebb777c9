package imaging

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Clamp01 limits a score to its declared [0,1] domain.
func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Histogram256 builds a 256-bin histogram over byte values.
func Histogram256(data []byte) [256]int {
	var hist [256]int
	for _, b := range data {
		hist[b]++
	}
	return hist
}

// NormalizedByteEntropy computes the Shannon entropy of a byte slice
// normalized by log2(256), so the result lies in [0,1].
func NormalizedByteEntropy(data []byte) float64 {
	if len(data) == 0 {
		return 0
	}
	hist := Histogram256(data)
	return NormalizedHistogramEntropy(hist[:], len(data))
}

// NormalizedHistogramEntropy computes Shannon entropy from precomputed bin
// counts, normalized by log2(len(counts)).
func NormalizedHistogramEntropy(counts []int, total int) float64 {
	if total == 0 || len(counts) < 2 {
		return 0
	}
	probs := make([]float64, len(counts))
	for i, c := range counts {
		probs[i] = float64(c) / float64(total)
	}
	// stat.Entropy returns nats; normalize to the alphabet size.
	return stat.Entropy(probs) / math.Log(float64(len(counts)))
}

// BitEntropy computes the normalized Shannon entropy of a binary source from
// its ones count. Alphabet size 2, so the normalizer log2(2) is 1 and the
// result already lies in [0,1].
func BitEntropy(ones, total int) float64 {
	if total == 0 || ones == 0 || ones == total {
		return 0
	}
	p1 := float64(ones) / float64(total)
	p0 := 1 - p1
	return -(p0*math.Log2(p0) + p1*math.Log2(p1))
}

// LongestRun returns the length of the longest run of identical consecutive
// values in a bit sequence.
func LongestRun(bits []byte) int {
	if len(bits) == 0 {
		return 0
	}
	longest, run := 1, 1
	for i := 1; i < len(bits); i++ {
		if bits[i] == bits[i-1] {
			run++
			if run > longest {
				longest = run
			}
		} else {
			run = 1
		}
	}
	return longest
}

// ChiSquareUniform computes the chi-square statistic of a 256-bin histogram
// against the uniform expected frequency total/256.
func ChiSquareUniform(hist []int, total int) float64 {
	if total == 0 {
		return 0
	}
	expected := float64(total) / float64(len(hist))
	var chi2 float64
	for _, observed := range hist {
		diff := float64(observed) - expected
		chi2 += diff * diff / expected
	}
	return chi2
}

// Percentile returns the p-th percentile (0-100) of values using nearest-rank
// on a sorted copy. The input slice is not modified.
func Percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	rank := int(math.Ceil(p/100*float64(len(sorted)))) - 1
	if rank < 0 {
		rank = 0
	}
	if rank >= len(sorted) {
		rank = len(sorted) - 1
	}
	return sorted[rank]
}

// BitsToFloats widens a 0/1 bit plane for gonum statistics.
func BitsToFloats(bits []byte) []float64 {
	out := make([]float64, len(bits))
	for i, b := range bits {
		out[i] = float64(b)
	}
	return out
}

// MeanStd returns the mean and population-style sample standard deviation of
// values, guarding the empty case.
func MeanStd(values []float64) (mean, std float64) {
	if len(values) == 0 {
		return 0, 0
	}
	mean = stat.Mean(values, nil)
	if len(values) > 1 {
		std = math.Sqrt(stat.Variance(values, nil))
	}
	return mean, std
}
