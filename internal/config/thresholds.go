package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Thresholds collects every calibration constant used by the detector suites
// and the aggregator. The values are fixed magic numbers inherited from field
// practice, with no calibration dataset behind them; they are kept as named,
// overridable configuration rather than re-derived.
type Thresholds struct {
	Steganalysis SteganalysisThresholds `yaml:"steganalysis"`
	Manipulation ManipulationThresholds `yaml:"manipulation"`
	Aggregation  AggregationThresholds  `yaml:"aggregation"`
}

// SteganalysisThresholds configures the five steganalysis detectors.
type SteganalysisThresholds struct {
	// LSB analysis
	LSBDeviationMin   float64 `yaml:"lsb_deviation_min"`
	LSBEntropyLow     float64 `yaml:"lsb_entropy_low"`
	LSBEntropyHigh    float64 `yaml:"lsb_entropy_high"`
	LSBEntropyCenter  float64 `yaml:"lsb_entropy_center"`
	LSBRunLengthMin   int     `yaml:"lsb_run_length_min"`
	LSBRunLengthScale float64 `yaml:"lsb_run_length_scale"`

	// Block entropy analysis
	EntropyBlockSizes  []int   `yaml:"entropy_block_sizes"`
	EntropyVarianceMin float64 `yaml:"entropy_variance_min"`
	EntropyMeanMin     float64 `yaml:"entropy_mean_min"`

	// Frequency analysis
	FreqHighRatioMin    float64 `yaml:"freq_high_ratio_min"`
	FreqPhaseEntropyMin float64 `yaml:"freq_phase_entropy_min"`

	// Statistical analysis
	StatChiSquareMin   float64 `yaml:"stat_chi_square_min"`
	StatChiSquareScale float64 `yaml:"stat_chi_square_scale"`
	StatSkewnessMin    float64 `yaml:"stat_skewness_min"`
	StatSkewnessScale  float64 `yaml:"stat_skewness_scale"`
	StatKurtosisMin    float64 `yaml:"stat_kurtosis_min"`
	StatKurtosisScale  float64 `yaml:"stat_kurtosis_scale"`

	// Visual attack detection
	VisualLSBVarianceMin  float64 `yaml:"visual_lsb_variance_min"`
	VisualCheckerboardMin float64 `yaml:"visual_checkerboard_min"`
	VisualEdgeDensityMin  float64 `yaml:"visual_edge_density_min"`
	VisualEdgePercentile  float64 `yaml:"visual_edge_percentile"`
}

// ManipulationThresholds configures the manipulation detectors and the
// metadata consistency checker.
type ManipulationThresholds struct {
	// Error-level analysis
	ELAQuality       int     `yaml:"ela_quality"`
	ELAGain          float64 `yaml:"ela_gain"`
	ELAHighErrorFrac float64 `yaml:"ela_high_error_frac"`
	ELAStdMin        float64 `yaml:"ela_std_min"`

	// Copy-move detection
	CopyMoveMinDescriptors int     `yaml:"copy_move_min_descriptors"`
	CopyMoveRatioTest      float64 `yaml:"copy_move_ratio_test"`
	CopyMoveMinSeparation  float64 `yaml:"copy_move_min_separation"`
	CopyMoveMatchCountLow  int     `yaml:"copy_move_match_count_low"`
	CopyMoveMatchCountHigh int     `yaml:"copy_move_match_count_high"`

	// Noise analysis
	NoiseBlockSize       int     `yaml:"noise_block_size"`
	NoiseStdVarianceMin  float64 `yaml:"noise_std_variance_min"`
	NoiseSkewVarianceMin float64 `yaml:"noise_skew_variance_min"`

	// Metadata consistency
	MetadataMaxDistinctDates int `yaml:"metadata_max_distinct_dates"`
}

// AggregationThresholds configures the report aggregator.
type AggregationThresholds struct {
	TriggerScore float64 `yaml:"trigger_score"`
	HighBand     float64 `yaml:"high_band"`
	ModerateBand float64 `yaml:"moderate_band"`

	// Per-detector recommendation triggers
	RecommendLSB          float64 `yaml:"recommend_lsb"`
	RecommendFrequency    float64 `yaml:"recommend_frequency"`
	RecommendVisualAttack float64 `yaml:"recommend_visual_attack"`
}

// DefaultThresholds returns the stock calibration.
func DefaultThresholds() Thresholds {
	return Thresholds{
		Steganalysis: SteganalysisThresholds{
			LSBDeviationMin:   0.10,
			LSBEntropyLow:     0.80,
			LSBEntropyHigh:    0.99,
			LSBEntropyCenter:  0.90,
			LSBRunLengthMin:   50,
			LSBRunLengthScale: 100,

			EntropyBlockSizes:  []int{8, 16, 32, 64},
			EntropyVarianceMin: 0.10,
			EntropyMeanMin:     0.95,

			FreqHighRatioMin:    0.30,
			FreqPhaseEntropyMin: 0.95,

			StatChiSquareMin:   1000,
			StatChiSquareScale: 5000,
			StatSkewnessMin:    2,
			StatSkewnessScale:  5,
			StatKurtosisMin:    5,
			StatKurtosisScale:  10,

			VisualLSBVarianceMin:  0.3,
			VisualCheckerboardMin: 0.5,
			VisualEdgeDensityMin:  0.4,
			VisualEdgePercentile:  95,
		},
		Manipulation: ManipulationThresholds{
			ELAQuality:       90,
			ELAGain:          15,
			ELAHighErrorFrac: 0.05,
			ELAStdMin:        20,

			CopyMoveMinDescriptors: 10,
			CopyMoveRatioTest:      0.7,
			CopyMoveMinSeparation:  50,
			CopyMoveMatchCountLow:  20,
			CopyMoveMatchCountHigh: 50,

			NoiseBlockSize:       64,
			NoiseStdVarianceMin:  5.0,
			NoiseSkewVarianceMin: 0.5,

			MetadataMaxDistinctDates: 2,
		},
		Aggregation: AggregationThresholds{
			TriggerScore: 0.5,
			HighBand:     0.7,
			ModerateBand: 0.4,

			RecommendLSB:          0.6,
			RecommendFrequency:    0.5,
			RecommendVisualAttack: 0.6,
		},
	}
}

// LoadThresholds reads a YAML overrides file on top of the defaults. Fields
// absent from the file keep their default values.
func LoadThresholds(path string) (Thresholds, error) {
	thresholds := DefaultThresholds()

	data, err := os.ReadFile(path)
	if err != nil {
		return thresholds, fmt.Errorf("reading thresholds file: %w", err)
	}
	if err := yaml.Unmarshal(data, &thresholds); err != nil {
		return thresholds, fmt.Errorf("parsing thresholds file %s: %w", path, err)
	}

	if err := thresholds.Validate(); err != nil {
		return thresholds, err
	}
	return thresholds, nil
}

// Validate rejects override values that would break scoring invariants.
func (t Thresholds) Validate() error {
	if t.Aggregation.HighBand <= t.Aggregation.ModerateBand {
		return fmt.Errorf("high_band (%v) must exceed moderate_band (%v)",
			t.Aggregation.HighBand, t.Aggregation.ModerateBand)
	}
	if t.Manipulation.ELAQuality < 1 || t.Manipulation.ELAQuality > 100 {
		return fmt.Errorf("ela_quality must be in [1,100] (got %d)", t.Manipulation.ELAQuality)
	}
	if t.Manipulation.NoiseBlockSize <= 0 {
		return fmt.Errorf("noise_block_size must be > 0 (got %d)", t.Manipulation.NoiseBlockSize)
	}
	for _, size := range t.Steganalysis.EntropyBlockSizes {
		if size <= 0 {
			return fmt.Errorf("entropy_block_sizes must be > 0 (got %d)", size)
		}
	}
	if t.Manipulation.CopyMoveRatioTest <= 0 || t.Manipulation.CopyMoveRatioTest >= 1 {
		return fmt.Errorf("copy_move_ratio_test must be in (0,1) (got %v)", t.Manipulation.CopyMoveRatioTest)
	}
	return nil
}
