package models

import "time"

// Analysis kinds reported in AnalysisReport.Kind.
const (
	KindSteganography = "steganography"
	KindManipulation  = "manipulation"
)

// Interpretation bands produced by the aggregator.
const (
	InterpretationHigh     = "high probability of hidden data or manipulation"
	InterpretationModerate = "moderate suspicion, manual review recommended"
	InterpretationNormal   = "appears normal"
)

// TagMap holds metadata fields supplied by the external extraction layer.
// Keys are opaque tag names (e.g. "ExifImageWidth", "Software"); values are
// numbers or strings. The engine never parses binary metadata itself.
type TagMap map[string]interface{}

// ImageInfo describes the analyzed pixel buffer.
type ImageInfo struct {
	Width    int `json:"width"`
	Height   int `json:"height"`
	Channels int `json:"channels"`
}

// MethodResult is the uniform output contract emitted by every detector.
// If Error is non-empty the method failed: SuspicionScore is zero, the method
// is excluded from the overall mean and from triggering counts, but the
// result stays in the report for transparency.
type MethodResult struct {
	MethodName     string                 `json:"method_name"`
	Description    string                 `json:"description"`
	SuspicionScore float64                `json:"suspicion_score"`
	Details        map[string]interface{} `json:"details,omitempty"`
	Error          string                 `json:"error,omitempty"`
}

// Errored reports whether the method failed to produce a score.
func (r MethodResult) Errored() bool {
	return r.Error != ""
}

// AnalysisReport is the aggregated outcome of one detector suite run.
type AnalysisReport struct {
	ID                string    `json:"id"`
	Kind              string    `json:"kind"`
	Timestamp         time.Time `json:"timestamp"`
	ProcessingTimeSec float64   `json:"processing_time_sec"`

	ImageInfo ImageInfo               `json:"image_info"`
	Methods   map[string]MethodResult `json:"methods"`

	// OverallSuspicion is the mean of all successfully computed suspicion
	// scores. Errored methods are excluded from the mean, not counted as
	// zero contributors.
	OverallSuspicion float64 `json:"overall_suspicion"`
	MaxSuspicion     float64 `json:"max_suspicion"`

	// MethodsTriggered counts non-errored methods whose score exceeds 0.5.
	MethodsTriggered int    `json:"methods_triggered"`
	Interpretation   string `json:"interpretation"`

	Recommendations []string `json:"recommendations"`

	// MetadataFindings carries the metadata consistency checker output for
	// manipulation reports. Findings inform recommendations but never enter
	// the numeric score.
	MetadataFindings []string `json:"metadata_findings,omitempty"`

	// Degraded is set when every method in the suite errored and the overall
	// score is therefore meaningless rather than reassuring.
	Degraded bool `json:"degraded,omitempty"`
}
