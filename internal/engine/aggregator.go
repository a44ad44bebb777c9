package engine

import (
	"go-image-forensics/internal/config"
	"go-image-forensics/internal/imaging"
	"go-image-forensics/internal/steganalysis"
	"go-image-forensics/pkg/models"
)

// Aggregator folds per-method results into a single report: overall score,
// interpretation band and analyst recommendations.
type Aggregator struct {
	thresholds config.AggregationThresholds
}

// NewAggregator creates an aggregator with the given banding thresholds.
func NewAggregator(thresholds config.AggregationThresholds) *Aggregator {
	return &Aggregator{thresholds: thresholds}
}

// Aggregate combines a suite's method results. Errored methods stay in the
// report but are excluded from the mean, the max and the triggering count.
// Metadata findings (manipulation only) are surfaced verbatim in the
// recommendations and the MetadataFindings field, never in the score.
func (a *Aggregator) Aggregate(kind string, info models.ImageInfo, methods map[string]models.MethodResult, metadataFindings []string) *models.AnalysisReport {
	var sum, max float64
	scored := 0
	triggered := 0

	for _, result := range methods {
		if result.Errored() {
			continue
		}
		score := imaging.Clamp01(result.SuspicionScore)
		sum += score
		scored++
		if score > max {
			max = score
		}
		if score > a.thresholds.TriggerScore {
			triggered++
		}
	}

	overall := 0.0
	if scored > 0 {
		overall = sum / float64(scored)
	}

	report := &models.AnalysisReport{
		Kind:             kind,
		ImageInfo:        info,
		Methods:          methods,
		OverallSuspicion: overall,
		MaxSuspicion:     max,
		MethodsTriggered: triggered,
		Interpretation:   a.interpret(overall),
		MetadataFindings: metadataFindings,
		Degraded:         len(methods) > 0 && scored == 0,
	}
	report.Recommendations = a.recommend(report)
	return report
}

func (a *Aggregator) interpret(overall float64) string {
	switch {
	case overall > a.thresholds.HighBand:
		return models.InterpretationHigh
	case overall >= a.thresholds.ModerateBand:
		return models.InterpretationModerate
	default:
		return models.InterpretationNormal
	}
}

// recommend produces the ordered recommendation list: general lines keyed
// off the overall band, then per-detector lines, then metadata findings.
func (a *Aggregator) recommend(report *models.AnalysisReport) []string {
	var recs []string

	switch report.Kind {
	case models.KindSteganography:
		switch report.Interpretation {
		case models.InterpretationHigh:
			recs = append(recs,
				"High probability of steganographic content - escalate for payload extraction attempts",
				"Preserve the original file unmodified for forensic custody")
		case models.InterpretationModerate:
			recs = append(recs,
				"Moderate steganography suspicion - compare against a known-clean original if available")
		default:
			recs = append(recs,
				"No steganographic indicators above threshold - no action required")
		}
		recs = append(recs, a.steganalysisMethodRecommendations(report.Methods)...)

	case models.KindManipulation:
		switch report.Interpretation {
		case models.InterpretationHigh:
			recs = append(recs,
				"High probability of digital manipulation - verify against the original capture",
				"Request the unedited source from the provider")
		case models.InterpretationModerate:
			recs = append(recs,
				"Moderate manipulation suspicion - manual review of flagged regions recommended")
		default:
			recs = append(recs,
				"No manipulation indicators above threshold - no action required")
		}
	}

	if report.Degraded {
		recs = append(recs,
			"All detectors failed - the image could not be analyzed, treat the score as unknown rather than clean")
	}

	// Metadata findings are surfaced verbatim.
	recs = append(recs, report.MetadataFindings...)
	return recs
}

func (a *Aggregator) steganalysisMethodRecommendations(methods map[string]models.MethodResult) []string {
	var recs []string
	if r, ok := methods[steganalysis.MethodLSB]; ok && !r.Errored() && r.SuspicionScore > a.thresholds.RecommendLSB {
		recs = append(recs,
			"LSB anomalies present - attempt extraction with dedicated steganography tooling")
	}
	if r, ok := methods[steganalysis.MethodFrequency]; ok && !r.Errored() && r.SuspicionScore > a.thresholds.RecommendFrequency {
		recs = append(recs,
			"Frequency-domain anomalies present - inspect the spectrum for periodic carriers")
	}
	if r, ok := methods[steganalysis.MethodVisualAttack]; ok && !r.Errored() && r.SuspicionScore > a.thresholds.RecommendVisualAttack {
		recs = append(recs,
			"Structured bit-plane patterns present - inspect amplified LSB planes visually")
	}
	return recs
}
