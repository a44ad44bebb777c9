package models

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestMethodResultErrored(t *testing.T) {
	if (MethodResult{}).Errored() {
		t.Error("empty result should not be errored")
	}
	if !(MethodResult{Error: "boom"}).Errored() {
		t.Error("result with error string should be errored")
	}
}

func TestAnalysisReportJSON(t *testing.T) {
	report := AnalysisReport{
		ID:        "abc-123",
		Kind:      KindSteganography,
		Timestamp: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
		ImageInfo: ImageInfo{Width: 640, Height: 480, Channels: 3},
		Methods: map[string]MethodResult{
			"lsb_analysis": {
				MethodName:     "lsb_analysis",
				SuspicionScore: 0.42,
				Details:        map[string]interface{}{"ones_ratio": 0.51},
			},
		},
		OverallSuspicion: 0.42,
		MaxSuspicion:     0.42,
		Interpretation:   InterpretationModerate,
		Recommendations:  []string{"manual review"},
	}

	data, err := json.Marshal(report)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	text := string(data)

	for _, want := range []string{
		`"id":"abc-123"`,
		`"kind":"steganography"`,
		`"overall_suspicion":0.42`,
		`"methods_triggered":0`,
	} {
		if !strings.Contains(text, want) {
			t.Errorf("JSON missing %s in %s", want, text)
		}
	}

	// Empty optional fields stay out of the payload
	for _, absent := range []string{"metadata_findings", "degraded", `"error"`} {
		if strings.Contains(text, absent) {
			t.Errorf("JSON should omit %s", absent)
		}
	}

	var decoded AnalysisReport
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if decoded.Methods["lsb_analysis"].SuspicionScore != 0.42 {
		t.Errorf("round trip lost method score: %+v", decoded.Methods)
	}
}
