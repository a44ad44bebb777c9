package manipulation

import (
	"fmt"
	"strconv"
	"strings"

	"go-image-forensics/internal/config"
	"go-image-forensics/pkg/models"
)

var (
	widthKeys  = []string{"ExifImageWidth", "ImageWidth"}
	heightKeys = []string{"ExifImageHeight", "ImageHeight"}

	softwareKeys = []string{"Software", "ProcessingSoftware", "CreatorTool"}

	timestampKeys = []string{
		"DateTime",
		"DateTimeOriginal",
		"DateTimeDigitized",
		"CreateDate",
		"ModifyDate",
	}

	cameraMakeKeys  = []string{"Make", "CameraMake"}
	cameraModelKeys = []string{"Model", "CameraModel"}

	// Lowercase substrings of raster/vector editors commonly seen in the
	// Software tag of edited images.
	editingSoftware = []string{
		"photoshop",
		"gimp",
		"lightroom",
		"affinity",
		"pixelmator",
		"paint.net",
		"corel",
		"illustrator",
		"inkscape",
		"paintshop",
		"snapseed",
		"luminar",
		"canva",
	}
)

// CheckConsistency cross-checks the externally supplied metadata tags against
// the actual decoded dimensions and a few internal-consistency rules. It
// returns human-readable findings; findings inform recommendations and review
// but never contribute to the numeric manipulation probability.
func CheckConsistency(tags models.TagMap, width, height int, thresholds config.ManipulationThresholds) []string {
	if len(tags) == 0 {
		return nil
	}

	var findings []string

	// (a) declared vs actual dimensions
	if declared, key, ok := firstInt(tags, widthKeys); ok && declared != width {
		findings = append(findings, fmt.Sprintf(
			"metadata %s (%d) does not match actual image width (%d)", key, declared, width))
	}
	if declared, key, ok := firstInt(tags, heightKeys); ok && declared != height {
		findings = append(findings, fmt.Sprintf(
			"metadata %s (%d) does not match actual image height (%d)", key, declared, height))
	}

	// (b) known editing software
	for _, key := range softwareKeys {
		value, ok := stringValue(tags, key)
		if !ok {
			continue
		}
		lower := strings.ToLower(value)
		for _, tool := range editingSoftware {
			if strings.Contains(lower, tool) {
				findings = append(findings, fmt.Sprintf(
					"image processed with editing software: %s (%s)", value, key))
				break
			}
		}
	}

	// (c) conflicting timestamps
	distinct := make(map[string]struct{})
	for _, key := range timestampKeys {
		if value, ok := stringValue(tags, key); ok && value != "" {
			distinct[value] = struct{}{}
		}
	}
	if len(distinct) > thresholds.MetadataMaxDistinctDates {
		findings = append(findings, fmt.Sprintf(
			"multiple distinct creation/modification dates present (%d values)", len(distinct)))
	}

	// (d) missing camera identification
	if !anyPresent(tags, cameraMakeKeys) && !anyPresent(tags, cameraModelKeys) {
		findings = append(findings, "camera make and model are missing from metadata")
	}

	return findings
}

// firstInt returns the first present key whose value parses as an integer.
func firstInt(tags models.TagMap, keys []string) (int, string, bool) {
	for _, key := range keys {
		value, ok := tags[key]
		if !ok {
			continue
		}
		switch v := value.(type) {
		case int:
			return v, key, true
		case int64:
			return int(v), key, true
		case float64:
			return int(v), key, true
		case string:
			if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
				return n, key, true
			}
		}
	}
	return 0, "", false
}

// stringValue renders a tag value as a string if present.
func stringValue(tags models.TagMap, key string) (string, bool) {
	value, ok := tags[key]
	if !ok {
		return "", false
	}
	switch v := value.(type) {
	case string:
		return v, true
	default:
		return fmt.Sprintf("%v", v), true
	}
}

func anyPresent(tags models.TagMap, keys []string) bool {
	for _, key := range keys {
		if value, ok := tags[key]; ok {
			if s, isString := value.(string); !isString || strings.TrimSpace(s) != "" {
				return true
			}
		}
	}
	return false
}
