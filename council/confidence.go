package council

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const (
	// DefaultConfidence is assigned when a response carries no marker.
	DefaultConfidence = 80

	// ErrorResponseText replaces the content of a turn whose model call failed.
	ErrorResponseText = "[System Error] Could not generate a response."

	// EmptyResponseText replaces the content of a turn whose model returned nothing.
	EmptyResponseText = "I have nothing to add."
)

var confidencePattern = regexp.MustCompile(`\[\[CONFIDENCE:\s*(\d+)\]\]`)

// FormatConfidenceMarker renders the marker agents are asked to end with.
func FormatConfidenceMarker(score int) string {
	return fmt.Sprintf("[[CONFIDENCE: %d]]", score)
}

// ParseResponse extracts the confidence marker from raw model output.
//
// When a marker is found its value is returned unclamped and the first
// occurrence is removed from the trimmed text. Without a marker the raw text
// is returned untouched with DefaultConfidence. Empty output maps to
// EmptyResponseText with confidence 0; whitespace alone is not empty.
func ParseResponse(raw string) (string, int) {
	if raw == "" {
		return EmptyResponseText, 0
	}

	loc := confidencePattern.FindStringSubmatchIndex(raw)
	if loc == nil {
		return raw, DefaultConfidence
	}

	score, err := strconv.Atoi(raw[loc[2]:loc[3]])
	if err != nil {
		// digit run too large for int; treat as no marker
		return raw, DefaultConfidence
	}

	clean := raw[:loc[0]] + raw[loc[1]:]
	return strings.TrimSpace(clean), score
}

// FailedResponse is the parsed result recorded when the model call fails.
func FailedResponse() (string, int) {
	return ErrorResponseText, 0
}
