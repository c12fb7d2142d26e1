package bandplan

import (
	"regexp"
	"strconv"
	"strings"
)

var frequencyPattern = regexp.MustCompile(`^([\d.]+)([KMG]?HZ)?$`)

// ParseFrequency converts a human-entered frequency string to integer Hz.
//
// Accepted forms include "14.225 MHz", "14225kHz", "14225000 Hz",
// "14,225,000" and bare numbers. When no unit suffix is present the unit
// is inferred: a decimal point means MHz, integers below 1000 mean MHz,
// below 1,000,000 mean kHz, anything larger is already Hz. Fractional Hz
// are truncated toward zero.
//
// The second return value is false for empty or malformed input.
func ParseFrequency(text string) (int64, bool) {
	if text == "" {
		return 0, false
	}

	cleaned := strings.ToUpper(strings.TrimSpace(text))
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	cleaned = strings.ReplaceAll(cleaned, " ", "")

	m := frequencyPattern.FindStringSubmatch(cleaned)
	if m == nil {
		return 0, false
	}

	value, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}

	switch m[2] {
	case "GHZ":
		return int64(value * 1_000_000_000), true
	case "MHZ":
		return int64(value * 1_000_000), true
	case "KHZ":
		return int64(value * 1_000), true
	case "HZ":
		return int64(value), true
	}

	// No unit given: infer from the numeral itself.
	switch {
	case strings.Contains(m[1], "."):
		return int64(value * 1_000_000), true
	case value < 1_000:
		return int64(value * 1_000_000), true
	case value < 1_000_000:
		return int64(value * 1_000), true
	default:
		return int64(value), true
	}
}
