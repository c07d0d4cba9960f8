package task

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	clockPattern  = regexp.MustCompile(`^\d+:\d+$`)
	numberPattern = regexp.MustCompile(`\d+[.,]?\d*`)
)

// ParseHours converts a raw duration cell like "08:30", "4", "4:00" or "4,75"
// to a number of hours. Exports are full of hand-typed cells, so this never
// fails: anything unrecognized degrades to 0.
func ParseHours(raw string) float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}

	// HH:MM form
	if clockPattern.MatchString(raw) {
		parts := strings.SplitN(raw, ":", 2)
		hours, _ := strconv.Atoi(parts[0])
		minutes, _ := strconv.Atoi(parts[1])
		return float64(hours) + float64(minutes)/60
	}

	// Comma decimal separator (4,75 -> 4.75)
	normalized := strings.ReplaceAll(raw, ",", ".")
	if value, err := strconv.ParseFloat(normalized, 64); err == nil {
		return value
	}

	// Free text like "4 horas extras": take the first number found.
	if match := numberPattern.FindString(raw); match != "" {
		if value, err := strconv.ParseFloat(strings.ReplaceAll(match, ",", "."), 64); err == nil {
			return value
		}
	}

	return 0
}
