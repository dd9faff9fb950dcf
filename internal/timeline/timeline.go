// Package timeline converts free-text timeline labels into week counts.
// Goal timelines are stored as the user typed them ("6 months", "2 weeks");
// every view that needs a total-weeks figure must convert them the same way
// or progress percentages drift between screens.
package timeline

import (
	"math"
	"strconv"
	"strings"
)

// DefaultWeeks is assumed when a label cannot be parsed.
const DefaultWeeks = 12

const weeksPerMonth = 4.33

// ParseWeeks converts a timeline label into an integer week count, always at
// least 1. Recognized units are "week" and "month" (prefix match, so plurals
// work). Anything else, including a missing unit token or a non-positive
// count like "0 weeks", falls back to DefaultWeeks.
func ParseWeeks(label string) int {
	parts := strings.Fields(strings.ToLower(strings.TrimSpace(label)))
	if len(parts) < 2 {
		return DefaultWeeks
	}
	value, err := strconv.Atoi(parts[0])
	if err != nil || value <= 0 {
		return DefaultWeeks
	}
	switch {
	case strings.HasPrefix(parts[1], "month"):
		return int(math.Round(float64(value) * weeksPerMonth))
	case strings.HasPrefix(parts[1], "week"):
		return value
	}
	return DefaultWeeks
}

// FormatWeeks renders a week count back into a label, preferring months for
// longer spans so planner output reads like a user-entered timeline.
func FormatWeeks(weeks int) string {
	if weeks <= 0 {
		weeks = 1
	}
	if weeks >= 9 {
		months := int(math.Round(float64(weeks) / weeksPerMonth))
		if months < 2 {
			months = 2
		}
		return strconv.Itoa(months) + " months"
	}
	if weeks == 1 {
		return "1 week"
	}
	return strconv.Itoa(weeks) + " weeks"
}
