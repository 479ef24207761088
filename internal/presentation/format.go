package presentation

import "fmt"

// FormatPercent renders a 0–1 rate as a percentage with exactly one decimal
// place.
func FormatPercent(rate float64) string {
	return fmt.Sprintf("%.1f%%", rate*100)
}

// FormatHours renders a duration in hours with exactly one decimal place and
// an hours unit.
func FormatHours(hours float64) string {
	return fmt.Sprintf("%.1fh", hours)
}

// FormatCount renders an integer metric for the stat cards.
func FormatCount(n int) string {
	return fmt.Sprintf("%d", n)
}
