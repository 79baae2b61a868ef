// Package stats contains speed, scoring and comparison calculations and reporting.
package stats

import (
	"log/slog"
	"math"
	"time"
)

// charsPerWord is the word length convention for text without word delimiters.
const charsPerWord = 5.0

// WPM returns words per minute for charCount characters typed over elapsed.
func WPM(charCount int, elapsed time.Duration) int {
	minutes, ok := minutesOf(elapsed)
	if !ok {
		return 0
	}
	return int(math.Round(float64(charCount) / charsPerWord / minutes))
}

// CPM returns characters per minute for charCount characters typed over elapsed.
func CPM(charCount int, elapsed time.Duration) int {
	minutes, ok := minutesOf(elapsed)
	if !ok {
		return 0
	}
	return int(math.Round(float64(charCount) / minutes))
}

func minutesOf(elapsed time.Duration) (float64, bool) {
	if elapsed <= 0 {
		slog.Debug("speed metric requested for non-positive elapsed time", "elapsed", elapsed)
		return 0, false
	}
	return elapsed.Minutes(), true
}
