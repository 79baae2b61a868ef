package stats

import (
	"fmt"
	"math"

	"github.com/verte-zerg/typerank/internal/model"
)

// Metric compares one value between two sessions.
type Metric struct {
	Current float64
	Past    float64
	Diff    string
	// Change is the relative change; empty for metrics where it is not reported.
	Change string
	Better bool
}

// Comparison compares two aggregate results metric by metric.
type Comparison struct {
	Score    Metric
	Accuracy Metric
	WPM      Metric
	CPM      Metric
	Time     Metric
}

// Compare reports how current differs from past. Lower time is better.
func Compare(current, past model.AggregateResult) Comparison {
	return Comparison{
		Score: countMetric(float64(current.TotalScore), float64(past.TotalScore)),
		Accuracy: Metric{
			Current: current.AverageAccuracy,
			Past:    past.AverageAccuracy,
			Diff:    Difference(current.AverageAccuracy, past.AverageAccuracy, true),
			Better:  current.AverageAccuracy > past.AverageAccuracy,
		},
		WPM: countMetric(float64(current.TotalWPM), float64(past.TotalWPM)),
		CPM: countMetric(float64(current.TotalCPM), float64(past.TotalCPM)),
		Time: Metric{
			Current: current.TotalElapsedTime,
			Past:    past.TotalElapsedTime,
			Diff:    Difference(current.TotalElapsedTime, past.TotalElapsedTime, false),
			Better:  current.TotalElapsedTime < past.TotalElapsedTime,
		},
	}
}

func countMetric(current, past float64) Metric {
	return Metric{
		Current: current,
		Past:    past,
		Diff:    Difference(current, past, false),
		Change:  PercentageChange(current, past),
		Better:  current > past,
	}
}

// Difference formats current-past with an explicit plus sign. Percentages
// keep one decimal, other values are rounded to integers.
func Difference(current, past float64, percentage bool) string {
	diff := current - past
	sign := ""
	if diff > 0 {
		sign = "+"
	}
	if percentage {
		return fmt.Sprintf("%s%.1f%%", sign, diff)
	}
	return fmt.Sprintf("%s%d", sign, int(math.Round(diff)))
}

// PercentageChange formats the relative change from past to current.
func PercentageChange(current, past float64) string {
	if past == 0 {
		return "+∞%"
	}
	change := (current - past) / past * 100
	sign := ""
	if change > 0 {
		sign = "+"
	}
	return fmt.Sprintf("%s%.1f%%", sign, change)
}
