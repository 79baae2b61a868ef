package stats

import (
	"math"
	"time"
	"unicode/utf8"

	"github.com/verte-zerg/typerank/internal/model"
	"github.com/verte-zerg/typerank/internal/textdiff"
)

const (
	accuracyWeight   = 500.0
	wpmWeight        = 3.5
	cpmWeight        = 0.5
	perfectBonus     = 1.25
	speedBonus       = 1.05
	speedBonusMinWPM = 150
)

// DifficultyMultiplier returns the score multiplier for a question difficulty.
func DifficultyMultiplier(d model.Difficulty) float64 {
	switch d {
	case model.DifficultyMedium:
		return 1.3
	case model.DifficultyHard:
		return 1.7
	default:
		return 1.0
	}
}

// Score combines accuracy and speed into a composite score.
//
// Accuracy and speed each carry half the weight and are added, not
// multiplied, so bonuses cannot stack into runaway values.
func Score(accuracy float64, wpm, cpm int, d model.Difficulty) int {
	ratio := accuracy / 100
	total := ratio*ratio*accuracyWeight + float64(wpm)*wpmWeight + float64(cpm)*cpmWeight
	if accuracy == 100 {
		total *= perfectBonus
	}
	if wpm >= speedBonusMinWPM {
		total *= speedBonus
	}
	total *= DifficultyMultiplier(d)
	return int(math.Round(total))
}

// AggregateScore returns the rounded mean score so sessions of different
// lengths stay comparable.
func AggregateScore(results []model.QuestionResult) int {
	if len(results) == 0 {
		return 0
	}
	sum := 0
	for _, r := range results {
		sum += r.Score
	}
	return int(math.Round(float64(sum) / float64(len(results))))
}

// QuestionResult scores one answer. Speed is measured on the typed runes,
// CharCount records the target length.
func QuestionResult(target, input string, d model.Difficulty, elapsed time.Duration, inputEvents int) model.QuestionResult {
	acc := textdiff.Accuracy(target, input)
	typed := utf8.RuneCountInString(input)
	wpm := WPM(typed, elapsed)
	cpm := CPM(typed, elapsed)
	return model.QuestionResult{
		TargetText:      target,
		UserInput:       input,
		Difficulty:      d,
		Accuracy:        acc.Accuracy,
		WPM:             wpm,
		CPM:             cpm,
		Score:           Score(acc.Accuracy, wpm, cpm, d),
		ElapsedTime:     textdiff.Round2(elapsed.Seconds()),
		CharCount:       utf8.RuneCountInString(target),
		InputEventCount: inputEvents,
	}
}

// Aggregate summarizes the results of a session played over totalElapsed.
func Aggregate(results []model.QuestionResult, totalElapsed time.Duration) model.AggregateResult {
	out := model.AggregateResult{Results: append([]model.QuestionResult{}, results...)}
	if len(results) == 0 {
		return out
	}
	var accSum float64
	for _, r := range results {
		accSum += r.Accuracy
		out.TotalChars += r.CharCount
		out.TotalInputEvents += r.InputEventCount
	}
	out.AverageAccuracy = textdiff.Round2(accSum / float64(len(results)))
	out.TotalWPM = WPM(out.TotalChars, totalElapsed)
	out.TotalCPM = CPM(out.TotalChars, totalElapsed)
	out.AverageScore = AggregateScore(results)
	out.TotalScore = out.AverageScore
	out.TotalElapsedTime = textdiff.Round2(totalElapsed.Seconds())
	out.QuestionCount = len(results)
	return out
}
