// Package ranking maps scores to rank tiers and titles.
package ranking

import "github.com/verte-zerg/typerank/internal/model"

// Tier is a named score bracket.
type Tier struct {
	Rank     string
	MinScore int
}

// Tiers is ordered by descending MinScore.
var Tiers = []Tier{
	{Rank: "SSS", MinScore: 3000},
	{Rank: "SS", MinScore: 2500},
	{Rank: "S", MinScore: 2000},
	{Rank: "A+", MinScore: 1700},
	{Rank: "A", MinScore: 1400},
	{Rank: "A-", MinScore: 1200},
	{Rank: "B+", MinScore: 1000},
	{Rank: "B", MinScore: 800},
	{Rank: "B-", MinScore: 600},
	{Rank: "C+", MinScore: 450},
	{Rank: "C", MinScore: 300},
	{Rank: "C-", MinScore: 150},
	{Rank: "D", MinScore: 0},
}

// TierOf returns the highest tier whose threshold the score reaches.
// Scores below every threshold fall into the lowest tier.
func TierOf(score int) Tier {
	for _, t := range Tiers {
		if score >= t.MinScore {
			return t
		}
	}
	return Tiers[len(Tiers)-1]
}

// RankOf returns the rank label for a score.
func RankOf(score int) string {
	return TierOf(score).Rank
}

// Evaluate returns the rank and title for a session result.
func Evaluate(score int, accuracy float64, wpm int) model.RankEvaluation {
	rank := RankOf(score)
	return model.RankEvaluation{
		Rank:  rank,
		Title: TitleOf(accuracy, wpm, rank),
	}
}

// Comment is a short verdict on an accuracy value.
func Comment(accuracy float64) string {
	switch {
	case accuracy == 100:
		return "Perfect!"
	case accuracy >= 95:
		return "Excellent!"
	case accuracy >= 90:
		return "Great!"
	case accuracy >= 80:
		return "Good!"
	case accuracy >= 70:
		return "Not bad!"
	case accuracy >= 60:
		return "Keep trying!"
	default:
		return "Try again!"
	}
}
