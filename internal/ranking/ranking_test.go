package ranking

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRankOf(t *testing.T) {
	tests := []struct {
		score int
		want  string
	}{
		{3500, "SSS"},
		{3000, "SSS"},
		{2999, "SS"},
		{2000, "S"},
		{1983, "A+"},
		{1700, "A+"},
		{1699, "A"},
		{1200, "A-"},
		{1000, "B+"},
		{800, "B"},
		{600, "B-"},
		{450, "C+"},
		{300, "C"},
		{150, "C-"},
		{149, "D"},
		{0, "D"},
		{-20, "D"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, RankOf(tt.score), "score %d", tt.score)
	}
}

func TestTiersDescending(t *testing.T) {
	assert.Len(t, Tiers, 13)
	for i := 1; i < len(Tiers); i++ {
		assert.Greater(t, Tiers[i-1].MinScore, Tiers[i].MinScore)
	}
	for _, tier := range Tiers {
		assert.Contains(t, rankPhrases, tier.Rank)
	}
}

func TestArchetypeOf(t *testing.T) {
	tests := []struct {
		accuracy float64
		wpm      int
		want     Archetype
	}{
		{100, 80, PerfectFast},
		{100, 79, PerfectNormal},
		{100, 40, PerfectNormal},
		{100, 39, PerfectSlow},
		{99.99, 60, AccurateFast},
		{95, 59, AccurateNormal},
		{95, 30, AccurateNormal},
		{95, 29, AccurateSlow},
		{94.99, 60, BalancedFast},
		{80, 59, BalancedNormal},
		{79.99, 60, SpeedFocused},
		{50, 30, Developing},
		{0, 0, Beginner},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ArchetypeOf(tt.accuracy, tt.wpm), "accuracy %.2f wpm %d", tt.accuracy, tt.wpm)
	}
}

func TestTitleOf(t *testing.T) {
	tests := []struct {
		name     string
		accuracy float64
		wpm      int
		rank     string
		want     string
	}{
		{"perfect fast", 100, 90, "S", "Masterful Perfectionist Lightning Typist"},
		{"perfect slow", 100, 10, "D", "Entry-level Perfectionist Deliberate Typist"},
		{"accurate fast uses speed and accuracy", 98.5, 105, "A", "Lightning Precise Typist"},
		{"accurate normal", 96, 45, "B", "Standard Accurate Typist"},
		{"accurate slow", 95, 10, "C", "Accurate Novice Typist"},
		{"balanced fast", 85, 65, "A-", "Advanced Swift Typist"},
		{"balanced normal", 85, 20, "B-", "Ordinary Typist"},
		{"speed focused", 50, 85, "C+", "High-speed Unpolished Typist"},
		{"developing", 50, 35, "C-", "Growing Fledgling Typist"},
		{"beginner", 30, 5, "D", "Entry-level Typing Beginner"},
		{"unknown rank", 85, 20, "Z", "Unknown Typist"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TitleOf(tt.accuracy, tt.wpm, tt.rank))
		})
	}
}

func TestEvaluate(t *testing.T) {
	got := Evaluate(1983, 100, 120)
	assert.Equal(t, "A+", got.Rank)
	assert.Equal(t, "Excellent Perfectionist Lightning Typist", got.Title)
}

func TestComment(t *testing.T) {
	assert.Equal(t, "Perfect!", Comment(100))
	assert.Equal(t, "Excellent!", Comment(95))
	assert.Equal(t, "Great!", Comment(90))
	assert.Equal(t, "Good!", Comment(80))
	assert.Equal(t, "Not bad!", Comment(70))
	assert.Equal(t, "Keep trying!", Comment(60))
	assert.Equal(t, "Try again!", Comment(59.99))
}
