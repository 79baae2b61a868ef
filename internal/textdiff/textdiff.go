// Package textdiff compares typed text against a target using edit distance.
package textdiff

import (
	"math"
	"regexp"
	"strings"
)

var multiSpace = regexp.MustCompile(` {2,}`)

// Normalize trims surrounding whitespace and collapses runs of plain spaces.
func Normalize(text string) string {
	return multiSpace.ReplaceAllString(strings.TrimSpace(text), " ")
}

// Result holds the accuracy of an input against its target.
type Result struct {
	Accuracy     float64
	CorrectChars int
	TotalChars   int
	EditDistance int
}

// EditDistance returns the Levenshtein distance between the normalized strings.
func EditDistance(target, input string) int {
	t := []rune(Normalize(target))
	in := []rune(Normalize(input))
	return table(t, in)[len(t)][len(in)]
}

// Accuracy scores input against target. Lengths are counted in runes.
func Accuracy(target, input string) Result {
	t := []rune(Normalize(target))
	in := []rune(Normalize(input))
	if len(t) == 0 {
		return Result{EditDistance: len(in)}
	}
	dist := table(t, in)[len(t)][len(in)]
	correct := len(t) - dist
	if correct < 0 {
		correct = 0
	}
	return Result{
		Accuracy:     Round2(float64(correct) / float64(len(t)) * 100),
		CorrectChars: correct,
		TotalChars:   len(t),
		EditDistance: dist,
	}
}

// table builds the (m+1)x(n+1) edit distance matrix.
func table(target, input []rune) [][]int {
	m, n := len(target), len(input)
	dp := make([][]int, m+1)
	for i := range dp {
		dp[i] = make([]int, n+1)
		dp[i][0] = i
	}
	for j := 0; j <= n; j++ {
		dp[0][j] = j
	}
	for i := 1; i <= m; i++ {
		for j := 1; j <= n; j++ {
			if target[i-1] == input[j-1] {
				dp[i][j] = dp[i-1][j-1]
				continue
			}
			dp[i][j] = 1 + min(dp[i-1][j], dp[i][j-1], dp[i-1][j-1])
		}
	}
	return dp
}

// Round2 rounds to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
