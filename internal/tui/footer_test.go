package tui

import (
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/typerank/internal/model"
	"github.com/verte-zerg/typerank/internal/session"
)

func TestRenderFooterFormats(t *testing.T) {
	snap := session.Snapshot{
		Lifecycle:      session.Playing,
		Index:          1,
		TotalQuestions: 5,
		Elapsed:        12300 * time.Millisecond,
		Results:        make([]model.QuestionResult, 1),
	}
	last := &model.HistoryRecord{
		Result:         model.AggregateResult{TotalScore: 1983, AverageAccuracy: 97.8},
		RankEvaluation: model.RankEvaluation{Rank: "A+"},
	}
	out := renderFooter(snap, last)
	if !containsAll(out, []string{"Question 2/5", "Elapsed 12.3s", "Done 1", "Last A+ · 1983 pts · 97.8%"}) {
		t.Fatalf("footer missing expected segments: %s", out)
	}
}

func TestRenderFooterTimeMode(t *testing.T) {
	snap := session.Snapshot{
		Lifecycle:    session.Playing,
		Index:        3,
		Remaining:    9600 * time.Millisecond,
		HasRemaining: true,
	}
	out := renderFooter(snap, nil)
	if !containsAll(out, []string{"Question 4", "Time left 10s"}) {
		t.Fatalf("footer missing expected segments: %s", out)
	}
	if strings.Contains(out, "Last") || strings.Contains(out, "/") {
		t.Fatalf("unexpected segments: %s", out)
	}
}

func TestRenderFooterEmptyWhenIdle(t *testing.T) {
	if out := renderFooter(session.Snapshot{Lifecycle: session.Ready}, nil); out != "" {
		t.Fatalf("expected empty footer, got %q", out)
	}
}

func containsAll(haystack string, needles []string) bool {
	for _, needle := range needles {
		if !strings.Contains(haystack, needle) {
			return false
		}
	}
	return true
}
