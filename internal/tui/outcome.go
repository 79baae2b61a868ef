package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/verte-zerg/typerank/internal/history"
	"github.com/verte-zerg/typerank/internal/inputmethod"
	"github.com/verte-zerg/typerank/internal/model"
	"github.com/verte-zerg/typerank/internal/ranking"
	"github.com/verte-zerg/typerank/internal/stats"
	"github.com/verte-zerg/typerank/internal/textdiff"
)

// outcome is everything shown once a session finishes.
type outcome struct {
	aggregate  model.AggregateResult
	method     model.InputMethod
	confidence float64
	detected   bool
	evaluation model.RankEvaluation
	comment    string

	// best is the previous best record for the same input method.
	best       *model.HistoryRecord
	comparison *stats.Comparison

	saved   *model.HistoryRecord
	saveErr error
}

func evaluate(agg model.AggregateResult, cfg model.SessionConfig, opts Options) *outcome {
	o := &outcome{
		aggregate:  agg,
		method:     opts.InputMethod,
		evaluation: ranking.Evaluate(agg.TotalScore, agg.AverageAccuracy, agg.TotalWPM),
		comment:    ranking.Comment(agg.AverageAccuracy),
	}
	if o.method == "" || o.method == model.InputAll {
		o.method = inputmethod.Classify(agg.TotalInputEvents, agg.TotalChars)
		o.confidence = inputmethod.Confidence(agg.TotalInputEvents, agg.TotalChars)
		o.detected = true
	}
	if opts.Repo == nil || agg.QuestionCount == 0 {
		return o
	}

	ctx := context.Background()
	if best, ok := opts.Repo.Best(ctx, history.SortByScore, o.method); ok {
		o.best = &best
		cmp := stats.Compare(agg, best.Result)
		o.comparison = &cmp
	}
	saved, err := opts.Repo.Save(ctx, history.Entry{
		InputMethod:    o.method,
		Mode:           cfg.Mode,
		ModeValue:      cfg.ModeValue,
		Difficulty:     cfg.Difficulty,
		Result:         agg,
		RankEvaluation: o.evaluation,
	})
	if err != nil {
		opts.Logger.Error("failed to save session", "error", err)
		o.saveErr = err
		return o
	}
	opts.Logger.Debug("session saved", "id", saved.ID, "score", agg.TotalScore, "rank", o.evaluation.Rank)
	o.saved = &saved
	return o
}

func (m *Model) renderOutcome() string {
	o := m.outcome
	if o == nil {
		return ""
	}
	agg := o.aggregate
	lines := []string{
		rankStyle.Render("Rank "+o.evaluation.Rank) + "  " + titleStyle.Render(o.evaluation.Title),
		o.comment,
		"",
		fmt.Sprintf("Score %d   Accuracy %.2f%%   %d WPM   %d CPM   %s",
			agg.TotalScore, agg.AverageAccuracy, agg.TotalWPM, agg.TotalCPM, stats.FormatPlayTime(agg.TotalElapsedTime)),
		describeMethod(o),
	}
	if agg.QuestionCount == 0 {
		lines = append(lines, "", pendingStyle.Render("No questions answered."))
	}
	if o.comparison != nil {
		lines = append(lines, "", renderComparison(*o.comparison))
	}
	for i, r := range agg.Results {
		if i == 0 {
			lines = append(lines, "")
		}
		lines = append(lines, renderResultLine(i, r, m.contentWidth()))
	}
	switch {
	case o.saveErr != nil:
		lines = append(lines, "", errorStyle.Render("Not saved: "+o.saveErr.Error()))
	case o.saved != nil:
		lines = append(lines, "", footerStyle.Render("Saved as "+stats.ShortID(o.saved.ID)))
	}
	lines = append(lines, "", pendingStyle.Render("r: play again  q: quit"))
	return strings.Join(lines, "\n")
}

func describeMethod(o *outcome) string {
	if !o.detected {
		return fmt.Sprintf("Input %s", o.method)
	}
	return fmt.Sprintf("Input %s (detected, %.0f%% confidence)", o.method, o.confidence*100)
}

func renderComparison(cmp stats.Comparison) string {
	metric := func(name string, m stats.Metric) string {
		text := name + " " + m.Diff
		if m.Change != "" {
			text += " (" + m.Change + ")"
		}
		if m.Better {
			return betterStyle.Render(text)
		}
		return text
	}
	return "vs best  " + strings.Join([]string{
		metric("score", cmp.Score),
		metric("acc", cmp.Accuracy),
		metric("wpm", cmp.WPM),
		metric("cpm", cmp.CPM),
	}, "  ")
}

func renderResultLine(i int, r model.QuestionResult, width int) string {
	entries := textdiff.Diff(r.TargetText, r.UserInput)
	counts := textdiff.Summarize(entries)
	summary := footerStyle.Render(fmt.Sprintf("%d pts · %.2f%% · %d WPM · %d wrong %d missing %d extra",
		r.Score, r.Accuracy, r.WPM, counts.Incorrect, counts.Missing, counts.Extra))
	prefix := fmt.Sprintf("%d. ", i+1)
	text := wrapStyledRunes(buildDiffRunes(entries), max(1, width-len(prefix)))
	return prefix + strings.ReplaceAll(text, "\n", "\n"+strings.Repeat(" ", len(prefix))) + "\n" + strings.Repeat(" ", len(prefix)) + summary
}
