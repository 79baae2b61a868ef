package stats

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/verte-zerg/typerank/internal/history"
	"github.com/verte-zerg/typerank/internal/model"
)

// ReportOptions controls report rendering.
type ReportOptions struct {
	Color bool
	// Width bounds the trend line; zero means TerminalWidth.
	Width int
	Now   time.Time
}

func (o ReportOptions) now() time.Time {
	if o.Now.IsZero() {
		return time.Now()
	}
	return o.Now
}

func (o ReportOptions) width() int {
	if o.Width > 0 {
		return o.Width
	}
	return TerminalWidth()
}

// RenderStatistics writes a statistics block for one bucket.
func RenderStatistics(w io.Writer, title string, st history.Statistics) error {
	if _, err := fmt.Fprintf(w, "%s (%d sessions)\n", title, st.Count); err != nil {
		return err
	}
	if st.Count == 0 {
		_, err := fmt.Fprintln(w, "  no sessions recorded")
		return err
	}
	rows := [][]string{
		{"Score", strconv.Itoa(st.AverageScore), strconv.Itoa(st.BestScore)},
		{"Accuracy", formatPercent(st.AverageAccuracy), formatPercent(st.BestAccuracy)},
		{"WPM", strconv.Itoa(st.AverageWPM), strconv.Itoa(st.BestWPM)},
		{"CPM", strconv.Itoa(st.AverageCPM), strconv.Itoa(st.BestCPM)},
	}
	for _, line := range formatTable([]string{"", "Average", "Best"}, rows, rightAligned(1, 2)) {
		if _, err := fmt.Fprintln(w, "  "+line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "  Play time: %s\n", FormatPlayTime(st.TotalPlayTime))
	return err
}

// RenderComparisonStats writes the per-input-method table.
func RenderComparisonStats(w io.Writer, cmp history.Comparison) error {
	headers := []string{"Method", "Sessions", "Avg score", "Best score", "Avg acc", "Avg WPM", "Avg CPM", "Play time"}
	buckets := []struct {
		name string
		st   history.Statistics
	}{
		{"keyboard", cmp.Keyboard},
		{"voice", cmp.Voice},
		{"other", cmp.Other},
		{"all", cmp.All},
	}
	rows := make([][]string, 0, len(buckets))
	for _, b := range buckets {
		rows = append(rows, []string{
			b.name,
			strconv.Itoa(b.st.Count),
			strconv.Itoa(b.st.AverageScore),
			strconv.Itoa(b.st.BestScore),
			formatPercent(b.st.AverageAccuracy),
			strconv.Itoa(b.st.AverageWPM),
			strconv.Itoa(b.st.AverageCPM),
			FormatPlayTime(b.st.TotalPlayTime),
		})
	}
	for _, line := range formatTable(headers, rows, rightAligned(1, 2, 3, 4, 5, 6, 7)) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderHistory writes one row per record, newest first.
func RenderHistory(w io.Writer, records []model.HistoryRecord, opts ReportOptions) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, "No history yet.")
		return err
	}
	now := opts.now()
	headers := []string{"ID", "When", "Method", "Mode", "Difficulty", "Rank", "Score", "Acc", "WPM", "CPM"}
	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		rows = append(rows, []string{
			ShortID(rec.ID),
			humanize.RelTime(rec.Timestamp, now, "ago", "from now"),
			string(rec.InputMethod),
			fmt.Sprintf("%s %d", rec.Mode, rec.ModeValue),
			string(rec.Difficulty),
			rec.RankEvaluation.Rank,
			strconv.Itoa(rec.Result.TotalScore),
			formatPercent(rec.Result.AverageAccuracy),
			strconv.Itoa(rec.Result.TotalWPM),
			strconv.Itoa(rec.Result.TotalCPM),
		})
	}
	for _, line := range formatTable(headers, rows, rightAligned(6, 7, 8, 9)) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderRecord writes a record with its per-question breakdown.
func RenderRecord(w io.Writer, rec model.HistoryRecord, opts ReportOptions) error {
	r := rec.Result
	header := []string{
		fmt.Sprintf("Record %s", rec.ID),
		fmt.Sprintf("Played %s (%s)", rec.Timestamp.Local().Format(time.DateTime), humanize.RelTime(rec.Timestamp, opts.now(), "ago", "from now")),
		fmt.Sprintf("Rank %s, %s", rec.RankEvaluation.Rank, rec.RankEvaluation.Title),
		fmt.Sprintf("Mode %s %d, difficulty %s, input %s", rec.Mode, rec.ModeValue, rec.Difficulty, rec.InputMethod),
		fmt.Sprintf("Score %d, accuracy %s, %d WPM, %d CPM, %s", r.TotalScore, formatPercent(r.AverageAccuracy), r.TotalWPM, r.TotalCPM, FormatPlayTime(r.TotalElapsedTime)),
		"",
	}
	for _, line := range header {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	rows := make([][]string, 0, len(r.Results))
	for i, q := range r.Results {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			string(q.Difficulty),
			strconv.Itoa(q.Score),
			formatPercent(q.Accuracy),
			strconv.Itoa(q.WPM),
			strconv.FormatFloat(q.ElapsedTime, 'f', 1, 64) + "s",
			q.TargetText,
		})
	}
	for _, line := range formatTable([]string{"#", "Difficulty", "Score", "Acc", "WPM", "Time", "Text"}, rows, rightAligned(0, 2, 3, 4, 5).clipped(opts.width())) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderComparison writes a metric-by-metric comparison of two results.
func RenderComparison(w io.Writer, cmp Comparison, opts ReportOptions) error {
	metrics := []struct {
		name   string
		m      Metric
		format func(float64) string
	}{
		{"Score", cmp.Score, formatCount},
		{"Accuracy", cmp.Accuracy, formatPercent},
		{"WPM", cmp.WPM, formatCount},
		{"CPM", cmp.CPM, formatCount},
		{"Time", cmp.Time, FormatPlayTime},
	}
	rows := make([][]string, 0, len(metrics))
	for _, it := range metrics {
		code := ""
		switch {
		case it.m.Better:
			code = colorGreen
		case it.m.Current != it.m.Past:
			code = colorRed
		}
		rows = append(rows, []string{
			it.name,
			it.format(it.m.Current),
			it.format(it.m.Past),
			paint(it.m.Diff, code, opts.Color),
			it.m.Change,
		})
	}
	for _, line := range formatTable([]string{"Metric", "Current", "Past", "Diff", "Change"}, rows, rightAligned(1, 2, 3, 4)) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderTrend writes a score sparkline over records, oldest on the left,
// smoothed with the given window and clipped to the report width.
func RenderTrend(w io.Writer, records []model.HistoryRecord, window int, opts ReportOptions) error {
	series := MovingAverage(ScoreSeries(records), window)
	if len(series) == 0 {
		return nil
	}
	const label = "Score trend "
	if limit := opts.width() - len(label); limit > 0 && len(series) > limit {
		series = series[len(series)-limit:]
	}
	_, err := fmt.Fprintln(w, label+Sparkline(series))
	return err
}

// ShortID trims a record ID for tables.
func ShortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}

// FormatPlayTime renders seconds as a compact duration.
func FormatPlayTime(seconds float64) string {
	d := time.Duration(seconds * float64(time.Second)).Round(100 * time.Millisecond)
	if d >= time.Minute {
		d = d.Round(time.Second)
	}
	return d.String()
}

func formatPercent(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64) + "%"
}

func formatCount(v float64) string {
	return humanize.Comma(int64(v))
}
