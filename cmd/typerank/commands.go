package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/typerank/internal/history"
	"github.com/verte-zerg/typerank/internal/inputmethod"
	"github.com/verte-zerg/typerank/internal/model"
	"github.com/verte-zerg/typerank/internal/ranking"
	"github.com/verte-zerg/typerank/internal/stats"
	"github.com/verte-zerg/typerank/internal/statsui"
	"github.com/verte-zerg/typerank/internal/textdiff"
)

const defaultTrendWindow = 5

var (
	scoreTarget     string
	scoreInput      string
	scoreElapsed    time.Duration
	scoreDifficulty string
	scoreEvents     int

	filterMethod     string
	filterMode       string
	filterDifficulty string
	filterLast       int

	statsWindow int
	statsPlain  bool
	forceColor  bool

	exportOut  string
	clearYes   bool
	compareKey string
)

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func reportOptions(w io.Writer) stats.ReportOptions {
	return stats.ReportOptions{Color: stats.ShouldUseColor(w, forceColor), Now: time.Now()}
}

func newScoreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score a single answer without playing",
		Args:  cobra.NoArgs,
		RunE:  runScoreCmd,
	}
	cmd.Flags().StringVar(&scoreTarget, "target", "", "text that should have been typed")
	cmd.Flags().StringVar(&scoreInput, "input", "", "text that was typed")
	cmd.Flags().DurationVar(&scoreElapsed, "elapsed", 0, "time taken, e.g. 4.5s")
	cmd.Flags().StringVar(&scoreDifficulty, "difficulty", string(model.DifficultyEasy), "question difficulty")
	cmd.Flags().IntVar(&scoreEvents, "events", 0, "input event count used to guess the input method")
	_ = cmd.MarkFlagRequired("target")
	return cmd
}

func runScoreCmd(cmd *cobra.Command, _ []string) error {
	difficulty, err := model.ParseDifficulty(scoreDifficulty)
	if err != nil {
		return fmt.Errorf("invalid --difficulty: %w", err)
	}
	if scoreElapsed < 0 {
		return fmt.Errorf("--elapsed must be >= 0")
	}
	r := stats.QuestionResult(scoreTarget, scoreInput, difficulty, scoreElapsed, scoreEvents)
	eval := ranking.Evaluate(r.Score, r.Accuracy, r.WPM)
	counts := textdiff.Summarize(textdiff.Diff(scoreTarget, scoreInput))

	w := cmd.OutOrStdout()
	lines := []string{
		fmt.Sprintf("Accuracy   %.2f%%", r.Accuracy),
		fmt.Sprintf("Speed      %d WPM, %d CPM", r.WPM, r.CPM),
		fmt.Sprintf("Score      %d", r.Score),
		fmt.Sprintf("Rank       %s, %s", eval.Rank, eval.Title),
		fmt.Sprintf("Comment    %s", ranking.Comment(r.Accuracy)),
		fmt.Sprintf("Diff       %d correct, %d wrong, %d missing, %d extra", counts.Correct, counts.Incorrect, counts.Missing, counts.Extra),
	}
	if scoreEvents > 0 {
		lines = append(lines, fmt.Sprintf("Input      %s (%.0f%% confidence)",
			inputmethod.Classify(scoreEvents, r.CharCount), inputmethod.Confidence(scoreEvents, r.CharCount)*100))
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&filterMethod, "input-method", "", "input method filter (all, keyboard, voice, other)")
	cmd.Flags().StringVar(&filterMode, "mode", "", "mode filter (count or time)")
	cmd.Flags().StringVar(&filterDifficulty, "difficulty", "", "difficulty filter (all, easy, medium, hard)")
	cmd.Flags().IntVar(&filterLast, "last", 0, "limit to last N sessions")
}

func parseFilter() (history.Filter, error) {
	method, err := model.ParseInputMethod(filterMethod)
	if err != nil {
		return history.Filter{}, fmt.Errorf("invalid --input-method: %w", err)
	}
	var mode model.Mode
	if strings.TrimSpace(filterMode) != "" {
		if mode, err = model.ParseMode(filterMode); err != nil {
			return history.Filter{}, fmt.Errorf("invalid --mode: %w", err)
		}
	}
	difficulty, err := model.ParseDifficulty(filterDifficulty)
	if err != nil {
		return history.Filter{}, fmt.Errorf("invalid --difficulty: %w", err)
	}
	if filterLast < 0 {
		return history.Filter{}, fmt.Errorf("--last must be >= 0")
	}
	return history.Filter{InputMethod: method, Mode: mode, Difficulty: difficulty}, nil
}

func limitRecords(records []model.HistoryRecord, last int) []model.HistoryRecord {
	if last > 0 && len(records) > last {
		return records[:last]
	}
	return records
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show stats",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	addFilterFlags(cmd)
	cmd.Flags().IntVar(&statsWindow, "window", defaultTrendWindow, "moving average window for the score trend")
	cmd.Flags().BoolVar(&statsPlain, "plain", false, "print a text report instead of the interactive browser")
	cmd.Flags().BoolVar(&forceColor, "color", false, "force colored output")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	if _, err := loadSettings(cmd); err != nil {
		return err
	}
	filter, err := parseFilter()
	if err != nil {
		return err
	}
	if statsWindow < 1 {
		return fmt.Errorf("--window must be > 0")
	}
	ctx := commandContext(cmd)
	repo, closeRepo, err := openRepository(ctx)
	if err != nil {
		return err
	}
	defer closeRepo()

	w := cmd.OutOrStdout()
	if !statsPlain && isTerminal(w) {
		m := statsui.NewModel(repo, statsui.Config{Filter: filter, Last: filterLast, TrendWindow: statsWindow})
		program := tea.NewProgram(m, tea.WithAltScreen())
		if _, err := program.Run(); err != nil {
			return fmt.Errorf("failed to run stats TUI: %w", err)
		}
		return nil
	}
	return writeStatsReport(w, repo.All(ctx), filter)
}

func writeStatsReport(w io.Writer, all []model.HistoryRecord, filter history.Filter) error {
	records := limitRecords(filter.Apply(all), filterLast)
	title := "All sessions"
	if filter.InputMethod != "" && filter.InputMethod != model.InputAll {
		title = fmt.Sprintf("%s sessions", filter.InputMethod)
	}
	if err := stats.RenderStatistics(w, title, history.Summarize(records)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	pool := filter
	pool.InputMethod = model.InputAll
	if err := stats.RenderComparisonStats(w, history.Compare(limitRecords(pool.Apply(all), filterLast))); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := stats.RenderTrend(w, records, statsWindow, stats.ReportOptions{}); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List, inspect and manage saved sessions",
	}
	cmd.AddCommand(newHistoryListCmd())
	cmd.AddCommand(&cobra.Command{
		Use:   "show <id>",
		Short: "Show one session with its questions",
		Args:  cobra.ExactArgs(1),
		RunE:  runHistoryShowCmd,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "delete <id>",
		Short: "Delete one session",
		Args:  cobra.ExactArgs(1),
		RunE:  runHistoryDeleteCmd,
	})
	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every session",
		Args:  cobra.NoArgs,
		RunE:  runHistoryClearCmd,
	}
	clearCmd.Flags().BoolVar(&clearYes, "yes", false, "confirm deleting all history")
	cmd.AddCommand(clearCmd)

	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Export history as JSON",
		Args:  cobra.NoArgs,
		RunE:  runHistoryExportCmd,
	}
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output file (default: stdout)")
	cmd.AddCommand(exportCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "import <file>",
		Short: "Merge sessions from an exported JSON file",
		Args:  cobra.ExactArgs(1),
		RunE:  runHistoryImportCmd,
	})

	compareCmd := &cobra.Command{
		Use:   "compare <id> [other-id]",
		Short: "Compare a session with another one or with the best comparable session",
		Args:  cobra.RangeArgs(1, 2),
		RunE:  runHistoryCompareCmd,
	}
	compareCmd.Flags().StringVar(&compareKey, "by", string(history.SortByScore), "metric used to pick the best session (score, accuracy, wpm, cpm)")
	compareCmd.Flags().BoolVar(&forceColor, "color", false, "force colored output")
	cmd.AddCommand(compareCmd)
	return cmd
}

func newHistoryListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List sessions, newest first",
		Args:  cobra.NoArgs,
		RunE:  runHistoryListCmd,
	}
	addFilterFlags(cmd)
	return cmd
}

// withRepository loads settings, opens the repository and runs fn.
func withRepository(cmd *cobra.Command, fn func(context.Context, *history.Repository) error) error {
	if _, err := loadSettings(cmd); err != nil {
		return err
	}
	ctx := commandContext(cmd)
	repo, closeRepo, err := openRepository(ctx)
	if err != nil {
		return err
	}
	defer closeRepo()
	return fn(ctx, repo)
}

func runHistoryListCmd(cmd *cobra.Command, _ []string) error {
	filter, err := parseFilter()
	if err != nil {
		return err
	}
	return withRepository(cmd, func(ctx context.Context, repo *history.Repository) error {
		w := cmd.OutOrStdout()
		records := limitRecords(repo.Filter(ctx, filter), filterLast)
		if err := stats.RenderHistory(w, records, reportOptions(w)); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	})
}

// resolveRecord finds a record by full ID or by a unique ID prefix.
func resolveRecord(records []model.HistoryRecord, id string) (model.HistoryRecord, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return model.HistoryRecord{}, fmt.Errorf("session id is empty")
	}
	var matches []model.HistoryRecord
	for _, rec := range records {
		if rec.ID == id {
			return rec, nil
		}
		if strings.HasPrefix(rec.ID, id) {
			matches = append(matches, rec)
		}
	}
	switch len(matches) {
	case 0:
		return model.HistoryRecord{}, fmt.Errorf("session %q not found", id)
	case 1:
		return matches[0], nil
	default:
		return model.HistoryRecord{}, fmt.Errorf("session id %q is ambiguous (%d matches)", id, len(matches))
	}
}

func runHistoryShowCmd(cmd *cobra.Command, args []string) error {
	return withRepository(cmd, func(ctx context.Context, repo *history.Repository) error {
		rec, err := resolveRecord(repo.All(ctx), args[0])
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		if err := stats.RenderRecord(w, rec, reportOptions(w)); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	})
}

func runHistoryDeleteCmd(cmd *cobra.Command, args []string) error {
	return withRepository(cmd, func(ctx context.Context, repo *history.Repository) error {
		rec, err := resolveRecord(repo.All(ctx), args[0])
		if err != nil {
			return err
		}
		if _, err := repo.Delete(ctx, rec.ID); err != nil {
			return err
		}
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", stats.ShortID(rec.ID))
		return err
	})
}

func runHistoryClearCmd(cmd *cobra.Command, _ []string) error {
	if !clearYes {
		return fmt.Errorf("refusing to delete all history without --yes")
	}
	return withRepository(cmd, func(ctx context.Context, repo *history.Repository) error {
		if err := repo.Clear(ctx); err != nil {
			return err
		}
		_, err := fmt.Fprintln(cmd.OutOrStdout(), "History cleared")
		return err
	})
}

func runHistoryExportCmd(cmd *cobra.Command, _ []string) error {
	return withRepository(cmd, func(ctx context.Context, repo *history.Repository) error {
		data, err := repo.Export(ctx)
		if err != nil {
			return err
		}
		if exportOut == "" {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return err
		}
		if err := os.WriteFile(exportOut, append(data, '\n'), 0o644); err != nil {
			return fmt.Errorf("failed to write export: %w", err)
		}
		return nil
	})
}

func runHistoryImportCmd(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read import file: %w", err)
	}
	return withRepository(cmd, func(ctx context.Context, repo *history.Repository) error {
		added, err := repo.Import(ctx, data)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "Imported %d sessions\n", added)
		return err
	})
}

func runHistoryCompareCmd(cmd *cobra.Command, args []string) error {
	key, err := history.ParseSortKey(compareKey)
	if err != nil {
		return fmt.Errorf("invalid --by: %w", err)
	}
	return withRepository(cmd, func(ctx context.Context, repo *history.Repository) error {
		all := repo.All(ctx)
		current, err := resolveRecord(all, args[0])
		if err != nil {
			return err
		}
		var past model.HistoryRecord
		if len(args) == 2 {
			if past, err = resolveRecord(all, args[1]); err != nil {
				return err
			}
		} else {
			var ok bool
			past, ok = bestOther(repo.RecordsForComparison(ctx, current.InputMethod, current.Mode, current.Difficulty), current.ID, key)
			if !ok {
				return fmt.Errorf("no comparable session for %s", stats.ShortID(current.ID))
			}
		}
		w := cmd.OutOrStdout()
		if _, err := fmt.Fprintf(w, "%s vs %s\n", stats.ShortID(current.ID), stats.ShortID(past.ID)); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		if err := stats.RenderComparison(w, stats.Compare(current.Result, past.Result), reportOptions(w)); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	})
}

func bestOther(records []model.HistoryRecord, excludeID string, key history.SortKey) (model.HistoryRecord, bool) {
	others := make([]model.HistoryRecord, 0, len(records))
	for _, rec := range records {
		if rec.ID != excludeID {
			others = append(others, rec)
		}
	}
	return history.Best(others, key)
}

var questionsDifficulty string

func newQuestionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "questions",
		Short: "List the question corpus",
		Args:  cobra.NoArgs,
		RunE:  runQuestionsCmd,
	}
	cmd.Flags().StringVar(&questionsDifficulty, "difficulty", "", "difficulty filter (all, easy, medium, hard)")
	return cmd
}

func runQuestionsCmd(cmd *cobra.Command, _ []string) error {
	if _, err := loadSettings(cmd); err != nil {
		return err
	}
	difficulty, err := model.ParseDifficulty(questionsDifficulty)
	if err != nil {
		return fmt.Errorf("invalid --difficulty: %w", err)
	}
	c, err := loadCorpus()
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()
	questions := c.ByDifficulty(difficulty)
	if len(questions) == 0 {
		_, err := fmt.Fprintln(w, "No questions found.")
		return err
	}
	for _, q := range questions {
		if _, err := fmt.Fprintf(w, "%4d  %-6s  %s\n", q.ID, q.Difficulty, q.Text); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}
