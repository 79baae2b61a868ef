package tui

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/typerank/internal/corpus"
	"github.com/verte-zerg/typerank/internal/history"
	"github.com/verte-zerg/typerank/internal/model"
	"github.com/verte-zerg/typerank/internal/session"
)

type testClock struct{ now time.Time }

func (c *testClock) Now() time.Time { return c.now }

func newTestModel(t *testing.T, cfg model.SessionConfig, opts Options) (*Model, *testClock) {
	t.Helper()
	c, err := corpus.New([]model.Question{
		{ID: 1, Text: "ab", Difficulty: model.DifficultyEasy},
		{ID: 2, Text: "ab", Difficulty: model.DifficultyEasy},
		{ID: 3, Text: "ab", Difficulty: model.DifficultyEasy},
	}, corpus.NewSeededSampler(3))
	if err != nil {
		t.Fatalf("corpus: %v", err)
	}
	clock := &testClock{now: time.Date(2026, 2, 3, 4, 5, 6, 0, time.UTC)}
	sess, err := session.New(c, cfg, session.WithClock(clock.Now))
	if err != nil {
		t.Fatalf("session: %v", err)
	}
	return NewModel(sess, opts), clock
}

func typeText(m *Model, text string) {
	for _, r := range text {
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func TestModelPlaysCountSession(t *testing.T) {
	repo := history.NewRepository(history.NewMemoryStore())
	m, clock := newTestModel(t, model.SessionConfig{Mode: model.ModeCount, ModeValue: 2, Difficulty: model.DifficultyEasy}, Options{Repo: repo})

	typeText(m, "a")
	if m.sess.Lifecycle() != session.Playing {
		t.Fatalf("typing should start the session, got %s", m.sess.Lifecycle())
	}
	typeText(m, "b")
	clock.now = clock.now.Add(2 * time.Second)
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.input.Value() != "" {
		t.Fatalf("expected input cleared after submit, got %q", m.input.Value())
	}

	typeText(m, "ab")
	clock.now = clock.now.Add(2 * time.Second)
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	if m.sess.Lifecycle() != session.Finished {
		t.Fatalf("expected finished, got %s", m.sess.Lifecycle())
	}
	if m.outcome == nil || m.outcome.saved == nil {
		t.Fatalf("expected saved outcome, got %+v", m.outcome)
	}
	if m.outcome.method != model.InputKeyboard || !m.outcome.detected {
		t.Fatalf("expected detected keyboard input, got %s", m.outcome.method)
	}
	records := repo.All(context.Background())
	if len(records) != 1 {
		t.Fatalf("expected 1 saved record, got %d", len(records))
	}
	if records[0].Result.QuestionCount != 2 || records[0].Result.AverageAccuracy != 100 {
		t.Fatalf("unexpected result: %+v", records[0].Result)
	}
	if records[0].RankEvaluation.Rank == "" || records[0].RankEvaluation.Title == "" {
		t.Fatalf("expected rank evaluation, got %+v", records[0].RankEvaluation)
	}
	if m.View() == "" {
		t.Fatalf("expected outcome view")
	}

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	if m.sess.Lifecycle() != session.Ready || m.outcome != nil {
		t.Fatalf("expected reset to ready")
	}
	if m.last == nil || m.last.ID != records[0].ID {
		t.Fatalf("expected last record to be kept for the footer")
	}
}

func TestModelBlankSubmitIgnored(t *testing.T) {
	m, _ := newTestModel(t, model.SessionConfig{Mode: model.ModeCount, ModeValue: 1}, Options{})
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.sess.Lifecycle() != session.Playing {
		t.Fatalf("enter should start the session")
	}
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.sess.Lifecycle() != session.Playing {
		t.Fatalf("blank submit should be ignored")
	}
}

func TestModelTickExpiresTimeMode(t *testing.T) {
	m, clock := newTestModel(t, model.SessionConfig{Mode: model.ModeTime, ModeValue: 5}, Options{InputMethod: model.InputVoice})
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	typeText(m, "a")

	clock.now = clock.now.Add(time.Second)
	if _, cmd := m.Update(tickMsg(clock.now)); cmd == nil {
		t.Fatalf("expected another tick while time remains")
	}
	clock.now = clock.now.Add(5 * time.Second)
	if _, cmd := m.Update(tickMsg(clock.now)); cmd != nil {
		t.Fatalf("expected ticking to stop once expired")
	}
	if m.sess.Lifecycle() != session.Finished {
		t.Fatalf("expected finished after expiry")
	}
	if m.outcome.method != model.InputVoice || m.outcome.detected {
		t.Fatalf("expected forced input method, got %s", m.outcome.method)
	}
	if m.outcome.aggregate.QuestionCount != 1 {
		t.Fatalf("expected pending answer to be scored, got %d", m.outcome.aggregate.QuestionCount)
	}
}

func TestModelEscFinishesEarly(t *testing.T) {
	repo := history.NewRepository(history.NewMemoryStore())
	m, _ := newTestModel(t, model.SessionConfig{Mode: model.ModeCount, ModeValue: 3}, Options{Repo: repo})
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.sess.Lifecycle() != session.Finished {
		t.Fatalf("expected finished")
	}
	if m.outcome.saved != nil {
		t.Fatalf("empty sessions should not be saved")
	}
	if len(repo.All(context.Background())) != 0 {
		t.Fatalf("expected empty history")
	}
}

func TestModelComparesWithPreviousBest(t *testing.T) {
	repo := history.NewRepository(history.NewMemoryStore())
	ctx := context.Background()
	if _, err := repo.Save(ctx, history.Entry{
		InputMethod: model.InputKeyboard,
		Mode:        model.ModeCount,
		ModeValue:   1,
		Difficulty:  model.DifficultyEasy,
		Result:      model.AggregateResult{TotalScore: 1, QuestionCount: 1},
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	m, clock := newTestModel(t, model.SessionConfig{Mode: model.ModeCount, ModeValue: 1}, Options{Repo: repo, InputMethod: model.InputKeyboard})
	typeText(m, "ab")
	clock.now = clock.now.Add(time.Second)
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.outcome == nil || m.outcome.comparison == nil {
		t.Fatalf("expected comparison with previous best")
	}
	if !m.outcome.comparison.Score.Better {
		t.Fatalf("expected better score than seeded record")
	}
}
