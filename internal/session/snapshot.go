package session

import (
	"time"

	"github.com/verte-zerg/typerank/internal/model"
)

// Snapshot is a read-only view of a session.
type Snapshot struct {
	Lifecycle       Lifecycle
	Config          model.SessionConfig
	CurrentQuestion *model.Question
	Index           int
	// TotalQuestions is the pool size in count mode and zero in time mode.
	TotalQuestions int
	Input          string
	InputEvents    int
	Results        []model.QuestionResult
	Aggregate      *model.AggregateResult
	Elapsed        time.Duration
	Remaining      time.Duration
	HasRemaining   bool
}

// Snapshot copies the current state.
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		Lifecycle:   s.lifecycle,
		Config:      s.cfg,
		Index:       s.index,
		Input:       s.input,
		InputEvents: s.inputEvents,
		Results:     append([]model.QuestionResult(nil), s.results...),
		Elapsed:     s.Elapsed(),
	}
	if s.index < len(s.questions) {
		q := s.questions[s.index]
		snap.CurrentQuestion = &q
	}
	if s.cfg.Mode == model.ModeCount {
		snap.TotalQuestions = len(s.questions)
	}
	if s.aggregate != nil {
		agg := *s.aggregate
		snap.Aggregate = &agg
	}
	snap.Remaining, snap.HasRemaining = s.Remaining()
	return snap
}
