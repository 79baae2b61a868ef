// Package session drives a multi-question typing session.
//
// A Session moves from Ready to Playing to Finished. Only Reset leaves
// Finished. Calls made in the wrong lifecycle state are ignored so that
// duplicate UI events cannot corrupt a session.
package session

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/verte-zerg/typerank/internal/model"
	"github.com/verte-zerg/typerank/internal/stats"
)

// Lifecycle is the coarse session state.
type Lifecycle string

const (
	Ready    Lifecycle = "ready"
	Playing  Lifecycle = "playing"
	Finished Lifecycle = "finished"
)

// TimeModePoolSize is how many questions a time-mode session draws up front
// so the pool outlasts the clock.
const TimeModePoolSize = 50

// ErrInvalidConfig reports a session configuration that cannot be played.
var ErrInvalidConfig = errors.New("invalid session config")

// QuestionSource draws questions without replacement.
type QuestionSource interface {
	RandomSubset(n int, d model.Difficulty) ([]model.Question, error)
}

// Option configures a Session.
type Option func(*Session)

// WithClock replaces the wall clock, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		s.now = now
	}
}

// Session is owned by a single caller and is not safe for concurrent use.
type Session struct {
	source QuestionSource
	now    func() time.Time

	cfg       model.SessionConfig
	lifecycle Lifecycle
	questions []model.Question
	index     int

	input       string
	inputEvents int
	results     []model.QuestionResult

	gameStart     time.Time
	gameEnd       time.Time
	questionStart time.Time
	aggregate     *model.AggregateResult
}

// New draws a question pool for cfg and returns a Ready session.
func New(source QuestionSource, cfg model.SessionConfig, opts ...Option) (*Session, error) {
	s := &Session{source: source, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.Reset(cfg); err != nil {
		return nil, err
	}
	return s, nil
}

// Reset draws a new pool and returns to Ready. On error the session is left unchanged.
func (s *Session) Reset(cfg model.SessionConfig) error {
	questions, err := s.drawPool(cfg)
	if err != nil {
		return err
	}
	if cfg.Difficulty == "" {
		cfg.Difficulty = model.DifficultyAll
	}
	s.cfg = cfg
	s.lifecycle = Ready
	s.questions = questions
	s.index = 0
	s.input = ""
	s.inputEvents = 0
	s.results = nil
	s.gameStart = time.Time{}
	s.gameEnd = time.Time{}
	s.questionStart = time.Time{}
	s.aggregate = nil
	return nil
}

func (s *Session) drawPool(cfg model.SessionConfig) ([]model.Question, error) {
	if cfg.ModeValue <= 0 {
		return nil, fmt.Errorf("%w: mode value must be greater than 0, got %d", ErrInvalidConfig, cfg.ModeValue)
	}
	var n int
	switch cfg.Mode {
	case model.ModeCount:
		n = cfg.ModeValue
	case model.ModeTime:
		n = TimeModePoolSize
	default:
		return nil, fmt.Errorf("%w: unknown mode %q", ErrInvalidConfig, cfg.Mode)
	}
	questions, err := s.source.RandomSubset(n, cfg.Difficulty)
	if err != nil {
		return nil, fmt.Errorf("failed to draw questions: %w", err)
	}
	if len(questions) == 0 {
		return nil, fmt.Errorf("%w: question pool is empty", ErrInvalidConfig)
	}
	return questions, nil
}

// Start begins play. Only valid from Ready.
func (s *Session) Start() {
	if s.lifecycle != Ready {
		return
	}
	now := s.now()
	s.lifecycle = Playing
	s.gameStart = now
	s.questionStart = now
	s.index = 0
	s.results = nil
	s.input = ""
	s.inputEvents = 0
}

// UpdateInput replaces the buffered answer and counts one input event.
func (s *Session) UpdateInput(text string) {
	if s.lifecycle != Playing {
		return
	}
	s.input = text
	s.inputEvents++
}

// SubmitAnswer finishes the current question unless the answer is blank.
func (s *Session) SubmitAnswer() {
	if s.lifecycle != Playing {
		return
	}
	if strings.TrimSpace(s.input) == "" {
		return
	}
	s.FinishQuestion()
}

// FinishQuestion scores the buffered answer and moves on. A time-mode
// session whose limit has passed, or any session out of questions, finishes.
func (s *Session) FinishQuestion() {
	if s.lifecycle != Playing {
		return
	}
	now := s.now()
	q := s.questions[s.index]
	s.results = append(s.results, stats.QuestionResult(q.Text, s.input, q.Difficulty, now.Sub(s.questionStart), s.inputEvents))

	if s.cfg.Mode == model.ModeTime && now.Sub(s.gameStart) >= s.timeLimit() {
		s.finishGameAt(now)
		return
	}

	s.index++
	if s.index >= len(s.questions) {
		s.finishGameAt(now)
		return
	}
	s.input = ""
	s.inputEvents = 0
	s.questionStart = now
}

// FinishGame ends play and computes the aggregate result.
func (s *Session) FinishGame() {
	if s.lifecycle != Playing {
		return
	}
	s.finishGameAt(s.now())
}

// Expire ends a time-mode session whose limit has passed. A pending
// non-blank answer is scored first. Reports whether the session finished.
func (s *Session) Expire() bool {
	if s.lifecycle != Playing || s.cfg.Mode != model.ModeTime {
		return false
	}
	now := s.now()
	if now.Sub(s.gameStart) < s.timeLimit() {
		return false
	}
	if strings.TrimSpace(s.input) != "" {
		s.FinishQuestion()
	} else {
		s.finishGameAt(now)
	}
	return s.lifecycle == Finished
}

func (s *Session) finishGameAt(now time.Time) {
	s.lifecycle = Finished
	s.gameEnd = now
	agg := stats.Aggregate(s.results, now.Sub(s.gameStart))
	s.aggregate = &agg
}

func (s *Session) timeLimit() time.Duration {
	return time.Duration(s.cfg.ModeValue) * time.Second
}

// Lifecycle returns the current lifecycle state.
func (s *Session) Lifecycle() Lifecycle {
	return s.lifecycle
}

// Config returns the configuration the session was built with.
func (s *Session) Config() model.SessionConfig {
	return s.cfg
}

// Aggregate returns the session result once Finished.
func (s *Session) Aggregate() (model.AggregateResult, bool) {
	if s.aggregate == nil {
		return model.AggregateResult{}, false
	}
	return *s.aggregate, true
}

// Elapsed is zero before Start and frozen once Finished.
func (s *Session) Elapsed() time.Duration {
	switch s.lifecycle {
	case Playing:
		return s.now().Sub(s.gameStart)
	case Finished:
		return s.gameEnd.Sub(s.gameStart)
	default:
		return 0
	}
}

// Remaining returns the time left in a playing time-mode session.
func (s *Session) Remaining() (time.Duration, bool) {
	if s.cfg.Mode != model.ModeTime || s.lifecycle != Playing {
		return 0, false
	}
	return max(0, s.timeLimit()-s.Elapsed()), true
}
