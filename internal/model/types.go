// Package model defines shared data structures.
package model

import (
	"fmt"
	"strings"
	"time"
)

// Difficulty labels a question. DifficultyAll is only valid as a session filter.
type Difficulty string

const (
	DifficultyAll    Difficulty = "all"
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// ParseDifficulty validates a difficulty string. Empty input means all.
func ParseDifficulty(s string) (Difficulty, error) {
	switch d := Difficulty(strings.ToLower(strings.TrimSpace(s))); d {
	case "":
		return DifficultyAll, nil
	case DifficultyAll, DifficultyEasy, DifficultyMedium, DifficultyHard:
		return d, nil
	default:
		return "", fmt.Errorf("unknown difficulty %q (want all, easy, medium or hard)", s)
	}
}

// Mode is the session termination policy.
type Mode string

const (
	ModeCount Mode = "count"
	ModeTime  Mode = "time"
)

// ParseMode validates a mode string.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeCount, ModeTime:
		return m, nil
	default:
		return "", fmt.Errorf("unknown mode %q (want count or time)", s)
	}
}

// InputMethod is the device a session was most likely typed on.
type InputMethod string

const (
	InputKeyboard InputMethod = "keyboard"
	InputVoice    InputMethod = "voice"
	InputOther    InputMethod = "other"
	// InputAll is a filter value matching every method.
	InputAll InputMethod = "all"
)

// ParseInputMethod validates an input method filter. Empty input means all.
func ParseInputMethod(s string) (InputMethod, error) {
	switch m := InputMethod(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return InputAll, nil
	case InputAll, InputKeyboard, InputVoice, InputOther:
		return m, nil
	default:
		return "", fmt.Errorf("unknown input method %q (want all, keyboard, voice or other)", s)
	}
}

// Question is a single typing prompt.
type Question struct {
	ID         int        `json:"id" toml:"id"`
	Text       string     `json:"text" toml:"text"`
	Difficulty Difficulty `json:"difficulty" toml:"difficulty"`
}

// SessionConfig is fixed when a session is created or reset.
type SessionConfig struct {
	Mode       Mode
	ModeValue  int
	Difficulty Difficulty
}

// QuestionResult captures one finished question.
type QuestionResult struct {
	TargetText      string     `json:"targetText"`
	UserInput       string     `json:"userInput"`
	Difficulty      Difficulty `json:"difficulty"`
	Accuracy        float64    `json:"accuracy"`
	WPM             int        `json:"wpm"`
	CPM             int        `json:"cpm"`
	Score           int        `json:"score"`
	ElapsedTime     float64    `json:"elapsedTime"`
	CharCount       int        `json:"charCount"`
	InputEventCount int        `json:"inputEventCount"`
}

// AggregateResult summarizes a finished session.
type AggregateResult struct {
	AverageAccuracy  float64          `json:"averageAccuracy"`
	TotalWPM         int              `json:"totalWpm"`
	TotalCPM         int              `json:"totalCpm"`
	AverageScore     int              `json:"averageScore"`
	TotalScore       int              `json:"totalScore"`
	TotalElapsedTime float64          `json:"totalElapsedTime"`
	QuestionCount    int              `json:"questionCount"`
	TotalChars       int              `json:"totalChars"`
	TotalInputEvents int              `json:"totalInputEvents"`
	Results          []QuestionResult `json:"results"`
}

// RankEvaluation is the rank code and title awarded to a score.
type RankEvaluation struct {
	Rank  string `json:"rank"`
	Title string `json:"title"`
}

// HistoryRecord is a persisted finished session.
type HistoryRecord struct {
	ID             string          `json:"id"`
	Timestamp      time.Time       `json:"timestamp"`
	InputMethod    InputMethod     `json:"inputMethod"`
	Mode           Mode            `json:"mode"`
	ModeValue      int             `json:"modeValue"`
	Difficulty     Difficulty      `json:"difficulty"`
	Result         AggregateResult `json:"result"`
	RankEvaluation RankEvaluation  `json:"rankEvaluation"`
}
