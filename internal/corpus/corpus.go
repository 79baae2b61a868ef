// Package corpus provides the read-only question set.
package corpus

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/verte-zerg/typerank/internal/model"
)

//go:embed questions.toml
var defaultQuestions string

// ErrEmptyPool reports that no question matches the requested difficulty.
var ErrEmptyPool = errors.New("no questions available")

// ErrInvalidCount reports a non-positive question count.
var ErrInvalidCount = errors.New("question count must be greater than 0")

type file struct {
	Questions []model.Question `toml:"questions"`
}

// Corpus is an immutable question collection.
type Corpus struct {
	questions []model.Question
	sampler   *Sampler
}

// New validates questions and builds a corpus.
func New(questions []model.Question, sampler *Sampler) (*Corpus, error) {
	seen := make(map[int]struct{}, len(questions))
	for _, q := range questions {
		if _, ok := seen[q.ID]; ok {
			return nil, fmt.Errorf("duplicate question id %d", q.ID)
		}
		seen[q.ID] = struct{}{}
		if strings.TrimSpace(q.Text) == "" {
			return nil, fmt.Errorf("question %d has empty text", q.ID)
		}
		switch q.Difficulty {
		case model.DifficultyEasy, model.DifficultyMedium, model.DifficultyHard:
		default:
			return nil, fmt.Errorf("question %d has invalid difficulty %q", q.ID, q.Difficulty)
		}
	}
	if sampler == nil {
		sampler = NewSampler()
	}
	return &Corpus{
		questions: append([]model.Question(nil), questions...),
		sampler:   sampler,
	}, nil
}

// Default returns the built-in question set.
func Default() (*Corpus, error) {
	var f file
	if _, err := toml.Decode(defaultQuestions, &f); err != nil {
		return nil, fmt.Errorf("failed to decode default questions: %w", err)
	}
	return New(f.Questions, nil)
}

// Load reads a TOML question file.
func Load(path string) (*Corpus, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("failed to stat question file: %w", err)
	}
	var f file
	if _, err := toml.DecodeFile(path, &f); err != nil {
		return nil, fmt.Errorf("failed to decode question file: %w", err)
	}
	if len(f.Questions) == 0 {
		return nil, fmt.Errorf("question file %s is empty", path)
	}
	return New(f.Questions, nil)
}

// All returns every question in file order.
func (c *Corpus) All() []model.Question {
	return append([]model.Question(nil), c.questions...)
}

// ByID looks up a question.
func (c *Corpus) ByID(id int) (model.Question, bool) {
	for _, q := range c.questions {
		if q.ID == id {
			return q, true
		}
	}
	return model.Question{}, false
}

// ByDifficulty returns questions of one difficulty; DifficultyAll returns every question.
func (c *Corpus) ByDifficulty(d model.Difficulty) []model.Question {
	if d == model.DifficultyAll || d == "" {
		return c.All()
	}
	var out []model.Question
	for _, q := range c.questions {
		if q.Difficulty == d {
			out = append(out, q)
		}
	}
	return out
}

// RandomSubset draws up to n distinct questions of difficulty d.
func (c *Corpus) RandomSubset(n int, d model.Difficulty) ([]model.Question, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidCount, n)
	}
	pool := c.ByDifficulty(d)
	if len(pool) == 0 {
		return nil, fmt.Errorf("%w for difficulty %q", ErrEmptyPool, d)
	}
	return c.sampler.Sample(pool, n), nil
}
