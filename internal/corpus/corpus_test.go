package corpus

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/verte-zerg/typerank/internal/model"
)

func testCorpus(t *testing.T) *Corpus {
	t.Helper()
	c, err := New([]model.Question{
		{ID: 1, Text: "one", Difficulty: model.DifficultyEasy},
		{ID: 2, Text: "two", Difficulty: model.DifficultyEasy},
		{ID: 3, Text: "three", Difficulty: model.DifficultyMedium},
		{ID: 4, Text: "four", Difficulty: model.DifficultyMedium},
		{ID: 5, Text: "five", Difficulty: model.DifficultyMedium},
	}, NewSeededSampler(1))
	if err != nil {
		t.Fatalf("new corpus: %v", err)
	}
	return c
}

func TestDefaultCorpus(t *testing.T) {
	c, err := Default()
	if err != nil {
		t.Fatalf("default corpus: %v", err)
	}
	for _, d := range []model.Difficulty{model.DifficultyEasy, model.DifficultyMedium, model.DifficultyHard} {
		if len(c.ByDifficulty(d)) == 0 {
			t.Fatalf("expected %s questions in default corpus", d)
		}
	}
}

func TestRandomSubsetDistinct(t *testing.T) {
	c := testCorpus(t)
	got, err := c.RandomSubset(4, model.DifficultyAll)
	if err != nil {
		t.Fatalf("random subset: %v", err)
	}
	if len(got) != 4 {
		t.Fatalf("expected 4 questions, got %d", len(got))
	}
	seen := map[int]bool{}
	for _, q := range got {
		if seen[q.ID] {
			t.Fatalf("question %d drawn twice", q.ID)
		}
		seen[q.ID] = true
	}
}

func TestRandomSubsetCapsAtAvailable(t *testing.T) {
	c := testCorpus(t)
	got, err := c.RandomSubset(50, model.DifficultyEasy)
	if err != nil {
		t.Fatalf("random subset: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 easy questions, got %d", len(got))
	}
	for _, q := range got {
		if q.Difficulty != model.DifficultyEasy {
			t.Fatalf("unexpected difficulty %s", q.Difficulty)
		}
	}
}

func TestRandomSubsetErrors(t *testing.T) {
	c := testCorpus(t)
	if _, err := c.RandomSubset(0, model.DifficultyAll); !errors.Is(err, ErrInvalidCount) {
		t.Fatalf("expected ErrInvalidCount, got %v", err)
	}
	if _, err := c.RandomSubset(3, model.DifficultyHard); !errors.Is(err, ErrEmptyPool) {
		t.Fatalf("expected ErrEmptyPool, got %v", err)
	}
}

func TestByID(t *testing.T) {
	c := testCorpus(t)
	q, ok := c.ByID(3)
	if !ok || q.Text != "three" {
		t.Fatalf("unexpected lookup result: %+v %v", q, ok)
	}
	if _, ok := c.ByID(99); ok {
		t.Fatalf("expected missing id")
	}
}

func TestNewRejectsInvalidQuestions(t *testing.T) {
	cases := [][]model.Question{
		{{ID: 1, Text: "a", Difficulty: model.DifficultyEasy}, {ID: 1, Text: "b", Difficulty: model.DifficultyEasy}},
		{{ID: 1, Text: "  ", Difficulty: model.DifficultyEasy}},
		{{ID: 1, Text: "a", Difficulty: model.DifficultyAll}},
	}
	for i, qs := range cases {
		if _, err := New(qs, nil); err == nil {
			t.Fatalf("case %d: expected error", i)
		}
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "questions.toml")
	data := "[[questions]]\nid = 7\ntext = \"custom text\"\ndifficulty = \"hard\"\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	c, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if q, ok := c.ByID(7); !ok || q.Difficulty != model.DifficultyHard {
		t.Fatalf("unexpected question: %+v", q)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
