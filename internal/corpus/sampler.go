package corpus

import (
	"math/rand"
	"time"

	"github.com/verte-zerg/typerank/internal/model"
)

// Sampler draws random questions without replacement.
type Sampler struct {
	rnd *rand.Rand
}

// NewSampler returns a Sampler seeded with the current time.
func NewSampler() *Sampler {
	return &Sampler{rnd: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// NewSeededSampler returns a deterministic Sampler.
func NewSeededSampler(seed int64) *Sampler {
	return &Sampler{rnd: rand.New(rand.NewSource(seed))}
}

// Sample returns min(n, len(pool)) distinct questions in random order.
// The pool is left untouched.
func (s *Sampler) Sample(pool []model.Question, n int) []model.Question {
	shuffled := append([]model.Question(nil), pool...)
	s.rnd.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	if n > len(shuffled) {
		n = len(shuffled)
	}
	return shuffled[:n]
}
