// Package generator draws randomized verification questions.
package generator

import (
	"math/rand"
	"time"

	"github.com/manabcodes/bangladesh-election-poll/internal/model"
)

// Source is the random source a draw uses. *rand.Rand satisfies it.
type Source interface {
	Intn(n int) int
}

// Generator picks questions uniformly from a bank.
type Generator struct {
	rnd Source
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// WithSource returns a Generator drawing from src.
func WithSource(src Source) *Generator {
	return &Generator{rnd: src}
}

// Question selects one question uniformly at random. The bank must not be empty.
func (g *Generator) Question(bank []model.Question) model.Question {
	return bank[g.rnd.Intn(len(bank))]
}

// Fixed is a Source that always returns the same index, clamped to the range.
type Fixed int

// Intn implements Source.
func (f Fixed) Intn(n int) int {
	i := int(f)
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
