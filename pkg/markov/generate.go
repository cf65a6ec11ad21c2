package markov

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
)

// Source is the randomness used for sampling. Float64 must return a value in
// [0.0, 1.0). *rand.Rand from math/rand/v2 satisfies it.
type Source interface {
	Float64() float64
}

// NewSource returns a deterministic PCG-backed source for the given seed.
func NewSource(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func newRandomSource() *rand.Rand {
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

// SelectIndex picks an index of weights with probability proportional to its
// weight. It draws r uniformly in [0, total) and returns the smallest i whose
// cumulative sum exceeds r, or 0 if rounding leaves no such index.
func SelectIndex(weights []float64, rng Source) int {
	var acc float64
	totals := make([]float64, len(weights))
	for i, w := range weights {
		acc += w
		totals[i] = acc
	}

	rn := rng.Float64() * acc
	for i, total := range totals {
		if rn < total {
			return i
		}
	}
	return 0
}

// Generate builds one name. The result starts with Order boundary symbols and
// does not include the final boundary symbol, e.g. "###ormskirkby"; use Name to
// get it stripped.
//
// Each round asks the models for the next rune, from the highest order down to
// order 1. Generation stops when a model produces the boundary symbol. If that
// does not happen within the configured maximum number of rounds, Generate
// returns ErrGenerationExhausted.
func (g *Generator) Generate() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	buffer := []rune(strings.Repeat(string(Boundary), g.order))
	for rounds := 0; rounds < g.maxLength; rounds++ {
		next, _, ok := g.nextRune(buffer)
		if !ok {
			// Not even the order 1 model knows this context.
			continue
		}
		if next == Boundary {
			return string(buffer), nil
		}
		buffer = append(buffer, next)
	}

	g.logger.Warn("Generation exhausted",
		slog.Int("order", g.order),
		slog.Int("max_length", g.maxLength),
		slog.String("partial", string(buffer)),
	)
	return "", fmt.Errorf("%w: no boundary symbol after %d rounds", ErrGenerationExhausted, g.maxLength)
}

// Name is Generate with the boundary symbols stripped from both ends.
func (g *Generator) Name() (string, error) {
	word, err := g.Generate()
	if err != nil {
		return "", err
	}
	return Trim(word), nil
}

// Trim strips boundary symbols from both ends of a generated word.
func Trim(word string) string {
	return strings.Trim(word, string(Boundary))
}

// NextRune performs a single back-off step for the text generated so far and
// returns the sampled rune together with the order of the model that produced
// it. Text shorter than the Generator's order is left-padded with boundary
// symbols. The boolean is false when no model knows the context.
func (g *Generator) NextRune(text string) (rune, int, bool) {
	buffer := []rune(text)
	if missing := g.order - len(buffer); missing > 0 {
		buffer = append([]rune(strings.Repeat(string(Boundary), missing)), buffer...)
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	return g.nextRune(buffer)
}

// nextRune walks an order cursor from the Generator's order down to 1 and
// returns the first answer. models[g.order-k] is the order k model.
func (g *Generator) nextRune(buffer []rune) (rune, int, bool) {
	for k := g.order; k >= 1; k-- {
		model := g.models[g.order-k]
		context := string(buffer[len(buffer)-k:])
		if next, ok := model.Next(context, g.rng); ok {
			return next, k, true
		}
	}
	return 0, 0, false
}
