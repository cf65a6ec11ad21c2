package markov

import (
	"fmt"
	"maps"
	"math"
	"slices"
)

// Boundary is the reserved symbol that marks the start and the end of every
// training word. It is always the first symbol of a model's alphabet.
const Boundary = '#'

// Model is a Markov model of a single, fixed order. It maps every context of
// exactly Order characters seen during training to a vector of sampling weights,
// one weight per alphabet symbol. A Model is immutable once built.
type Model struct {
	order         int
	prior         float64
	alphabet      []rune
	continuations map[string][]rune
	chains        map[string][]float64
}

// NewModel trains a model of the given order on data. The alphabet is the
// boundary symbol followed by every distinct rune of data in code point order.
//
// data must not be empty and prior must lie in [0, 1]. The model trains on its
// own copy of data; the caller's slice is never modified.
func NewModel(data []string, order int, prior float64) (*Model, error) {
	if err := validateParams(data, order, prior); err != nil {
		return nil, err
	}
	return newModel(slices.Clone(data), order, prior, buildAlphabet(data)), nil
}

// NewModelWithAlphabet trains a model like NewModel but uses the supplied
// alphabet, in the given order, instead of deriving one from data. The boundary
// symbol is placed first if the alphabet does not already contain it. Runes of
// data missing from the alphabet are still used as context but never sampled.
func NewModelWithAlphabet(data []string, order int, prior float64, alphabet []rune) (*Model, error) {
	if len(alphabet) == 0 {
		return nil, fmt.Errorf("%w: alphabet is empty", ErrInvalidData)
	}
	if err := validateParams(data, order, prior); err != nil {
		return nil, err
	}
	symbols := make([]rune, 0, len(alphabet)+1)
	if !slices.Contains(alphabet, Boundary) {
		symbols = append(symbols, Boundary)
	}
	seen := make(map[rune]struct{}, len(alphabet))
	for _, r := range alphabet {
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		symbols = append(symbols, r)
	}
	return newModel(slices.Clone(data), order, prior, symbols), nil
}

func newModel(data []string, order int, prior float64, alphabet []rune) *Model {
	m := &Model{
		order:         order,
		prior:         prior,
		alphabet:      alphabet,
		continuations: train(data, order),
	}
	m.chains = buildChains(m.continuations, m.alphabet, prior)
	return m
}

func validateParams(data []string, order int, prior float64) error {
	if len(data) == 0 {
		return fmt.Errorf("%w: data is empty", ErrInvalidData)
	}
	if order < 1 {
		return fmt.Errorf("%w: order must be an integer greater or equal to 1, got %d", ErrInvalidOrder, order)
	}
	return validatePrior(prior)
}

func validatePrior(prior float64) error {
	// Written so that NaN is rejected as well.
	if !(prior >= 0 && prior <= 1) {
		return fmt.Errorf("%w: the Dirichlet prior must be between 0 and 1, got %v", ErrInvalidPrior, prior)
	}
	return nil
}

// Order returns the context length of the model.
func (m *Model) Order() int { return m.order }

// Prior returns the additive smoothing constant.
func (m *Model) Prior() float64 { return m.prior }

// Alphabet returns a copy of the model's symbols in weight vector order.
// The boundary symbol is always at index 0.
func (m *Model) Alphabet() []rune { return slices.Clone(m.alphabet) }

// Contexts returns every context the model has a chain for, sorted.
func (m *Model) Contexts() []string {
	return slices.Sorted(maps.Keys(m.chains))
}

// Chain returns a copy of the weight vector for context, or nil if the context
// was never observed.
func (m *Model) Chain(context string) []float64 {
	return slices.Clone(m.chains[context])
}

// Continuations returns a copy of the runes that followed context during
// training, in the order they were recorded. Models restored from a snapshot
// carry no continuations and always return nil.
func (m *Model) Continuations(context string) []rune {
	return slices.Clone(m.continuations[context])
}

// Next samples the rune that follows context. The boolean is false when the
// context was never observed, which tells the caller to back off to a shorter
// context.
func (m *Model) Next(context string, rng Source) (rune, bool) {
	chain, ok := m.chains[context]
	if !ok || len(chain) == 0 {
		return 0, false
	}
	return m.alphabet[SelectIndex(chain, rng)], true
}

// counts converts a weight vector back into raw transition counts.
func (m *Model) counts(context string) []int {
	chain := m.chains[context]
	out := make([]int, len(chain))
	for i, w := range chain {
		out[i] = int(math.Round(w - m.prior))
	}
	return out
}
