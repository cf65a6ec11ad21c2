package markov

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"slices"
	"unicode/utf8"
)

// ExportedGenerator is the serializable representation of a trained Generator,
// used for JSON-based import and export.
type ExportedGenerator struct {
	Order    int             `json:"order"`
	Prior    float64         `json:"prior"`
	Alphabet []string        `json:"alphabet"` // boundary symbol first
	Models   []ExportedModel `json:"models"`   // highest order first
}

// ExportedModel is the serializable representation of a single Model, used
// within an ExportedGenerator.
type ExportedModel struct {
	Order  int                  `json:"order"`
	Chains map[string][]float64 `json:"chains"` // context -> weights in alphabet order
}

// Export serializes the Generator into JSON and writes it to w. The snapshot
// holds the weight vectors only, not the training corpus.
func (g *Generator) Export(w io.Writer) error {
	exported := ExportedGenerator{
		Order:    g.order,
		Prior:    g.prior,
		Alphabet: make([]string, 0, len(g.models[0].alphabet)),
		Models:   make([]ExportedModel, 0, len(g.models)),
	}
	for _, r := range g.models[0].alphabet {
		exported.Alphabet = append(exported.Alphabet, string(r))
	}
	for _, m := range g.models {
		exported.Models = append(exported.Models, ExportedModel{Order: m.order, Chains: m.chains})
	}

	g.logger.Info("Generator exported",
		slog.Int("order", g.order),
		slog.Float64("prior", g.prior),
		slog.Int("alphabet_size", len(exported.Alphabet)),
	)

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(exported)
}

// Import reads a JSON snapshot written by Export and rebuilds the Generator.
// Every model invariant is checked; a snapshot that breaks one is rejected with
// ErrInvalidSnapshot.
func Import(r io.Reader, opts ...Option) (*Generator, error) {
	var imported ExportedGenerator
	if err := json.NewDecoder(r).Decode(&imported); err != nil {
		return nil, fmt.Errorf("failed to decode json snapshot: %w", err)
	}

	if imported.Order < 1 {
		return nil, fmt.Errorf("%w: order must be at least 1, got %d", ErrInvalidSnapshot, imported.Order)
	}
	if err := validatePrior(imported.Prior); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSnapshot, err)
	}
	alphabet, err := decodeAlphabet(imported.Alphabet)
	if err != nil {
		return nil, err
	}
	if len(imported.Models) != imported.Order {
		return nil, fmt.Errorf("%w: expected %d models, got %d", ErrInvalidSnapshot, imported.Order, len(imported.Models))
	}

	models := make([]*Model, 0, len(imported.Models))
	for i, em := range imported.Models {
		if want := imported.Order - i; em.Order != want {
			return nil, fmt.Errorf("%w: model %d has order %d, expected %d", ErrInvalidSnapshot, i, em.Order, want)
		}
		if len(em.Chains) == 0 {
			return nil, fmt.Errorf("%w: order %d model has no chains", ErrInvalidSnapshot, em.Order)
		}
		for context, chain := range em.Chains {
			if err := validateChain(context, chain, em.Order, len(alphabet), imported.Prior); err != nil {
				return nil, err
			}
		}
		models = append(models, &Model{
			order:    em.Order,
			prior:    imported.Prior,
			alphabet: slices.Clone(alphabet),
			chains:   em.Chains,
		})
	}

	g := newGenerator(imported.Order, imported.Prior, models, resolveOptions(opts))
	g.logger.Info("Generator imported",
		slog.Int("order", imported.Order),
		slog.Float64("prior", imported.Prior),
		slog.Int("alphabet_size", len(alphabet)),
	)
	return g, nil
}

func decodeAlphabet(symbols []string) ([]rune, error) {
	if len(symbols) == 0 || symbols[0] != string(Boundary) {
		return nil, fmt.Errorf("%w: alphabet must start with the boundary symbol %q", ErrInvalidSnapshot, Boundary)
	}
	alphabet := make([]rune, 0, len(symbols))
	seen := make(map[rune]struct{}, len(symbols))
	for _, s := range symbols {
		if utf8.RuneCountInString(s) != 1 {
			return nil, fmt.Errorf("%w: alphabet entry %q is not a single character", ErrInvalidSnapshot, s)
		}
		r, _ := utf8.DecodeRuneInString(s)
		if _, ok := seen[r]; ok {
			return nil, fmt.Errorf("%w: duplicate alphabet entry %q", ErrInvalidSnapshot, s)
		}
		seen[r] = struct{}{}
		alphabet = append(alphabet, r)
	}
	return alphabet, nil
}

func validateChain(context string, chain []float64, order, size int, prior float64) error {
	if utf8.RuneCountInString(context) != order {
		return fmt.Errorf("%w: context %q does not have %d characters", ErrInvalidSnapshot, context, order)
	}
	if len(chain) != size {
		return fmt.Errorf("%w: context %q has %d weights for %d symbols", ErrInvalidSnapshot, context, len(chain), size)
	}
	for _, w := range chain {
		if math.IsNaN(w) || math.IsInf(w, 0) || w < prior {
			return fmt.Errorf("%w: context %q has invalid weight %v", ErrInvalidSnapshot, context, w)
		}
	}
	return nil
}
