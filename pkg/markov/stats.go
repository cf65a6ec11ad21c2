package markov

import "strings"

// Stats holds aggregated statistics for a Generator and each of its models.
type Stats struct {
	Order        int          // The highest order of the Generator
	Prior        float64      // The Dirichlet prior shared by every model
	AlphabetSize int          // Number of symbols, boundary included
	Models       []ModelStats // One entry per model, highest order first
}

// ModelStats holds aggregated statistics for a single Model.
type ModelStats struct {
	Order       int // Context length of the model
	Contexts    int // The number of distinct contexts observed
	Transitions int // The total number of trained context -> rune transitions
	Starters    int // The number of distinct runes that can start a name
}

// Stats returns a snapshot of statistics for the Generator.
func (g *Generator) Stats() Stats {
	stats := Stats{
		Order:        g.order,
		Prior:        g.prior,
		AlphabetSize: len(g.models[0].alphabet),
		Models:       make([]ModelStats, 0, len(g.models)),
	}
	for _, m := range g.models {
		stats.Models = append(stats.Models, m.Stats())
	}
	return stats
}

// Stats returns the statistics of a single model.
func (m *Model) Stats() ModelStats {
	s := ModelStats{
		Order:    m.order,
		Contexts: len(m.chains),
	}
	for key := range m.chains {
		for _, c := range m.counts(key) {
			s.Transitions += c
		}
	}
	start := strings.Repeat(string(Boundary), m.order)
	if _, ok := m.chains[start]; ok {
		for i, c := range m.counts(start) {
			// A name ending immediately is not a starter.
			if c > 0 && m.alphabet[i] != Boundary {
				s.Starters++
			}
		}
	}
	return s
}
