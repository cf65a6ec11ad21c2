package markov

import "testing"

func TestStats(t *testing.T) {
	g := newTestGenerator(t, sampleData(), testOrder, 0.5)
	stats := g.Stats()

	if stats.Order != testOrder || stats.Prior != 0.5 || stats.AlphabetSize != 11 {
		t.Errorf("unexpected generator stats: %+v", stats)
	}
	if len(stats.Models) != testOrder {
		t.Fatalf("expected %d model stats, got %d", testOrder, len(stats.Models))
	}

	top := stats.Models[0]
	// 22 windows: one per letter of the three words plus one trailing boundary each.
	if top.Order != 3 || top.Contexts != 20 || top.Transitions != 22 || top.Starters != 3 {
		t.Errorf("unexpected order 3 stats: %+v", top)
	}
	for _, ms := range stats.Models {
		if ms.Transitions != 22 {
			t.Errorf("order %d: expected 22 transitions, got %d", ms.Order, ms.Transitions)
		}
		if ms.Starters != 3 {
			t.Errorf("order %d: expected 3 starters, got %d", ms.Order, ms.Starters)
		}
	}
}
