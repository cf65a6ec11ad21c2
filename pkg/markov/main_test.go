package markov

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

// testOrder is the order the sample fixtures below are valid for.
const testOrder = 3

// sampleData returns a fresh copy of the small three word corpus.
func sampleData() []string {
	return []string{"markov", "name", "generator"}
}

// sampleTrained is the continuation table of sampleData for testOrder.
var sampleTrained = map[string]string{
	"###": "gnm",
	"##g": "e",
	"#ge": "n",
	"gen": "e",
	"ene": "r",
	"ner": "a",
	"era": "t",
	"rat": "o",
	"ato": "r",
	"tor": "#",
	"##n": "a",
	"#na": "m",
	"nam": "e",
	"ame": "#",
	"##m": "a",
	"#ma": "r",
	"mar": "k",
	"ark": "o",
	"rko": "v",
	"kov": "#",
}

// sampleChains is the chain table of sampleData for testOrder with a zero prior,
// over the alphabet "#aegkmnortv".
var sampleChains = map[string][]float64{
	"###": {0, 0, 0, 1, 0, 1, 1, 0, 0, 0, 0},
	"##g": {0, 0, 1, 0, 0, 0, 0, 0, 0, 0, 0},
	"#ge": {0, 0, 0, 0, 0, 0, 1, 0, 0, 0, 0},
	"gen": {0, 0, 1, 0, 0, 0, 0, 0, 0, 0, 0},
	"ene": {0, 0, 0, 0, 0, 0, 0, 0, 1, 0, 0},
	"ner": {0, 1, 0, 0, 0, 0, 0, 0, 0, 0, 0},
	"era": {0, 0, 0, 0, 0, 0, 0, 0, 0, 1, 0},
	"rat": {0, 0, 0, 0, 0, 0, 0, 1, 0, 0, 0},
	"ato": {0, 0, 0, 0, 0, 0, 0, 0, 1, 0, 0},
	"tor": {1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
	"##n": {0, 1, 0, 0, 0, 0, 0, 0, 0, 0, 0},
	"#na": {0, 0, 0, 0, 0, 1, 0, 0, 0, 0, 0},
	"nam": {0, 0, 1, 0, 0, 0, 0, 0, 0, 0, 0},
	"ame": {1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
	"##m": {0, 1, 0, 0, 0, 0, 0, 0, 0, 0, 0},
	"#ma": {0, 0, 0, 0, 0, 0, 0, 0, 1, 0, 0},
	"mar": {0, 0, 0, 0, 1, 0, 0, 0, 0, 0, 0},
	"ark": {0, 0, 0, 0, 0, 0, 0, 1, 0, 0, 0},
	"rko": {0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 1},
	"kov": {1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
}

// fixedSource always returns the same value, which makes SelectIndex fully
// predictable.
type fixedSource float64

func (f fixedSource) Float64() float64 { return float64(f) }

// newTestGenerator builds a Generator and fails the test on error.
func newTestGenerator(t *testing.T, data []string, order int, prior float64, opts ...Option) *Generator {
	t.Helper()
	g, err := NewGenerator(data, order, prior, opts...)
	if err != nil {
		t.Fatalf("NewGenerator() error = %v", err)
	}
	return g
}

var (
	townsCorpus []string
	townsOnce   sync.Once
	townsErr    error
)

// loadTowns reads the english towns corpus from testdata.
func loadTowns(tb testing.TB) []string {
	tb.Helper()
	townsOnce.Do(func() {
		data, err := os.ReadFile(filepath.Join("testdata", "english_towns.json"))
		if err != nil {
			townsErr = err
			return
		}
		townsErr = json.Unmarshal(data, &townsCorpus)
	})
	if townsErr != nil {
		tb.Fatalf("failed to load testdata corpus: %v", townsErr)
	}
	out := make([]string, len(townsCorpus))
	copy(out, townsCorpus)
	return out
}
