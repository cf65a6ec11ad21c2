package markov

import (
	"fmt"
	"reflect"
	"slices"
	"testing"
)

func TestBuildAlphabet(t *testing.T) {
	got := string(buildAlphabet(sampleData()))
	if want := "#aegkmnortv"; got != want {
		t.Errorf("buildAlphabet() = %q, want %q", got, want)
	}

	// A boundary symbol inside the corpus must not be duplicated.
	got = string(buildAlphabet([]string{"b#a"}))
	if want := "#ab"; got != want {
		t.Errorf("buildAlphabet() with boundary in corpus = %q, want %q", got, want)
	}
}

func TestTrain(t *testing.T) {
	bucket := train(sampleData(), testOrder)

	if len(bucket) != 20 {
		t.Fatalf("expected 20 contexts, got %d", len(bucket))
	}

	want := make(map[string][]rune, len(sampleTrained))
	for key, next := range sampleTrained {
		want[key] = []rune(next)
	}
	if !reflect.DeepEqual(bucket, want) {
		t.Errorf("train() = %v, want %v", bucket, want)
	}
}

func TestTrainDoesNotMutateInput(t *testing.T) {
	data := sampleData()
	if _, err := NewGenerator(data, testOrder, 0); err != nil {
		t.Fatalf("NewGenerator() error = %v", err)
	}
	if !slices.Equal(data, sampleData()) {
		t.Errorf("training modified the corpus: %v", data)
	}
}

func TestTrainEveryWindowHasContinuation(t *testing.T) {
	for order := 1; order <= 5; order++ {
		t.Run(fmt.Sprintf("Order%d", order), func(t *testing.T) {
			bucket := train(sampleData(), order)
			var windows int
			for _, next := range bucket {
				windows += len(next)
			}
			// One window per rune of every word plus one for the trailing boundary.
			want := 0
			for _, word := range sampleData() {
				want += len([]rune(word)) + 1
			}
			if windows != want {
				t.Errorf("expected %d recorded windows, got %d", want, windows)
			}
		})
	}
}

func TestBuildChains(t *testing.T) {
	m, err := NewModel(sampleData(), testOrder, 0)
	if err != nil {
		t.Fatalf("NewModel() error = %v", err)
	}
	if !reflect.DeepEqual(m.chains, sampleChains) {
		t.Errorf("chains = %v, want %v", m.chains, sampleChains)
	}
	if got := m.Continuations("###"); string(got) != "gnm" {
		t.Errorf("Continuations(###) = %q, want %q", string(got), "gnm")
	}
	if got := m.Continuations("tor"); string(got) != "#" {
		t.Errorf("Continuations(tor) = %q, want %q", string(got), "#")
	}
}

func TestBuildChainsUnicode(t *testing.T) {
	m, err := NewModel([]string{"éa", "ñé"}, 1, 0)
	if err != nil {
		t.Fatalf("NewModel() error = %v", err)
	}
	if got, want := string(m.Alphabet()), "#aéñ"; got != want {
		t.Fatalf("Alphabet() = %q, want %q", got, want)
	}
	// "é" is followed once by "a" and once by the boundary.
	if got, want := m.Chain("é"), []float64{1, 1, 0, 0}; !slices.Equal(got, want) {
		t.Errorf("Chain(é) = %v, want %v", got, want)
	}
}

func BenchmarkTrain(b *testing.B) {
	corpus := loadTowns(b)
	for _, order := range []int{1, 2, 3, 4, 5} {
		b.Run(fmt.Sprintf("Order%d", order), func(b *testing.B) {
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := NewGenerator(corpus, order, 0.01); err != nil {
					b.Fatalf("NewGenerator() failed: %v", err)
				}
			}
		})
	}
}
