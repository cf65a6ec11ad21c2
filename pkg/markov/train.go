package markov

import (
	"slices"
	"strings"
)

// buildAlphabet returns the boundary symbol followed by every distinct rune of
// data, sorted by code point. A boundary symbol inside the corpus is not repeated.
func buildAlphabet(data []string) []rune {
	set := make(map[rune]struct{})
	for _, word := range data {
		for _, r := range word {
			if r != Boundary {
				set[r] = struct{}{}
			}
		}
	}
	letters := make([]rune, 0, len(set))
	for r := range set {
		letters = append(letters, r)
	}
	slices.Sort(letters)
	return append([]rune{Boundary}, letters...)
}

// train builds the context -> continuation table. Each word is padded with order
// boundary symbols in front and one behind, then every window of order runes
// records the rune that follows it. Words are consumed from the last one to the
// first, so continuations are recorded in reverse corpus order.
func train(data []string, order int) map[string][]rune {
	bucket := make(map[string][]rune)
	padding := strings.Repeat(string(Boundary), order)

	for i := len(data) - 1; i >= 0; i-- {
		word := []rune(padding + data[i] + string(Boundary))
		for j := 0; j+order < len(word); j++ {
			key := string(word[j : j+order])
			bucket[key] = append(bucket[key], word[j+order])
		}
	}
	return bucket
}

// buildChains turns the continuation table into weight vectors. The weight of
// alphabet[i] under a context is prior plus the number of times it followed
// that context, so vectors always line up with the alphabet.
func buildChains(continuations map[string][]rune, alphabet []rune, prior float64) map[string][]float64 {
	chains := make(map[string][]float64, len(continuations))
	counts := make(map[rune]int)

	for key, next := range continuations {
		clear(counts)
		for _, r := range next {
			counts[r]++
		}
		chain := make([]float64, len(alphabet))
		for i, r := range alphabet {
			chain[i] = prior + float64(counts[r])
		}
		chains[key] = chain
	}
	return chains
}
