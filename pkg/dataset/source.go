package dataset

import (
	"context"
	"errors"
	"fmt"
	"slices"
)

var (
	// ErrDatasetNotFound is returned when a dataset key is unknown to a Source.
	ErrDatasetNotFound = errors.New("dataset: not found")
	// ErrInvalidDataset is returned when a dataset cannot be decoded or holds no words.
	ErrInvalidDataset = errors.New("dataset: invalid dataset")
)

// Info describes one available dataset.
type Info struct {
	Key   string // Dataset key, the file name stem for a Dir
	Path  string // Where the dataset lives, a file path or a database source
	Words int    // Number of words, or -1 when unknown without loading
}

// Source is anything that can list datasets and load one by key.
type Source interface {
	// List returns every available dataset sorted by key.
	List(ctx context.Context) ([]Info, error)
	// Load returns the words of a dataset. It returns ErrDatasetNotFound if the
	// key is unknown.
	Load(ctx context.Context, key string) ([]string, error)
}

// Intn is the randomness used by RandomKey. *rand.Rand from math/rand/v2 satisfies it.
type Intn interface {
	IntN(n int) int
}

// Keys returns the keys of every dataset of src, sorted.
func Keys(ctx context.Context, src Source) ([]string, error) {
	infos, err := src.List(ctx)
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(infos))
	for _, info := range infos {
		keys = append(keys, info.Key)
	}
	slices.Sort(keys)
	return keys, nil
}

// RandomKey returns the key of a randomly chosen dataset of src.
func RandomKey(ctx context.Context, src Source, rng Intn) (string, error) {
	keys, err := Keys(ctx, src)
	if err != nil {
		return "", err
	}
	if len(keys) == 0 {
		return "", fmt.Errorf("%w: no dataset available", ErrDatasetNotFound)
	}
	return keys[rng.IntN(len(keys))], nil
}

// LoadAll loads every dataset named by keys and concatenates their words in
// order. It fails on the first key that cannot be loaded.
func LoadAll(ctx context.Context, src Source, keys []string) ([]string, error) {
	var words []string
	for _, key := range keys {
		data, err := src.Load(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("the training data selected '%s' couldn't be loaded: %w", key, err)
		}
		words = append(words, data...)
	}
	if len(words) == 0 {
		return nil, fmt.Errorf("%w: no words in %v", ErrInvalidDataset, keys)
	}
	return words, nil
}
