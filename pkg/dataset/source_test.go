package dataset

import (
	"context"
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memSource is an in-memory Source used to test the helpers.
type memSource map[string][]string

func (m memSource) List(_ context.Context) ([]Info, error) {
	infos := make([]Info, 0, len(m))
	for key, words := range m {
		infos = append(infos, Info{Key: key, Path: "mem", Words: len(words)})
	}
	return infos, nil
}

func (m memSource) Load(_ context.Context, key string) ([]string, error) {
	words, ok := m[key]
	if !ok {
		return nil, ErrDatasetNotFound
	}
	return words, nil
}

type fixedIntn int

func (f fixedIntn) IntN(int) int { return int(f) }

func TestKeys(t *testing.T) {
	src := memSource{"b": {"x"}, "a": {"y"}, "c": {"z"}}
	keys, err := Keys(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, keys)
}

func TestRandomKey(t *testing.T) {
	ctx := context.Background()
	src := memSource{"b": {"x"}, "a": {"y"}, "c": {"z"}}

	key, err := RandomKey(ctx, src, fixedIntn(2))
	require.NoError(t, err)
	assert.Equal(t, "c", key)

	key, err = RandomKey(ctx, src, rand.New(rand.NewPCG(1, 2)))
	require.NoError(t, err)
	assert.Contains(t, []string{"a", "b", "c"}, key)

	_, err = RandomKey(ctx, memSource{}, fixedIntn(0))
	assert.ErrorIs(t, err, ErrDatasetNotFound)
}

func TestLoadAll(t *testing.T) {
	ctx := context.Background()
	src := memSource{"a": {"one", "two"}, "b": {"three"}}

	tests := []struct {
		name    string
		keys    []string
		want    []string
		wantErr error
	}{
		{name: "Single dataset", keys: []string{"a"}, want: []string{"one", "two"}},
		{name: "Combined in order", keys: []string{"b", "a"}, want: []string{"three", "one", "two"}},
		{name: "Unknown key", keys: []string{"a", "missing"}, wantErr: ErrDatasetNotFound},
		{name: "No keys", keys: nil, wantErr: ErrInvalidDataset},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := LoadAll(ctx, src, tt.keys)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr), "expected %v, got %v", tt.wantErr, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
