package dataset

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDir(t *testing.T) *Dir {
	t.Helper()
	d, err := NewDir("testdata")
	require.NoError(t, err)
	return d
}

func TestNewDir(t *testing.T) {
	_, err := NewDir(filepath.Join(t.TempDir(), "missing"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	file := filepath.Join(t.TempDir(), "file.json")
	require.NoError(t, os.WriteFile(file, []byte(`["a"]`), 0644))
	_, err = NewDir(file)
	assert.ErrorContains(t, err, "isn't a directory")

	d := newTestDir(t)
	assert.True(t, filepath.IsAbs(d.Path()))
}

func TestDirList(t *testing.T) {
	infos, err := newTestDir(t).List(context.Background())
	require.NoError(t, err)

	keys := make([]string, 0, len(infos))
	for _, info := range infos {
		keys = append(keys, info.Key)
		assert.Equal(t, -1, info.Words)
	}
	assert.Equal(t, []string{"dwarves", "elves", "hobbits"}, keys)

	// elves.json shadows elves.txt.
	assert.Equal(t, ".json", filepath.Ext(infos[1].Path))
}

func TestDirLoad(t *testing.T) {
	ctx := context.Background()
	d := newTestDir(t)

	tests := []struct {
		key  string
		want []string
	}{
		{key: "elves", want: []string{"aelindra", "caladwen", "elrohir", "finrod", "galathil", "ithilwen", "lindir"}},
		{key: "dwarves", want: []string{"balin", "dwalin", "gimli", "thorin", "dain"}},
		{key: "hobbits", want: []string{"bilbo", "frodo", "samwise", "peregrin", "meriadoc"}},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, err := d.Load(ctx, tt.key)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := d.Load(ctx, "notes")
	assert.ErrorIs(t, err, ErrDatasetNotFound)
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		format  Format
		want    []string
		wantErr bool
	}{
		{name: "JSON array", input: `["a", "b"]`, format: FormatJSON, want: []string{"a", "b"}},
		{name: "JSON blank entries skipped", input: `["a", "", "  "]`, format: FormatJSON, want: []string{"a"}},
		{name: "JSON object", input: `{"a": 1}`, format: FormatJSON, wantErr: true},
		{name: "JSON empty array", input: `[]`, format: FormatJSON, wantErr: true},
		{name: "YAML sequence", input: "- a\n- b\n", format: FormatYAML, want: []string{"a", "b"}},
		{name: "YAML flow sequence", input: "[x, y]", format: FormatYAML, want: []string{"x", "y"}},
		{name: "YAML mapping", input: "a: b\n", format: FormatYAML, wantErr: true},
		{name: "YAML empty", input: "", format: FormatYAML, wantErr: true},
		{name: "Text lines", input: "a\r\n\nb\n", format: FormatText, want: []string{"a", "b"}},
		{name: "Unknown format", input: "a", format: Format("csv"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(strings.NewReader(tt.input), tt.format)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidDataset)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReadFileUnsupportedExtension(t *testing.T) {
	_, err := ReadFile(filepath.Join("testdata", "notes.md"))
	assert.ErrorIs(t, err, ErrInvalidDataset)
}
