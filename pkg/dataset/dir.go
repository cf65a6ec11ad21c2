package dataset

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format is the encoding of a dataset file.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatText Format = "txt"
)

// formatByExt maps file extensions to formats. When two files share a stem, the
// extension that comes first in extPriority wins.
var (
	formatByExt = map[string]Format{
		".json": FormatJSON,
		".yaml": FormatYAML,
		".yml":  FormatYAML,
		".txt":  FormatText,
	}
	extPriority = []string{".json", ".yaml", ".yml", ".txt"}
)

// Dir is a Source backed by a directory of dataset files.
type Dir struct {
	path   string
	logger *slog.Logger
}

// NewDir returns a Dir for path. It fails if path does not exist or is not a
// directory.
func NewDir(path string) (*Dir, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("could not resolve dataset path '%s': %w", path, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("the provided path '%s' doesn't exist: %w", abs, err)
		}
		return nil, fmt.Errorf("could not stat dataset path '%s': %w", abs, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("the provided path '%s' isn't a directory", abs)
	}
	return &Dir{
		path:   abs,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}, nil
}

// SetLogger sets the logger for the Dir. By default, all logs are discarded.
func (d *Dir) SetLogger(logger *slog.Logger) {
	if logger != nil {
		d.logger = logger
	}
}

// Path returns the absolute directory path.
func (d *Dir) Path() string { return d.path }

// files maps every dataset key to the file that provides it.
func (d *Dir) files() (map[string]string, error) {
	entries, err := os.ReadDir(d.path)
	if err != nil {
		return nil, fmt.Errorf("could not read dataset directory '%s': %w", d.path, err)
	}

	files := make(map[string]string)
	rank := make(map[string]int)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		priority := slices.Index(extPriority, ext)
		if priority < 0 {
			continue
		}
		key := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
		if current, ok := rank[key]; ok && current <= priority {
			d.logger.Debug("Dataset file shadowed",
				slog.String("key", key),
				slog.String("file", entry.Name()),
			)
			continue
		}
		files[key] = filepath.Join(d.path, entry.Name())
		rank[key] = priority
	}
	return files, nil
}

// List returns every dataset of the directory sorted by key. Word counts are
// reported as -1; counting would require decoding every file.
func (d *Dir) List(_ context.Context) ([]Info, error) {
	files, err := d.files()
	if err != nil {
		return nil, err
	}
	infos := make([]Info, 0, len(files))
	for key, path := range files {
		infos = append(infos, Info{Key: key, Path: path, Words: -1})
	}
	slices.SortFunc(infos, func(a, b Info) int { return strings.Compare(a.Key, b.Key) })
	return infos, nil
}

// Load decodes the dataset file for key.
func (d *Dir) Load(_ context.Context, key string) ([]string, error) {
	files, err := d.files()
	if err != nil {
		return nil, err
	}
	path, ok := files[key]
	if !ok {
		return nil, fmt.Errorf("%w: '%s' in %s", ErrDatasetNotFound, key, d.path)
	}
	words, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	d.logger.Debug("Dataset loaded",
		slog.String("key", key),
		slog.String("path", path),
		slog.Int("words", len(words)),
	)
	return words, nil
}

// ReadFile decodes a dataset file, choosing the format from its extension.
func ReadFile(path string) ([]string, error) {
	format, ok := formatByExt[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return nil, fmt.Errorf("%w: unsupported file extension '%s'", ErrInvalidDataset, filepath.Ext(path))
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open dataset file: %w", err)
	}
	defer func(file *os.File) {
		_ = file.Close()
	}(file)

	words, err := Decode(file, format)
	if err != nil {
		return nil, fmt.Errorf("failed to decode '%s': %w", path, err)
	}
	return words, nil
}

// Decode reads a dataset in the given format. Blank entries are skipped; a
// dataset without any word is ErrInvalidDataset.
func Decode(r io.Reader, format Format) ([]string, error) {
	var raw []string
	switch format {
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(&raw); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidDataset, err)
		}
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&raw); err != nil {
			if errors.Is(err, io.EOF) {
				return nil, fmt.Errorf("%w: empty yaml document", ErrInvalidDataset)
			}
			return nil, fmt.Errorf("%w: %w", ErrInvalidDataset, err)
		}
	case FormatText:
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			raw = append(raw, scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: unknown format '%s'", ErrInvalidDataset, format)
	}

	words := make([]string, 0, len(raw))
	for _, w := range raw {
		if strings.TrimSpace(w) == "" {
			continue
		}
		words = append(words, strings.TrimRight(w, "\r"))
	}
	if len(words) == 0 {
		return nil, fmt.Errorf("%w: dataset holds no words", ErrInvalidDataset)
	}
	return words, nil
}
