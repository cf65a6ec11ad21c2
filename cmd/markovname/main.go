package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/CTAG07/markovname/pkg/dataset"
	"github.com/CTAG07/markovname/pkg/markov"
	"github.com/CTAG07/markovname/pkg/store"
	"github.com/google/uuid"
	"github.com/mattn/go-runewidth"
	"github.com/natefinch/atomic"
)

var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

// keyList collects repeated -g flags.
type keyList []string

func (k *keyList) String() string { return strings.Join(*k, ",") }

func (k *keyList) Set(value string) error {
	*k = append(*k, value)
	return nil
}

// options is the outcome of flag parsing with the config file applied.
type options struct {
	config     *Config
	list       bool
	keys       []string
	seed       uint64
	seedSet    bool
	importData bool
	exportPath string
	modelPath  string
	verbose    bool
	version    bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes the command line and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		_, _ = fmt.Fprintf(stderr, "ERROR: %v\n", err)
		return 1
	}
	if opts.version {
		_, _ = fmt.Fprintf(stdout, "markovname %s (commit %s, built %s)\n", Version, Commit, BuildDate)
		return 0
	}

	level := parseLevel(opts.config.LogLevel)
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})).
		With(slog.String("run_id", uuid.NewString()))

	if err = execute(ctx, opts, stdout, logger); err != nil {
		logger.Debug("Run failed", slog.Any("error", err))
		_, _ = fmt.Fprintf(stderr, "ERROR: %v\n", err)
		return 1
	}
	return 0
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	defaults := DefaultConfig()
	fs := flag.NewFlagSet("markovname", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		_, _ = fmt.Fprintf(fs.Output(), "Usage: markovname [flags] [DATA]\n\n"+
			"Generates names with a character level back-off Markov model trained on\n"+
			"the datasets found in DATA (default %s).\n\nFlags:\n", defaults.DataDir)
		fs.PrintDefaults()
	}

	var (
		keys       keyList
		configPath = fs.String("config", "", "Path of a JSON config file, created with defaults if missing.")
		list       = fs.Bool("list", false, "List the various datasets available to the software.")
		count      = fs.Int("n", defaults.Count, "Amount of names to generate.")
		order      = fs.Int("o", defaults.Order, "Highest order of model to use. Lower orders are used as back-off.")
		prior      = fs.Float64("p", defaults.Prior, "Constant added to every symbol weight, between 0 and 1.")
		dbPath     = fs.String("db", defaults.DatabasePath, "SQLite database holding the datasets, used instead of DATA.")
		importData = fs.Bool("import", false, "Import every dataset of DATA into the -db database and exit.")
		seed       = fs.String("seed", "", "Seed of the random source, for reproducible output.")
		exportPath = fs.String("export", "", "Write the trained model to this file as JSON.")
		modelPath  = fs.String("model", "", "Generate from a model exported with -export instead of training.")
		verbose    = fs.Bool("v", false, "Verbose mode.")
		version    = fs.Bool("V", false, "Print the version and exit.")
	)
	fs.Var(&keys, "g", "Which dataset to use, can be repeated to combine datasets. Defaults to a random one.")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 1 {
		return nil, fmt.Errorf("expected at most one DATA argument, got %d", fs.NArg())
	}

	config := defaults
	if *configPath != "" {
		loaded, err := LoadConfig(*configPath, stderr)
		if err != nil {
			return nil, err
		}
		config = loaded
	}

	// Explicit flags override the config file.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "n":
			config.Count = *count
		case "o":
			config.Order = *order
		case "p":
			config.Prior = *prior
		case "db":
			config.DatabasePath = *dbPath
		}
	})
	if fs.NArg() == 1 {
		config.DataDir = fs.Arg(0)
	}

	opts := &options{
		config:     config,
		list:       *list,
		keys:       keys,
		importData: *importData,
		exportPath: *exportPath,
		modelPath:  *modelPath,
		verbose:    *verbose,
		version:    *version,
	}
	if *seed != "" {
		v, err := strconv.ParseUint(*seed, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid seed '%s': %w", *seed, err)
		}
		opts.seed, opts.seedSet = v, true
	}
	if config.Count < 0 {
		return nil, fmt.Errorf("the amount of names to generate can't be negative, got %d", config.Count)
	}
	return opts, nil
}

func execute(ctx context.Context, opts *options, stdout io.Writer, logger *slog.Logger) error {
	cfg := opts.config
	seed := opts.seed
	if !opts.seedSet {
		seed = rand.Uint64()
	}
	rng := markov.NewSource(seed)
	genOpts := []markov.Option{
		markov.WithSource(rng),
		markov.WithMaxLength(cfg.MaxLength),
		markov.WithLogger(logger),
	}

	if opts.modelPath != "" {
		g, err := importModel(opts.modelPath, genOpts)
		if err != nil {
			return err
		}
		logger.Debug("Model loaded", slog.String("path", opts.modelPath), slog.Int("order", g.Order()))
		return finish(ctx, opts, g, nil, stdout, logger)
	}

	src, closeSource, err := openSource(ctx, opts, stdout, logger)
	if err != nil || src == nil {
		return err
	}
	defer closeSource()

	infos, err := src.List(ctx)
	if err != nil {
		return err
	}
	if len(infos) == 0 {
		return fmt.Errorf("no dataset found for given path '%s'", sourceName(cfg))
	}

	if opts.list {
		printListing(stdout, infos)
		return nil
	}

	keys := opts.keys
	if len(keys) == 0 {
		key, err := dataset.RandomKey(ctx, src, rng)
		if err != nil {
			return err
		}
		keys = []string{key}
	}
	words, err := dataset.LoadAll(ctx, src, keys)
	if err != nil {
		return fmt.Errorf("%w. Make sure you are selecting from the index (-list)", err)
	}

	g, err := markov.NewGenerator(words, cfg.Order, cfg.Prior, genOpts...)
	if err != nil {
		return err
	}
	if opts.verbose {
		explain(stdout, [][2]string{
			{"Training dataset", strings.Join(keys, ", ")},
			{"Order", strconv.Itoa(cfg.Order)},
			{"Prior", strconv.FormatFloat(cfg.Prior, 'g', -1, 64)},
			{"Words to generate", strconv.Itoa(cfg.Count)},
		})
	}
	return finish(ctx, opts, g, words, stdout, logger)
}

// openSource returns the dataset source selected by the options. It returns a
// nil source when the run is complete after an import.
func openSource(ctx context.Context, opts *options, stdout io.Writer, logger *slog.Logger) (dataset.Source, func(), error) {
	cfg := opts.config
	if cfg.DatabasePath == "" {
		if opts.importData {
			return nil, nil, errors.New("-import requires a database given with -db")
		}
		dir, err := dataset.NewDir(cfg.DataDir)
		if err != nil {
			return nil, nil, err
		}
		dir.SetLogger(logger)
		return dir, func() {}, nil
	}

	db, err := store.Open(cfg.DatabasePath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err = store.SetupSchema(db); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("failed to setup dataset schema: %w", err)
	}
	s, err := store.New(db)
	if err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("failed to prepare dataset store: %w", err)
	}
	s.SetLogger(logger)
	closeStore := func() {
		s.Close()
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database", slog.Any("error", err))
		}
	}

	if opts.importData {
		defer closeStore()
		dir, err := dataset.NewDir(cfg.DataDir)
		if err != nil {
			return nil, nil, err
		}
		dir.SetLogger(logger)
		n, err := s.ImportSource(ctx, dir)
		if err != nil {
			return nil, nil, err
		}
		_, _ = fmt.Fprintf(stdout, "Imported %d datasets from '%s' into '%s'.\n", n, dir.Path(), cfg.DatabasePath)
		return nil, nil, nil
	}
	return s, closeStore, nil
}

func importModel(path string, genOpts []markov.Option) (*markov.Generator, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open model file: %w", err)
	}
	defer func(file *os.File) {
		_ = file.Close()
	}(file)
	return markov.Import(file, genOpts...)
}

// finish writes the optional export and prints the generated names.
func finish(ctx context.Context, opts *options, g *markov.Generator, corpus []string, stdout io.Writer, logger *slog.Logger) error {
	logger.Debug("Generator ready", slog.Any("stats", g.Stats()))
	if opts.exportPath != "" {
		var buf bytes.Buffer
		if err := g.Export(&buf); err != nil {
			return err
		}
		if err := atomic.WriteFile(opts.exportPath, &buf); err != nil {
			return fmt.Errorf("failed to write model file: %w", err)
		}
	}
	return generateNames(ctx, g, opts.config.Count, corpus, opts.config.NoveltyRetries, func(name string) {
		_, _ = fmt.Fprintln(stdout, name)
	})
}

// generateNames emits n names. A name equal to a corpus entry is generated
// again, up to retries times in a row, after which it is accepted.
func generateNames(ctx context.Context, g *markov.Generator, n int, corpus []string, retries int, emit func(string)) error {
	known := make(map[string]struct{}, len(corpus))
	for _, word := range corpus {
		known[word] = struct{}{}
	}
	tries := 0
	for i := 0; i < n; {
		if err := ctx.Err(); err != nil {
			return err
		}
		name, err := g.Name()
		if err != nil {
			return err
		}
		if _, ok := known[name]; ok && tries < retries {
			tries++
			continue
		}
		i++
		tries = 0
		emit(name)
	}
	return nil
}

func sourceName(cfg *Config) string {
	if cfg.DatabasePath != "" {
		return cfg.DatabasePath
	}
	return cfg.DataDir
}

// pad returns the spaces that right-align value to width, plus buff more.
func pad(width int, value string, buff int) string {
	return strings.Repeat(" ", buff+max(0, width-runewidth.StringWidth(value)))
}

func printListing(w io.Writer, infos []dataset.Info) {
	width := 0
	for _, info := range infos {
		width = max(width, runewidth.StringWidth(info.Key))
	}
	_, _ = fmt.Fprintln(w, "List of usable files:")
	for _, info := range infos {
		_, _ = fmt.Fprintf(w, "%s%s → %s\n", pad(width, info.Key, 2), info.Key, info.Path)
	}
}

// explain prints the run settings as aligned "key: value" lines.
func explain(w io.Writer, rows [][2]string) {
	width := 0
	for _, row := range rows {
		width = max(width, runewidth.StringWidth(row[0]))
	}
	for _, row := range rows {
		_, _ = fmt.Fprintf(w, "%s: %s%s\n", row[0], pad(width, row[0], 0), row[1])
	}
}
