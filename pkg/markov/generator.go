package markov

import (
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sync"
)

// DefaultMaxLength is the default number of generation rounds after which
// Generate gives up with ErrGenerationExhausted.
const DefaultMaxLength = 1024

// generatorOptions holds the settings shared by NewGenerator and Import.
type generatorOptions struct {
	source    Source
	maxLength int
	logger    *slog.Logger
}

// Option configures a Generator. It is used as a variadic argument of
// NewGenerator and Import.
type Option func(*generatorOptions)

// WithSource sets the random source used for sampling. A nil source is ignored.
func WithSource(src Source) Option {
	return func(o *generatorOptions) {
		if src != nil {
			o.source = src
		}
	}
}

// WithSeed makes generation reproducible by sampling from a PCG source seeded
// with seed.
func WithSeed(seed uint64) Option {
	return func(o *generatorOptions) { o.source = NewSource(seed) }
}

// WithMaxLength sets how many rounds Generate may run before it fails with
// ErrGenerationExhausted. Values below 1 keep the default.
func WithMaxLength(n int) Option {
	return func(o *generatorOptions) {
		if n > 0 {
			o.maxLength = n
		}
	}
}

// WithLogger sets the logger of the Generator. By default all logs are discarded.
func WithLogger(logger *slog.Logger) Option {
	return func(o *generatorOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

func resolveOptions(opts []Option) *generatorOptions {
	options := &generatorOptions{
		maxLength: DefaultMaxLength,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(options)
	}
	if options.source == nil {
		options.source = newRandomSource()
	}
	return options
}

// Generator is the main entry point of the package. It owns one Model per order,
// from its configured order down to 1, and generates names by backing off from
// the longest context to shorter ones.
//
// A Generator is immutable after construction and safe for concurrent use; calls
// to Generate are serialized around the shared random source.
type Generator struct {
	order     int
	prior     float64
	models    []*Model
	maxLength int

	mu     sync.Mutex
	rng    Source
	logger *slog.Logger
}

// NewGenerator trains a Generator of the given order on data. Every model,
// orders order down to 1, is trained on its own copy of data and prior is
// forwarded to each of them.
func NewGenerator(data []string, order int, prior float64, opts ...Option) (*Generator, error) {
	if order < 1 {
		return nil, fmt.Errorf("%w: order must be an integer greater or equal to 1, got %d", ErrInvalidOrder, order)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: training dataset cannot be empty", ErrInvalidData)
	}

	models := make([]*Model, 0, order)
	for i := 0; i < order; i++ {
		m, err := NewModel(data, order-i, prior)
		if err != nil {
			return nil, fmt.Errorf("failed to build order %d model: %w", order-i, err)
		}
		models = append(models, m)
	}

	g := newGenerator(order, prior, models, resolveOptions(opts))
	g.logger.Debug("Generator trained",
		slog.Int("order", order),
		slog.Float64("prior", prior),
		slog.Int("words", len(data)),
		slog.Int("alphabet_size", len(models[0].alphabet)),
	)
	return g, nil
}

func newGenerator(order int, prior float64, models []*Model, options *generatorOptions) *Generator {
	return &Generator{
		order:     order,
		prior:     prior,
		models:    models,
		maxLength: options.maxLength,
		rng:       options.source,
		logger:    options.logger,
	}
}

// Order returns the highest order of the Generator.
func (g *Generator) Order() int { return g.order }

// Prior returns the Dirichlet prior shared by every model.
func (g *Generator) Prior() float64 { return g.prior }

// Models returns the models from the highest order down to order 1.
func (g *Generator) Models() []*Model { return slices.Clone(g.models) }

// SetLogger sets the logger for the Generator. A nil logger is ignored.
func (g *Generator) SetLogger(logger *slog.Logger) {
	if logger != nil {
		g.mu.Lock()
		g.logger = logger
		g.mu.Unlock()
	}
}
