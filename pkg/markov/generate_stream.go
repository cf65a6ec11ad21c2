package markov

import (
	"context"
	"fmt"
	"log/slog"
)

// Result is one item produced by GenerateStream: a stripped name, or the error
// that prevented it.
type Result struct {
	Name string
	Err  error
}

// GenerateStream generates n names in a background goroutine and returns a
// read-only channel of Results. The channel is closed once all names have been
// sent or the context is cancelled. A round that fails is sent with its error
// and generation continues with the next one.
func (g *Generator) GenerateStream(ctx context.Context, n int) (<-chan Result, error) {
	if n < 0 {
		return nil, fmt.Errorf("name count must not be negative, got %d", n)
	}

	results := make(chan Result)

	go func() {
		defer close(results)

		for i := 0; i < n; i++ {
			select {
			case <-ctx.Done():
				g.logger.DebugContext(ctx, "Generation stream cancelled by context",
					slog.Int("generated", i),
					slog.Int("requested", n),
				)
				return
			default:
			}

			name, err := g.Name()
			select {
			case <-ctx.Done():
				return
			case results <- Result{Name: name, Err: err}:
			}
		}
	}()

	return results, nil
}
