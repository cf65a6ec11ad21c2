package markov

import "errors"

var (
	// ErrInvalidData is returned when a model is built from an empty corpus or,
	// for NewModelWithAlphabet, an empty alphabet.
	ErrInvalidData = errors.New("markov: invalid training data")
	// ErrInvalidPrior is returned when the Dirichlet prior is outside [0, 1].
	ErrInvalidPrior = errors.New("markov: invalid prior")
	// ErrInvalidOrder is returned when the order is not a positive integer.
	ErrInvalidOrder = errors.New("markov: invalid order")
	// ErrGenerationExhausted is returned by Generate when no boundary symbol was
	// produced within the configured maximum number of rounds.
	ErrGenerationExhausted = errors.New("markov: generation exhausted")
	// ErrInvalidSnapshot is returned by Import when a snapshot breaks one of the
	// model invariants.
	ErrInvalidSnapshot = errors.New("markov: invalid snapshot")
)
