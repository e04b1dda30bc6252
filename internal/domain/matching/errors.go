package matching

import "errors"

var (
	// ErrMissingField signals that a primary evaluator lacked a required
	// input field. The aggregator recovers via the criterion fallback.
	ErrMissingField = errors.New("missing required field")

	// ErrDependencyUnavailable signals that the distance provider was
	// unreachable or timed out.
	ErrDependencyUnavailable = errors.New("dependency unavailable")

	// ErrInvalidWeights is returned at construction time when a weight
	// table violates the sum-to-one invariant.
	ErrInvalidWeights = errors.New("invalid weight table")

	// ErrNoEvaluators is returned when an engine is built without any
	// registered criterion evaluators.
	ErrNoEvaluators = errors.New("no evaluators registered")
)
