package query

import (
	"errors"
	"fmt"
	"strings"
)

// EvalError aborts one evaluation. It carries the evaluation ID so the
// failure can be matched with its log lines.
type EvalError struct {
	// EvalID identifies the evaluation (UUIDv7).
	EvalID string

	// Pattern is the index of the pattern being matched, or -1.
	Pattern int

	// Err is the underlying failure from the source or the store.
	Err error
}

// Error implements the error interface.
func (e *EvalError) Error() string {
	if e.Pattern >= 0 {
		return fmt.Sprintf("evaluation %s: pattern %d: %v", e.EvalID, e.Pattern, e.Err)
	}
	return fmt.Sprintf("evaluation %s: %v", e.EvalID, e.Err)
}

// Unwrap returns the underlying error.
func (e *EvalError) Unwrap() error {
	return e.Err
}

// IsEvalError returns true if err is or wraps an *EvalError.
func IsEvalError(err error) bool {
	var ee *EvalError
	return errors.As(err, &ee)
}

// ValidationError lists every problem found in a query.
type ValidationError struct {
	Problems []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return "invalid query: " + strings.Join(e.Problems, "; ")
}

// ErrUnknownSource is returned by Execute for an unregistered source name.
var ErrUnknownSource = errors.New("unknown triples source")
