package domain

import (
	"errors"
	"fmt"
)

// ErrRegistryUnavailable indicates the registry endpoint could not be
// reached or answered with a server error.
var ErrRegistryUnavailable = errors.New("registry unavailable")

// ErrMalformedPayload indicates a registry response could not be mapped
// to package results.
var ErrMalformedPayload = errors.New("malformed registry payload")

// LookupError describes a failed lookup for a specific term. It is what
// the live search pipeline publishes to its error sink.
type LookupError struct {
	// Term is the normalised search term the lookup was dispatched for.
	Term string

	// Err is the underlying failure.
	Err error
}

// Error implements the error interface.
func (e *LookupError) Error() string {
	return fmt.Sprintf("lookup %q: %v", e.Term, e.Err)
}

// Unwrap returns the underlying failure.
func (e *LookupError) Unwrap() error {
	return e.Err
}
