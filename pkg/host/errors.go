package host

import (
	"errors"
)

// ErrMissingHostFunction is returned for every call through an entry point
// the host did not provide at load time.
var ErrMissingHostFunction = errors.New("missing host function")

// MissingFunctionError names the entry point that was not resolved.
type MissingFunctionError struct {
	Name string
}

func (e *MissingFunctionError) Error() string {
	return "host function " + e.Name + " not available"
}

func (e *MissingFunctionError) Unwrap() error {
	return ErrMissingHostFunction
}

func missing(name string) error {
	return &MissingFunctionError{Name: name}
}
