// Package validate checks whether raw host pointers still denote live
// objects.
//
// Results are point-in-time facts and are never cached: the host may free an
// object between two calls. Every operation that hands a pointer to the host
// must validate it immediately before doing so.
package validate

import (
	"errors"
	"fmt"

	"github.com/justyntemme/reapergo/pkg/host"
)

// ErrUseAfterInvalidation means a pointer failed validation at the point of
// use. The operation that needed it must stop.
var ErrUseAfterInvalidation = errors.New("use after invalidation")

// InvalidPointerError describes the pointer that failed validation.
type InvalidPointerError struct {
	Kind      host.Kind
	Pointer   host.Pointer
	Container host.Pointer
}

func (e *InvalidPointerError) Error() string {
	if e.Container != 0 {
		return fmt.Sprintf("%s %s is not valid in project %s", e.Kind, e.Pointer, e.Container)
	}
	return fmt.Sprintf("%s %s is not valid anymore", e.Kind, e.Pointer)
}

func (e *InvalidPointerError) Unwrap() error {
	return ErrUseAfterInvalidation
}

// Validator asks the host about pointer liveness. It holds no state besides
// the API it calls through.
type Validator struct {
	api *host.API
}

// New creates a validator calling through api.
func New(api *host.API) *Validator {
	return &Validator{api: api}
}

// IsValid reports whether ptr is a live object of the given kind in any
// open project. A pointer that cannot be checked, because the host lacks
// the validation entry point, is reported invalid.
func (v *Validator) IsValid(kind host.Kind, ptr host.Pointer) bool {
	if ptr == 0 {
		return false
	}
	ok, err := v.api.ValidatePtr2(0, ptr, kind)
	return err == nil && ok
}

// IsValidIn is the stricter variant of IsValid scoped to one project. Use it
// whenever a lookup must not leak across projects.
func (v *Validator) IsValidIn(container host.Pointer, kind host.Kind, ptr host.Pointer) bool {
	if ptr == 0 || container == 0 {
		return false
	}
	ok, err := v.api.ValidatePtr2(container, ptr, kind)
	return err == nil && ok
}

// Require returns an *InvalidPointerError unless IsValid holds.
func (v *Validator) Require(kind host.Kind, ptr host.Pointer) error {
	if !v.IsValid(kind, ptr) {
		return &InvalidPointerError{Kind: kind, Pointer: ptr}
	}
	return nil
}

// RequireIn returns an *InvalidPointerError unless IsValidIn holds.
func (v *Validator) RequireIn(container host.Pointer, kind host.Kind, ptr host.Pointer) error {
	if !v.IsValidIn(container, kind, ptr) {
		return &InvalidPointerError{Kind: kind, Pointer: ptr, Container: container}
	}
	return nil
}
