package reaper

import (
	"errors"
)

var (
	// ErrNotInitialized is returned by Get before Setup installed a runtime.
	ErrNotInitialized = errors.New("reaper runtime not initialized")
	// ErrHostFunctionsUnavailable is returned when the host handed over no
	// function lookup at all.
	ErrHostFunctionsUnavailable = errors.New("host function lookup unavailable")
	// ErrUnavailable means a GUID lookup found no matching object. It is the
	// normal outcome for deleted objects and callers may treat it as absence.
	ErrUnavailable = errors.New("object unavailable")
	// ErrDuplicationUnsupported is returned when the host refuses to
	// duplicate a resource.
	ErrDuplicationUnsupported = errors.New("duplication unsupported")
	// ErrReleased is returned by every call on an owned resource after Close
	// or Detach.
	ErrReleased = errors.New("resource already released")
	// ErrCreateFailed is returned when the host could not create a resource.
	ErrCreateFailed = errors.New("host could not create resource")
)
