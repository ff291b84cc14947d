package taskqueue

import (
	"errors"
	"fmt"
)

var (
	// ErrQueueFull is returned when the inbox has no room. The task was not
	// queued.
	ErrQueueFull = errors.New("task queue full")
	// ErrNilTask is returned when enqueueing a nil task.
	ErrNilTask = errors.New("nil task")
)

// PanicError wraps a panic recovered from a task body.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("main thread task panicked: %v", e.Value)
}
