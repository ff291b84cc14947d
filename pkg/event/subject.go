// Package event fans host lifecycle callbacks out to subscribers.
//
// The host calls its control surface hooks on the main thread only, and so
// Subscribe, Unsubscribe and Publish are main-thread only too. Nothing here
// takes a lock.
package event

import (
	"slices"

	"go.uber.org/zap"
)

// Subject is an ordered list of subscribers for one event kind.
type Subject[T any] struct {
	name   string
	subs   []*subscriber[T]
	logger *zap.Logger
}

type subscriber[T any] struct {
	fn     func(T)
	active bool
}

// NewSubject creates a subject. name shows up in logs.
func NewSubject[T any](name string, logger *zap.Logger) *Subject[T] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Subject[T]{name: name, logger: logger}
}

// Subscription is the token returned by Subscribe.
type Subscription struct {
	cancel func()
}

// Unsubscribe stops delivery. Calling it more than once is harmless.
func (s *Subscription) Unsubscribe() {
	if s == nil || s.cancel == nil {
		return
	}
	s.cancel()
	s.cancel = nil
}

// Subscribe appends fn to the subscriber list. Subscribers added during a
// Publish first receive the next one.
func (s *Subject[T]) Subscribe(fn func(T)) *Subscription {
	sub := &subscriber[T]{fn: fn, active: true}
	// Copy on write: a Publish in progress keeps iterating its own slice.
	s.subs = append(slices.Clip(s.subs), sub)
	return &Subscription{cancel: func() { s.remove(sub) }}
}

func (s *Subject[T]) remove(sub *subscriber[T]) {
	sub.active = false
	next := make([]*subscriber[T], 0, len(s.subs))
	for _, x := range s.subs {
		if x != sub {
			next = append(next, x)
		}
	}
	s.subs = next
}

// Publish delivers v to every subscriber in subscription order. A subscriber
// that was unsubscribed before its turn is skipped. A panicking subscriber is
// logged and the remaining ones still receive v.
func (s *Subject[T]) Publish(v T) {
	for _, sub := range s.subs {
		if !sub.active {
			continue
		}
		s.deliver(sub, v)
	}
}

func (s *Subject[T]) deliver(sub *subscriber[T], v T) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("event subscriber panicked",
				zap.String("event", s.name),
				zap.Any("panic", r))
		}
	}()
	sub.fn(v)
}

// Len returns the number of active subscribers.
func (s *Subject[T]) Len() int {
	return len(s.subs)
}

// Name returns the event kind name.
func (s *Subject[T]) Name() string {
	return s.name
}
