package reactive

import (
	"reflect"
	"sync"
	"sync/atomic"
)

var lastID atomic.Uint64

func nextID() uint64 {
	return lastID.Add(1)
}

// subscriber is a change listener registered on a signal.
type subscriber[T any] struct {
	id uint64
	fn func(T)
}

// Signal is a reactive value container. Subscribers are notified
// synchronously, in registration order, after every Set or Update that
// actually changes the value.
type Signal[T any] struct {
	id uint64

	// value is the current signal value.
	value T

	// mu protects value and subs.
	mu sync.RWMutex

	subs []subscriber[T]

	// equal decides whether a write is a change. If nil, defaultEquals is used.
	equal func(T, T) bool
}

// NewSignal creates a new signal with the given initial value.
func NewSignal[T any](initial T) *Signal[T] {
	return &Signal[T]{
		id:    nextID(),
		value: initial,
	}
}

// Get returns the current value.
func (s *Signal[T]) Get() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value
}

// Set updates the signal's value and notifies subscribers if the value changed.
func (s *Signal[T]) Set(value T) {
	s.Update(func(T) T { return value })
}

// Update atomically reads and updates the signal's value.
// The function receives the current value and returns the new value.
func (s *Signal[T]) Update(fn func(T) T) {
	s.mu.Lock()
	oldValue := s.value
	newValue := fn(oldValue)
	changed := !s.equals(oldValue, newValue)
	if changed {
		s.value = newValue
	}
	subs := make([]subscriber[T], len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	if !changed {
		return
	}
	// Notify outside the lock so subscribers may read or write the signal.
	for _, sub := range subs {
		sub.fn(newValue)
	}
}

// Subscribe registers fn to run after each change with the new value.
// The returned function removes the subscription.
func (s *Signal[T]) Subscribe(fn func(T)) (unsubscribe func()) {
	if fn == nil {
		return func() {}
	}
	id := nextID()

	s.mu.Lock()
	s.subs = append(s.subs, subscriber[T]{id: id, fn: fn})
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			for i, sub := range s.subs {
				if sub.id == id {
					s.subs = append(s.subs[:i], s.subs[i+1:]...)
					return
				}
			}
		})
	}
}

// WithEquals returns the signal configured with a custom equality function.
func (s *Signal[T]) WithEquals(fn func(T, T) bool) *Signal[T] {
	s.equal = fn
	return s
}

// ID returns the unique identifier for this signal.
func (s *Signal[T]) ID() uint64 {
	return s.id
}

func (s *Signal[T]) equals(a, b T) bool {
	if s.equal != nil {
		return s.equal(a, b)
	}
	return defaultEquals(a, b)
}

// defaultEquals uses == for common comparable types and reflect.DeepEqual
// for everything else.
func defaultEquals[T any](a, b T) bool {
	switch av := any(a).(type) {
	case bool:
		return av == any(b).(bool)
	case int:
		return av == any(b).(int)
	case int64:
		return av == any(b).(int64)
	case uint64:
		return av == any(b).(uint64)
	case float64:
		return av == any(b).(float64)
	case string:
		return av == any(b).(string)
	default:
		return reflect.DeepEqual(a, b)
	}
}
