package app

import "sync"

// Store holds one immutable snapshot. Update replaces the whole value; readers always get
// a private copy, so there are no torn reads.
type Store[T any] struct {
	clone func(T) T

	mu          sync.RWMutex
	value       T
	listeners   []func(T)
	subscribers map[chan T]struct{}
}

// NewStore creates a store seeded with initial. clone must deep-copy a snapshot.
func NewStore[T any](initial T, clone func(T) T) *Store[T] {
	return &Store[T]{
		clone:       clone,
		value:       clone(initial),
		subscribers: make(map[chan T]struct{}),
	}
}

// Snapshot returns a copy of the current value.
func (s *Store[T]) Snapshot() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.clone(s.value)
}

// OnChange registers a listener that runs synchronously after every Replace, outside the
// store's lock.
func (s *Store[T]) OnChange(fn func(T)) {
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

// Replace installs next as the current snapshot and notifies listeners and subscribers.
func (s *Store[T]) Replace(next T) {
	s.mu.Lock()
	s.value = s.clone(next)
	s.broadcastLocked()
	listeners := append([]func(T){}, s.listeners...)
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(s.clone(next))
	}
}

// Subscribe returns a channel that receives the current snapshot followed by every
// replacement. Slow readers only ever see the latest value. The caller must invoke the
// returned cancel function to avoid leaks.
func (s *Store[T]) Subscribe() (<-chan T, func()) {
	ch := make(chan T, 1)

	s.mu.Lock()
	s.subscribers[ch] = struct{}{}
	ch <- s.clone(s.value)
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		if _, ok := s.subscribers[ch]; ok {
			delete(s.subscribers, ch)
			close(ch)
		}
		s.mu.Unlock()
	}
	return ch, cancel
}

func (s *Store[T]) broadcastLocked() {
	for ch := range s.subscribers {
		snapshot := s.clone(s.value)
		select {
		case ch <- snapshot:
		default:
			// drop the stale value so the subscriber catches up on the newest one
			select {
			case <-ch:
			default:
			}
			ch <- snapshot
		}
	}
}
