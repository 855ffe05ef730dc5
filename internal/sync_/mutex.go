package sync_

import "sync"

type Mutexer[T any] interface {
	// Locked runs a function with the lock acquired, giving it access to the inner value.
	Locked(f func(*T) error) error
	// Get returns a copy of the inner value.
	Get() T
	// Set overwrites the inner value.
	Set(value T)
}

// Mutexed guards a value of type T with a mutex.
type Mutexed[T any] struct {
	mu    sync.Mutex
	value T
}

func NewMutexed[T any](value T) *Mutexed[T] {
	return &Mutexed[T]{value: value}
}

func (m *Mutexed[T]) Locked(f func(*T) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return f(&m.value)
}

func (m *Mutexed[T]) Get() T {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.value
}

func (m *Mutexed[T]) Set(value T) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.value = value
}
