package lambda

import (
	"context"
	"io"
	"sync"
)

// ConnectionManager lazily builds the dependencies of a Lambda function on
// the first invocation and hands the same value to warm invocations. A
// failed build is retried on the next call.
type ConnectionManager[T io.Closer] struct {
	build       func(ctx context.Context) (T, error)
	value       T
	initialized bool
	mu          sync.Mutex
}

// NewConnectionManager creates a manager around build
func NewConnectionManager[T io.Closer](build func(ctx context.Context) (T, error)) *ConnectionManager[T] {
	return &ConnectionManager[T]{build: build}
}

// Get returns the built value, building it if necessary
func (cm *ConnectionManager[T]) Get(ctx context.Context) (T, error) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if !cm.initialized {
		value, err := cm.build(ctx)
		if err != nil {
			var zero T
			return zero, err
		}
		cm.value = value
		cm.initialized = true
	}

	return cm.value, nil
}

// Cleanup closes the built value. The next Get builds a new one.
func (cm *ConnectionManager[T]) Cleanup() error {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if !cm.initialized {
		return nil
	}

	err := cm.value.Close()
	var zero T
	cm.value = zero
	cm.initialized = false
	return err
}
