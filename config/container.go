package config

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/go-playground/validator/v10"
)

// Container holds the current policy snapshot for concurrent readers.
// Lifecycle hooks read a snapshot when they build a recorder; the
// watcher swaps the pointer when the deployment file changes. Readers
// are wait-free.
type Container[T any] struct {
	store    atomic.Value
	mu       sync.Mutex // serializes updates only
	validate *validator.Validate
}

func NewContainer[T any](initial T) *Container[T] {
	c := &Container[T]{
		validate: validator.New(),
	}
	c.store.Store(&initial)
	return c
}

// Get returns the current snapshot.
func (c *Container[T]) Get() *T {
	return c.store.Load().(*T)
}

// Update validates and swaps in a new snapshot. Units of work already
// in flight keep the snapshot they started with.
func (c *Container[T]) Update(newConfig T) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.validate.Struct(&newConfig); err != nil {
		return fmt.Errorf("config: validation failed: %w", err)
	}

	c.store.Store(&newConfig)
	return nil
}
