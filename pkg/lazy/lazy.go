// Package lazy provides a value that is built on first use.
package lazy

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/singleflight"
)

// Cell holds a value constructed on first Get. Concurrent first calls share
// one construction. A failed construction is not remembered, so the next Get
// retries.
type Cell[T any] struct {
	init  func(ctx context.Context) (T, error)
	value atomic.Pointer[T]
	sf    singleflight.Group
}

func New[T any](init func(ctx context.Context) (T, error)) *Cell[T] {
	if init == nil {
		panic("lazy: init function is required")
	}
	return &Cell[T]{init: init}
}

// Get returns the value, building it if needed.
func (c *Cell[T]) Get(ctx context.Context) (T, error) {
	if v := c.value.Load(); v != nil {
		return *v, nil
	}

	v, err, _ := c.sf.Do("init", func() (any, error) {
		if v := c.value.Load(); v != nil {
			return *v, nil
		}
		built, err := c.init(ctx)
		if err != nil {
			return nil, err
		}
		c.value.Store(&built)
		return built, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}

// Loaded reports whether a value has been built.
func (c *Cell[T]) Loaded() bool {
	return c.value.Load() != nil
}
