package dialog

import (
	"context"
	"sync"
)

// Pending is a value resolved exactly once. Later resolutions are no-ops.
type Pending[T any] struct {
	once  sync.Once
	done  chan struct{}
	value T
	err   error
}

func NewPending[T any]() *Pending[T] {
	return &Pending[T]{done: make(chan struct{})}
}

// Resolve sets the result. It reports whether this call won.
func (p *Pending[T]) Resolve(value T, err error) bool {
	won := false
	p.once.Do(func() {
		p.value = value
		p.err = err
		won = true
		close(p.done)
	})
	return won
}

// Done is closed once the value is resolved.
func (p *Pending[T]) Done() <-chan struct{} {
	return p.done
}

// Resolved reports whether Resolve has been called.
func (p *Pending[T]) Resolved() bool {
	select {
	case <-p.done:
		return true
	default:
		return false
	}
}

// Wait blocks until the value is resolved or ctx ends.
func (p *Pending[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-p.done:
		return p.value, p.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
