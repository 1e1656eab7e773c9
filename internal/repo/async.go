package repo

import "context"

// Outcome carries the result of a dispatched operation.
type Outcome[T any] struct {
	Value T
	Err   error
}

// Dispatcher bounds how many repository operations run at once. Each Submit
// call runs its function on its own goroutine gated by the shared semaphore,
// so independent analyses of the same Analyzer can overlap without
// unbounded fan-out.
type Dispatcher struct {
	sem chan struct{}
}

// NewDispatcher creates a Dispatcher allowing up to workers concurrent
// operations.
func NewDispatcher(workers int) *Dispatcher {
	if workers < 1 {
		workers = 1
	}
	return &Dispatcher{sem: make(chan struct{}, workers)}
}

// Submit schedules fn and returns a channel that yields its single Outcome.
// A cancelled context short-circuits with the context error before fn runs.
func Submit[T any](ctx context.Context, d *Dispatcher, fn func() (T, error)) <-chan Outcome[T] {
	out := make(chan Outcome[T], 1)
	go func() {
		defer close(out)

		select {
		case d.sem <- struct{}{}:
			defer func() { <-d.sem }()
		case <-ctx.Done():
			var zero T
			out <- Outcome[T]{Value: zero, Err: ctx.Err()}
			return
		}

		value, err := fn()
		out <- Outcome[T]{Value: value, Err: err}
	}()
	return out
}
