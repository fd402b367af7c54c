package rest

import "context"

// Future is the pending result of a non-blocking call.
type Future[T any] struct {
	done  chan struct{}
	value T
}

// async runs fn on a new goroutine.
func async[T any](fn func() T) *Future[T] {
	f := &Future[T]{done: make(chan struct{})}
	go func() {
		defer close(f.done)
		f.value = fn()
	}()
	return f
}

// Done is closed when the result is available.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Await blocks until the call completes and returns its envelope.
func (f *Future[T]) Await() T {
	<-f.done
	return f.value
}

// AwaitContext is Await bounded by ctx. The call itself keeps running when
// ctx ends first; cancel the context passed to the verb to stop it.
func (f *Future[T]) AwaitContext(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.value, nil
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
