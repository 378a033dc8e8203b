package resilience

import (
	"context"
	"sync"
)

// Group collapses concurrent calls that share a key into one execution. Keys
// are forgotten as soon as the leading call returns.
type Group[T any] struct {
	mu    sync.Mutex
	calls map[string]*flight[T]
}

type flight[T any] struct {
	done chan struct{}
	val  T
	err  error
}

// Do runs fn once per in-flight key. Followers stop waiting when their own ctx
// ends; the leader's fn keeps running. shared reports whether the result came
// from another caller.
func (g *Group[T]) Do(ctx context.Context, key string, fn func() (T, error)) (val T, shared bool, err error) {
	g.mu.Lock()
	if g.calls == nil {
		g.calls = make(map[string]*flight[T])
	}
	if f, ok := g.calls[key]; ok {
		g.mu.Unlock()
		select {
		case <-f.done:
			return f.val, true, f.err
		case <-ctx.Done():
			var zero T
			return zero, true, ctx.Err()
		}
	}

	f := &flight[T]{done: make(chan struct{})}
	g.calls[key] = f
	g.mu.Unlock()

	defer func() {
		g.mu.Lock()
		delete(g.calls, key)
		g.mu.Unlock()
		close(f.done)
	}()

	f.val, f.err = fn()
	return f.val, false, f.err
}

// InFlight reports how many keys currently have a running call.
func (g *Group[T]) InFlight() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.calls)
}
