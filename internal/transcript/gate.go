package transcript

import (
	"context"
	"sync"
)

// gate is a one-shot signal. The first call to open or fail decides the
// outcome; later calls are ignored and report false.
type gate struct {
	once sync.Once
	done chan struct{}
	err  error
}

func newGate() *gate {
	return &gate{done: make(chan struct{})}
}

func (g *gate) open() bool {
	return g.resolve(nil)
}

func (g *gate) fail(err error) bool {
	return g.resolve(err)
}

func (g *gate) resolve(err error) bool {
	resolved := false
	g.once.Do(func() {
		g.err = err
		close(g.done)
		resolved = true
	})
	return resolved
}

func (g *gate) resolved() bool {
	select {
	case <-g.done:
		return true
	default:
		return false
	}
}

// wait blocks until the gate resolves or ctx ends.
func (g *gate) wait(ctx context.Context) error {
	select {
	case <-g.done:
		return g.err
	case <-ctx.Done():
		return ctx.Err()
	}
}
