package transcript

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestGateResolvesOnce(t *testing.T) {
	g := newGate()
	if g.resolved() {
		t.Fatal("new gate should be pending")
	}
	if !g.open() {
		t.Fatal("first open should resolve the gate")
	}
	if g.fail(errors.New("late")) {
		t.Fatal("second resolution should be ignored")
	}
	if err := g.wait(context.Background()); err != nil {
		t.Fatalf("wait returned %v after open", err)
	}
}

func TestGateFailureIsSticky(t *testing.T) {
	g := newGate()
	boom := errors.New("boom")
	g.fail(boom)
	g.open()
	for range 2 {
		if err := g.wait(context.Background()); !errors.Is(err, boom) {
			t.Fatalf("wait = %v, want %v", err, boom)
		}
	}
}

func TestGateWaitHonoursContext(t *testing.T) {
	g := newGate()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if err := g.wait(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("wait = %v, want deadline exceeded", err)
	}
	if g.resolved() {
		t.Fatal("context expiry must not resolve the gate")
	}
}
