package cli

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"
)

// syncBuffer is a bytes.Buffer safe for the spinner goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Len()
}

func TestSpinnerDraws(t *testing.T) {
	var w syncBuffer
	s := newSpinnerWithContext(context.Background(), "Rendering")
	s.w = &w
	s.Start()
	time.Sleep(200 * time.Millisecond)
	s.Stop()

	if w.Len() == 0 {
		t.Error("spinner should have drawn frames")
	}
	s.Stop() // idempotent
}

func TestSpinnerStopWithoutStart(t *testing.T) {
	s := newSpinnerWithContext(context.Background(), "idle")
	done := make(chan struct{})
	go func() {
		s.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop on an unstarted spinner should not block")
	}
}

func TestSpinnerContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := newSpinnerWithContext(ctx, "Testing with context...")
	s.w = &syncBuffer{}
	s.Start()
	cancel()

	select {
	case <-s.stopped:
	case <-time.After(time.Second):
		t.Fatal("spinner goroutine should exit on cancel")
	}
	if !s.Cancelled() {
		t.Error("Cancelled should report true after the context ends")
	}
	s.Stop()
}
