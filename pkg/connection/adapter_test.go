package connection

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

// TestReconnectDelayLinearCappedAtFive is the reconnect-backoff
// property: attempts n=1..5 yield baseDelay*n; n>=5 yields baseDelay*5.
func TestReconnectDelayLinearCappedAtFive(t *testing.T) {
	policy := ReconnectPolicy{BaseDelay: 100 * time.Millisecond}
	cases := map[int]time.Duration{
		1: 100 * time.Millisecond,
		2: 200 * time.Millisecond,
		3: 300 * time.Millisecond,
		4: 400 * time.Millisecond,
		5: 500 * time.Millisecond,
		6: 500 * time.Millisecond,
		9: 500 * time.Millisecond,
	}
	for attempt, want := range cases {
		if got := policy.ReconnectDelay(attempt); got != want {
			t.Errorf("ReconnectDelay(%d) = %v, want %v", attempt, got, want)
		}
	}
}

func newFakeAdapter(t *testing.T, connectErr func(attempt int) error) (*BaseAdapter, *int32Counter) {
	t.Helper()
	attempts := &int32Counter{}
	hooks := protocolHooks{
		doConnect: func(context.Context) error {
			attempts.inc()
			if connectErr != nil {
				return connectErr(attempts.get())
			}
			return nil
		},
		doDisconnect: func(context.Context) error { return nil },
		doSend:       func(context.Context, any, SendOptions) error { return nil },
	}
	a := newBaseAdapter("conn-1", "fake", ReconnectPolicy{Enabled: true, BaseDelay: time.Millisecond, MaxAttempts: 3}, hooks)
	return a, attempts
}

type int32Counter struct {
	mu sync.Mutex
	n  int
}

func (c *int32Counter) inc() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.n++
}
func (c *int32Counter) get() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.n
}

func TestAdapterConnectIsIdempotent(t *testing.T) {
	a, attempts := newFakeAdapter(t, nil)
	if err := a.Connect(context.Background()); err != nil {
		t.Fatalf("first Connect() error = %v", err)
	}
	if err := a.Connect(context.Background()); err != nil {
		t.Fatalf("second Connect() (already connected) should be a no-op, got %v", err)
	}
	if attempts.get() != 1 {
		t.Errorf("doConnect called %d times, want 1 (idempotent)", attempts.get())
	}
	if a.State() != StateConnected {
		t.Fatalf("state = %v, want connected", a.State())
	}
}

func TestAdapterSendBuffersWhileDisconnected(t *testing.T) {
	a, _ := newFakeAdapter(t, nil)
	if err := a.Send(context.Background(), "hello", SendOptions{Priority: PriorityNormal}); err != nil {
		t.Fatalf("Send() while disconnected should buffer, not error: %v", err)
	}
	if a.buffer.Len() != 1 {
		t.Fatalf("buffer.Len() = %d, want 1", a.buffer.Len())
	}

	if err := a.Connect(context.Background()); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	// flushBuffer runs synchronously inside Connect before it returns.
	if a.buffer.Len() != 0 {
		t.Errorf("buffer.Len() after connect = %d, want 0 (flushed)", a.buffer.Len())
	}
}

func TestAdapterScheduleReconnectRespectsMaxAttempts(t *testing.T) {
	failing := errors.New("refused")
	a, attempts := newFakeAdapter(t, func(int) error { return failing })

	// The failed connect moves to error and, with reconnection enabled,
	// immediately schedules a retry (error -> reconnecting).
	_ = a.Connect(context.Background())
	if a.State() != StateReconnecting {
		t.Fatalf("state after failed connect = %v, want reconnecting", a.State())
	}

	// Wait long enough for every scheduled reconnect (MaxAttempts=3,
	// base delay 1ms) to have fired and given up.
	deadline := time.Now().Add(500 * time.Millisecond)
	for time.Now().Before(deadline) {
		if attempts.get() >= 4 { // initial + 3 reconnect attempts
			break
		}
		time.Sleep(5 * time.Millisecond)
	}

	if got := attempts.get(); got > 4 {
		t.Errorf("doConnect invoked %d times, want at most 4 (initial + MaxAttempts=3)", got)
	}
	a.Dispose(context.Background())
}

func TestAdapterDisposeCancelsReconnectTimer(t *testing.T) {
	a, attempts := newFakeAdapter(t, func(int) error { return errors.New("down") })
	_ = a.Connect(context.Background())
	a.Dispose(context.Background())

	seenAfterDispose := attempts.get()
	time.Sleep(20 * time.Millisecond)
	if attempts.get() != seenAfterDispose {
		t.Errorf("doConnect kept being called after Dispose: %d -> %d", seenAfterDispose, attempts.get())
	}
	if !a.Disposed() {
		t.Error("Disposed() should report true")
	}
}
