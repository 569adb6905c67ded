package protocol

import (
	"errors"
	"fmt"
	"sync"
	"testing"
)

type nopTransport struct{}

func (nopTransport) Send(Message) error { return nil }

func TestConn_CorrelationIDsAreUnique(t *testing.T) {
	t.Parallel()

	conn := NewConn(nopTransport{})

	const calls = 64
	ids := make(chan int64, calls)
	var wg sync.WaitGroup
	for range calls {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id, _, err := conn.call(Message{Method: "noop"})
			if err != nil {
				t.Errorf("call() error = %v", err)
				return
			}
			ids <- id
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[int64]bool, calls)
	for id := range ids {
		if seen[id] {
			t.Fatalf("correlation id %d assigned twice", id)
		}
		seen[id] = true
	}
	if conn.pendingCalls() != calls {
		t.Errorf("pending calls = %d, want %d", conn.pendingCalls(), calls)
	}
}

func TestConn_InterleavedResolution(t *testing.T) {
	t.Parallel()

	conn := NewConn(nopTransport{})

	const calls = 32
	type pending struct {
		id int64
		ch chan Response
	}
	pendings := make([]pending, 0, calls)
	for range calls {
		id, ch, err := conn.call(Message{Method: "noop"})
		if err != nil {
			t.Fatalf("call() error = %v", err)
		}
		pendings = append(pendings, pending{id: id, ch: ch})
	}

	// Resolve every id concurrently, in effect out of order.
	var wg sync.WaitGroup
	for _, p := range pendings {
		wg.Add(1)
		go func() {
			defer wg.Done()
			conn.DispatchResponse(Response{
				ID:      p.id,
				Payload: map[string]any{"result": map[string]any{"id": fmt.Sprint(p.id)}},
			})
		}()
	}
	wg.Wait()

	for _, p := range pendings {
		resp := <-p.ch
		if resp.ID != p.id {
			t.Fatalf("channel for id %d received response for id %d", p.id, resp.ID)
		}
	}
	if conn.pendingCalls() != 0 {
		t.Errorf("pending calls after resolution = %d, want 0", conn.pendingCalls())
	}
}

func TestConn_ResponseForUnknownIDIsDropped(t *testing.T) {
	t.Parallel()

	conn := NewConn(nopTransport{})
	conn.DispatchResponse(Response{ID: 999, Payload: map[string]any{}})

	if conn.pendingCalls() != 0 {
		t.Errorf("pending calls = %d, want 0", conn.pendingCalls())
	}
}

func TestConn_ResolveConsumesIDExactlyOnce(t *testing.T) {
	t.Parallel()

	conn := NewConn(nopTransport{})
	id, ch, err := conn.call(Message{Method: "noop"})
	if err != nil {
		t.Fatalf("call() error = %v", err)
	}

	conn.DispatchResponse(Response{ID: id, Payload: map[string]any{"n": 1.0}})
	conn.DispatchResponse(Response{ID: id, Payload: map[string]any{"n": 2.0}})

	first := <-ch
	if first.Payload["n"] != 1.0 {
		t.Errorf("first response n = %v, want 1", first.Payload["n"])
	}
	select {
	case second := <-ch:
		t.Fatalf("id %d resolved twice: %v", id, second)
	default:
	}
}

func TestConn_PurgeFailsOutstandingWaiters(t *testing.T) {
	t.Parallel()

	conn := NewConn(nopTransport{})
	if _, _, err := conn.call(Message{Method: "noop"}); err != nil {
		t.Fatalf("call() error = %v", err)
	}
	_, cancel := conn.awaitNotification(predicate{method: "Page.loadEventFired"})
	defer cancel()

	cause := errors.New("peer went away")
	conn.Purge(cause)

	select {
	case <-conn.Done():
	default:
		t.Fatal("Done() not closed after Purge")
	}
	if !errors.Is(conn.Err(), cause) {
		t.Errorf("Err() = %v, want %v", conn.Err(), cause)
	}
	if conn.pendingCalls() != 0 {
		t.Errorf("pending calls after purge = %d, want 0", conn.pendingCalls())
	}

	// New calls must fail once purged.
	if _, _, err := conn.call(Message{Method: "noop"}); !errors.Is(err, ErrTransportClosed) {
		t.Errorf("call() after purge error = %v, want ErrTransportClosed", err)
	}
}

func TestConn_NotificationGoesToFirstMatchingWaiter(t *testing.T) {
	t.Parallel()

	conn := NewConn(nopTransport{})

	first, cancelFirst := conn.awaitNotification(predicate{method: "Page.loadEventFired"})
	defer cancelFirst()
	second, cancelSecond := conn.awaitNotification(predicate{method: "Page.loadEventFired"})
	defer cancelSecond()

	conn.DispatchNotification(Notification{Method: "Page.loadEventFired", Payload: map[string]any{}})

	select {
	case <-first:
	default:
		t.Fatal("first waiter did not receive the notification")
	}
	select {
	case <-second:
		t.Fatal("second waiter consumed a notification meant for the first")
	default:
	}
}

func TestConn_CancelledWaiterIgnoresLaterNotifications(t *testing.T) {
	t.Parallel()

	conn := NewConn(nopTransport{})
	ch, cancel := conn.awaitNotification(predicate{method: "Page.loadEventFired"})
	cancel()

	conn.DispatchNotification(Notification{Method: "Page.loadEventFired", Payload: map[string]any{}})

	select {
	case <-ch:
		t.Fatal("cancelled waiter received a notification")
	default:
	}
}
