package protocol

import (
	"fmt"
	"sync"
)

// Conn is the protocol-side endpoint of one transport connection. It
// owns the pending-call table and the list of notification waiters,
// both shared by every session multiplexed over the connection.
// Dispatch and registration interleave from different goroutines; the
// mutex keeps register/resolve/purge atomic per correlation id.
type Conn struct {
	transport Transport

	mu      sync.Mutex
	nextID  int64
	calls   map[int64]chan Response
	waiters []*waiter
	closed  bool
	err     error

	// done is closed by Purge so suspended sessions unblock without
	// polling.
	done chan struct{}
}

type waiter struct {
	pred predicate
	ch   chan Notification
}

// NewConn wraps a transport. The transport's read loop must feed
// DispatchResponse/DispatchNotification and call Purge on closure.
func NewConn(t Transport) *Conn {
	return &Conn{
		transport: t,
		calls:     make(map[int64]chan Response),
		done:      make(chan struct{}),
	}
}

// call assigns a fresh correlation id, registers it, and sends the
// message. The returned channel receives the matching response exactly
// once. On send failure the registration is rolled back.
func (c *Conn) call(msg Message) (int64, chan Response, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return 0, nil, fmt.Errorf("%w: %v", ErrTransportClosed, c.err)
	}
	c.nextID++
	id := c.nextID
	ch := make(chan Response, 1)
	c.calls[id] = ch
	c.mu.Unlock()

	msg.ID = id
	if err := c.transport.Send(msg); err != nil {
		c.unregisterCall(id)
		return 0, nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	return id, ch, nil
}

// unregisterCall drops a pending call, typically after a timeout or
// cancellation. Safe to call for an id already resolved.
func (c *Conn) unregisterCall(id int64) {
	c.mu.Lock()
	delete(c.calls, id)
	c.mu.Unlock()
}

// pendingCalls reports the number of outstanding correlation ids.
func (c *Conn) pendingCalls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.calls)
}

// awaitNotification registers a single-shot waiter. The cancel func
// removes it; calling cancel after a match is a no-op.
func (c *Conn) awaitNotification(pred predicate) (chan Notification, func()) {
	w := &waiter{pred: pred, ch: make(chan Notification, 1)}
	c.mu.Lock()
	c.waiters = append(c.waiters, w)
	c.mu.Unlock()

	cancel := func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		for i, cand := range c.waiters {
			if cand == w {
				c.waiters = append(c.waiters[:i], c.waiters[i+1:]...)
				return
			}
		}
	}
	return w.ch, cancel
}

// DispatchResponse resolves the pending call with the event's id. A
// response for an unknown id (already timed out, or never ours) is
// dropped. Each id is consumed at most once.
func (c *Conn) DispatchResponse(r Response) {
	c.mu.Lock()
	ch, ok := c.calls[r.ID]
	if ok {
		delete(c.calls, r.ID)
	}
	c.mu.Unlock()
	if ok {
		ch <- r
	}
}

// DispatchNotification offers the event to the registered waiters in
// registration order. The first waiter whose predicate matches consumes
// it and is removed; with no match the notification is discarded and no
// session observes it.
func (c *Conn) DispatchNotification(n Notification) {
	c.mu.Lock()
	var matched *waiter
	for i, w := range c.waiters {
		if w.pred.matches(n) {
			matched = w
			c.waiters = append(c.waiters[:i], c.waiters[i+1:]...)
			break
		}
	}
	c.mu.Unlock()
	if matched != nil {
		matched.ch <- n
	}
}

// Purge marks the connection closed and fails every outstanding waiter.
// Called by the transport when the connection is lost; subsequent calls
// are no-ops.
func (c *Conn) Purge(err error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.err = err
	c.calls = make(map[int64]chan Response)
	c.waiters = nil
	c.mu.Unlock()
	close(c.done)
}

// Done is closed once the connection has been purged.
func (c *Conn) Done() <-chan struct{} {
	return c.done
}

// Err returns the closure cause, nil while the connection is live.
func (c *Conn) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}
