package chromepdf

import (
	"context"
	"errors"
	"io"
	"runtime"
	"sync"
)

// Pool sizing constants.
const (
	// MinPoolSize ensures at least one worker is available.
	MinPoolSize = 1

	// MaxPoolSize caps external-process handles to limit memory
	// (a browser page session costs on the order of 100MB).
	MaxPoolSize = 8

	// cpuDivisor leaves headroom for Chrome and Ghostscript child
	// processes.
	cpuDivisor = 2
)

// Pool serializes exclusive access to a fixed number of external-process
// handles. Handles are created lazily by the factory on first checkout
// and reused for the pool's whole lifetime. Capacity is fixed at
// construction; concurrently checked-out handles never exceed it, and
// a handle has at most one holder at any instant.
type Pool[H io.Closer] struct {
	size    int
	factory func(context.Context) (H, error)

	// sem holds idle handles; goroutines blocked receiving from it are
	// served in FIFO order by the runtime.
	sem  chan H
	done chan struct{}

	mu      sync.Mutex
	created int
	closed  bool
}

// NewPool creates a pool with capacity for n handles built by factory.
// Sizes below 1 are raised to 1.
func NewPool[H io.Closer](n int, factory func(context.Context) (H, error)) *Pool[H] {
	if n < 1 {
		n = 1
	}
	return &Pool[H]{
		size:    n,
		factory: factory,
		sem:     make(chan H, n),
		done:    make(chan struct{}),
	}
}

// Checkout runs op with an exclusively held handle, blocking until one
// is idle (or created). The handle returns to the pool on every exit
// path: normal return, op error, or panic. The op's error is propagated
// unchanged; the pool never retries.
func (p *Pool[H]) Checkout(ctx context.Context, op func(H) error) error {
	h, err := p.acquire(ctx)
	if err != nil {
		return err
	}
	defer p.release(h)
	return op(h)
}

// acquire returns an idle handle, creating one while the pool is below
// capacity, otherwise waiting until a holder releases.
func (p *Pool[H]) acquire(ctx context.Context) (H, error) {
	var zero H

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return zero, ErrPoolClosed
	}

	// Idle handle available, no wait.
	select {
	case h := <-p.sem:
		p.mu.Unlock()
		return h, nil
	default:
	}

	if p.created < p.size {
		p.created++
		p.mu.Unlock()

		// Create outside the lock; factories launch processes.
		h, err := p.factory(ctx)
		if err != nil {
			p.mu.Lock()
			p.created--
			p.mu.Unlock()
			return zero, err
		}
		return h, nil
	}
	p.mu.Unlock()

	select {
	case h := <-p.sem:
		return h, nil
	case <-ctx.Done():
		return zero, ctx.Err()
	case <-p.done:
		return zero, ErrPoolClosed
	}
}

// release returns a handle to the idle set, or closes it if the pool
// shut down while the handle was checked out.
func (p *Pool[H]) release(h H) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		_ = h.Close()
		return
	}
	p.mu.Unlock()

	p.sem <- h
}

// Size returns the pool capacity.
func (p *Pool[H]) Size() int {
	return p.size
}

// Close shuts the pool down. Waiting checkouts fail with ErrPoolClosed,
// in-flight operations finish and their handles are closed on release.
// Returns an aggregated error if multiple idle handles fail to close.
func (p *Pool[H]) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	p.mu.Unlock()
	close(p.done)

	var errs []error
	for {
		select {
		case h := <-p.sem:
			if err := h.Close(); err != nil {
				errs = append(errs, err)
			}
		default:
			return errors.Join(errs...)
		}
	}
}

// ResolvePoolSize determines the pool size to use.
// Priority: explicit workers > GOMAXPROCS-based calculation. The
// hardware-derived value is a default policy, not a requirement; pass
// an explicit count to override it entirely.
func ResolvePoolSize(workers int) int {
	if workers > 0 {
		return workers
	}

	// automaxprocs adjusts GOMAXPROCS for container CPU limits.
	available := runtime.GOMAXPROCS(0)
	n := available / cpuDivisor

	if n < MinPoolSize {
		return MinPoolSize
	}
	if n > MaxPoolSize {
		return MaxPoolSize
	}
	return n
}
